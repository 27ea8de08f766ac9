// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Byte limits for user-authored text. Checked as byte length, not rune
// count, so oversized multi-byte payloads are rejected too.
const (
	MaxPostBodyBytes = 8192
	MaxCommentBytes  = 2048
)

// apiValidate is the shared validator for request payloads that need
// checks beyond gin's binding tags.
var apiValidate *validator.Validate

func init() {
	apiValidate = validator.New()
	_ = apiValidate.RegisterValidation("maxbytes", validateMaxBytes)
}

// validateMaxBytes enforces a byte-length ceiling given as the tag
// parameter, e.g. `validate:"maxbytes=8192"`.
func validateMaxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Validate applies the size limits on top of the binding tags.
func (r *UploadRequest) Validate() error {
	return apiValidate.Struct(r)
}

func (r *UpdatePostRequest) Validate() error {
	return apiValidate.Struct(r)
}

func (r *CreateCommentRequest) Validate() error {
	return apiValidate.Struct(r)
}
