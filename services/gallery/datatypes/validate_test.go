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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRequest_Validate(t *testing.T) {
	req := UploadRequest{
		Username: "ada",
		Avatar:   "https://example.com/a.png",
		Post:     "a sunset over the bay",
	}
	require.NoError(t, req.Validate())

	req.Post = strings.Repeat("x", MaxPostBodyBytes+1)
	assert.Error(t, req.Validate())

	// Multi-byte runes count as bytes, not characters.
	req.Post = strings.Repeat("é", MaxPostBodyBytes/2+1)
	assert.Error(t, req.Validate())
}

func TestUpdatePostRequest_Validate(t *testing.T) {
	req := UpdatePostRequest{Post: strings.Repeat("x", MaxPostBodyBytes)}
	require.NoError(t, req.Validate())

	req.Post = strings.Repeat("x", MaxPostBodyBytes+1)
	assert.Error(t, req.Validate())
}

func TestCreateCommentRequest_Validate(t *testing.T) {
	req := CreateCommentRequest{Comment: "love the palette"}
	require.NoError(t, req.Validate())

	req.Comment = strings.Repeat("x", MaxCommentBytes+1)
	assert.Error(t, req.Validate())
}
