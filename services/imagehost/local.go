// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package imagehost

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalHost keeps images on the local filesystem, served back by the API
// under /images. Used when no GCS bucket is configured (lightweight mode)
// and in tests.
type LocalHost struct {
	// Dir is where image files land.
	Dir string

	// BaseURL is the public prefix, e.g. "http://localhost:8000/images".
	BaseURL string
}

// NewLocalHost makes the directory and returns the host.
func NewLocalHost(dir, baseURL string) (*LocalHost, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create image directory %s: %w", dir, err)
	}
	return &LocalHost{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload implements Host.
func (h *LocalHost) Upload(_ context.Context, data []byte, name string) (string, error) {
	name = filepath.Base(name) // no traversal
	if err := os.WriteFile(filepath.Join(h.Dir, name), data, 0640); err != nil {
		return "", fmt.Errorf("write image %s: %w", name, err)
	}
	return h.BaseURL + "/" + name, nil
}

// Delete implements Host.
func (h *LocalHost) Delete(_ context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotHosted, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return ErrNotHosted
	}
	if err := os.Remove(filepath.Join(h.Dir, name)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotHosted
		}
		return fmt.Errorf("delete image %s: %w", name, err)
	}
	return nil
}
