// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package imagehost stores the gallery's hosted images: Google Cloud
// Storage in production, a local directory in lightweight mode.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotHosted is returned by Delete when the URL does not belong to this
// host (a foreign CDN link pasted into a post, for example).
var ErrNotHosted = errors.New("url is not hosted here")

// Host is a place hosted images live. Upload returns the public URL;
// Delete tears the object down given that same URL.
type Host interface {
	Upload(ctx context.Context, data []byte, name string) (string, error)
	Delete(ctx context.Context, url string) error
}

// maxImageBytes caps fetched image size (the classifier re-encodes the
// whole payload as base64).
const maxImageBytes = 20 << 20

var fetchClient = &http.Client{Timeout: 30 * time.Second}

// Fetch downloads an image from any URL, hosted here or not.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	return data, nil
}
