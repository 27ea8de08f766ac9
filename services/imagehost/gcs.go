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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicBase = "https://storage.googleapis.com"

// GCSHost stores images as public objects in a Google Cloud Storage bucket.
type GCSHost struct {
	storageClient *storage.Client
	BucketName    string
}

// NewGCSHost opens a GCS client with the given service account key.
func NewGCSHost(ctx context.Context, bucketName, saKeyPath string) (*GCSHost, error) {
	if _, err := os.Stat(saKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("service account key not found at path: %s. Please ensure you have the correct key and it is accessible", saKeyPath)
	}
	storageClient, err := storage.NewClient(ctx, option.WithCredentialsFile(saKeyPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &GCSHost{
		storageClient: storageClient,
		BucketName:    bucketName,
	}, nil
}

// Upload writes the image bytes to the bucket and returns the public URL.
func (h *GCSHost) Upload(ctx context.Context, data []byte, name string) (string, error) {
	obj := h.storageClient.Bucket(h.BucketName).Object(name)
	writer := obj.NewWriter(ctx)
	writer.ContentType = "image/png"
	writer.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to copy image to GCS object %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer for %s: %w", name, err)
	}
	return fmt.Sprintf("%s/%s/%s", gcsPublicBase, h.BucketName, name), nil
}

// Delete removes the object behind a URL previously returned by Upload.
func (h *GCSHost) Delete(ctx context.Context, rawURL string) error {
	name, err := h.objectName(rawURL)
	if err != nil {
		return err
	}
	if err := h.storageClient.Bucket(h.BucketName).Object(name).Delete(ctx); err != nil {
		return fmt.Errorf("delete GCS object %s: %w", name, err)
	}
	return nil
}

func (h *GCSHost) objectName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotHosted, err)
	}
	prefix := "/" + h.BucketName + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", ErrNotHosted
	}
	name := strings.TrimPrefix(u.Path, prefix)
	if name == "" {
		return "", ErrNotHosted
	}
	return name, nil
}

// Close releases the underlying client.
func (h *GCSHost) Close() error {
	return h.storageClient.Close()
}
