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
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalHost_UploadDeleteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	host, err := NewLocalHost(dir, "http://localhost:8080/images/")
	if err != nil {
		t.Fatalf("NewLocalHost() error = %v", err)
	}
	ctx := context.Background()

	url, err := host.Upload(ctx, []byte("png-bytes"), "art.png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != "http://localhost:8080/images/art.png" {
		t.Errorf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "art.png"))
	if err != nil {
		t.Fatalf("uploaded file unreadable: %v", err)
	}
	if !bytes.Equal(data, []byte("png-bytes")) {
		t.Error("uploaded content mismatch")
	}

	if err := host.Delete(ctx, url); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "art.png")); !os.IsNotExist(err) {
		t.Errorf("file still present, stat err = %v", err)
	}
}

func TestLocalHost_UploadStripsTraversal(t *testing.T) {
	dir := t.TempDir()
	host, err := NewLocalHost(dir, "http://localhost/images")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := host.Upload(context.Background(), []byte("x"), "../../etc/evil.png"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "evil.png")); err != nil {
		t.Errorf("sanitized file missing: %v", err)
	}
}

func TestLocalHost_DeleteForeignURL(t *testing.T) {
	host, err := NewLocalHost(t.TempDir(), "http://localhost/images")
	if err != nil {
		t.Fatal(err)
	}
	if err := host.Delete(context.Background(), "https://cdn.example.com/other.png"); !errors.Is(err, ErrNotHosted) {
		t.Errorf("Delete(foreign) error = %v, want ErrNotHosted", err)
	}
}

func TestFetch(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("image-payload"))
		}))
		t.Cleanup(srv.Close)

		data, err := Fetch(context.Background(), srv.URL+"/img.png")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(data) != "image-payload" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("non-200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		t.Cleanup(srv.Close)

		if _, err := Fetch(context.Background(), srv.URL+"/missing.png"); err == nil {
			t.Fatal("Fetch() error = nil, want status error")
		}
	})
}
