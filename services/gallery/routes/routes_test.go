// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AiGallery/services/gallery/handlers"
	"github.com/AleutianAI/AiGallery/services/gallery/interact"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/seeding"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
	"github.com/AleutianAI/AiGallery/services/imagehost"
)

func newTestRouter(t *testing.T, host imagehost.Host) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(store.InMemoryConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	auth, err := middleware.NewAuthenticator([]byte(strings.Repeat("s", 32)))
	if err != nil {
		t.Fatal(err)
	}

	router := gin.New()
	SetupRoutes(router, Deps{
		Store:    st,
		Auth:     auth,
		Engine:   interact.New(st, slog.Default(), nil),
		Seeder:   seeding.New(st, nil, slog.Default(), nil),
		Host:     host,
		Hub:      handlers.NewHub(slog.Default()),
		GenLimit: middleware.NewPerUserLimiter(1, 1),
	})
	return router
}

// Locally hosted uploads must resolve through the route table; otherwise
// every URL Upload returns is a dead link in the default config.
func TestSetupRoutes_ServesLocalImages(t *testing.T) {
	host, err := imagehost.NewLocalHost(t.TempDir(), "http://localhost:8080/images")
	if err != nil {
		t.Fatal(err)
	}
	router := newTestRouter(t, host)

	hostedURL, err := host.Upload(context.Background(), []byte("png-bytes"), "sunset.png")
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(hostedURL)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, u.Path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d, want %d", u.Path, w.Code, http.StatusOK)
	}
	if got := w.Body.String(); got != "png-bytes" {
		t.Errorf("GET %s body = %q, want uploaded bytes", u.Path, got)
	}
}

// A base URL with a non-default path still mounts at that path.
func TestSetupRoutes_LocalImagePrefixFollowsBaseURL(t *testing.T) {
	host, err := imagehost.NewLocalHost(t.TempDir(), "http://localhost:8080/static/img")
	if err != nil {
		t.Fatal(err)
	}
	router := newTestRouter(t, host)

	hostedURL, err := host.Upload(context.Background(), []byte("data"), "a.png")
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(hostedURL)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, u.Path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d, want %d", u.Path, w.Code, http.StatusOK)
	}
}
