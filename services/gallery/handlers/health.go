// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root answers the bare liveness check the frontend pings on boot.
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, http.StatusOK, "server is running properly", nil)
	}
}

// Healthz reports readiness; it fails when the document store is closed.
func Healthz(ping func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ping(); err != nil {
			fail(c, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		ok(c, http.StatusOK, "ok", nil)
	}
}
