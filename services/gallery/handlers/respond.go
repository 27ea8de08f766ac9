// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the gallery REST API on gin.
//
// Every response body is {"message": ..., "status": bool} plus an optional
// payload; every error funnels through fail/mapError so clients see a
// uniform shape regardless of which layer failed.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AiGallery/services/gallery/store"
	"github.com/AleutianAI/AiGallery/services/genai"
)

// ok writes the uniform success envelope with an optional payload.
func ok(c *gin.Context, code int, message string, payload gin.H) {
	body := gin.H{"message": message, "status": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

// fail writes the uniform error envelope.
func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message, "status": false})
}

// mapError converts engine and store errors to the API's error taxonomy:
// not-found 404, upstream generation 500 with a distinct message, anything
// else a generic 500. The raw error is logged, never surfaced.
func mapError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, genai.ErrGeneration), errors.Is(err, genai.ErrBadResponse):
		slog.Error("generation upstream failed", "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, "Generation service unavailable")
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
