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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/observability"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
	"github.com/AleutianAI/AiGallery/services/genai"
	"github.com/AleutianAI/AiGallery/services/imagehost"
)

// discardHosted removes an image that failed the gate or lost its post.
// The URL may point outside our bucket; that is not an error.
func discardHosted(ctx context.Context, host imagehost.Host, url string) {
	if host == nil || url == "" {
		return
	}
	if err := host.Delete(ctx, url); err != nil && !errors.Is(err, imagehost.ErrNotHosted) {
		slog.Warn("hosted image discard failed", "url", url, "error", err)
	}
}

func recordGate(m *observability.Metrics, outcome string) {
	if m != nil {
		m.ImageGateTotal.WithLabelValues(outcome).Inc()
	}
}

// CheckURL classifies an already-hosted image and only keeps it when the
// classifier says it is AI generated. Every non-accepting path, including
// fetch and classifier failures, deletes the hosted image before
// responding, so a rejected upload never leaks storage.
func CheckURL(client genai.Client, host imagehost.Host, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CheckURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid image URL")
			return
		}
		ctx := c.Request.Context()

		data, err := imagehost.Fetch(ctx, req.URL)
		if err != nil {
			discardHosted(ctx, host, req.URL)
			recordGate(metrics, "error")
			fail(c, http.StatusBadGateway, "Image could not be fetched")
			return
		}

		isAI, err := client.ClassifyImage(ctx, data)
		if err != nil {
			discardHosted(ctx, host, req.URL)
			recordGate(metrics, "error")
			mapError(c, err, "Image not found")
			return
		}
		if !isAI {
			discardHosted(ctx, host, req.URL)
			recordGate(metrics, "rejected")
			c.JSON(http.StatusBadRequest, gin.H{
				"message":       "Only AI-generated images can be posted",
				"status":        false,
				"isAiGenerated": false,
			})
			return
		}

		recordGate(metrics, "accepted")
		ok(c, http.StatusOK, "Image verified successfully", gin.H{
			"isAiGenerated": true,
			"url":           req.URL,
		})
	}
}

// Prompt material for random generation. The cross product keeps repeat
// requests from producing near-identical posts.
var (
	artStyles = []string{
		"impressionist", "cyberpunk", "watercolor", "pixel art", "art nouveau",
		"surrealist", "minimalist", "baroque", "vaporwave", "ukiyo-e",
	}
	subjects = []string{
		"a city skyline at dusk", "a fox in a snowy forest", "an abandoned lighthouse",
		"a street market on a rainy evening", "a hot air balloon over mountains",
		"a koi pond under cherry blossoms", "an astronaut tending a garden",
		"a library inside a greenhouse", "a whale drifting above the clouds",
		"a train crossing a desert at night",
	}
	moods = []string{
		"dreamlike", "melancholic", "vibrant", "serene", "dramatic", "whimsical",
	}
)

func randomPrompt() string {
	return fmt.Sprintf("%s, %s, in %s style",
		subjects[rand.IntN(len(subjects))],
		moods[rand.IntN(len(moods))],
		artStyles[rand.IntN(len(artStyles))])
}

// CreateRandomPost generates an image from a random prompt, hosts it, and
// publishes it as a post owned by the authenticated account. If the post
// cannot be stored the hosted image is removed again.
func CreateRandomPost(st *store.Store, client genai.Client, host imagehost.Host) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		account, err := st.AccountByID(ctx, middleware.UserID(c))
		if err != nil {
			mapError(c, err, "User not found")
			return
		}

		prompt := randomPrompt()
		image, err := client.GenerateImage(ctx, prompt)
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}
		url, err := host.Upload(ctx, image, uuid.NewString()+".png")
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}

		now := time.Now().UTC()
		post := &datatypes.Post{
			ID:        uuid.NewString(),
			UserID:    account.ID,
			Name:      account.Name,
			Avatar:    account.Picture,
			Body:      prompt,
			Image:     url,
			Liked:     []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.CreatePost(ctx, post); err != nil {
			discardHosted(ctx, host, url)
			mapError(c, err, "Post not found")
			return
		}
		ok(c, http.StatusCreated, "Post created successfully", gin.H{"post": post})
	}
}
