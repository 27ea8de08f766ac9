// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package genai wraps the external generative-content service behind a
// small interface: comment generation from an image, AI-or-not image
// classification, and image generation.
package genai

import (
	"context"
	"errors"
)

// ErrGeneration marks any upstream generative-content failure. Callers map
// it to an upstream-dependency error at the API boundary; seeding treats it
// as "thread stays empty, retry on next view".
var ErrGeneration = errors.New("upstream generation failed")

// ErrBadResponse marks a response the service returned but we could not
// parse into the strict shape we asked for.
var ErrBadResponse = errors.New("malformed generation response")

// Client defines the standard interface for any generative backend.
type Client interface {
	// CommentsForImage returns a batch of comment strings for the image.
	CommentsForImage(ctx context.Context, image []byte) ([]string, error)

	// ClassifyImage reports whether the image is AI generated.
	ClassifyImage(ctx context.Context, image []byte) (bool, error)

	// GenerateImage renders the prompt and returns raw image bytes.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

const commentsPrompt = `Create 20-30 comments for this image.
make sure the comments are relevant to the image and lengthy.
add some emojis to the comments also several tones in comment like positive, negative, neutral.
Respond only with valid JSON in the format: { "comments": ["comment1", "comment2", ...] }`

const classifyPrompt = `check if this image is ai generated or not. ` +
	`Respond only with valid JSON in the format: { "isAiGenerated": true/false }`
