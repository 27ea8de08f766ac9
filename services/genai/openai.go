// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client against the OpenAI API: a vision-capable
// chat model for comment generation and classification, and an image model
// for random-post generation.
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	imageModel string
}

// NewOpenAIClient reads OPENAI_API_KEY (falling back to the container
// secret path) and the optional model overrides.
func NewOpenAIClient() (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		secretPath := "/run/secrets/openai_api_key"
		apiKeyBytes, err := os.ReadFile(secretPath)
		if err == nil {
			apiKey = strings.TrimSpace(string(apiKeyBytes))
			slog.Info("Read the OpenAI API Key from Podman Secrets")
		} else {
			slog.Error("OPENAI_API_KEY environment variable not set and secret not found", "path", secretPath)
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	chatModel := os.Getenv("OPENAI_MODEL")
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
		slog.Warn("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}
	imageModel := os.Getenv("OPENAI_IMAGE_MODEL")
	if imageModel == "" {
		imageModel = openai.CreateImageModelDallE3
	}
	slog.Info("Initializing OpenAI genai client", "chat_model", chatModel, "image_model", imageModel)
	return &OpenAIClient{
		client:     openai.NewClient(apiKey),
		chatModel:  chatModel,
		imageModel: imageModel,
	}, nil
}

// visionRequest sends the image plus an instruction and returns raw text.
func (o *OpenAIClient) visionRequest(ctx context.Context, image []byte, instruction string) (string, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	req := openai.ChatCompletionRequest{
		Model: o.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: instruction,
					},
				},
			},
		},
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("OpenAI API call failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("OpenAI returned no choices or empty content")
		return "", fmt.Errorf("%w: no choices returned", ErrGeneration)
	}
	return resp.Choices[0].Message.Content, nil
}

// CommentsForImage implements Client.
func (o *OpenAIClient) CommentsForImage(ctx context.Context, image []byte) ([]string, error) {
	raw, err := o.visionRequest(ctx, image, commentsPrompt)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Comments []string `json:"comments"`
	}
	if err := decodeFenced(raw, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Comments) == 0 {
		return nil, fmt.Errorf("%w: empty comments array", ErrBadResponse)
	}
	return parsed.Comments, nil
}

// ClassifyImage implements Client.
func (o *OpenAIClient) ClassifyImage(ctx context.Context, image []byte) (bool, error) {
	raw, err := o.visionRequest(ctx, image, classifyPrompt)
	if err != nil {
		return false, err
	}
	var parsed struct {
		IsAiGenerated bool `json:"isAiGenerated"`
	}
	if err := decodeFenced(raw, &parsed); err != nil {
		return false, err
	}
	return parsed.IsAiGenerated, nil
}

// GenerateImage implements Client.
func (o *OpenAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	slog.Debug("Generating image via OpenAI", "model", o.imageModel)
	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          o.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		slog.Error("OpenAI image generation failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no image returned", ErrGeneration)
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return data, nil
}
