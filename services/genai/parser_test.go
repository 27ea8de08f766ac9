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
	"errors"
	"testing"
)

func TestDecodeFenced(t *testing.T) {
	type commentsPayload struct {
		Comments []string `json:"comments"`
	}

	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "bare json",
			raw:  `{"comments": ["one", "two"]}`,
			want: []string{"one", "two"},
		},
		{
			name: "json fence",
			raw:  "```json\n{\"comments\": [\"fenced\"]}\n```",
			want: []string{"fenced"},
		},
		{
			name: "fence without language tag",
			raw:  "```\n{\"comments\": [\"plain fence\"]}\n```",
			want: []string{"plain fence"},
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n{\"comments\": [\"padded\"]}\n  ",
			want: []string{"padded"},
		},
		{
			name:    "prose instead of json",
			raw:     "Sure! Here are some comments for the image.",
			wantErr: true,
		},
		{
			name:    "empty response",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got commentsPayload
			err := decodeFenced(tt.raw, &got)
			if tt.wantErr {
				if !errors.Is(err, ErrBadResponse) {
					t.Fatalf("decodeFenced() error = %v, want ErrBadResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeFenced() error = %v", err)
			}
			if len(got.Comments) != len(tt.want) {
				t.Fatalf("got %d comments, want %d", len(got.Comments), len(tt.want))
			}
			for i := range tt.want {
				if got.Comments[i] != tt.want[i] {
					t.Errorf("comment[%d] = %q, want %q", i, got.Comments[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeFenced_ClassifyShape(t *testing.T) {
	var out struct {
		IsAiGenerated bool `json:"isAiGenerated"`
	}
	if err := decodeFenced("```json\n{\"isAiGenerated\": true}\n```", &out); err != nil {
		t.Fatalf("decodeFenced() error = %v", err)
	}
	if !out.IsAiGenerated {
		t.Error("IsAiGenerated = false, want true")
	}
}
