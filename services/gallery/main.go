// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"log"
	"os"

	"github.com/AleutianAI/AiGallery/services/gallery/server"
)

func main() {
	configPath := os.Getenv("GALLERY_CONFIG")
	if configPath == "" {
		configPath = "gallery.yaml"
	}
	if err := server.Run(configPath); err != nil {
		log.Fatalf("gallery server exited: %v", err)
	}
}
