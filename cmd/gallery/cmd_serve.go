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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AiGallery/pkg/ux"
	"github.com/AleutianAI/AiGallery/services/gallery/server"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gallery API server",
	Long:  "Runs the gallery API server in the foreground using the given config file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ux.Info("starting gallery server with config " + serveConfigPath)
		return server.Run(serveConfigPath)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "gallery.yaml",
		"path to the server config file")
}
