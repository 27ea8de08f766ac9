// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command gallery is the ops CLI for the gallery service. serve runs the
// API server; the remaining commands operate directly on the document
// store, so run those against a stopped service or a copy of the data
// directory.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AiGallery/pkg/logging"
	"github.com/AleutianAI/AiGallery/pkg/ux"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
)

var (
	storePath string
	logger    *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Administer the AI gallery document store",
}

func openStore() (*store.Store, error) {
	return store.Open(store.DefaultConfig(storePath))
}

func main() {
	logger = logging.Default()
	defer logger.Close()

	rootCmd.PersistentFlags().StringVar(&storePath, "store", "/data/gallery",
		"path to the document store directory")
	rootCmd.AddCommand(serveCmd, seedAccountsCmd, createCommunityCmd)

	if err := rootCmd.Execute(); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
}
