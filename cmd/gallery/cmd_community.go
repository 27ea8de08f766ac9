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
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AiGallery/pkg/ux"
	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
)

var (
	communityTitle string
	communityDesc  string
	communityImage string
)

var createCommunityCmd = &cobra.Command{
	Use:   "create-community",
	Short: "Create a community for posts to be published into",
	RunE: func(cmd *cobra.Command, args []string) error {
		if communityTitle == "" {
			return fmt.Errorf("--title is required")
		}
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		community := &datatypes.Community{
			ID:          uuid.NewString(),
			Title:       communityTitle,
			Description: communityDesc,
			Image:       communityImage,
			CreatedAt:   time.Now().UTC(),
		}
		if err := st.CreateCommunity(context.Background(), community); err != nil {
			return fmt.Errorf("create community: %w", err)
		}
		logger.Info("community created", "id", community.ID, "title", community.Title)
		ux.Box(community.Title, fmt.Sprintf("id: %s\n%s", community.ID, community.Description))
		ux.Success("community created")
		return nil
	},
}

func init() {
	createCommunityCmd.Flags().StringVar(&communityTitle, "title", "", "community title")
	createCommunityCmd.Flags().StringVar(&communityDesc, "description", "", "community description")
	createCommunityCmd.Flags().StringVar(&communityImage, "image", "", "community image URL")
}
