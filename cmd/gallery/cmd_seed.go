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
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AiGallery/pkg/ux"
	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
)

var seedCount int

// The dummy pool authors AI-generated comments. Comment seeding samples
// from the most recent of these accounts, so a few dozen is plenty.
var (
	firstNames = []string{
		"Ava", "Liam", "Maya", "Noah", "Zoe", "Ethan", "Lila", "Owen",
		"Iris", "Felix", "Nora", "Jude", "Esme", "Milo", "Cleo", "Rhys",
	}
	lastNames = []string{
		"Hart", "Voss", "Reyes", "Lindqvist", "Okafor", "Tanaka", "Marsh",
		"Delacroix", "Novak", "Iversen", "Calloway", "Mbeki",
	}
)

var seedAccountsCmd = &cobra.Command{
	Use:   "seed-accounts",
	Short: "Create dummy accounts that author AI-seeded comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ux.Title("Seeding dummy accounts")
		ctx := context.Background()
		created := 0
		for i := 0; i < seedCount; i++ {
			name := fmt.Sprintf("%s %s",
				firstNames[rand.IntN(len(firstNames))],
				lastNames[rand.IntN(len(lastNames))])
			handle := strings.ToLower(strings.ReplaceAll(name, " ", "."))
			now := time.Now().UTC()
			account := &datatypes.Account{
				ID:          uuid.NewString(),
				Name:        name,
				Email:       fmt.Sprintf("%s.%d@gallery.invalid", handle, rand.IntN(10000)),
				Picture:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", uuid.NewString()),
				Kind:        datatypes.AccountDummy,
				Communities: []string{},
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := st.CreateAccount(ctx, account); err != nil {
				ux.Warning(fmt.Sprintf("skipped %s: %v", account.Email, err))
				continue
			}
			logger.Debug("dummy account created", "id", account.ID, "name", name)
			created++
		}
		ux.Success(fmt.Sprintf("created %d of %d dummy accounts", created, seedCount))
		return nil
	},
}

func init() {
	seedAccountsCmd.Flags().IntVar(&seedCount, "count", 20, "number of accounts to create")
}
