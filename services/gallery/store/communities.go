// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
)

const communityPrefix = "community/"

func communityKey(id string) string { return communityPrefix + id }

// Community fetches one community by id within a transaction.
func (tx *Tx) Community(id string) (*datatypes.Community, error) {
	var c datatypes.Community
	if err := tx.get(communityKey(id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// PutCommunity writes a community document.
func (tx *Tx) PutCommunity(c *datatypes.Community) error {
	return tx.put(communityKey(c.ID), c)
}

// CreateCommunity inserts a new community.
func (s *Store) CreateCommunity(ctx context.Context, c *datatypes.Community) error {
	return s.Update(ctx, func(tx *Tx) error {
		return tx.PutCommunity(c)
	})
}

// CommunityByID returns one community.
func (s *Store) CommunityByID(ctx context.Context, id string) (*datatypes.Community, error) {
	var c *datatypes.Community
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		c, err = tx.Community(id)
		return err
	})
	return c, err
}

// Communities returns every community, newest first.
func (s *Store) Communities(ctx context.Context) ([]datatypes.Community, error) {
	var out []datatypes.Community
	err := s.View(ctx, func(tx *Tx) error {
		return tx.scan(communityPrefix, func(_ string, val []byte) error {
			var c datatypes.Community
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
