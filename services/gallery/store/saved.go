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

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
)

const savedPrefix = "saved/"

// Saved marks are keyed user-first so a user's bookmarks are one prefix scan.
func savedKey(userID, postID string) string { return savedPrefix + userID + "/" + postID }

func savedUserPrefix(userID string) string { return savedPrefix + userID + "/" }

// SavedExists reports whether the (post, user) bookmark is present.
func (tx *Tx) SavedExists(postID, userID string) (bool, error) {
	return tx.exists(savedKey(userID, postID))
}

// PutSaved writes a bookmark.
func (tx *Tx) PutSaved(m *datatypes.SavedMark) error {
	return tx.put(savedKey(m.UserID, m.PostID), m)
}

// DeleteSaved removes a bookmark.
func (tx *Tx) DeleteSaved(postID, userID string) error {
	return tx.delete(savedKey(userID, postID))
}

// IsSaved reports whether userID has bookmarked postID.
func (s *Store) IsSaved(ctx context.Context, postID, userID string) (bool, error) {
	var saved bool
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		saved, err = tx.SavedExists(postID, userID)
		return err
	})
	return saved, err
}

// SavedMarks returns every bookmark a user holds.
func (s *Store) SavedMarks(ctx context.Context, userID string) ([]datatypes.SavedMark, error) {
	var out []datatypes.SavedMark
	err := s.View(ctx, func(tx *Tx) error {
		return tx.scan(savedUserPrefix(userID), func(_ string, val []byte) error {
			var m datatypes.SavedMark
			if err := json.Unmarshal(val, &m); err != nil {
				return err
			}
			out = append(out, m)
			return nil
		})
	})
	return out, err
}
