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

const commentPrefix = "comment/"

func commentKey(id string) string { return commentPrefix + id }

// Comment fetches one comment by id within a transaction.
func (tx *Tx) Comment(id string) (*datatypes.Comment, error) {
	var c datatypes.Comment
	if err := tx.get(commentKey(id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// PutComment writes a comment document.
func (tx *Tx) PutComment(c *datatypes.Comment) error {
	return tx.put(commentKey(c.ID), c)
}

// DeleteComment removes a comment document.
func (tx *Tx) DeleteComment(id string) error {
	return tx.delete(commentKey(id))
}

// CommentsByPost collects a post's comments within a transaction,
// newest first.
func (tx *Tx) CommentsByPost(postID string) ([]datatypes.Comment, error) {
	var out []datatypes.Comment
	err := tx.scan(commentPrefix, func(_ string, val []byte) error {
		var c datatypes.Comment
		if err := json.Unmarshal(val, &c); err != nil {
			return err
		}
		if c.PostID == postID {
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CommentsByPost returns a post's comments, newest first.
func (s *Store) CommentsByPost(ctx context.Context, postID string) ([]datatypes.Comment, error) {
	var out []datatypes.Comment
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.CommentsByPost(postID)
		return err
	})
	return out, err
}

// CommentByID returns one comment.
func (s *Store) CommentByID(ctx context.Context, id string) (*datatypes.Comment, error) {
	var c *datatypes.Comment
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		c, err = tx.Comment(id)
		return err
	})
	return c, err
}
