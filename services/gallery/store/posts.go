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

const postPrefix = "post/"

func postKey(id string) string { return postPrefix + id }

// Post fetches one post by id within a transaction.
func (tx *Tx) Post(id string) (*datatypes.Post, error) {
	var p datatypes.Post
	if err := tx.get(postKey(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PutPost writes a post document.
func (tx *Tx) PutPost(p *datatypes.Post) error {
	return tx.put(postKey(p.ID), p)
}

// CreatePost inserts a new post.
func (s *Store) CreatePost(ctx context.Context, p *datatypes.Post) error {
	return s.Update(ctx, func(tx *Tx) error {
		return tx.PutPost(p)
	})
}

// PostByID returns one post.
func (s *Store) PostByID(ctx context.Context, id string) (*datatypes.Post, error) {
	var p *datatypes.Post
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		p, err = tx.Post(id)
		return err
	})
	return p, err
}

// UpdatePost replaces an existing post document.
func (s *Store) UpdatePost(ctx context.Context, p *datatypes.Post) error {
	return s.Update(ctx, func(tx *Tx) error {
		if _, err := tx.Post(p.ID); err != nil {
			return err
		}
		return tx.PutPost(p)
	})
}

// listPosts scans the post keyspace, keeps the entries keep approves of,
// and returns them newest first.
func (s *Store) listPosts(ctx context.Context, keep func(*datatypes.Post) bool) ([]datatypes.Post, error) {
	var out []datatypes.Post
	err := s.View(ctx, func(tx *Tx) error {
		return tx.scan(postPrefix, func(_ string, val []byte) error {
			var p datatypes.Post
			if err := json.Unmarshal(val, &p); err != nil {
				return err
			}
			if keep == nil || keep(&p) {
				out = append(out, p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// AllPosts returns every post, newest first.
func (s *Store) AllPosts(ctx context.Context) ([]datatypes.Post, error) {
	return s.listPosts(ctx, nil)
}

// PostsByUser returns a user's posts, newest first.
func (s *Store) PostsByUser(ctx context.Context, userID string) ([]datatypes.Post, error) {
	return s.listPosts(ctx, func(p *datatypes.Post) bool { return p.UserID == userID })
}

// PostsByCommunity returns a community's posts, newest first.
func (s *Store) PostsByCommunity(ctx context.Context, communityID string) ([]datatypes.Post, error) {
	return s.listPosts(ctx, func(p *datatypes.Post) bool { return p.CommunityID == communityID })
}

// PostsByIDs returns the named posts, newest first. Missing ids are skipped.
func (s *Store) PostsByIDs(ctx context.Context, ids []string) ([]datatypes.Post, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return s.listPosts(ctx, func(p *datatypes.Post) bool { return want[p.ID] })
}

// DeletePostCascade removes the post, every comment attached to it, and any
// saved marks pointing at it, in one transaction. The caller is responsible
// for the hosted image. Returns the deleted post.
func (s *Store) DeletePostCascade(ctx context.Context, id string) (*datatypes.Post, error) {
	var deleted *datatypes.Post
	err := s.Update(ctx, func(tx *Tx) error {
		p, err := tx.Post(id)
		if err != nil {
			return err
		}
		deleted = p

		var stale []string
		err = tx.scan(commentPrefix, func(key string, val []byte) error {
			var c datatypes.Comment
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			if c.PostID == id {
				stale = append(stale, key)
			}
			return nil
		})
		if err != nil {
			return err
		}
		err = tx.scan(savedPrefix, func(key string, val []byte) error {
			var m datatypes.SavedMark
			if err := json.Unmarshal(val, &m); err != nil {
				return err
			}
			if m.PostID == id {
				stale = append(stale, key)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, key := range stale {
			if err := tx.delete(key); err != nil {
				return err
			}
		}
		return tx.delete(postKey(id))
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
