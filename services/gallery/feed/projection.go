// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package feed attaches viewer-relative projections to stored posts and
// comments before they leave the API. Stored records are never mutated:
// flags live on the view types only.
//
// The three flags are always computed the same way:
//
//	IsLiked    - viewer id is in the record's liker set
//	IsSaved    - a saved mark exists for (post, viewer); posts only
//	IsEditable - viewer id equals the record's author id
//
// An absent viewer never fails a projection; it yields all-false flags.
package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
)

// AnonymousViewer is the literal the frontend sends in viewer path segments
// when nobody is logged in.
const AnonymousViewer = "undefined"

// Viewer normalizes a viewer path segment; the empty string means anonymous.
func Viewer(param string) string {
	if param == AnonymousViewer {
		return ""
	}
	return param
}

// lookupFanout caps concurrent per-item store lookups when assembling lists.
const lookupFanout = 8

// PostView is a post plus author display details and viewer flags.
type PostView struct {
	datatypes.Post
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	IsLiked    bool   `json:"isLiked"`
	IsSaved    bool   `json:"isSaved"`
	IsEditable bool   `json:"isEditable"`
}

// CommentView is a comment plus author display details and viewer flags.
type CommentView struct {
	datatypes.Comment
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	IsLiked    bool   `json:"isLiked"`
	IsEditable bool   `json:"isEditable"`
}

// ProjectPost computes one post view. saved is the precomputed bookmark
// presence for (post, viewer); it is ignored for anonymous viewers.
func ProjectPost(p datatypes.Post, author *datatypes.Account, saved bool, viewer string) PostView {
	v := PostView{Post: p}
	if author != nil {
		v.Username = author.Name
		v.Avatar = author.Picture
	}
	if viewer == "" {
		return v
	}
	v.IsLiked = p.LikedBy(viewer)
	v.IsSaved = saved
	v.IsEditable = p.UserID == viewer
	return v
}

// ProjectComment computes one comment view.
func ProjectComment(c datatypes.Comment, author *datatypes.Account, viewer string) CommentView {
	v := CommentView{Comment: c}
	if author != nil {
		v.Username = author.Name
		v.Avatar = author.Picture
	}
	if viewer == "" {
		return v
	}
	v.IsLiked = c.LikedBy(viewer)
	v.IsEditable = c.UserID == viewer
	return v
}

// Builder assembles projected lists, fanning the per-item author and
// bookmark lookups out across a bounded errgroup.
type Builder struct {
	Store *store.Store
}

// Posts projects a list of posts for the viewer.
func (b *Builder) Posts(ctx context.Context, posts []datatypes.Post, viewer string) ([]PostView, error) {
	views := make([]PostView, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupFanout)
	for i := range posts {
		g.Go(func() error {
			p := posts[i]
			author, err := b.Store.AccountByID(gctx, p.UserID)
			if err != nil {
				// Author may have been removed; the post still renders.
				author = nil
			}
			saved := false
			if viewer != "" {
				saved, err = b.Store.IsSaved(gctx, p.ID, viewer)
				if err != nil {
					return err
				}
			}
			views[i] = ProjectPost(p, author, saved, viewer)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// Comments projects a comment thread for the viewer. Author details are
// resolved through one batched account fetch rather than per-comment reads,
// since seeded threads routinely reuse the same dummy accounts.
func (b *Builder) Comments(ctx context.Context, comments []datatypes.Comment, viewer string) ([]CommentView, error) {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := b.Store.AccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, len(comments))
	for i, c := range comments {
		var author *datatypes.Account
		if a, ok := authors[c.UserID]; ok {
			author = &a
		}
		views[i] = ProjectComment(c, author, viewer)
	}
	return views, nil
}
