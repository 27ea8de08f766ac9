// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"

	"github.com/AleutianAI/AiGallery/services/gallery/feed"
	"github.com/AleutianAI/AiGallery/services/gallery/interact"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
)

// SavePost toggles the authenticated account's bookmark on a post.
func SavePost(eng *interact.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		saved, err := eng.ToggleSave(c.Request.Context(), c.Param("id"), middleware.UserID(c))
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}
		message := "Post unsaved successfully"
		if saved {
			message = "Post saved successfully"
		}
		ok(c, http.StatusOK, message, gin.H{"isSaved": saved})
	}
}

// ListSaved returns the authenticated account's bookmarked posts, newest
// bookmark first. A mark whose post has since been deleted is skipped.
func ListSaved(st *store.Store) gin.HandlerFunc {
	builder := &feed.Builder{Store: st}
	return func(c *gin.Context) {
		viewer := middleware.UserID(c)
		marks, err := st.SavedMarks(c.Request.Context(), viewer)
		if err != nil {
			mapError(c, err, "Posts not found")
			return
		}
		// Order by when the bookmark was made, not when the post was.
		sort.SliceStable(marks, func(i, j int) bool {
			return marks[i].CreatedAt.After(marks[j].CreatedAt)
		})
		ids := make([]string, 0, len(marks))
		for _, m := range marks {
			ids = append(ids, m.PostID)
		}
		fetched, err := st.PostsByIDs(c.Request.Context(), ids)
		if err != nil {
			mapError(c, err, "Posts not found")
			return
		}
		byID := make(map[string]datatypes.Post, len(fetched))
		for _, p := range fetched {
			byID[p.ID] = p
		}
		posts := make([]datatypes.Post, 0, len(ids))
		for _, id := range ids {
			if p, found := byID[id]; found {
				posts = append(posts, p)
			}
		}
		views, err := builder.Posts(c.Request.Context(), posts, viewer)
		if err != nil {
			mapError(c, err, "Posts not found")
			return
		}
		ok(c, http.StatusOK, "Saved posts fetched successfully", gin.H{"posts": views})
	}
}
