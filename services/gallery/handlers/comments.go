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

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
	"github.com/AleutianAI/AiGallery/services/gallery/feed"
	"github.com/AleutianAI/AiGallery/services/gallery/interact"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/seeding"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
)

// GetComments returns a post with its comment thread, projected for the
// viewer. An empty thread triggers AI seeding first; concurrent requests
// for the same post share one generation.
func GetComments(st *store.Store, seeder *seeding.Seeder) gin.HandlerFunc {
	builder := &feed.Builder{Store: st}
	return func(c *gin.Context) {
		viewer := feed.Viewer(c.Param("userId"))
		post, err := st.PostByID(c.Request.Context(), c.Param("postId"))
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}

		comments, err := seeder.EnsureComments(c.Request.Context(), post)
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}
		// Seeding rewrites the post's counters; serve the committed state.
		post, err = st.PostByID(c.Request.Context(), post.ID)
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}

		postViews, err := builder.Posts(c.Request.Context(), []datatypes.Post{*post}, viewer)
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}
		commentViews, err := builder.Comments(c.Request.Context(), comments, viewer)
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}
		ok(c, http.StatusOK, "Comments fetched successfully", gin.H{
			"post":     postViews[0],
			"comments": commentViews,
		})
	}
}

// CreateComment adds a comment by the authenticated account to the post in
// the path. The post owner is notified unless they are the commenter.
func CreateComment(eng *interact.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid comment payload")
			return
		}
		if err := req.Validate(); err != nil {
			fail(c, http.StatusBadRequest, "Comment is too long")
			return
		}
		comment, err := eng.AddComment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Comment)
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}
		ok(c, http.StatusCreated, "Comment created successfully", gin.H{"comment": comment})
	}
}

// DeleteComment removes one comment and decrements its post's counter.
// Only the comment's author may delete it.
func DeleteComment(st *store.Store, eng *interact.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		comment, err := st.CommentByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			mapError(c, err, "Comment not found")
			return
		}
		if comment.UserID != middleware.UserID(c) {
			fail(c, http.StatusForbidden, "You can only delete your own comments")
			return
		}
		if err := eng.RemoveComment(c.Request.Context(), comment.ID); err != nil {
			mapError(c, err, "Comment not found")
			return
		}
		ok(c, http.StatusOK, "Comment deleted successfully", nil)
	}
}

// LikeComment toggles the authenticated account's like on a comment.
func LikeComment(eng *interact.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		comment, liked, err := eng.ToggleCommentLike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
		if err != nil {
			mapError(c, err, "Comment not found")
			return
		}
		message := "Comment unliked successfully"
		if liked {
			message = "Comment liked successfully"
		}
		ok(c, http.StatusOK, message, gin.H{"comment": comment, "isLiked": liked})
	}
}
