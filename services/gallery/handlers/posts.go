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
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
	"github.com/AleutianAI/AiGallery/services/gallery/feed"
	"github.com/AleutianAI/AiGallery/services/gallery/interact"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
	"github.com/AleutianAI/AiGallery/services/imagehost"
)

// Upload creates a post owned by the authenticated account.
func Upload(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.UploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid post payload")
			return
		}
		if err := req.Validate(); err != nil {
			fail(c, http.StatusBadRequest, "Post body is too long")
			return
		}
		now := time.Now().UTC()
		post := &datatypes.Post{
			ID:          uuid.NewString(),
			UserID:      middleware.UserID(c),
			Name:        req.Username,
			Avatar:      req.Avatar,
			Body:        req.Post,
			Image:       req.Image,
			CommunityID: req.CommunityID,
			Liked:       []string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := st.CreatePost(c.Request.Context(), post); err != nil {
			mapError(c, err, "Post not found")
			return
		}
		ok(c, http.StatusCreated, "Post uploaded successfully", gin.H{"post": post})
	}
}

// ListPosts returns every post, newest first, projected for the viewer in
// the path. "undefined" (or empty) means anonymous: no per-viewer flags.
func ListPosts(st *store.Store) gin.HandlerFunc {
	builder := &feed.Builder{Store: st}
	return func(c *gin.Context) {
		viewer := feed.Viewer(c.Param("userId"))
		posts, err := st.AllPosts(c.Request.Context())
		if err != nil {
			mapError(c, err, "Posts not found")
			return
		}
		views, err := builder.Posts(c.Request.Context(), posts, viewer)
		if err != nil {
			mapError(c, err, "Posts not found")
			return
		}
		ok(c, http.StatusOK, "Posts fetched successfully", gin.H{"posts": views})
	}
}

// UpdatePostBody replaces a post's text. Only the owner may edit.
func UpdatePostBody(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid post payload")
			return
		}
		if err := req.Validate(); err != nil {
			fail(c, http.StatusBadRequest, "Post body is too long")
			return
		}
		post, err := st.PostByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}
		if post.UserID != middleware.UserID(c) {
			fail(c, http.StatusForbidden, "You can only edit your own posts")
			return
		}
		post.Body = req.Post
		post.UpdatedAt = time.Now().UTC()
		if err := st.UpdatePost(c.Request.Context(), post); err != nil {
			mapError(c, err, "Post not found")
			return
		}
		ok(c, http.StatusOK, "Post updated successfully", gin.H{"post": post})
	}
}

// DeletePost removes a post, its comments, and every bookmark of it in one
// transaction, then best-effort deletes the hosted image. Only the owner
// may delete.
func DeletePost(st *store.Store, host imagehost.Host) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := st.PostByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}
		if post.UserID != middleware.UserID(c) {
			fail(c, http.StatusForbidden, "You can only delete your own posts")
			return
		}
		if _, err := st.DeletePostCascade(c.Request.Context(), post.ID); err != nil {
			mapError(c, err, "Post not found")
			return
		}
		if host != nil && post.Image != "" {
			if err := host.Delete(c.Request.Context(), post.Image); err != nil && !errors.Is(err, imagehost.ErrNotHosted) {
				slog.Warn("hosted image delete failed", "postId", post.ID, "error", err)
			}
		}
		ok(c, http.StatusOK, "Post deleted successfully", nil)
	}
}

// LikePost toggles the authenticated account's like on a post.
func LikePost(eng *interact.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, liked, err := eng.TogglePostLike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
		if err != nil {
			mapError(c, err, "Post not found")
			return
		}
		message := "Post unliked successfully"
		if liked {
			message = "Post liked successfully"
		}
		ok(c, http.StatusOK, message, gin.H{"post": post, "isLiked": liked})
	}
}
