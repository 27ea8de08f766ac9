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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AiGallery/services/gallery/feed"
	"github.com/AleutianAI/AiGallery/services/gallery/interact"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
)

// ListCommunities returns every community, newest first.
func ListCommunities(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		communities, err := st.Communities(c.Request.Context())
		if err != nil {
			mapError(c, err, "Communities not found")
			return
		}
		ok(c, http.StatusOK, "Communities fetched successfully", gin.H{"communities": communities})
	}
}

// GetCommunity returns one community, its posts projected for the viewer,
// and whether the viewer belongs to it.
func GetCommunity(st *store.Store) gin.HandlerFunc {
	builder := &feed.Builder{Store: st}
	return func(c *gin.Context) {
		viewer := feed.Viewer(c.Param("userId"))
		community, err := st.CommunityByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			mapError(c, err, "Community not found")
			return
		}
		posts, err := st.PostsByCommunity(c.Request.Context(), community.ID)
		if err != nil {
			mapError(c, err, "Community not found")
			return
		}
		views, err := builder.Posts(c.Request.Context(), posts, viewer)
		if err != nil {
			mapError(c, err, "Community not found")
			return
		}

		isMember := false
		if viewer != "" {
			account, err := st.AccountByID(c.Request.Context(), viewer)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				mapError(c, err, "Community not found")
				return
			}
			if account != nil {
				for _, id := range account.Communities {
					if id == community.ID {
						isMember = true
						break
					}
				}
			}
		}

		ok(c, http.StatusOK, "Community fetched successfully", gin.H{
			"community": community,
			"posts":     views,
			"isMember":  isMember,
		})
	}
}

// JoinCommunity and LeaveCommunity share the membership toggle: the
// frontend only offers the action that applies, so each endpoint sees the
// account in the opposite state.

func JoinCommunity(eng *interact.Engine) gin.HandlerFunc {
	return membershipToggle(eng)
}

func LeaveCommunity(eng *interact.Engine) gin.HandlerFunc {
	return membershipToggle(eng)
}

func membershipToggle(eng *interact.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		community, member, err := eng.ToggleMembership(c.Request.Context(), c.Param("id"), middleware.UserID(c))
		if err != nil {
			mapError(c, err, "Community not found")
			return
		}
		message := "Community left successfully"
		if member {
			message = "Community joined successfully"
		}
		ok(c, http.StatusOK, message, gin.H{"community": community, "isMember": member})
	}
}

// MyCommunities lists the communities the authenticated account belongs to.
func MyCommunities(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		communities, err := st.CommunitiesOf(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			mapError(c, err, "Communities not found")
			return
		}
		ok(c, http.StatusOK, "Communities fetched successfully", gin.H{"communities": communities})
	}
}
