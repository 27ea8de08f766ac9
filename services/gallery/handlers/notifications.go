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
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
)

// notificationView decorates a stored notification with the avatar the
// bell dropdown renders next to it.
type notificationView struct {
	datatypes.Notification
	Avatar string `json:"avatar"`
}

// ListNotifications returns the authenticated account's notifications,
// newest first. Community notifications carry the community image as
// avatar; the rest carry the recipient's own picture.
func ListNotifications(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		notes, err := st.NotificationsFor(c.Request.Context(), userID)
		if err != nil {
			mapError(c, err, "Notifications not found")
			return
		}

		account, err := st.AccountByID(c.Request.Context(), userID)
		if err != nil {
			mapError(c, err, "User not found")
			return
		}

		views := make([]notificationView, 0, len(notes))
		for _, n := range notes {
			v := notificationView{Notification: n, Avatar: account.Picture}
			if n.IsCommunity && n.CommunityID != "" {
				community, err := st.CommunityByID(c.Request.Context(), n.CommunityID)
				switch {
				case err == nil:
					v.Avatar = community.Image
				case !errors.Is(err, store.ErrNotFound):
					mapError(c, err, "Notifications not found")
					return
				}
			}
			views = append(views, v)
		}
		ok(c, http.StatusOK, "Notifications fetched successfully", gin.H{"notifications": views})
	}
}

// MarkAsRead deletes the single notification in the path. Notifications
// are never updated in place; read means gone.
func MarkAsRead(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := st.DeleteNotification(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			mapError(c, err, "Notification not found")
			return
		}
		ok(c, http.StatusOK, "Notification marked as read", nil)
	}
}

// ClearNotifications deletes every notification addressed to the user in
// the path, which must be the token's subject.
func ClearNotifications(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("userId") != middleware.UserID(c) {
			fail(c, http.StatusForbidden, "You can only clear your own notifications")
			return
		}
		if _, err := st.ClearNotifications(c.Request.Context(), middleware.UserID(c)); err != nil {
			mapError(c, err, "Notifications not found")
			return
		}
		ok(c, http.StatusOK, "Notifications cleared successfully", nil)
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set Authorization on WebSocket handshakes, so the
	// token travels in the query string and origin is not restricted.
	CheckOrigin: func(*http.Request) bool { return true },
}

// NotificationsWS upgrades to a WebSocket that streams the account's
// notifications as they are created. Auth comes from a token query
// parameter. The connection stays registered until the peer closes it.
func NotificationsWS(hub *Hub, auth *middleware.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth.Verify(c.Query("token"))
		if err != nil {
			fail(c, http.StatusUnauthorized, "Token is not valid")
			return
		}
		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the handshake failure.
			return
		}

		client := &wsClient{conn: conn}
		hub.register(userID, client)
		defer func() {
			hub.unregister(userID, client)
			conn.Close()
		}()

		// Drain the read side so pings and the close frame are processed.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
