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
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
)

const writeWait = 10 * time.Second

// wsClient serializes writes to one connection; gorilla allows a single
// concurrent writer per conn.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) send(n datatypes.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(n)
}

// Hub fans committed notifications out to the recipient's open WebSocket
// connections. It satisfies interact.Publisher; Publish never blocks the
// caller on a slow socket.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
	logger  *slog.Logger
}

// NewHub constructs an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*wsClient]struct{}),
		logger:  logger.With("component", "handlers.Hub"),
	}
}

func (h *Hub) register(userID string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, found := h.clients[userID]
	if !found {
		set = make(map[*wsClient]struct{})
		h.clients[userID] = set
	}
	set[client] = struct{}{}
}

func (h *Hub) unregister(userID string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, found := h.clients[userID]; found {
		delete(set, client)
		if len(set) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Publish pushes a notification to every live connection of its recipient.
// A write failure only drops that delivery; the read loop in
// NotificationsWS notices the dead socket and unregisters it.
func (h *Hub) Publish(n datatypes.Notification) {
	h.mu.RLock()
	targets := make([]*wsClient, 0, len(h.clients[n.To]))
	for client := range h.clients[n.To] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		go func(client *wsClient) {
			if err := client.send(n); err != nil {
				h.logger.Debug("notification push failed", "to", n.To, "error", err)
			}
		}(client)
	}
}
