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

const notificationPrefix = "notification/"

// Notifications are keyed by recipient first so that both the per-user
// listing and the clear-all operation are a single prefix scan.
func notificationKey(to, id string) string { return notificationPrefix + to + "/" + id }

func notificationRecipientPrefix(to string) string { return notificationPrefix + to + "/" }

// PutNotification writes a notification document.
func (tx *Tx) PutNotification(n *datatypes.Notification) error {
	return tx.put(notificationKey(n.To, n.ID), n)
}

// CreateNotification inserts a notification outside of an engine transaction
// (signup welcome, for example).
func (s *Store) CreateNotification(ctx context.Context, n *datatypes.Notification) error {
	return s.Update(ctx, func(tx *Tx) error {
		return tx.PutNotification(n)
	})
}

// NotificationsFor returns a recipient's notifications, newest first.
func (s *Store) NotificationsFor(ctx context.Context, to string) ([]datatypes.Notification, error) {
	var out []datatypes.Notification
	err := s.View(ctx, func(tx *Tx) error {
		return tx.scan(notificationRecipientPrefix(to), func(_ string, val []byte) error {
			var n datatypes.Notification
			if err := json.Unmarshal(val, &n); err != nil {
				return err
			}
			out = append(out, n)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteNotification removes a single notification (mark-as-read). The
// recipient scopes the key, so a user can only ever delete their own.
func (s *Store) DeleteNotification(ctx context.Context, to, id string) (*datatypes.Notification, error) {
	var n datatypes.Notification
	err := s.Update(ctx, func(tx *Tx) error {
		key := notificationKey(to, id)
		if err := tx.get(key, &n); err != nil {
			return err
		}
		return tx.delete(key)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ClearNotifications removes every notification addressed to the recipient.
// Returns the number deleted.
func (s *Store) ClearNotifications(ctx context.Context, to string) (int, error) {
	var keys []string
	err := s.Update(ctx, func(tx *Tx) error {
		keys = keys[:0]
		err := tx.scan(notificationRecipientPrefix(to), func(key string, _ []byte) error {
			keys = append(keys, key)
			return nil
		})
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := tx.delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
