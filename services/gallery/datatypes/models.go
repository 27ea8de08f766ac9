// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes holds the stored document types and the request/response
// bodies exchanged with the gallery frontend.
//
// Documents are JSON-encoded as-is into the store, so every persisted field
// carries a json tag. Listing order everywhere is creation time descending.
package datatypes

import "time"

// AccountKind distinguishes real users from the dummy pool that authors
// AI-seeded content. Dummy accounts never authenticate.
type AccountKind string

const (
	AccountUser  AccountKind = "user"
	AccountDummy AccountKind = "dummy"
)

// Account is a registered identity. Communities holds the ids of every
// community the account has joined.
type Account struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password,omitempty"`
	Picture     string      `json:"picture"`
	Kind        AccountKind `json:"type"`
	Communities []string    `json:"communityId"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Redacted returns a copy safe to hand back to clients.
func (a Account) Redacted() Account {
	a.Password = ""
	return a
}

// Post is a gallery entry. Like must always equal len(Liked); CommentCount
// must always equal the number of comments whose PostID matches ID. Both are
// maintained transactionally by the interact and seeding packages.
type Post struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar,omitempty"`
	Body         string    `json:"post"`
	Image        string    `json:"image,omitempty"`
	Like         int       `json:"like"`
	Liked        []string  `json:"liked"`
	CommentCount int       `json:"comment"`
	CommunityID  string    `json:"communityId,omitempty"`
	Share        int       `json:"share"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LikedBy reports whether userID is in the liker set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Liked {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment belongs to exactly one post. Likes must always equal len(Liked).
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PostID    string    `json:"postId"`
	Body      string    `json:"comment"`
	Likes     int       `json:"likes"`
	Liked     []string  `json:"liked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikedBy reports whether userID is in the liker set.
func (c *Comment) LikedBy(userID string) bool {
	for _, id := range c.Liked {
		if id == userID {
			return true
		}
	}
	return false
}

// Community is a topical group. Members mirrors the count of accounts whose
// Communities list contains this community's id; both sides are mutated in
// one store transaction.
type Community struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Members     int       `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SavedMark bookmarks a post for a user. Existence is the whole value: the
// store keeps at most one mark per (PostID, UserID) pair.
type SavedMark struct {
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is the record behind the bell icon. It is only ever created
// and deleted; "mark as read" deletes the single record, "clear" deletes
// every record addressed to a recipient.
type Notification struct {
	ID          string    `json:"id"`
	To          string    `json:"to"`
	Desc        string    `json:"desc"`
	Name        string    `json:"name"`
	IsRead      bool      `json:"isRead"`
	IsCommunity bool      `json:"isCommunity"`
	PostID      string    `json:"postId,omitempty"`
	CommentID   string    `json:"commentId,omitempty"`
	CommunityID string    `json:"community,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
