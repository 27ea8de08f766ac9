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
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(InMemoryConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testAccount(id, email string) *datatypes.Account {
	now := time.Now().UTC()
	return &datatypes.Account{
		ID:          id,
		Name:        "Account " + id,
		Email:       email,
		Picture:     "https://example.com/" + id + ".png",
		Kind:        datatypes.AccountUser,
		Communities: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func testPost(id, userID string, createdAt time.Time) *datatypes.Post {
	return &datatypes.Post{
		ID:        id,
		UserID:    userID,
		Name:      "Account " + userID,
		Body:      "post body " + id,
		Liked:     []string{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Fatal("Open(Config{}) error = nil, want path error")
	}
}

func TestAccounts_CreateAndLookup(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	account := testAccount("u1", "u1@example.com")
	if err := st.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	t.Run("by id", func(t *testing.T) {
		got, err := st.AccountByID(ctx, "u1")
		if err != nil {
			t.Fatalf("AccountByID() error = %v", err)
		}
		if got.Email != "u1@example.com" {
			t.Errorf("Email = %q, want u1@example.com", got.Email)
		}
	})

	t.Run("by email", func(t *testing.T) {
		got, err := st.AccountByEmail(ctx, "u1@example.com")
		if err != nil {
			t.Fatalf("AccountByEmail() error = %v", err)
		}
		if got.ID != "u1" {
			t.Errorf("ID = %q, want u1", got.ID)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		if _, err := st.AccountByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("AccountByID(nope) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := testAccount("u2", "u1@example.com")
		if err := st.CreateAccount(ctx, dup); !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("CreateAccount(dup) error = %v, want ErrDuplicateEmail", err)
		}
	})
}

func TestDummyAccounts_FiltersByKind(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	user := testAccount("u1", "u1@example.com")
	if err := st.CreateAccount(ctx, user); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		d := testAccount(fmt.Sprintf("d%d", i), fmt.Sprintf("d%d@example.com", i))
		d.Kind = datatypes.AccountDummy
		if err := st.CreateAccount(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	dummies, err := st.DummyAccounts(ctx)
	if err != nil {
		t.Fatalf("DummyAccounts() error = %v", err)
	}
	if len(dummies) != 3 {
		t.Fatalf("got %d dummy accounts, want 3", len(dummies))
	}
	for _, d := range dummies {
		if d.Kind != datatypes.AccountDummy {
			t.Errorf("account %s kind = %q, want dummy", d.ID, d.Kind)
		}
	}
}

func TestAllPosts_NewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 3; i++ {
		p := testPost(fmt.Sprintf("p%d", i), "u1", base.Add(time.Duration(i)*time.Minute))
		if err := st.CreatePost(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	posts, err := st.AllPosts(ctx)
	if err != nil {
		t.Fatalf("AllPosts() error = %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Errorf("posts out of order: %s before %s", posts[i-1].ID, posts[i].ID)
		}
	}
	if posts[0].ID != "p2" {
		t.Errorf("first post = %s, want p2 (newest)", posts[0].ID)
	}
}

func TestPostsByCommunity(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	inCommunity := testPost("p1", "u1", now)
	inCommunity.CommunityID = "c1"
	plain := testPost("p2", "u1", now.Add(time.Second))
	for _, p := range []*datatypes.Post{inCommunity, plain} {
		if err := st.CreatePost(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	posts, err := st.PostsByCommunity(ctx, "c1")
	if err != nil {
		t.Fatalf("PostsByCommunity() error = %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Errorf("PostsByCommunity(c1) = %v, want just p1", posts)
	}
}

func TestDeletePostCascade(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	post := testPost("p1", "u1", now)
	other := testPost("p2", "u1", now)
	for _, p := range []*datatypes.Post{post, other} {
		if err := st.CreatePost(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	err := st.Update(ctx, func(tx *Tx) error {
		for i, postID := range []string{"p1", "p1", "p2"} {
			c := &datatypes.Comment{
				ID:        fmt.Sprintf("c%d", i),
				UserID:    "u2",
				PostID:    postID,
				Body:      "nice",
				Liked:     []string{},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.PutComment(c); err != nil {
				return err
			}
		}
		return tx.PutSaved(&datatypes.SavedMark{PostID: "p1", UserID: "u2", CreatedAt: now})
	})
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := st.DeletePostCascade(ctx, "p1")
	if err != nil {
		t.Fatalf("DeletePostCascade() error = %v", err)
	}
	if deleted.ID != "p1" {
		t.Errorf("deleted post = %s, want p1", deleted.ID)
	}

	if _, err := st.PostByID(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("post still present after cascade, err = %v", err)
	}
	comments, err := st.CommentsByPost(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 0 {
		t.Errorf("got %d comments after cascade, want 0", len(comments))
	}
	saved, err := st.IsSaved(ctx, "p1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if saved {
		t.Error("bookmark survived cascade")
	}

	// the other post's comment is untouched
	otherComments, err := st.CommentsByPost(ctx, "p2")
	if err != nil {
		t.Fatal(err)
	}
	if len(otherComments) != 1 {
		t.Errorf("got %d comments on p2, want 1", len(otherComments))
	}
}

func TestNotifications_Lifecycle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		n := &datatypes.Notification{
			ID:        fmt.Sprintf("n%d", i),
			To:        "u1",
			Desc:      "something happened",
			Name:      "Someone",
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		if err := st.CreateNotification(ctx, n); err != nil {
			t.Fatal(err)
		}
	}
	stranger := &datatypes.Notification{ID: "nx", To: "u2", Desc: "other", Name: "X", CreatedAt: now}
	if err := st.CreateNotification(ctx, stranger); err != nil {
		t.Fatal(err)
	}

	t.Run("list is recipient scoped and newest first", func(t *testing.T) {
		notes, err := st.NotificationsFor(ctx, "u1")
		if err != nil {
			t.Fatalf("NotificationsFor() error = %v", err)
		}
		if len(notes) != 3 {
			t.Fatalf("got %d notifications, want 3", len(notes))
		}
		if notes[0].ID != "n2" {
			t.Errorf("first notification = %s, want n2", notes[0].ID)
		}
	})

	t.Run("delete one", func(t *testing.T) {
		deleted, err := st.DeleteNotification(ctx, "u1", "n1")
		if err != nil {
			t.Fatalf("DeleteNotification() error = %v", err)
		}
		if deleted.ID != "n1" {
			t.Errorf("deleted = %s, want n1", deleted.ID)
		}
		if _, err := st.DeleteNotification(ctx, "u1", "n1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("second delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("clear only touches the recipient", func(t *testing.T) {
		count, err := st.ClearNotifications(ctx, "u1")
		if err != nil {
			t.Fatalf("ClearNotifications() error = %v", err)
		}
		if count != 2 {
			t.Errorf("cleared %d, want 2", count)
		}
		others, err := st.NotificationsFor(ctx, "u2")
		if err != nil {
			t.Fatal(err)
		}
		if len(others) != 1 {
			t.Errorf("u2 notifications = %d, want 1", len(others))
		}
	})
}

func TestCommunitiesOf(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 2; i++ {
		c := &datatypes.Community{
			ID:        fmt.Sprintf("c%d", i),
			Title:     fmt.Sprintf("Community %d", i),
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		if err := st.CreateCommunity(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	account := testAccount("u1", "u1@example.com")
	account.Communities = []string{"c0", "c1"}
	if err := st.CreateAccount(ctx, account); err != nil {
		t.Fatal(err)
	}

	communities, err := st.CommunitiesOf(ctx, "u1")
	if err != nil {
		t.Fatalf("CommunitiesOf() error = %v", err)
	}
	if len(communities) != 2 {
		t.Fatalf("got %d communities, want 2", len(communities))
	}
	if communities[0].ID != "c1" {
		t.Errorf("first community = %s, want c1 (newest)", communities[0].ID)
	}
}
