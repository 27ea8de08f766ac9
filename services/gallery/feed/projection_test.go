// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package feed

import (
	"context"
	"testing"
	"time"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
)

func TestViewer(t *testing.T) {
	tests := []struct {
		param string
		want  string
	}{
		{"undefined", ""},
		{"", ""},
		{"u1", "u1"},
	}
	for _, tt := range tests {
		if got := Viewer(tt.param); got != tt.want {
			t.Errorf("Viewer(%q) = %q, want %q", tt.param, got, tt.want)
		}
	}
}

func TestProjectPost_Anonymous(t *testing.T) {
	post := datatypes.Post{
		ID:     "p1",
		UserID: "owner",
		Liked:  []string{"owner"},
	}
	author := &datatypes.Account{ID: "owner", Name: "Owner", Picture: "pic.png"}

	v := ProjectPost(post, author, true, AnonymousViewer)
	if v.IsLiked || v.IsSaved || v.IsEditable {
		t.Errorf("anonymous flags = (%v, %v, %v), want all false", v.IsLiked, v.IsSaved, v.IsEditable)
	}
	if v.Username != "Owner" || v.Avatar != "pic.png" {
		t.Errorf("author fields = (%q, %q)", v.Username, v.Avatar)
	}
}

func TestProjectPost_Viewer(t *testing.T) {
	post := datatypes.Post{
		ID:     "p1",
		UserID: "owner",
		Liked:  []string{"viewer"},
	}

	t.Run("liker sees isLiked", func(t *testing.T) {
		v := ProjectPost(post, nil, true, "viewer")
		if !v.IsLiked || !v.IsSaved {
			t.Errorf("flags = (liked=%v, saved=%v), want both true", v.IsLiked, v.IsSaved)
		}
		if v.IsEditable {
			t.Error("IsEditable = true for non-owner")
		}
	})

	t.Run("owner sees isEditable", func(t *testing.T) {
		v := ProjectPost(post, nil, false, "owner")
		if !v.IsEditable {
			t.Error("IsEditable = false for owner")
		}
		if v.IsLiked {
			t.Error("IsLiked = true though owner never liked")
		}
	})

	t.Run("missing author leaves display fields empty", func(t *testing.T) {
		v := ProjectPost(post, nil, false, "viewer")
		if v.Username != "" || v.Avatar != "" {
			t.Errorf("author fields = (%q, %q), want empty", v.Username, v.Avatar)
		}
	})
}

func TestBuilder_Posts(t *testing.T) {
	st, err := store.Open(store.InMemoryConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	now := time.Now().UTC()

	err = st.CreateAccount(ctx, &datatypes.Account{
		ID: "owner", Name: "Owner", Email: "owner@example.com",
		Picture: "owner.png", Kind: datatypes.AccountUser,
		Communities: []string{}, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []*datatypes.Post{
		{ID: "p1", UserID: "owner", Liked: []string{"viewer"}, CreatedAt: now, UpdatedAt: now},
		{ID: "p2", UserID: "missing-author", Liked: []string{}, CreatedAt: now, UpdatedAt: now},
	} {
		if err := st.CreatePost(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	err = st.Update(ctx, func(tx *store.Tx) error {
		return tx.PutSaved(&datatypes.SavedMark{PostID: "p1", UserID: "viewer", CreatedAt: now})
	})
	if err != nil {
		t.Fatal(err)
	}

	b := &Builder{Store: st}
	posts, err := st.AllPosts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	views, err := b.Posts(ctx, posts, "viewer")
	if err != nil {
		t.Fatalf("Posts() error = %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}

	byID := map[string]PostView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	if v := byID["p1"]; !v.IsLiked || !v.IsSaved || v.Username != "Owner" {
		t.Errorf("p1 view = liked=%v saved=%v username=%q", v.IsLiked, v.IsSaved, v.Username)
	}
	// A deleted author must not fail the projection.
	if v := byID["p2"]; v.Username != "" {
		t.Errorf("p2 username = %q, want empty", v.Username)
	}
}

func TestBuilder_Comments(t *testing.T) {
	st, err := store.Open(store.InMemoryConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	now := time.Now().UTC()

	err = st.CreateAccount(ctx, &datatypes.Account{
		ID: "d1", Name: "Dummy One", Email: "d1@example.com",
		Picture: "d1.png", Kind: datatypes.AccountDummy,
		Communities: []string{}, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}

	comments := []datatypes.Comment{
		{ID: "c1", UserID: "d1", PostID: "p1", Body: "first", Liked: []string{"viewer"}},
		{ID: "c2", UserID: "d1", PostID: "p1", Body: "second", Liked: []string{}},
	}

	b := &Builder{Store: st}
	views, err := b.Comments(ctx, comments, "viewer")
	if err != nil {
		t.Fatalf("Comments() error = %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	if views[0].Username != "Dummy One" || !views[0].IsLiked {
		t.Errorf("c1 view = username=%q liked=%v", views[0].Username, views[0].IsLiked)
	}
	if views[1].IsLiked {
		t.Error("c2 IsLiked = true, want false")
	}
}
