// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package interact is the interaction side-effect engine: the toggle
// transitions on likes, bookmarks, and community membership, plus the
// notifications those transitions emit.
//
// Every operation is a toggle decided solely by current set membership.
// The forward transition (not-interacted -> interacted) is the only one
// that notifies, and never when the actor owns the target. Each toggle,
// including its notification, runs in one store transaction: the counter,
// the membership set, and the side effect commit together or not at all.
package interact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
	"github.com/AleutianAI/AiGallery/services/gallery/observability"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
)

// Publisher receives notifications after they are committed, for live
// delivery (the WebSocket hub). Implementations must not block.
type Publisher interface {
	Publish(n datatypes.Notification)
}

// Engine applies toggle transitions against the store.
type Engine struct {
	Store     *store.Store
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Publisher Publisher
}

// New constructs an engine with a component logger.
func New(st *store.Store, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		Store:   st,
		Logger:  logger.With("component", "interact.Engine"),
		Metrics: metrics,
	}
}

func (e *Engine) publish(n *datatypes.Notification) {
	if n == nil || e.Publisher == nil {
		return
	}
	e.Publisher.Publish(*n)
}

func newNotification(to, desc, name string) datatypes.Notification {
	return datatypes.Notification{
		ID:        uuid.NewString(),
		To:        to,
		Desc:      desc,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

func remove(set []string, id string) []string {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// TogglePostLike flips the (post, actor) like state. Returns the updated
// post and whether the post is now liked by the actor.
func (e *Engine) TogglePostLike(ctx context.Context, postID, actorID string) (*datatypes.Post, bool, error) {
	var (
		post  *datatypes.Post
		liked bool
		note  *datatypes.Notification
	)
	err := e.Store.Update(ctx, func(tx *store.Tx) error {
		note = nil
		p, err := tx.Post(postID)
		if err != nil {
			return err
		}
		if p.LikedBy(actorID) {
			p.Liked = remove(p.Liked, actorID)
			p.Like--
			liked = false
		} else {
			p.Liked = append(p.Liked, actorID)
			p.Like++
			liked = true
			if actorID != p.UserID {
				actor, err := tx.Account(actorID)
				if err != nil {
					return err
				}
				n := newNotification(p.UserID, fmt.Sprintf("%s liked your post", actor.Name), actor.Name)
				n.PostID = p.ID
				if err := tx.PutNotification(&n); err != nil {
					return err
				}
				note = &n
			}
		}
		p.UpdatedAt = time.Now().UTC()
		post = p
		return tx.PutPost(p)
	})
	if err != nil {
		return nil, false, err
	}
	e.Metrics.RecordInteraction("post_like", liked)
	if note != nil {
		e.Metrics.RecordNotification("like")
		e.publish(note)
	}
	e.Logger.Debug("post like toggled", "postId", postID, "actorId", actorID, "liked", liked)
	return post, liked, nil
}

// ToggleCommentLike flips the (comment, actor) like state.
func (e *Engine) ToggleCommentLike(ctx context.Context, commentID, actorID string) (*datatypes.Comment, bool, error) {
	var (
		comment *datatypes.Comment
		liked   bool
		note    *datatypes.Notification
	)
	err := e.Store.Update(ctx, func(tx *store.Tx) error {
		note = nil
		c, err := tx.Comment(commentID)
		if err != nil {
			return err
		}
		if c.LikedBy(actorID) {
			c.Liked = remove(c.Liked, actorID)
			c.Likes--
			liked = false
		} else {
			c.Liked = append(c.Liked, actorID)
			c.Likes++
			liked = true
			if actorID != c.UserID {
				actor, err := tx.Account(actorID)
				if err != nil {
					return err
				}
				n := newNotification(c.UserID, fmt.Sprintf("%s liked your comment", actor.Name), actor.Name)
				n.PostID = c.PostID
				if err := tx.PutNotification(&n); err != nil {
					return err
				}
				note = &n
			}
		}
		c.UpdatedAt = time.Now().UTC()
		comment = c
		return tx.PutComment(c)
	})
	if err != nil {
		return nil, false, err
	}
	e.Metrics.RecordInteraction("comment_like", liked)
	if note != nil {
		e.Metrics.RecordNotification("like")
		e.publish(note)
	}
	return comment, liked, nil
}

// ToggleMembership joins or leaves a community. The community's member
// counter and the account's membership list move in the same transaction.
// Joining emits a welcome notification; leaving is silent.
func (e *Engine) ToggleMembership(ctx context.Context, communityID, actorID string) (*datatypes.Community, bool, error) {
	var (
		community *datatypes.Community
		member    bool
		note      *datatypes.Notification
	)
	err := e.Store.Update(ctx, func(tx *store.Tx) error {
		note = nil
		c, err := tx.Community(communityID)
		if err != nil {
			return err
		}
		a, err := tx.Account(actorID)
		if err != nil {
			return err
		}

		joined := false
		for _, id := range a.Communities {
			if id == communityID {
				joined = true
				break
			}
		}
		if joined {
			a.Communities = remove(a.Communities, communityID)
			c.Members--
			member = false
		} else {
			a.Communities = append(a.Communities, communityID)
			c.Members++
			member = true
			n := newNotification(actorID, fmt.Sprintf("Welcome to the %s community!", c.Title), c.Title)
			n.IsCommunity = true
			n.CommunityID = c.ID
			if err := tx.PutNotification(&n); err != nil {
				return err
			}
			note = &n
		}
		a.UpdatedAt = time.Now().UTC()
		if err := tx.PutAccount(a); err != nil {
			return err
		}
		community = c
		return tx.PutCommunity(c)
	})
	if err != nil {
		return nil, false, err
	}
	e.Metrics.RecordInteraction("membership", member)
	if note != nil {
		e.Metrics.RecordNotification("community")
		e.publish(note)
	}
	e.Logger.Debug("membership toggled", "communityId", communityID, "actorId", actorID, "member", member)
	return community, member, nil
}

// ToggleSave flips the bookmark for (post, actor). No notification.
func (e *Engine) ToggleSave(ctx context.Context, postID, actorID string) (bool, error) {
	var saved bool
	err := e.Store.Update(ctx, func(tx *store.Tx) error {
		if _, err := tx.Post(postID); err != nil {
			return err
		}
		exists, err := tx.SavedExists(postID, actorID)
		if err != nil {
			return err
		}
		if exists {
			saved = false
			return tx.DeleteSaved(postID, actorID)
		}
		saved = true
		return tx.PutSaved(&datatypes.SavedMark{
			PostID:    postID,
			UserID:    actorID,
			CreatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return false, err
	}
	e.Metrics.RecordInteraction("save", saved)
	return saved, nil
}

// AddComment creates a comment, bumps the post's comment counter, and
// notifies the post owner unless the actor is commenting on their own post.
func (e *Engine) AddComment(ctx context.Context, postID, actorID, body string) (*datatypes.Comment, error) {
	var (
		comment datatypes.Comment
		note    *datatypes.Notification
	)
	err := e.Store.Update(ctx, func(tx *store.Tx) error {
		note = nil
		p, err := tx.Post(postID)
		if err != nil {
			return err
		}
		actor, err := tx.Account(actorID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		comment = datatypes.Comment{
			ID:        uuid.NewString(),
			UserID:    actorID,
			PostID:    postID,
			Body:      body,
			Liked:     []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.PutComment(&comment); err != nil {
			return err
		}
		p.CommentCount++
		p.UpdatedAt = now
		if err := tx.PutPost(p); err != nil {
			return err
		}
		if actorID != p.UserID {
			n := newNotification(p.UserID, fmt.Sprintf("New comments on your post by %s", actor.Name), actor.Name)
			n.CommentID = comment.ID
			n.PostID = p.ID
			if err := tx.PutNotification(&n); err != nil {
				return err
			}
			note = &n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if note != nil {
		e.Metrics.RecordNotification("comment")
		e.publish(note)
	}
	return &comment, nil
}

// RemoveComment deletes a comment and decrements its post's counter. The
// post may already be gone; the comment is removed regardless.
func (e *Engine) RemoveComment(ctx context.Context, commentID string) error {
	return e.Store.Update(ctx, func(tx *store.Tx) error {
		c, err := tx.Comment(commentID)
		if err != nil {
			return err
		}
		if p, err := tx.Post(c.PostID); err == nil {
			p.CommentCount--
			p.UpdatedAt = time.Now().UTC()
			if err := tx.PutPost(p); err != nil {
				return err
			}
		}
		return tx.DeleteComment(commentID)
	})
}
