// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package seeding lazily populates a post's empty comment thread with
// AI-generated comments attributed to the dummy account pool.
//
// This is fill-on-first-read: the first thread fetch that finds zero
// comments triggers generation. A singleflight group keyed by post id
// collapses concurrent first views into one generation; late arrivals get
// the winner's result instead of double-generating. On upstream failure
// nothing is persisted and the next view retries.
package seeding

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
	"github.com/AleutianAI/AiGallery/services/gallery/interact"
	"github.com/AleutianAI/AiGallery/services/gallery/observability"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
	"github.com/AleutianAI/AiGallery/services/genai"
	"github.com/AleutianAI/AiGallery/services/imagehost"
)

const (
	// dummyWindow is how many shuffled dummy accounts one seeding run
	// draws from; comments cycle through the window by modulo.
	dummyWindow = 20

	// Seeded posts get a starting like count in [likeFloor, likeCeil].
	likeFloor = 5
	likeCeil  = 25
)

// FetchImage retrieves the post image bytes handed to the generator.
// Defaults to imagehost.Fetch; tests substitute their own.
type FetchImage func(ctx context.Context, url string) ([]byte, error)

// Seeder populates empty comment threads.
type Seeder struct {
	Store     *store.Store
	GenAI     genai.Client
	Fetch     FetchImage
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Publisher interact.Publisher

	group singleflight.Group
}

// New constructs a seeder with a component logger.
func New(st *store.Store, client genai.Client, logger *slog.Logger, metrics *observability.Metrics) *Seeder {
	return &Seeder{
		Store:   st,
		GenAI:   client,
		Fetch:   imagehost.Fetch,
		Logger:  logger.With("component", "seeding.Seeder"),
		Metrics: metrics,
	}
}

// EnsureComments returns the post's comment thread, generating it first if
// empty. The returned comments are newest first.
func (s *Seeder) EnsureComments(ctx context.Context, post *datatypes.Post) ([]datatypes.Comment, error) {
	comments, err := s.Store.CommentsByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if len(comments) > 0 {
		return comments, nil
	}

	// Every waiter shares the winner's call; if the winner's request is
	// canceled mid-generation the rest still need the result, so the run
	// itself is detached from the caller.
	genCtx := context.WithoutCancel(ctx)
	result, err, _ := s.group.Do(post.ID, func() (any, error) {
		return s.seed(genCtx, post.ID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]datatypes.Comment), nil
}

// seed runs one generation for the post. It re-checks emptiness inside the
// critical section: a caller that lost the singleflight race and re-entered
// after the winner finished must not generate again.
func (s *Seeder) seed(ctx context.Context, postID string) ([]datatypes.Comment, error) {
	start := time.Now()
	comments, note, err := s.generate(ctx, postID)
	status := "success"
	if err != nil {
		status = "error"
	}
	if s.Metrics != nil {
		s.Metrics.SeedingDurationSeconds.WithLabelValues(status).Observe(time.Since(start).Seconds())
		if err == nil {
			s.Metrics.SeededCommentsTotal.Add(float64(len(comments)))
		} else {
			s.Metrics.GenAIErrorsTotal.WithLabelValues("comments").Inc()
		}
	}
	if err != nil {
		return nil, err
	}
	if note != nil {
		if s.Metrics != nil {
			s.Metrics.RecordNotification("seeding")
		}
		if s.Publisher != nil {
			s.Publisher.Publish(*note)
		}
	}
	return comments, nil
}

func (s *Seeder) generate(ctx context.Context, postID string) ([]datatypes.Comment, *datatypes.Notification, error) {
	existing, err := s.Store.CommentsByPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if len(existing) > 0 {
		return existing, nil, nil
	}

	post, err := s.Store.PostByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	owner, err := s.Store.AccountByID(ctx, post.UserID)
	if err != nil {
		return nil, nil, err
	}
	dummies, err := s.Store.DummyAccounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(dummies) == 0 {
		return nil, nil, fmt.Errorf("no dummy accounts provisioned; run the seed-accounts command")
	}

	image, err := s.Fetch(ctx, post.Image)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", genai.ErrGeneration, err)
	}
	texts, err := s.GenAI.CommentsForImage(ctx, image)
	if err != nil {
		return nil, nil, err
	}

	authors := pickAuthors(dummies, dummyWindow)
	now := time.Now().UTC()
	comments := make([]datatypes.Comment, len(texts))
	for i, text := range texts {
		comments[i] = datatypes.Comment{
			ID:        uuid.NewString(),
			UserID:    authors[i%len(authors)].ID,
			PostID:    postID,
			Body:      text,
			Liked:     []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	note := datatypes.Notification{
		ID:        uuid.NewString(),
		To:        owner.ID,
		Desc:      "New comments generated by AI",
		Name:      owner.Name,
		CreatedAt: now,
	}

	err = s.Store.Update(ctx, func(tx *store.Tx) error {
		// The post may have changed while we were talking to the model.
		p, err := tx.Post(postID)
		if err != nil {
			return err
		}
		for i := range comments {
			if err := tx.PutComment(&comments[i]); err != nil {
				return err
			}
		}
		p.CommentCount = len(comments)
		p.Like = likeFloor + rand.IntN(likeCeil-likeFloor+1)
		p.UpdatedAt = now
		if err := tx.PutPost(p); err != nil {
			return err
		}
		return tx.PutNotification(&note)
	})
	if err != nil {
		return nil, nil, err
	}

	s.Logger.Info("seeded comment thread", "postId", postID, "comments", len(comments))
	return comments, &note, nil
}

// pickAuthors shuffles the dummy pool and takes a window of at most n.
func pickAuthors(dummies []datatypes.Account, n int) []datatypes.Account {
	shuffled := make([]datatypes.Account, len(dummies))
	copy(shuffled, dummies)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}
