// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"context"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AiGallery/services/gallery/handlers"
	"github.com/AleutianAI/AiGallery/services/gallery/interact"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/observability"
	"github.com/AleutianAI/AiGallery/services/gallery/seeding"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
	"github.com/AleutianAI/AiGallery/services/genai"
	"github.com/AleutianAI/AiGallery/services/imagehost"
)

// Deps carries everything the route table wires into handlers.
type Deps struct {
	Store    *store.Store
	Auth     *middleware.Authenticator
	Engine   *interact.Engine
	Seeder   *seeding.Seeder
	GenAI    genai.Client
	Host     imagehost.Host
	Hub      *handlers.Hub
	Metrics  *observability.Metrics
	GenLimit *middleware.PerUserLimiter
}

// SetupRoutes registers the gallery API. Paths are flat, matching what the
// frontend calls; generation endpoints additionally pass the per-user rate
// limiter.
func SetupRoutes(router *gin.Engine, d Deps) {
	router.GET("/", handlers.Root())
	router.GET("/healthz", handlers.Healthz(func() error {
		return d.Store.View(context.Background(), func(*store.Tx) error { return nil })
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Local hosting serves its own upload directory; the URLs Upload hands
	// out must resolve through this router. GCS URLs point at the bucket.
	if lh, ok := d.Host.(*imagehost.LocalHost); ok {
		prefix := "/images"
		if u, err := url.Parse(lh.BaseURL); err == nil && u.Path != "" {
			prefix = u.Path
		}
		router.Static(prefix, lh.Dir)
	}

	// Public reads: the viewer id travels in the path, "undefined" = anon.
	router.POST("/login", handlers.Login(d.Store, d.Auth, d.Hub))
	router.GET("/posts/:userId", handlers.ListPosts(d.Store))
	router.GET("/comments/:postId/:userId", handlers.GetComments(d.Store, d.Seeder))
	router.GET("/community", handlers.ListCommunities(d.Store))
	router.GET("/community/:id/:userId", handlers.GetCommunity(d.Store))

	// WebSocket authenticates through the token query parameter.
	router.GET("/notifications/ws", handlers.NotificationsWS(d.Hub, d.Auth))

	authed := router.Group("/", d.Auth.RequireAuth())
	{
		authed.GET("/user-profile", handlers.UserProfile(d.Store))

		authed.POST("/upload", handlers.Upload(d.Store))
		authed.POST("/update-post/:id", handlers.UpdatePostBody(d.Store))
		authed.DELETE("/delete-post/:id", handlers.DeletePost(d.Store, d.Host))
		authed.POST("/like/:id", handlers.LikePost(d.Engine))

		authed.POST("/comment/:id", handlers.CreateComment(d.Engine))
		authed.DELETE("/delete-comment/:id", handlers.DeleteComment(d.Store, d.Engine))
		authed.POST("/comment-like/:id", handlers.LikeComment(d.Engine))

		authed.POST("/join-community/:id", handlers.JoinCommunity(d.Engine))
		authed.POST("/leave-community/:id", handlers.LeaveCommunity(d.Engine))
		authed.GET("/my-communities", handlers.MyCommunities(d.Store))

		authed.POST("/save/:id", handlers.SavePost(d.Engine))
		authed.GET("/saved", handlers.ListSaved(d.Store))

		authed.GET("/notifications", handlers.ListNotifications(d.Store))
		authed.DELETE("/mark-as-read/:id", handlers.MarkAsRead(d.Store))
		authed.DELETE("/delete-notification/:userId", handlers.ClearNotifications(d.Store))

		gen := authed.Group("/", d.GenLimit.Middleware())
		{
			gen.POST("/check-url", handlers.CheckURL(d.GenAI, d.Host, d.Metrics))
			gen.GET("/create-random-post", handlers.CreateRandomPost(d.Store, d.GenAI, d.Host))
		}
	}
}
