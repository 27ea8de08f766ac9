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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
	"github.com/AleutianAI/AiGallery/services/gallery/interact"
	"github.com/AleutianAI/AiGallery/services/gallery/middleware"
	"github.com/AleutianAI/AiGallery/services/gallery/store"
)

// Login exchanges the identity asserted by the frontend for a signed token.
// An unknown email registers a new account and drops a welcome notification;
// a known one just mints a fresh token.
func Login(st *store.Store, auth *middleware.Authenticator, pub interact.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid login payload")
			return
		}

		account, err := st.AccountByEmail(c.Request.Context(), req.Email)
		switch {
		case err == nil:
			// returning user
		case errors.Is(err, store.ErrNotFound):
			account, err = registerAccount(c, st, req, pub)
			if err != nil {
				mapError(c, err, "User not found")
				return
			}
		default:
			mapError(c, err, "User not found")
			return
		}

		token, err := auth.Issue(account.ID)
		if err != nil {
			mapError(c, err, "User not found")
			return
		}
		ok(c, http.StatusOK, "User logged in successfully", gin.H{
			"user":  account.Redacted(),
			"token": token,
		})
	}
}

// registerAccount creates the account for a first login. A concurrent first
// login for the same email loses the uniqueness race and falls back to the
// winner's record.
func registerAccount(c *gin.Context, st *store.Store, req datatypes.LoginRequest, pub interact.Publisher) (*datatypes.Account, error) {
	now := time.Now().UTC()
	account := &datatypes.Account{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Picture:     req.Picture,
		Kind:        datatypes.AccountUser,
		Communities: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := st.CreateAccount(c.Request.Context(), account)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return st.AccountByEmail(c.Request.Context(), req.Email)
	}
	if err != nil {
		return nil, err
	}

	note := datatypes.Notification{
		ID:        uuid.NewString(),
		To:        account.ID,
		Desc:      "Welcome to the gallery! Start by exploring posts and joining communities.",
		Name:      account.Name,
		CreatedAt: now,
	}
	if err := st.CreateNotification(c.Request.Context(), &note); err != nil {
		return nil, err
	}
	if pub != nil {
		pub.Publish(note)
	}
	return account, nil
}

// UserProfile returns the authenticated account without its password.
func UserProfile(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := st.AccountByID(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			mapError(c, err, "User not found")
			return
		}
		ok(c, http.StatusOK, "User profile fetched successfully", gin.H{
			"user": account.Redacted(),
		})
	}
}
