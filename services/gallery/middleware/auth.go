// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the gallery service.
//
// # Authentication Flow
//
// The auth middleware extracts a bearer token from the Authorization header,
// verifies its HS256 signature, and stores the token's subject (the account
// id) in the Gin context for downstream handlers:
//
//	Request
//	   │
//	   ▼
//	RequireAuth
//	   │
//	   ├─► Extract token from "Authorization: Bearer <token>"
//	   │
//	   ├─► Verify signature, read subject
//	   │
//	   └─► Store account id in context
//	           │
//	           ▼
//	       Handler (retrieves via UserID)
//
// The signing secret never sits in ordinary heap memory: it is sealed in a
// memguard enclave and opened only for the microseconds each sign or verify
// takes.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/awnumar/memguard"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, malformed token, missing subject.
var ErrInvalidToken = errors.New("token is not valid")

// userIDKey is the context key for the authenticated account id.
// Using a package-scoped constant prevents collisions with other values.
const userIDKey = "gallery_user_id"

// SetUserID stores the authenticated account id in the Gin context.
func SetUserID(c *gin.Context, id string) {
	c.Set(userIDKey, id)
}

// UserID retrieves the authenticated account id, or "" when the request
// carried no valid token.
func UserID(c *gin.Context) string {
	if v, exists := c.Get(userIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// Authenticator issues and verifies the HS256 bearer tokens the frontend
// holds. Safe for concurrent use.
type Authenticator struct {
	secret *memguard.Enclave
}

// NewAuthenticator seals the signing secret into an enclave. The caller's
// copy of the secret is wiped.
func NewAuthenticator(secret []byte) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &Authenticator{secret: memguard.NewEnclave(secret)}, nil
}

// Issue mints a token whose subject is the account id.
func (a *Authenticator) Issue(accountID string) (string, error) {
	key, err := a.secret.Open()
	if err != nil {
		return "", fmt.Errorf("open signing secret: %w", err)
	}
	defer key.Destroy()

	claims := jwt.RegisteredClaims{
		Subject:  accountID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key.Bytes())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and returns the token's subject.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	key, err := a.secret.Open()
	if err != nil {
		return "", fmt.Errorf("open signing secret: %w", err)
	}
	defer key.Destroy()

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key.Bytes(), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// account id for handlers.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Access denied. No token provided.",
				"status":  false,
			})
			return
		}
		id, err := a.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Token is not valid",
				"status":  false,
			})
			return
		}
		SetUserID(c, id)
		c.Next()
	}
}

// extractBearerToken parses the Authorization header expecting
// "Bearer <token>". The prefix is case-insensitive per RFC 7235.
// Returns "" if the header is missing or malformed.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
