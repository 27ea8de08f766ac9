// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// LoginRequest carries the identity asserted by the frontend's OAuth flow.
// First login creates the account; later logins just mint a fresh token.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Picture  string `json:"picture" binding:"required,url"`
}

// UploadRequest creates a post. Image and CommunityID are optional.
type UploadRequest struct {
	Username    string `json:"username" binding:"required"`
	Avatar      string `json:"avatar" binding:"required"`
	Post        string `json:"post" binding:"required" validate:"required,maxbytes=8192"`
	Image       string `json:"image" binding:"omitempty,url"`
	CommunityID string `json:"communityId"`
}

// CheckURLRequest asks the validity gate to classify a hosted image.
type CheckURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// UpdatePostRequest replaces a post's text body.
type UpdatePostRequest struct {
	Post string `json:"post" binding:"required" validate:"required,maxbytes=8192"`
}

// CreateCommentRequest adds a comment to a post.
type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required" validate:"required,maxbytes=2048"`
}
