package model

import "github.com/golang-jwt/jwt/v5"

// OwnerClaims are JWT claims for both account and guest tokens.
// Kind mirrors OwnerKind so middleware can rebuild the Owner union.
type OwnerClaims struct {
	Kind    string `json:"kind"`
	OwnerID string `json:"ownerId"`
	OrgID   string `json:"orgId,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for account login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	OrgID  string `json:"orgId"`
}

// GuestTokenResponse is returned when a guest session is issued
type GuestTokenResponse struct {
	Token   string `json:"token"`
	GuestID string `json:"guestId"`
}
