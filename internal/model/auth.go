package model

import "github.com/golang-jwt/jwt/v5"

// OwnerClaims are JWT claims for the journal owner
type OwnerClaims struct {
	OwnerID string `json:"ownerId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for owner login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token   string `json:"token"`
	OwnerID string `json:"ownerId"`
}
