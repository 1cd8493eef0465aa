// file: model/token.go

package model

import "time"

// RevokedToken is a ledger entry for a token identifier that must be rejected
// until ExpiresAt, after which the token fails its own expiry check anyway.
type RevokedToken struct {
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SignedToken is a serialized token together with the claims it carries.
type SignedToken struct {
	Token  string     `json:"token"`
	Claims *AppClaims `json:"-"`
}

// TokenPair is issued at login. Both halves share subject and token identifier.
type TokenPair struct {
	Access  SignedToken
	Refresh SignedToken
}
