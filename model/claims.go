package model

import "github.com/golang-jwt/jwt/v5"

// ClaimsVersion is the current layout of AppClaims.
const ClaimsVersion = 1

// TokenPurpose scopes what a token may be used for.
type TokenPurpose string

const (
	PurposeAccess        TokenPurpose = "access"
	PurposeRefresh       TokenPurpose = "refresh"
	PurposeVerifyEmail   TokenPurpose = "verify-email"
	PurposePasswordReset TokenPurpose = "password-reset"
)

// AppClaims is the fixed claim set carried by every token.
// Session tokens use the username as subject; mail tokens use the email address.
type AppClaims struct {
	Version int               `json:"ver"`
	Purpose TokenPurpose      `json:"purpose"`
	Extra   map[string]string `json:"ext,omitempty"`
	jwt.RegisteredClaims
}
