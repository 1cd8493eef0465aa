// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"max=100"`
	LastName        string `json:"last_name" validate:"max=100"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetRequest carries the new password for a reset token.
type PasswordResetRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// PasswordUpdateRequest changes the password of the authenticated user.
type PasswordUpdateRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// BlogRequest is used both to create a blog and to rename one.
type BlogRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// CreatePostRequest defines the payload for a new post in one of the caller's blogs.
type CreatePostRequest struct {
	BlogID string `json:"blog_id" validate:"required,uuid"`
	Title  string `json:"title" validate:"required,max=200"`
	Body   string `json:"body" validate:"required"`
}

// UpdatePostRequest patches a post. Empty fields are left unchanged.
type UpdatePostRequest struct {
	Title string `json:"title" validate:"omitempty,max=200"`
	Body  string `json:"body"`
}

// AccessTokenResponse is returned by login and refresh.
type AccessTokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a generic success body.
type MessageResponse struct {
	Msg string `json:"msg"`
}
