package domain

import (
	"errors"
)

var (
	MessageSuccessSignUp     = "account created successfully"
	MessageSuccessSignIn     = "signed in successfully"
	MessageSuccessSignOut    = "signed out successfully"
	MessageSuccessGetSession = "session retrieved successfully"

	MessageFailedSignUp = "failed to create account"
	MessageFailedSignIn = "failed to sign in"

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type (
	CredentialsRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	// Session is what the identity provider hands back on sign-in or sign-up.
	Session struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Token  string `json:"token"`
	}

	SessionResponse struct {
		UserID        string `json:"user_id,omitempty"`
		Authenticated bool   `json:"authenticated"`
	}
)
