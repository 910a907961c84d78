package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrMissingFields    = fmt.Errorf("%w: all fields required", ErrValidation)
	ErrEmptyPost        = fmt.Errorf("%w: post needs content or a media url", ErrValidation)
	ErrEmptyComment     = fmt.Errorf("%w: comment is empty", ErrValidation)
	ErrInvalidMediaType = fmt.Errorf("%w: media type must be image or video", ErrValidation)

	ErrDuplicateIdentity  = errors.New("email or username already used")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNotFound     = errors.New("not found")
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	ErrSelfFollow = errors.New("cannot follow yourself")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)
