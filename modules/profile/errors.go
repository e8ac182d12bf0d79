package profile

import "errors"

var (
	ErrProfileNotFound  = errors.New("profile: profile not found")
	ErrMissingFile      = errors.New("profile: avatar file is required")
	ErrAvatarTooLarge   = errors.New("profile: avatar exceeds the size limit")
	ErrProcessingFailed = errors.New("profile: failed to process avatar image")
)
