package database

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrAlreadyLiked   = errors.New("post already liked")
	ErrNotLiked       = errors.New("post has not yet been liked")
)
