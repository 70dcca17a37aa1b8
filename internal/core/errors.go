package core

import "errors"

var (
	ErrLocationRequired = errors.New("location required to drop AR content")
	ErrLocationStale    = errors.New("last known location is too old")
	ErrDuplicateID      = errors.New("content id already exists")
	ErrInvalidContent   = errors.New("invalid content")
	ErrUnknownMode      = errors.New("unknown view mode")
)
