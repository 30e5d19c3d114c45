package record

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrMissingRemoteID = errors.New("record lacks a remote id")
)
