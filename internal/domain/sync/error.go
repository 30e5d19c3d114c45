package sync

import "errors"

var (
	// ErrRemoteArchiveFailed reports a deletion partial failure: the remote
	// copy still exists and the local record was kept.
	ErrRemoteArchiveFailed = errors.New("remote archive failed, local record kept")

	ErrRecordNotFound = errors.New("record not found")
)
