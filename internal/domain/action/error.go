package action

import (
	"errors"
)

var (
	ErrNotFound         = errors.New("action not found")
	ErrUnknownKind      = errors.New("unknown action kind")
	ErrSyncInProgress   = errors.New("sync already in progress")
	ErrOffline          = errors.New("client is offline")
	ErrStoreUnavailable = errors.New("local store unavailable")
)
