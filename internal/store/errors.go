package store

import "errors"

// Failure taxonomy of the document store. Callers branch with errors.Is;
// services above the store propagate these unchanged.
var (
	ErrCloudAuthFailed = errors.New("cloud auth failed")
	ErrCloudNotFound   = errors.New("cloud document not found")
	ErrCloudSyncFailed = errors.New("cloud sync failed")
	ErrNetwork         = errors.New("network error")
)
