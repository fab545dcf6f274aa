package interfaces

import "errors"

// ErrDuplicateKey is returned by repositories when a create-once write finds
// the key already taken.
var ErrDuplicateKey = errors.New("duplicate key")
