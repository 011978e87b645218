package storage

import (
	"errors"
	"strings"
)

// Collection names a whole document kept by a backend.
type Collection string

const (
	CollectionAccounts Collection = "users"
	CollectionPosts    Collection = "posts"
	CollectionLogs     Collection = "logs"
)

var (
	ErrCorrupt       = errors.New("storage corrupt")
	ErrUnavailable   = errors.New("storage unavailable")
	ErrBadCollection = errors.New("invalid collection name")
)

// Valid reports whether c can be used as a file name or key suffix.
func (c Collection) Valid() bool {
	return c != "" && !strings.ContainsAny(string(c), `/\.`)
}
