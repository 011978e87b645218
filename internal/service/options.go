package service

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Options tunes the services. Zero values fall back to defaults.
type Options struct {
	// Now stamps posts, comments, accounts and log entries.
	Now func() time.Time
	// HashCost is the bcrypt cost for new passwords.
	HashCost int
	// OnAuditFailure is called after an audit entry could not be written.
	OnAuditFailure func(err error)
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	if o.HashCost == 0 {
		o.HashCost = bcrypt.DefaultCost
	}
	return o
}
