package service

import (
	"context"
	"errors"
	"fmt"
	"postboard/internal/adapter/out/storage"
	"postboard/internal/model"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type accountsDocument = map[string]model.Account

// AccountService is the ledger of registered accounts, keyed by username.
type AccountService struct {
	accounts *Collection[accountsDocument]
	audit    *AuditLog
	opts     Options
}

func NewAccountService(store DocumentStore, audit *AuditLog, opts Options) *AccountService {
	return &AccountService{
		accounts: NewCollection(store, storage.CollectionAccounts, func() accountsDocument {
			return make(accountsDocument)
		}),
		audit: audit,
		opts:  opts.withDefaults(),
	}
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (model.Account, error) {
	if err := validateRequest(req); err != nil {
		return model.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.HashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return model.Account{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return model.Account{}, fmt.Errorf("%w: hash password: %v", ErrInternalError, err)
	}

	var created model.Account
	err = s.accounts.Update(ctx, func(doc *accountsDocument) error {
		if *doc == nil {
			*doc = make(accountsDocument)
		}
		if _, ok := (*doc)[req.Username]; ok {
			return ErrDuplicateUsername
		}
		for _, acc := range *doc {
			if acc.Email == req.Email {
				return ErrDuplicateEmail
			}
		}

		created = model.Account{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
			Bio:          req.Bio,
			RegisteredAt: s.opts.Now(),
		}
		(*doc)[req.Username] = created
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, model.LogEntry{
			Event:    EventUserRegistered,
			Username: created.Username,
		})
	}
	return created, nil
}

func (s *AccountService) Authenticate(ctx context.Context, username, password string) (model.Account, error) {
	acc, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Account{}, ErrInvalidCredentials
		}
		return model.Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return model.Account{}, ErrInvalidCredentials
	}
	return acc, nil
}

func (s *AccountService) FindByUsername(ctx context.Context, username string) (model.Account, error) {
	doc, err := s.accounts.Load(ctx)
	if err != nil {
		return model.Account{}, err
	}

	acc, ok := doc[username]
	if !ok {
		return model.Account{}, fmt.Errorf("account %q: %w", username, ErrNotFound)
	}
	return acc, nil
}

// Search matches case-sensitive substrings; empty filters match everything.
// Accounts without a bio never match a bio filter.
func (s *AccountService) Search(ctx context.Context, q AccountSearch) ([]model.Account, error) {
	doc, err := s.accounts.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Account, 0, len(doc))
	for _, acc := range doc {
		if q.Username != "" && !strings.Contains(acc.Username, q.Username) {
			continue
		}
		if q.Bio != "" && (acc.Bio == "" || !strings.Contains(acc.Bio, q.Bio)) {
			continue
		}
		out = append(out, acc)
	}

	slices.SortFunc(out, func(a, b model.Account) int {
		if c := a.RegisteredAt.Compare(b.RegisteredAt); c != 0 {
			return c
		}
		return strings.Compare(a.Username, b.Username)
	})
	return out, nil
}
