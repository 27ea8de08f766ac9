// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/AleutianAI/AiGallery/services/gallery/datatypes"
)

const (
	accountPrefix      = "account/"
	accountEmailPrefix = "account-email/"
)

func accountKey(id string) string  { return accountPrefix + id }
func emailKey(email string) string { return accountEmailPrefix + email }

// Account fetches one account by id within a transaction.
func (tx *Tx) Account(id string) (*datatypes.Account, error) {
	var a datatypes.Account
	if err := tx.get(accountKey(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// PutAccount writes an account document.
func (tx *Tx) PutAccount(a *datatypes.Account) error {
	return tx.put(accountKey(a.ID), a)
}

// CreateAccount inserts a new account, enforcing email uniqueness through
// the account-email index key.
func (s *Store) CreateAccount(ctx context.Context, a *datatypes.Account) error {
	return s.Update(ctx, func(tx *Tx) error {
		taken, err := tx.exists(emailKey(a.Email))
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}
		if err := tx.put(emailKey(a.Email), a.ID); err != nil {
			return err
		}
		return tx.PutAccount(a)
	})
}

// AccountByID returns one account.
func (s *Store) AccountByID(ctx context.Context, id string) (*datatypes.Account, error) {
	var a *datatypes.Account
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		a, err = tx.Account(id)
		return err
	})
	return a, err
}

// AccountByEmail resolves the uniqueness index and returns the account.
func (s *Store) AccountByEmail(ctx context.Context, email string) (*datatypes.Account, error) {
	var a datatypes.Account
	err := s.View(ctx, func(tx *Tx) error {
		var id string
		if err := tx.get(emailKey(email), &id); err != nil {
			return err
		}
		return tx.get(accountKey(id), &a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DummyAccounts returns the pool that authors AI-seeded content.
func (s *Store) DummyAccounts(ctx context.Context) ([]datatypes.Account, error) {
	var out []datatypes.Account
	err := s.View(ctx, func(tx *Tx) error {
		return tx.scan(accountPrefix, func(_ string, val []byte) error {
			var a datatypes.Account
			if err := json.Unmarshal(val, &a); err != nil {
				return err
			}
			if a.Kind == datatypes.AccountDummy {
				out = append(out, a)
			}
			return nil
		})
	})
	return out, err
}

// AccountsByIDs fetches a batch of accounts, keyed by id. Missing ids are
// skipped rather than failing the whole batch.
func (s *Store) AccountsByIDs(ctx context.Context, ids []string) (map[string]datatypes.Account, error) {
	out := make(map[string]datatypes.Account, len(ids))
	err := s.View(ctx, func(tx *Tx) error {
		for _, id := range ids {
			if _, ok := out[id]; ok {
				continue
			}
			a, err := tx.Account(id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out[id] = *a
		}
		return nil
	})
	return out, err
}

// CommunitiesOf returns the communities the account has joined, newest first.
func (s *Store) CommunitiesOf(ctx context.Context, accountID string) ([]datatypes.Community, error) {
	var out []datatypes.Community
	err := s.View(ctx, func(tx *Tx) error {
		a, err := tx.Account(accountID)
		if err != nil {
			return err
		}
		for _, cid := range a.Communities {
			c, err := tx.Community(cid)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
