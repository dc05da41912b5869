// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the Bun-backed implementation of the Store interface.
// Bun rewrites placeholders per dialect, so one implementation serves
// SQLite, PostgreSQL and MySQL alike.
package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopcore/shopcore/internal/model"
	"github.com/uptrace/bun"
)

// BunStore is the Bun-backed implementation of the Store interface.
type BunStore struct {
	bun *bun.DB
}

// NewBunStore wraps an initialized *bun.DB in a Store.
func NewBunStore(bdb *bun.DB) *BunStore {
	return &BunStore{bun: bdb}
}

// BunDB exposes the underlying Bun handle.
func (s *BunStore) BunDB() *bun.DB {
	return s.bun
}

// Ping verifies the underlying connection is alive.
func (s *BunStore) Ping(ctx context.Context) error {
	return s.bun.PingContext(ctx)
}

// --- User methods ---

// CreateUser inserts a new user. Returns ErrDuplicate when the email is taken.
func (s *BunStore) CreateUser(email, hashedPassword, role string) (*model.User, error) {
	ctx := context.Background()

	um := UserModel{
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		Role:           role,
	}
	if _, err := s.bun.NewInsert().Model(&um).Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}
	u := userModelToModel(um)
	return &u, nil
}

// GetUserByEmail retrieves a user by email regardless of active status.
func (s *BunStore) GetUserByEmail(email string) (*model.User, error) {
	return s.getUserWhere("email = ?", email)
}

// GetActiveUserByEmail retrieves an active user by email.
func (s *BunStore) GetActiveUserByEmail(email string) (*model.User, error) {
	ctx := context.Background()
	var um UserModel
	err := s.bun.NewSelect().Model(&um).
		Where("email = ?", email).
		Where("is_active = ?", true).
		Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u := userModelToModel(um)
	return &u, nil
}

// GetUserByID retrieves a user by primary key.
func (s *BunStore) GetUserByID(id int) (*model.User, error) {
	return s.getUserWhere("id = ?", id)
}

func (s *BunStore) getUserWhere(cond string, arg any) (*model.User, error) {
	ctx := context.Background()
	var um UserModel
	err := s.bun.NewSelect().Model(&um).Where(cond, arg).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u := userModelToModel(um)
	return &u, nil
}

// --- Audit Log methods ---

func nowUTCString() string {
	return timeNow().UTC().Format("2006-01-02T15:04:05Z07:00")
}

// LogAction records an audit trail event with a UTC timestamp.
func (s *BunStore) LogAction(username, action, details string) error {
	ctx := context.Background()
	entry := AuditLogModel{
		Timestamp: nowUTCString(),
		Username:  username,
		Action:    action,
		Details:   details,
	}
	_, err := s.bun.NewInsert().Model(&entry).Exec(ctx)
	return err
}

// GetAllAuditLogEntries retrieves all audit entries, most recent first.
func (s *BunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var rows []AuditLogModel
	if err := s.bun.NewSelect().Model(&rows).Order("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, auditLogModelToModel(r))
	}
	return out, nil
}
