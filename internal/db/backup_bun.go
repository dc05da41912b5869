// Copyright (c) 2026 Shopcore Team
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Backup export/import for the Bun store.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun/dialect"

	"github.com/shopcore/shopcore/internal/model"
)

// backupTables lists every table in the dump, children first so deletes
// satisfy FK ordering on engines that enforce it.
var backupTables = []string{"reviews", "products", "categories", "users", "audit_log"}

// backupSchemaVersion is bumped whenever the exported shape changes.
const backupSchemaVersion = 2

// ExportDataForBackup reads every table into a BackupData container.
// Inactive rows are included so a restore reproduces the database exactly.
func (s *BunStore) ExportDataForBackup() (*model.BackupData, error) {
	ctx := context.Background()
	out := &model.BackupData{SchemaVersion: backupSchemaVersion}

	var users []UserModel
	if err := s.bun.NewSelect().Model(&users).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("backup users: %w", err)
	}
	for _, u := range users {
		out.Users = append(out.Users, userModelToModel(u))
	}

	var cats []CategoryModel
	if err := s.bun.NewSelect().Model(&cats).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("backup categories: %w", err)
	}
	for _, c := range cats {
		out.Categories = append(out.Categories, categoryModelToModel(c))
	}

	var prods []ProductModel
	if err := s.bun.NewSelect().Model(&prods).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("backup products: %w", err)
	}
	for _, p := range prods {
		out.Products = append(out.Products, productModelToModel(p))
	}

	var revs []ReviewModel
	if err := s.bun.NewSelect().Model(&revs).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("backup reviews: %w", err)
	}
	for _, r := range revs {
		out.Reviews = append(out.Reviews, reviewModelToModel(r))
	}

	var audits []AuditLogModel
	if err := s.bun.NewSelect().Model(&audits).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("backup audit log: %w", err)
	}
	for _, a := range audits {
		out.AuditLogEntries = append(out.AuditLogEntries, auditLogModelToModel(a))
	}

	return out, nil
}

// ImportDataFromBackup replaces the database contents with the backup data.
// The whole restore runs in one transaction; a failure leaves the database
// untouched. Rows keep their original IDs so foreign keys stay valid.
func (s *BunStore) ImportDataFromBackup(backup *model.BackupData) error {
	if backup == nil {
		return fmt.Errorf("nil backup data")
	}
	ctx := context.Background()

	tx, err := s.bun.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range backupTables {
		if _, err := ExecRaw(ctx, &tx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, u := range backup.Users {
		um := UserModel{ID: u.ID, Email: u.Email, HashedPassword: u.HashedPassword, IsActive: u.IsActive, Role: u.Role}
		if _, err := tx.NewInsert().Model(&um).Exec(ctx); err != nil {
			return fmt.Errorf("failed to restore user %d: %w", u.ID, err)
		}
	}
	for _, c := range backup.Categories {
		cm := CategoryModel{ID: c.ID, Name: c.Name, ParentID: nullIntFromPtr(c.ParentID), IsActive: c.IsActive}
		if _, err := tx.NewInsert().Model(&cm).Exec(ctx); err != nil {
			return fmt.Errorf("failed to restore category %d: %w", c.ID, err)
		}
	}
	for _, p := range backup.Products {
		pm := ProductModel{
			ID: p.ID, Name: p.Name, Description: nullString(p.Description),
			Price: p.Price, ImageURL: nullString(p.ImageURL), Stock: p.Stock,
			Rating: p.Rating, CategoryID: p.CategoryID, SellerID: p.SellerID, IsActive: p.IsActive,
		}
		if _, err := tx.NewInsert().Model(&pm).Exec(ctx); err != nil {
			return fmt.Errorf("failed to restore product %d: %w", p.ID, err)
		}
	}
	for _, r := range backup.Reviews {
		rm := ReviewModel{
			ID: r.ID, UserID: r.UserID, ProductID: r.ProductID,
			Comment: nullString(r.Comment), CommentDate: r.CommentDate,
			Grade: r.Grade, IsActive: r.IsActive,
		}
		if _, err := tx.NewInsert().Model(&rm).Exec(ctx); err != nil {
			return fmt.Errorf("failed to restore review %d: %w", r.ID, err)
		}
	}
	for _, a := range backup.AuditLogEntries {
		am := AuditLogModel{ID: a.ID, Timestamp: a.Timestamp, Username: a.Username, Action: a.Action, Details: a.Details}
		if _, err := tx.NewInsert().Model(&am).Exec(ctx); err != nil {
			return fmt.Errorf("failed to restore audit entry %d: %w", a.ID, err)
		}
	}

	// Explicit-ID inserts leave SERIAL sequences behind the restored rows on
	// Postgres; realign them so the next insert gets a fresh ID. SQLite and
	// MySQL track the max inserted ID on their own.
	if s.bun.Dialect().Name() == dialect.PG {
		for _, table := range backupTables {
			stmt := fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
				table, table)
			if _, err := ExecRaw(ctx, &tx, stmt); err != nil {
				return fmt.Errorf("failed to realign %s id sequence: %w", table, err)
			}
		}
	}

	return tx.Commit()
}
