// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/shopcore/shopcore/internal/model"
	"github.com/uptrace/bun"
)

// Store defines the interface for all database operations in Shopcore.
// This allows for multiple database backends to be implemented.
//
// Reads only ever surface active rows; deletes are logical (is_active=false)
// so historical data stays queryable for audits and backups.
type Store interface {
	// User methods
	CreateUser(email, hashedPassword, role string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetActiveUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)

	// Category methods
	GetAllActiveCategories() ([]model.Category, error)
	GetActiveCategory(id int) (*model.Category, error)
	CreateCategory(name string, parentID *int) (*model.Category, error)
	UpdateCategory(id int, name string, parentID *int) (*model.Category, error)
	DeactivateCategory(id int) (*model.Category, error)

	// Product methods
	GetAllActiveProducts() ([]model.Product, error)
	GetActiveProductsByCategory(categoryID int) ([]model.Product, error)
	GetActiveProduct(id int) (*model.Product, error)
	CreateProduct(p model.Product) (*model.Product, error)
	UpdateProduct(id int, p model.Product) (*model.Product, error)
	DeactivateProduct(id int) (*model.Product, error)
	RecalculateProductRating(productID int) (float64, error)
	SearchProducts(query string) ([]model.Product, error)

	// Review methods
	GetAllActiveReviews() ([]model.Review, error)
	GetActiveReviewsByProduct(productID int) ([]model.Review, error)
	GetActiveReview(id int) (*model.Review, error)
	GetActiveReviewByUserAndProduct(userID, productID int) (*model.Review, error)
	CreateReview(r model.Review) (*model.Review, error)
	UpdateReview(id int, comment string, grade int) (*model.Review, error)
	DeactivateReview(id int) (*model.Review, error)

	// Audit Log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	LogAction(username, action, details string) error

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error

	// Ping verifies the underlying connection is alive.
	Ping(ctx context.Context) error

	// BunDB exposes the underlying Bun handle for searchers and tests.
	BunDB() *bun.DB
}
