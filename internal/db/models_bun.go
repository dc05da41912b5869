// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"time"

	"github.com/shopcore/shopcore/internal/model"
	"github.com/uptrace/bun"
)

// timeNow allows tests to pin the clock.
var timeNow = time.Now

// UserModel maps the `users` table for Bun queries.
type UserModel struct {
	bun.BaseModel  `bun:"table:users"`
	ID             int    `bun:"id,pk,autoincrement"`
	Email          string `bun:"email"`
	HashedPassword string `bun:"hashed_password"`
	IsActive       bool   `bun:"is_active"`
	Role           string `bun:"role"`
}

// CategoryModel maps the `categories` table.
type CategoryModel struct {
	bun.BaseModel `bun:"table:categories"`
	ID            int           `bun:"id,pk,autoincrement"`
	Name          string        `bun:"name"`
	ParentID      sql.NullInt64 `bun:"parent_id"`
	IsActive      bool          `bun:"is_active"`
}

// ProductModel maps the `products` table.
type ProductModel struct {
	bun.BaseModel `bun:"table:products"`
	ID            int            `bun:"id,pk,autoincrement"`
	Name          string         `bun:"name"`
	Description   sql.NullString `bun:"description"`
	Price         float64        `bun:"price"`
	ImageURL      sql.NullString `bun:"image_url"`
	Stock         int            `bun:"stock"`
	Rating        float64        `bun:"rating"`
	CategoryID    int            `bun:"category_id"`
	SellerID      int            `bun:"seller_id"`
	IsActive      bool           `bun:"is_active"`
}

// ReviewModel maps the `reviews` table.
type ReviewModel struct {
	bun.BaseModel `bun:"table:reviews"`
	ID            int            `bun:"id,pk,autoincrement"`
	UserID        int            `bun:"user_id"`
	ProductID     int            `bun:"product_id"`
	Comment       sql.NullString `bun:"comment"`
	CommentDate   time.Time      `bun:"comment_date"`
	Grade         int            `bun:"grade"`
	IsActive      bool           `bun:"is_active"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// --- Mapping helpers (centralized conversions) ---

func userModelToModel(u UserModel) model.User {
	return model.User{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		IsActive:       u.IsActive,
		Role:           u.Role,
	}
}

func categoryModelToModel(c CategoryModel) model.Category {
	cat := model.Category{
		ID:       c.ID,
		Name:     c.Name,
		IsActive: c.IsActive,
	}
	if c.ParentID.Valid {
		pid := int(c.ParentID.Int64)
		cat.ParentID = &pid
	}
	return cat
}

func productModelToModel(p ProductModel) model.Product {
	prod := model.Product{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		Rating:     p.Rating,
		CategoryID: p.CategoryID,
		SellerID:   p.SellerID,
		IsActive:   p.IsActive,
	}
	if p.Description.Valid {
		prod.Description = p.Description.String
	}
	if p.ImageURL.Valid {
		prod.ImageURL = p.ImageURL.String
	}
	return prod
}

func reviewModelToModel(r ReviewModel) model.Review {
	rev := model.Review{
		ID:          r.ID,
		UserID:      r.UserID,
		ProductID:   r.ProductID,
		CommentDate: r.CommentDate,
		Grade:       r.Grade,
		IsActive:    r.IsActive,
	}
	if r.Comment.Valid {
		rev.Comment = r.Comment.String
	}
	return rev
}

func auditLogModelToModel(a AuditLogModel) model.AuditLogEntry {
	return model.AuditLogEntry{
		ID:        a.ID,
		Timestamp: a.Timestamp,
		Username:  a.Username,
		Action:    a.Action,
		Details:   a.Details,
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullIntFromPtr(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
