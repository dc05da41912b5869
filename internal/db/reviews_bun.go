// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Review operations of the Bun store.
package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopcore/shopcore/internal/model"
)

// GetAllActiveReviews returns every active review, newest first.
func (s *BunStore) GetAllActiveReviews() ([]model.Review, error) {
	ctx := context.Background()
	var rows []ReviewModel
	err := s.bun.NewSelect().Model(&rows).
		Where("is_active = ?", true).
		Order("id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return reviewModelsToModels(rows), nil
}

// GetActiveReviewsByProduct returns the active reviews of one product.
func (s *BunStore) GetActiveReviewsByProduct(productID int) ([]model.Review, error) {
	ctx := context.Background()
	var rows []ReviewModel
	err := s.bun.NewSelect().Model(&rows).
		Where("product_id = ?", productID).
		Where("is_active = ?", true).
		Order("id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return reviewModelsToModels(rows), nil
}

// GetActiveReview returns an active review by ID, or ErrNotFound.
func (s *BunStore) GetActiveReview(id int) (*model.Review, error) {
	ctx := context.Background()
	var rm ReviewModel
	err := s.bun.NewSelect().Model(&rm).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	r := reviewModelToModel(rm)
	return &r, nil
}

// GetActiveReviewByUserAndProduct returns the buyer's active review for a
// product, or ErrNotFound when none exists. Used to enforce the one-active-
// review-per-buyer-per-product rule.
func (s *BunStore) GetActiveReviewByUserAndProduct(userID, productID int) (*model.Review, error) {
	ctx := context.Background()
	var rm ReviewModel
	err := s.bun.NewSelect().Model(&rm).
		Where("user_id = ?", userID).
		Where("product_id = ?", productID).
		Where("is_active = ?", true).
		Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	r := reviewModelToModel(rm)
	return &r, nil
}

// CreateReview inserts a new active review stamped with the current time.
func (s *BunStore) CreateReview(r model.Review) (*model.Review, error) {
	ctx := context.Background()
	rm := ReviewModel{
		UserID:      r.UserID,
		ProductID:   r.ProductID,
		Comment:     nullString(r.Comment),
		CommentDate: timeNow().UTC(),
		Grade:       r.Grade,
		IsActive:    true,
	}
	if _, err := s.bun.NewInsert().Model(&rm).Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := reviewModelToModel(rm)
	return &out, nil
}

// UpdateReview rewrites comment and grade of an active review.
func (s *BunStore) UpdateReview(id int, comment string, grade int) (*model.Review, error) {
	ctx := context.Background()
	res, err := s.bun.NewUpdate().Model((*ReviewModel)(nil)).
		Set("comment = ?", nullString(comment)).
		Set("grade = ?", grade).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Exec(ctx)
	if err != nil {
		return nil, MapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetActiveReview(id)
}

// DeactivateReview performs a logical delete and returns the final state.
func (s *BunStore) DeactivateReview(id int) (*model.Review, error) {
	rev, err := s.GetActiveReview(id)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	_, err = s.bun.NewUpdate().Model((*ReviewModel)(nil)).
		Set("is_active = ?", false).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	rev.IsActive = false
	return rev, nil
}

func reviewModelsToModels(rows []ReviewModel) []model.Review {
	out := make([]model.Review, 0, len(rows))
	for _, r := range rows {
		out = append(out, reviewModelToModel(r))
	}
	return out
}
