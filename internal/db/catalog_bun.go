// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Category and product operations of the Bun store.
package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopcore/shopcore/internal/model"
)

// --- Category methods ---

// GetAllActiveCategories returns every active category ordered by name.
func (s *BunStore) GetAllActiveCategories() ([]model.Category, error) {
	ctx := context.Background()
	var rows []CategoryModel
	err := s.bun.NewSelect().Model(&rows).
		Where("is_active = ?", true).
		Order("name").Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, categoryModelToModel(r))
	}
	return out, nil
}

// GetActiveCategory returns an active category by ID, or ErrNotFound.
func (s *BunStore) GetActiveCategory(id int) (*model.Category, error) {
	ctx := context.Background()
	var cm CategoryModel
	err := s.bun.NewSelect().Model(&cm).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c := categoryModelToModel(cm)
	return &c, nil
}

// CreateCategory inserts a new active category.
func (s *BunStore) CreateCategory(name string, parentID *int) (*model.Category, error) {
	ctx := context.Background()
	cm := CategoryModel{
		Name:     name,
		ParentID: nullIntFromPtr(parentID),
		IsActive: true,
	}
	if _, err := s.bun.NewInsert().Model(&cm).Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}
	c := categoryModelToModel(cm)
	return &c, nil
}

// UpdateCategory rewrites name and parent of an active category.
func (s *BunStore) UpdateCategory(id int, name string, parentID *int) (*model.Category, error) {
	ctx := context.Background()
	res, err := s.bun.NewUpdate().Model((*CategoryModel)(nil)).
		Set("name = ?", name).
		Set("parent_id = ?", nullIntFromPtr(parentID)).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Exec(ctx)
	if err != nil {
		return nil, MapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetActiveCategory(id)
}

// DeactivateCategory performs a logical delete and returns the final state.
func (s *BunStore) DeactivateCategory(id int) (*model.Category, error) {
	cat, err := s.GetActiveCategory(id)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	_, err = s.bun.NewUpdate().Model((*CategoryModel)(nil)).
		Set("is_active = ?", false).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	cat.IsActive = false
	return cat, nil
}

// --- Product methods ---

// GetAllActiveProducts returns every active product ordered by name.
func (s *BunStore) GetAllActiveProducts() ([]model.Product, error) {
	return s.selectProducts("is_active = ?", true)
}

// GetActiveProductsByCategory returns active products belonging to a category.
func (s *BunStore) GetActiveProductsByCategory(categoryID int) ([]model.Product, error) {
	ctx := context.Background()
	var rows []ProductModel
	err := s.bun.NewSelect().Model(&rows).
		Where("category_id = ?", categoryID).
		Where("is_active = ?", true).
		Order("name").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return productModelsToModels(rows), nil
}

// GetActiveProduct returns an active product by ID, or ErrNotFound.
func (s *BunStore) GetActiveProduct(id int) (*model.Product, error) {
	ctx := context.Background()
	var pm ProductModel
	err := s.bun.NewSelect().Model(&pm).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p := productModelToModel(pm)
	return &p, nil
}

// CreateProduct inserts a new active product for the given seller/category.
func (s *BunStore) CreateProduct(p model.Product) (*model.Product, error) {
	ctx := context.Background()
	pm := ProductModel{
		Name:        p.Name,
		Description: nullString(p.Description),
		Price:       p.Price,
		ImageURL:    nullString(p.ImageURL),
		Stock:       p.Stock,
		Rating:      0,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		IsActive:    true,
	}
	if _, err := s.bun.NewInsert().Model(&pm).Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := productModelToModel(pm)
	return &out, nil
}

// UpdateProduct rewrites the mutable fields of an active product.
// Seller and rating are never changed here.
func (s *BunStore) UpdateProduct(id int, p model.Product) (*model.Product, error) {
	ctx := context.Background()
	res, err := s.bun.NewUpdate().Model((*ProductModel)(nil)).
		Set("name = ?", p.Name).
		Set("description = ?", nullString(p.Description)).
		Set("price = ?", p.Price).
		Set("image_url = ?", nullString(p.ImageURL)).
		Set("stock = ?", p.Stock).
		Set("category_id = ?", p.CategoryID).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Exec(ctx)
	if err != nil {
		return nil, MapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetActiveProduct(id)
}

// DeactivateProduct performs a logical delete and returns the final state.
func (s *BunStore) DeactivateProduct(id int) (*model.Product, error) {
	prod, err := s.GetActiveProduct(id)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	_, err = s.bun.NewUpdate().Model((*ProductModel)(nil)).
		Set("is_active = ?", false).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	prod.IsActive = false
	return prod, nil
}

// RecalculateProductRating recomputes rating as the average grade over active
// reviews (0 when none) and persists it. Returns the new rating.
func (s *BunStore) RecalculateProductRating(productID int) (float64, error) {
	ctx := context.Background()
	var avg sql.NullFloat64
	err := QueryRawInto(ctx, s.bun, &avg,
		"SELECT AVG(grade) FROM reviews WHERE product_id = ? AND is_active = ?", productID, true)
	if err != nil {
		return 0, err
	}
	rating := 0.0
	if avg.Valid {
		rating = avg.Float64
	}
	_, err = s.bun.NewUpdate().Model((*ProductModel)(nil)).
		Set("rating = ?", rating).
		Where("id = ?", productID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return rating, nil
}

func (s *BunStore) selectProducts(cond string, arg any) ([]model.Product, error) {
	ctx := context.Background()
	var rows []ProductModel
	err := s.bun.NewSelect().Model(&rows).Where(cond, arg).Order("name").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return productModelsToModels(rows), nil
}

func productModelsToModels(rows []ProductModel) []model.Product {
	out := make([]model.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, productModelToModel(r))
	}
	return out
}
