// Copyright (c) 2026 Shopcore Team
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"strings"

	"github.com/shopcore/shopcore/internal/model"
	"github.com/uptrace/bun"
)

// TokenizeSearchQuery splits a query into lower-cased tokens, trimming whitespace.
// Returns nil for empty input.
func TokenizeSearchQuery(q string) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	parts := strings.Fields(q)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SearchProducts returns active products whose name or description matches
// every token of the query (case-insensitive substring match).
func (s *BunStore) SearchProducts(query string) ([]model.Product, error) {
	tokens := TokenizeSearchQuery(query)
	if len(tokens) == 0 {
		return []model.Product{}, nil
	}

	ctx := context.Background()
	q := s.bun.NewSelect().Model((*ProductModel)(nil)).
		Where("is_active = ?", true)
	for _, tok := range tokens {
		pattern := "%" + tok + "%"
		q = q.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
			return g.Where("LOWER(name) LIKE ?", pattern).
				WhereOr("LOWER(description) LIKE ?", pattern)
		})
	}

	var rows []ProductModel
	if err := q.Order("name").Scan(ctx, &rows); err != nil {
		return nil, err
	}
	return productModelsToModels(rows), nil
}

// ProductSearcher defines a minimal interface for searching products.
// Consumers can depend on this instead of concrete Store implementations.
type ProductSearcher interface {
	SearchProducts(query string) ([]model.Product, error)
}
