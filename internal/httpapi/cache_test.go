// Copyright (c) 2026 Shopcore Team
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

package httpapi

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/shopcore/shopcore/internal/auth"
	"github.com/shopcore/shopcore/internal/cache"
	"github.com/shopcore/shopcore/internal/db"
	"github.com/shopcore/shopcore/internal/model"
)

// newCachedTestEnv wires a server with a Redis-backed catalog cache.
func newCachedTestEnv(t *testing.T) (*testEnv, *miniredis.Miniredis) {
	t.Helper()
	store, err := db.NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	tokens, err := auth.NewManager("test-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	mr := miniredis.RunT(t)
	catalog := cache.NewCatalog(mr.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { _ = catalog.Close() })
	return &testEnv{
		t:      t,
		server: NewServer(store, tokens, catalog, 0),
		store:  store,
		tokens: tokens,
	}, mr
}

func TestProductListingIsCached(t *testing.T) {
	e, mr := newCachedTestEnv(t)
	_, seller := e.newUser("seller@example.com", "s3cret-pass", model.RoleSeller)
	cat := e.seedCategory("Electronics")

	rec := e.request(http.MethodPost, "/products", seller, productBody(cat.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", rec.Code)
	}
	p := decodeJSON[model.Product](t, rec)

	// First listing populates the cache.
	rec = e.request(http.MethodGet, "/products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	if !mr.Exists("catalog:products") {
		t.Fatal("expected the listing to be cached")
	}

	// Cached entries are served even when the row changes underneath.
	if _, err := e.store.DeactivateProduct(p.ID); err != nil {
		t.Fatalf("DeactivateProduct failed: %v", err)
	}
	rec = e.request(http.MethodGet, "/products", "", nil)
	if got := decodeJSON[[]model.Product](t, rec); len(got) != 1 {
		t.Fatalf("expected the stale cached listing, got %d products", len(got))
	}
}

func TestProductMutationInvalidatesCache(t *testing.T) {
	e, mr := newCachedTestEnv(t)
	_, seller := e.newUser("seller@example.com", "s3cret-pass", model.RoleSeller)
	cat := e.seedCategory("Electronics")

	rec := e.request(http.MethodPost, "/products", seller, productBody(cat.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", rec.Code)
	}
	p := decodeJSON[model.Product](t, rec)

	e.request(http.MethodGet, "/products", "", nil)
	if !mr.Exists("catalog:products") {
		t.Fatal("expected the listing to be cached")
	}

	rec = e.request(http.MethodDelete, fmt.Sprintf("/products/%d", p.ID), seller, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	if mr.Exists("catalog:products") {
		t.Fatal("expected the cache to be invalidated after a mutation")
	}

	rec = e.request(http.MethodGet, "/products", "", nil)
	if got := decodeJSON[[]model.Product](t, rec); len(got) != 0 {
		t.Fatalf("expected an empty listing after delete, got %d products", len(got))
	}
}
