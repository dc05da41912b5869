// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/shopcore/shopcore/internal/model"
)

// newTestStore returns a Store backed by an in-memory SQLite database with all
// migrations applied.
func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return s
}

func TestMigrationsRecorded(t *testing.T) {
	s := newTestStore(t)

	var versions []string
	if err := QueryRawInto(context.Background(), s.BunDB(), &versions, "SELECT version FROM schema_migrations ORDER BY version"); err != nil {
		t.Fatalf("failed to read schema_migrations: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected 2 applied migrations, got %d (%v)", len(versions), versions)
	}
	if versions[0] != "000001_create_initial_tables" {
		t.Errorf("unexpected first migration: %s", versions[0])
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	s := newTestStore(t)

	// Running migrations a second time on the same connection must be a no-op.
	if err := RunMigrations(s.BunDB().DB, "sqlite"); err != nil {
		t.Fatalf("re-running migrations failed: %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	s := newTestStore(t)

	u, err := s.CreateUser("alice@example.com", "hashed", model.RoleBuyer)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected a generated ID")
	}
	if !u.IsActive {
		t.Error("new users must be active")
	}

	// Same email again must map to ErrDuplicate.
	if _, err := s.CreateUser("alice@example.com", "other", model.RoleSeller); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetUserByEmail("nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created, err := s.CreateUser("bob@example.com", "hashed", model.RoleSeller)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := s.GetUserByEmail("bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != created.ID || got.Role != model.RoleSeller {
		t.Errorf("unexpected user: %+v", got)
	}

	byID, err := s.GetUserByID(created.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != "bob@example.com" {
		t.Errorf("unexpected email: %s", byID.Email)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestStore(t)

	root, err := s.CreateCategory("Electronics", nil)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	child, err := s.CreateCategory("Laptops", &root.ID)
	if err != nil {
		t.Fatalf("CreateCategory with parent failed: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != root.ID {
		t.Fatalf("expected parent %d, got %v", root.ID, child.ParentID)
	}

	cats, err := s.GetAllActiveCategories()
	if err != nil {
		t.Fatalf("GetAllActiveCategories failed: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}

	renamed, err := s.UpdateCategory(child.ID, "Notebooks", &root.ID)
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if renamed.Name != "Notebooks" {
		t.Errorf("rename did not stick: %s", renamed.Name)
	}

	if _, err := s.DeactivateCategory(child.ID); err != nil {
		t.Fatalf("DeactivateCategory failed: %v", err)
	}
	if _, err := s.GetActiveCategory(child.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deactivated category must be invisible, got %v", err)
	}
	cats, err = s.GetAllActiveCategories()
	if err != nil {
		t.Fatalf("GetAllActiveCategories failed: %v", err)
	}
	if len(cats) != 1 {
		t.Fatalf("expected 1 active category, got %d", len(cats))
	}

	if _, err := s.UpdateCategory(9999, "x", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

// seedCatalog creates a seller, a category and a product and returns them.
func seedCatalog(t *testing.T, s Store) (*model.User, *model.Category, *model.Product) {
	t.Helper()
	seller, err := s.CreateUser("seller@example.com", "hashed", model.RoleSeller)
	if err != nil {
		t.Fatalf("seed seller failed: %v", err)
	}
	cat, err := s.CreateCategory("Books", nil)
	if err != nil {
		t.Fatalf("seed category failed: %v", err)
	}
	p, err := s.CreateProduct(model.Product{
		Name:        "Go in Practice",
		Description: "Hands-on recipes",
		Price:       39.90,
		ImageURL:    "https://img.example.com/gip.png",
		Stock:       12,
		CategoryID:  cat.ID,
		SellerID:    seller.ID,
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return seller, cat, p
}

func TestProductLifecycle(t *testing.T) {
	s := newTestStore(t)
	_, cat, p := seedCatalog(t, s)

	if p.Rating != 0 {
		t.Errorf("new product must start with rating 0, got %v", p.Rating)
	}

	byCat, err := s.GetActiveProductsByCategory(cat.ID)
	if err != nil {
		t.Fatalf("GetActiveProductsByCategory failed: %v", err)
	}
	if len(byCat) != 1 || byCat[0].ID != p.ID {
		t.Fatalf("unexpected category listing: %+v", byCat)
	}

	updated, err := s.UpdateProduct(p.ID, model.Product{
		Name:        "Go in Practice, 2nd ed.",
		Description: p.Description,
		Price:       44.50,
		ImageURL:    p.ImageURL,
		Stock:       5,
		CategoryID:  cat.ID,
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Price != 44.50 || updated.Stock != 5 {
		t.Errorf("update did not stick: %+v", updated)
	}
	if updated.SellerID != p.SellerID {
		t.Errorf("update must not change the owner: %d != %d", updated.SellerID, p.SellerID)
	}

	if _, err := s.DeactivateProduct(p.ID); err != nil {
		t.Fatalf("DeactivateProduct failed: %v", err)
	}
	if _, err := s.GetActiveProduct(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deactivated product must be invisible, got %v", err)
	}
	all, err := s.GetAllActiveProducts()
	if err != nil {
		t.Fatalf("GetAllActiveProducts failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty listing, got %d products", len(all))
	}
}

func TestReviewLifecycleAndRating(t *testing.T) {
	s := newTestStore(t)
	_, _, p := seedCatalog(t, s)

	buyer, err := s.CreateUser("buyer@example.com", "hashed", model.RoleBuyer)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	buyer2, err := s.CreateUser("buyer2@example.com", "hashed", model.RoleBuyer)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	r1, err := s.CreateReview(model.Review{UserID: buyer.ID, ProductID: p.ID, Comment: "great", Grade: 5})
	if err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}
	if _, err := s.CreateReview(model.Review{UserID: buyer2.ID, ProductID: p.ID, Comment: "okay", Grade: 2}); err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}

	rating, err := s.RecalculateProductRating(p.ID)
	if err != nil {
		t.Fatalf("RecalculateProductRating failed: %v", err)
	}
	if rating != 3.5 {
		t.Errorf("expected rating 3.5, got %v", rating)
	}
	got, err := s.GetActiveProduct(p.ID)
	if err != nil {
		t.Fatalf("GetActiveProduct failed: %v", err)
	}
	if got.Rating != 3.5 {
		t.Errorf("rating not persisted: %v", got.Rating)
	}

	// Existing active review is discoverable by (user, product).
	dup, err := s.GetActiveReviewByUserAndProduct(buyer.ID, p.ID)
	if err != nil {
		t.Fatalf("GetActiveReviewByUserAndProduct failed: %v", err)
	}
	if dup.ID != r1.ID {
		t.Errorf("unexpected review %d, want %d", dup.ID, r1.ID)
	}

	updated, err := s.UpdateReview(r1.ID, "still great", 4)
	if err != nil {
		t.Fatalf("UpdateReview failed: %v", err)
	}
	if updated.Grade != 4 || updated.Comment != "still great" {
		t.Errorf("update did not stick: %+v", updated)
	}

	if _, err := s.DeactivateReview(r1.ID); err != nil {
		t.Fatalf("DeactivateReview failed: %v", err)
	}
	if _, err := s.GetActiveReviewByUserAndProduct(buyer.ID, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deactivated review must be invisible, got %v", err)
	}

	rating, err = s.RecalculateProductRating(p.ID)
	if err != nil {
		t.Fatalf("RecalculateProductRating failed: %v", err)
	}
	if rating != 2 {
		t.Errorf("expected rating 2 after removing the 4, got %v", rating)
	}
}

func TestRatingZeroWithoutReviews(t *testing.T) {
	s := newTestStore(t)
	_, _, p := seedCatalog(t, s)

	rating, err := s.RecalculateProductRating(p.ID)
	if err != nil {
		t.Fatalf("RecalculateProductRating failed: %v", err)
	}
	if rating != 0 {
		t.Errorf("expected 0 for a product without reviews, got %v", rating)
	}
}

func TestAuditLog(t *testing.T) {
	s := newTestStore(t)

	if err := s.LogAction("alice@example.com", "CREATE_PRODUCT", "id=1"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}
	if err := s.LogAction("bob@example.com", "DELETE_PRODUCT", "id=1"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	entries, err := s.GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Most recent first.
	if entries[0].Username != "bob@example.com" || entries[0].Action != "DELETE_PRODUCT" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].Timestamp == "" {
		t.Error("timestamp must be set")
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}
