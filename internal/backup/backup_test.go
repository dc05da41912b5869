// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopcore/shopcore/internal/model"
)

func sampleData() *model.BackupData {
	parent := 1
	return &model.BackupData{
		SchemaVersion: 2,
		Users: []model.User{
			{ID: 1, Email: "alice@example.com", HashedPassword: "$2a$10$abc", IsActive: true, Role: model.RoleAdmin},
		},
		Categories: []model.Category{
			{ID: 1, Name: "Electronics", IsActive: true},
			{ID: 2, Name: "Laptops", ParentID: &parent, IsActive: true},
		},
		Products: []model.Product{
			{ID: 1, Name: "Gaming Laptop", Price: 1299.99, Stock: 3, Rating: 4.5, CategoryID: 2, SellerID: 1, IsActive: true},
		},
	}
}

func TestRoundTripPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.yaml")

	if err := WriteFile(path, sampleData()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got.SchemaVersion != 2 {
		t.Errorf("schema version = %d, want 2", got.SchemaVersion)
	}
	if len(got.Users) != 1 || got.Users[0].HashedPassword != "$2a$10$abc" {
		t.Errorf("users did not round-trip: %+v", got.Users)
	}
	if len(got.Categories) != 2 || got.Categories[1].ParentID == nil || *got.Categories[1].ParentID != 1 {
		t.Errorf("categories did not round-trip: %+v", got.Categories)
	}
	if len(got.Products) != 1 || got.Products[0].Price != 1299.99 {
		t.Errorf("products did not round-trip: %+v", got.Products)
	}
}

func TestRoundTripGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.yaml.gz")

	if err := WriteFile(path, sampleData()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading backup file failed: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte{0x1f, 0x8b}) {
		t.Fatal("expected gzip magic bytes for a .gz backup")
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(got.Products) != 1 || got.Products[0].Name != "Gaming Laptop" {
		t.Errorf("products did not round-trip: %+v", got.Products)
	}
}

func TestFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.yaml")
	if err := WriteFile(path, sampleData()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("backup file permissions = %o, want 600", perm)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
