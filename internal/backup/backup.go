// Copyright (c) 2026 Shopcore Team
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup serializes BackupData to disk as YAML, gzip-compressed when
// the target path carries a .gz suffix.
package backup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"

	"github.com/shopcore/shopcore/internal/model"
)

// WriteFile writes a backup archive to path. Permissions are restrictive
// because the dump contains password hashes.
func WriteFile(path string, data *model.BackupData) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if strings.HasSuffix(path, ".gz") {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
		defer func() { _ = f.Close() }()

		zw := gzip.NewWriter(f)
		if _, err := zw.Write(raw); err != nil {
			_ = zw.Close()
			return fmt.Errorf("failed to write backup file: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to finish backup file: %w", err)
		}
		return f.Close()
	}

	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ReadFile loads a backup archive written by WriteFile.
func ReadFile(path string) (*model.BackupData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read backup file: %w", err)
		}
		defer func() { _ = zr.Close() }()
		r = zr
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	var data model.BackupData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	return &data, nil
}
