// Copyright (c) 2025 Shopcore Authors
// Shopcore - e-commerce storefront API
// This source code is licensed under the MIT license found in the LICENSE file.
package model

// BackupData is a container for all data to be exported for a backup.
// It holds slices of all the core models in Shopcore.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version" yaml:"schema_version"`

	// Data from each table.
	Users           []User          `json:"users" yaml:"users"`
	Categories      []Category      `json:"categories" yaml:"categories"`
	Products        []Product       `json:"products" yaml:"products"`
	Reviews         []Review        `json:"reviews" yaml:"reviews"`
	AuditLogEntries []AuditLogEntry `json:"audit_log_entries" yaml:"audit_log_entries"`
}
