package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/ndewijer/portfolio-tracker/internal/database"
	"github.com/ndewijer/portfolio-tracker/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// VersionInfo reports the running application and schema versions.
type VersionInfo struct {
	AppVersion string `json:"appVersion"`
	DBVersion  int64  `json:"dbVersion"`
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// GetVersionInfo returns the application version and the last applied migration.
func (s *SystemService) GetVersionInfo(ctx context.Context) (VersionInfo, error) {
	dbVersion, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	return VersionInfo{
		AppVersion: version.Version,
		DBVersion:  dbVersion,
	}, nil
}
