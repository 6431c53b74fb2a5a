package migration

import (
	"errors"
	"time"

	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.0.0"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger) *MigrationManager {
	return &MigrationManager{
		db:     db,
		logger: logger,
	}
}

// MigrateAll performs all migrations
func (m *MigrationManager) MigrateAll() error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	if err := m.db.AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	currentVersion, err := m.currentVersion()
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	if err := m.db.AutoMigrate(&model.Transaction{}); err != nil {
		m.logger.Error("Failed to migrate transaction table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.recordVersion(CurrentSchemaVersion); err != nil {
		return err
	}

	m.logger.Info("Database migrations completed", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// currentVersion returns the most recently applied schema version, or an
// empty string for a fresh database
func (m *MigrationManager) currentVersion() (string, error) {
	var record model.MigrationVersion
	result := m.db.Order("applied_at DESC").First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return record.Version, nil
}

// recordVersion stores the applied schema version
func (m *MigrationManager) recordVersion(version string) error {
	record := model.MigrationVersion{
		Version:   version,
		AppliedAt: time.Now(),
		Details:   "payment transaction schema",
	}
	if result := m.db.Create(&record); result.Error != nil {
		m.logger.Error("Failed to record schema version", map[string]any{
			"version": version,
			"error":   result.Error.Error(),
		})
		return result.Error
	}
	return nil
}
