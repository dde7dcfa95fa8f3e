// Package repository implements data access layer for the application
package repository

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"skywatch.app/models"
)

// AgentRepository handles data access operations for agent records
type AgentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new repository for agent records
func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// FindByUserID retrieves the agent record for a user, or nil when absent
func (r *AgentRepository) FindByUserID(userID string) (*models.AgentRecord, error) {
	var record models.AgentRecord
	result := r.db.Where("user_id = ?", userID).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Database error when finding agent record", "error", result.Error, "user_id", userID)
		return nil, result.Error
	}
	return &record, nil
}

// Upsert creates or replaces the agent record for a user
func (r *AgentRepository) Upsert(record *models.AgentRecord) error {
	existing, err := r.FindByUserID(record.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.AgentID = record.AgentID
		existing.Backend = record.Backend
		return r.db.Save(existing).Error
	}
	return r.db.Create(record).Error
}

// Delete removes the agent record for a user
func (r *AgentRepository) Delete(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.AgentRecord{}).Error
}

// PreferenceRepository handles data access operations for user preferences
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new repository for user preferences
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// FindByUserID retrieves preferences for a user, or nil when absent
func (r *PreferenceRepository) FindByUserID(userID string) (*models.UserPreference, error) {
	var preference models.UserPreference
	result := r.db.Where("user_id = ?", userID).First(&preference)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Database error when finding preferences", "error", result.Error, "user_id", userID)
		return nil, result.Error
	}
	return &preference, nil
}

// Save persists preferences, creating the row on first write
func (r *PreferenceRepository) Save(preference *models.UserPreference) error {
	existing, err := r.FindByUserID(preference.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		preference.ID = existing.ID
		preference.CreatedAt = existing.CreatedAt
		return r.db.Save(preference).Error
	}
	return r.db.Create(preference).Error
}

// CredentialRepository handles data access operations for calendar credentials
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new repository for calendar credentials
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// FindByUserID retrieves the stored calendar credential for a user, or nil when absent
func (r *CredentialRepository) FindByUserID(userID string) (*models.CalendarCredential, error) {
	var credential models.CalendarCredential
	result := r.db.Where("user_id = ?", userID).First(&credential)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Database error when finding calendar credential", "error", result.Error, "user_id", userID)
		return nil, result.Error
	}
	return &credential, nil
}

// Save persists a calendar credential, overwriting any prior one for the user
func (r *CredentialRepository) Save(credential *models.CalendarCredential) error {
	existing, err := r.FindByUserID(credential.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		credential.ID = existing.ID
		credential.CreatedAt = existing.CreatedAt
		return r.db.Save(credential).Error
	}
	return r.db.Create(credential).Error
}

// Delete removes the stored credential for a user
func (r *CredentialRepository) Delete(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CalendarCredential{}).Error
}
