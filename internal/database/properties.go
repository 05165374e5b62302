package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"caribbeanhomehub/server/internal/models"
)

// CreateListing persists a new draft listing and its owner in a single
// transaction. The owner is resolved by email (find-or-create) and the
// listing always starts in the PENDING/PENDING state regardless of what the
// caller filled in. Nothing is written if any step fails.
func (d *Database) CreateListing(property *models.Property, ownerEmail, ownerName string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		owner, err := findOrCreateUser(tx, ownerEmail, ownerName)
		if err != nil {
			return fmt.Errorf("failed to resolve listing owner: %w", err)
		}

		property.ID = uuid.NewString()
		property.UserID = owner.ID
		property.PaymentStatus = models.PaymentPending
		property.ApprovalStatus = models.ApprovalPending

		if err := tx.Create(property).Error; err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}
		return nil
	})
}

// GetProperty fetches a single listing by id.
func (d *Database) GetProperty(id string) (models.Property, error) {
	var property models.Property
	err := d.db.Where("id = ?", id).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Property{}, ErrNotFound
	}
	if err != nil {
		return models.Property{}, err
	}
	return property, nil
}

// GetAllProperties returns listings newest-first. Public callers only see
// approved listings with a collected fee; admin callers see everything.
func (d *Database) GetAllProperties(includeUnpublished bool) ([]models.Property, error) {
	query := d.db.Order("created_at DESC")
	if !includeUnpublished {
		query = query.Where("approval_status = ? AND payment_status = ?",
			models.ApprovalApproved, models.PaymentCompleted)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// SetApprovalStatus records the admin decision for a listing.
func (d *Database) SetApprovalStatus(id, status string) (models.Property, error) {
	property, err := d.GetProperty(id)
	if err != nil {
		return models.Property{}, err
	}

	if err := d.db.Model(&property).Update("approval_status", status).Error; err != nil {
		return models.Property{}, err
	}
	property.ApprovalStatus = status
	return property, nil
}
