package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"caribbeanhomehub/server/internal/models"
)

// RecordPayment writes the PaymentRecord for a successful charge and flips
// the listing's payment status to COMPLETED, all in one transaction.
//
// clientToken is the caller's idempotency key. Replaying a token against the
// same listing returns the original record without writing a second row;
// the unique index on (property_id, client_token) backs this even under
// concurrent retries. Callers that send no token get a server-generated one,
// so independent purchases are never collapsed.
//
// The listing's approval status is deliberately untouched: publication
// additionally requires an admin decision.
func (d *Database) RecordPayment(record *models.PaymentRecord, clientToken string) (replayed bool, err error) {
	if clientToken == "" {
		clientToken = uuid.NewString()
	}

	err = d.db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		ferr := tx.Where("id = ?", record.PropertyID).First(&property).Error
		if errors.Is(ferr, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if ferr != nil {
			return ferr
		}

		var existing models.PaymentRecord
		ferr = tx.Where("property_id = ? AND client_token = ?", record.PropertyID, clientToken).
			First(&existing).Error
		if ferr == nil {
			*record = existing
			replayed = true
			return nil
		}
		if !errors.Is(ferr, gorm.ErrRecordNotFound) {
			return ferr
		}

		now := time.Now().UTC()
		record.ID = uuid.NewString()
		record.ClientToken = clientToken
		record.Status = models.PaymentCompleted
		record.PaidAt = &now

		if cerr := tx.Create(record).Error; cerr != nil {
			return fmt.Errorf("failed to record payment: %w", cerr)
		}

		if uerr := tx.Model(&models.Property{}).
			Where("id = ?", record.PropertyID).
			Update("payment_status", models.PaymentCompleted).Error; uerr != nil {
			return fmt.Errorf("failed to mark listing as paid: %w", uerr)
		}
		return nil
	})

	return replayed, err
}

// FindPaymentByToken looks up a prior payment by its idempotency token so
// a retried request can be answered without charging the processor again.
func (d *Database) FindPaymentByToken(propertyID, clientToken string) (models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := d.db.Where("property_id = ? AND client_token = ?", propertyID, clientToken).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PaymentRecord{}, ErrNotFound
	}
	if err != nil {
		return models.PaymentRecord{}, err
	}
	return record, nil
}

// GetPaymentsForProperty returns all payment records for a listing,
// newest-first.
func (d *Database) GetPaymentsForProperty(propertyID string) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := d.db.Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountPayments reports the total number of payment records, used by the
// admin dashboard summary.
func (d *Database) CountPayments() (int64, error) {
	var count int64
	err := d.db.Model(&models.PaymentRecord{}).Count(&count).Error
	return count, err
}
