package database

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"caribbeanhomehub/server/internal/models"
)

// FindOrCreateUser resolves a User by email, creating one with the given
// display name if none exists. Two concurrent submissions with the same new
// email race on the insert; the unique index on email decides the winner and
// the loser re-reads the winning row.
func (d *Database) FindOrCreateUser(email, name string) (models.User, error) {
	return findOrCreateUser(d.db, email, name)
}

func findOrCreateUser(tx *gorm.DB, email, name string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := tx.Where("email = ?", email).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	user = models.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
	}
	if err := tx.Create(&user).Error; err != nil {
		// Lost the insert race; the row exists now.
		var existing models.User
		if ferr := tx.Where("email = ?", email).First(&existing).Error; ferr == nil {
			return existing, nil
		}
		return models.User{}, err
	}

	return user, nil
}
