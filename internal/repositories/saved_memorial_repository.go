package repositories

import (
	"errors"

	"github.com/memoria-app/backend/internal/models"
	"gorm.io/gorm"
)

// SavedMemorialRepository defines the interface for memorial bookmarks
type SavedMemorialRepository interface {
	SaveMemorial(userID, memorialID uint) error
	UnsaveMemorial(userID, memorialID uint) error
	GetSavedMemorialIDs(userID uint) ([]uint, error)
	IsSaved(userID, memorialID uint) (bool, error)
}

// PostgresSavedMemorialRepository implements SavedMemorialRepository for PostgreSQL
type PostgresSavedMemorialRepository struct {
	db *gorm.DB
}

// NewPostgresSavedMemorialRepository creates a new PostgresSavedMemorialRepository
func NewPostgresSavedMemorialRepository(db *gorm.DB) *PostgresSavedMemorialRepository {
	return &PostgresSavedMemorialRepository{db: db}
}

// SaveMemorial bookmarks a memorial for a user. Saving one that is
// already saved is a no-op thanks to the unique index.
func (r *PostgresSavedMemorialRepository) SaveMemorial(userID, memorialID uint) error {
	saved := &models.SavedMemorial{UserID: userID, MemorialID: memorialID}
	if err := r.db.Create(saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// UnsaveMemorial removes a bookmark
func (r *PostgresSavedMemorialRepository) UnsaveMemorial(userID, memorialID uint) error {
	return r.db.Where("user_id = ? AND memorial_id = ?", userID, memorialID).Delete(&models.SavedMemorial{}).Error
}

// GetSavedMemorialIDs retrieves the ids of all memorials a user has saved
func (r *PostgresSavedMemorialRepository) GetSavedMemorialIDs(userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.Model(&models.SavedMemorial{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("memorial_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// IsSaved checks whether a user has saved a specific memorial
func (r *PostgresSavedMemorialRepository) IsSaved(userID, memorialID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.SavedMemorial{}).Where("user_id = ? AND memorial_id = ?", userID, memorialID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
