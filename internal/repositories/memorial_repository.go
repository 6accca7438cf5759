package repositories

import (
	"github.com/memoria-app/backend/internal/models"
	"gorm.io/gorm"
)

// MemorialRepository defines the interface for memorial data operations
type MemorialRepository interface {
	CreateMemorial(memorial *models.Memorial) error
	GetMemorialByID(id uint) (*models.Memorial, error)
	GetMemorialByInviteToken(token string) (*models.Memorial, error)
	GetMemorialsByOwnerID(ownerID uint) ([]models.Memorial, error)
	UpdateMemorial(memorial *models.Memorial) error
	DeleteMemorial(id uint) error
}

// PostgresMemorialRepository implements MemorialRepository for PostgreSQL
type PostgresMemorialRepository struct {
	db *gorm.DB
}

// NewPostgresMemorialRepository creates a new PostgresMemorialRepository
func NewPostgresMemorialRepository(db *gorm.DB) *PostgresMemorialRepository {
	return &PostgresMemorialRepository{db: db}
}

// CreateMemorial creates a new memorial in PostgreSQL
func (r *PostgresMemorialRepository) CreateMemorial(memorial *models.Memorial) error {
	return r.db.Create(memorial).Error
}

// GetMemorialByID retrieves a memorial by ID from PostgreSQL
func (r *PostgresMemorialRepository) GetMemorialByID(id uint) (*models.Memorial, error) {
	var memorial models.Memorial
	if err := r.db.First(&memorial, id).Error; err != nil {
		return nil, err
	}
	return &memorial, nil
}

// GetMemorialByInviteToken retrieves a memorial by its invite-link token
func (r *PostgresMemorialRepository) GetMemorialByInviteToken(token string) (*models.Memorial, error) {
	var memorial models.Memorial
	if err := r.db.Where("invite_token = ?", token).First(&memorial).Error; err != nil {
		return nil, err
	}
	return &memorial, nil
}

// GetMemorialsByOwnerID retrieves all memorials created by a user
func (r *PostgresMemorialRepository) GetMemorialsByOwnerID(ownerID uint) ([]models.Memorial, error) {
	var memorials []models.Memorial
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&memorials).Error; err != nil {
		return nil, err
	}
	return memorials, nil
}

// UpdateMemorial updates an existing memorial in PostgreSQL
func (r *PostgresMemorialRepository) UpdateMemorial(memorial *models.Memorial) error {
	return r.db.Save(memorial).Error
}

// DeleteMemorial deletes a memorial and cascades its reactions,
// memberships, saved entries and notifications in one transaction.
func (r *PostgresMemorialRepository) DeleteMemorial(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("memorial_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("memorial_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("memorial_id = ?", id).Delete(&models.SavedMemorial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("memorial_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Memorial{}, id).Error
	})
}
