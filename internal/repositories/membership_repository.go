package repositories

import (
	"errors"

	"github.com/memoria-app/backend/internal/models"
	"gorm.io/gorm"
)

// MembershipRepository defines the interface for membership data operations
type MembershipRepository interface {
	CreateMembership(membership *models.Membership) error
	GetMembership(memorialID, userID uint) (*models.Membership, error)
	GetMembershipsByMemorialID(memorialID uint) ([]models.Membership, error)
	UpdateMembershipRole(memorialID, userID uint, role string) error
	DeleteMembership(memorialID, userID uint) error
}

// PostgresMembershipRepository implements MembershipRepository for PostgreSQL
type PostgresMembershipRepository struct {
	db *gorm.DB
}

// NewPostgresMembershipRepository creates a new PostgresMembershipRepository
func NewPostgresMembershipRepository(db *gorm.DB) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{db: db}
}

// CreateMembership creates a new membership row. The composite unique
// index keeps it to one row per (memorial, user).
func (r *PostgresMembershipRepository) CreateMembership(membership *models.Membership) error {
	return r.db.Create(membership).Error
}

// GetMembership retrieves the membership for a (memorial, user) pair, or
// nil without error when none exists.
func (r *PostgresMembershipRepository) GetMembership(memorialID, userID uint) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.Where("memorial_id = ? AND user_id = ?", memorialID, userID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

// GetMembershipsByMemorialID retrieves all memberships for a memorial
func (r *PostgresMembershipRepository) GetMembershipsByMemorialID(memorialID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	if err := r.db.Where("memorial_id = ?", memorialID).Order("created_at ASC").Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// UpdateMembershipRole changes the role of an existing membership
func (r *PostgresMembershipRepository) UpdateMembershipRole(memorialID, userID uint, role string) error {
	res := r.db.Model(&models.Membership{}).
		Where("memorial_id = ? AND user_id = ?", memorialID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteMembership removes a membership row
func (r *PostgresMembershipRepository) DeleteMembership(memorialID, userID uint) error {
	return r.db.Where("memorial_id = ? AND user_id = ?", memorialID, userID).Delete(&models.Membership{}).Error
}
