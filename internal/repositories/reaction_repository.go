package repositories

import (
	"errors"

	"github.com/memoria-app/backend/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations.
// A reaction's existence is its state: toggling adds the row when absent
// and removes it when present.
type ReactionRepository interface {
	Toggle(memorialID, userID uint, kind string) (string, error)
	CountsFor(memorialID uint) (map[string]int64, error)
	ReactionsOf(memorialID, userID uint) ([]string, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// Toggle removes the (memorial, user, kind) row when it exists, otherwise
// inserts it. A duplicate-key error on the insert means a concurrent
// request added the same row first; that is reported as a normal "added",
// so two racing toggles never surface a conflict to the caller.
func (r *PostgresReactionRepository) Toggle(memorialID, userID uint, kind string) (string, error) {
	res := r.db.Where("memorial_id = ? AND user_id = ? AND kind = ?", memorialID, userID, kind).
		Delete(&models.Reaction{})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected > 0 {
		return models.ReactionRemoved, nil
	}

	reaction := &models.Reaction{
		MemorialID: memorialID,
		UserID:     userID,
		Kind:       kind,
	}
	if err := r.db.Create(reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ReactionAdded, nil
		}
		return "", err
	}
	return models.ReactionAdded, nil
}

// CountsFor recomputes reaction counts for a memorial by grouping the
// live rows by kind. Every known kind is present in the result, zero
// included, so callers never special-case missing keys.
func (r *PostgresReactionRepository) CountsFor(memorialID uint) (map[string]int64, error) {
	type kindCount struct {
		Kind  string
		Count int64
	}
	var rows []kindCount
	err := r.db.Model(&models.Reaction{}).
		Select("kind, COUNT(*) as count").
		Where("memorial_id = ?", memorialID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.AllReactionKinds))
	for _, kind := range models.AllReactionKinds {
		counts[kind] = 0
	}
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}

// ReactionsOf retrieves the set of kinds a user currently has on a memorial
func (r *PostgresReactionRepository) ReactionsOf(memorialID, userID uint) ([]string, error) {
	kinds := []string{}
	err := r.db.Model(&models.Reaction{}).
		Where("memorial_id = ? AND user_id = ?", memorialID, userID).
		Order("kind ASC").
		Pluck("kind", &kinds).Error
	if err != nil {
		return nil, err
	}
	return kinds, nil
}
