package notifications

import (
	"errors"
	"testing"
	"time"

	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

// failingStore errors on every operation, standing in for an unreachable
// notification store.
type failingStore struct {
	err error
}

func (s *failingStore) CreateNotification(*models.Notification) error { return s.err }
func (s *failingStore) LatestForMergeKey(recipientID, memorialID, actorID uint, notifType string, since time.Time) (*models.Notification, error) {
	return nil, s.err
}
func (s *failingStore) SaveNotification(*models.Notification) error { return s.err }
func (s *failingStore) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, s.err
}
func (s *failingStore) GetGrouped(recipientID uint) ([]models.Notification, []models.Notification, []models.Notification, []models.Notification, error) {
	return nil, nil, nil, nil, s.err
}
func (s *failingStore) GetUnreadCount(recipientID uint) (int64, error) { return 0, s.err }
func (s *failingStore) MarkAsRead(notificationID, recipientID uint) error {
	return s.err
}
func (s *failingStore) MarkAllAsRead(recipientID uint) error { return s.err }

func TestRecordOrMergeClassifiesStoreFailures(t *testing.T) {
	agg := NewAggregator(&failingStore{err: errors.New("connection refused")})

	err := agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionKerze)
	assert.ErrorIs(t, err, apperr.ErrDependencyFailure)
}
