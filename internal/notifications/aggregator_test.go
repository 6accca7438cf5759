package notifications

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func newTestStore(t *testing.T) (repositories.NotificationRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:notifdb%d?mode=memory&cache=shared&_busy_timeout=10000",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return repositories.NewPostgresNotificationRepository(db), db
}

func TestRecordOrMergeCreates(t *testing.T) {
	repo, db := newTestStore(t)
	agg := NewAggregator(repo)

	err := agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionKerze)
	require.NoError(t, err)

	var all []models.Notification
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1)
	n := all[0]
	assert.Equal(t, uint(1), n.RecipientID)
	assert.Equal(t, uint(10), n.MemorialID)
	assert.Equal(t, uint(2), n.ActorID)
	assert.Equal(t, "Maria", n.ActorName)
	assert.Equal(t, models.KindSet{models.ReactionKerze}, n.Kinds)
	assert.Equal(t, 1, n.Count)
	assert.False(t, n.IsRead)
}

func TestRecordOrMergeWithinWindow(t *testing.T) {
	repo, db := newTestStore(t)

	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	now := t0
	agg := NewAggregator(repo, WithClock(func() time.Time { return now }))

	// Maria reacts liebe, then blumen a minute later: one notification
	// with both kinds.
	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionLiebe))
	now = t0.Add(time.Minute)
	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionBlumen))

	var all []models.Notification
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1)
	assert.Equal(t, models.KindSet{models.ReactionLiebe, models.ReactionBlumen}, all[0].Kinds)
	assert.Equal(t, 2, all[0].Count)
	assert.False(t, all[0].IsRead)
}

func TestRecordOrMergeSameKindDoesNotInflate(t *testing.T) {
	repo, db := newTestStore(t)

	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	now := t0
	agg := NewAggregator(repo, WithClock(func() time.Time { return now }))

	// Toggling the same kind off and on again within the window merges
	// idempotently.
	for i := 0; i < 3; i++ {
		require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionKerze))
		now = now.Add(time.Minute)
	}

	var all []models.Notification
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1)
	assert.Equal(t, models.KindSet{models.ReactionKerze}, all[0].Kinds)
	assert.Equal(t, 1, all[0].Count)
}

func TestRecordOrMergeResetsReadFlag(t *testing.T) {
	repo, db := newTestStore(t)

	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	now := t0
	agg := NewAggregator(repo, WithClock(func() time.Time { return now }))

	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionKerze))

	// The owner reads the notification, then fresh activity arrives.
	require.NoError(t, db.Model(&models.Notification{}).Where("recipient_id = ?", 1).Update("is_read", true).Error)

	now = t0.Add(time.Hour)
	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionBlumen))

	var all []models.Notification
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsRead, "fresh activity turns the notification unread again")
}

func TestRecordOrMergeWindowExpiry(t *testing.T) {
	repo, db := newTestStore(t)

	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	now := t0
	agg := NewAggregator(repo, WithClock(func() time.Time { return now }))

	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionKerze))

	// 25 hours after the first record's creation, activity opens a new
	// notification instead of merging.
	now = t0.Add(25 * time.Hour)
	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionLiebe))

	var all []models.Notification
	require.NoError(t, db.Order("created_at ASC").Find(&all).Error)
	require.Len(t, all, 2)
	assert.Equal(t, models.KindSet{models.ReactionKerze}, all[0].Kinds)
	assert.Equal(t, models.KindSet{models.ReactionLiebe}, all[1].Kinds)
}

func TestWindowAnchoredToCreation(t *testing.T) {
	repo, db := newTestStore(t)

	t0 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	now := t0
	agg := NewAggregator(repo, WithClock(func() time.Time { return now }))

	// Keep merging every 23 hours. The second merge falls outside 24h of
	// the record's creation even though an update happened in between:
	// the record must not extend its own window.
	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionKerze))
	now = t0.Add(23 * time.Hour)
	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionLiebe))
	now = t0.Add(46 * time.Hour)
	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionBlumen))

	var all []models.Notification
	require.NoError(t, db.Order("created_at ASC").Find(&all).Error)
	require.Len(t, all, 2)
	assert.Equal(t, models.KindSet{models.ReactionKerze, models.ReactionLiebe}, all[0].Kinds)
	assert.Equal(t, models.KindSet{models.ReactionBlumen}, all[1].Kinds)
}

func TestRecordOrMergeSeparateKeys(t *testing.T) {
	repo, db := newTestStore(t)
	agg := NewAggregator(repo)

	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, models.ReactionKerze))
	require.NoError(t, agg.RecordOrMerge(1, 10, 3, "Josef", models.NotificationTypeReaction, models.ReactionKerze))
	require.NoError(t, agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeCondolence, "eintrag"))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestRecordOrMergeConcurrentSameKey(t *testing.T) {
	repo, db := newTestStore(t)
	agg := NewAggregator(repo)

	kinds := []string{
		models.ReactionKerze,
		models.ReactionLiebe,
		models.ReactionBlumen,
		models.ReactionTraene,
		models.ReactionTaube,
	}

	var wg sync.WaitGroup
	errs := make([]error, len(kinds))
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind string) {
			defer wg.Done()
			errs[i] = agg.RecordOrMerge(1, 10, 2, "Maria", models.NotificationTypeReaction, kind)
		}(i, kind)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// The per-key serialization guarantees exactly one record.
	var all []models.Notification
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1)
	assert.Equal(t, len(kinds), all[0].Count)
	assert.ElementsMatch(t, kinds, []string(all[0].Kinds))
}
