// Package notifications merges repeated actor activity on a memorial into
// time-windowed notifications for the memorial's owner.
package notifications

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/models"
	"github.com/memoria-app/backend/internal/repositories"
)

// DefaultWindow is the rolling lookback within which activity from the
// same actor on the same memorial merges into one notification.
const DefaultWindow = 24 * time.Hour

const lockStripes = 64

// Aggregator creates or merges notifications for qualifying activity.
// The read-then-write against the store is serialized per merge key with
// striped locks, so two near-simultaneous activities for the same key
// cannot both observe "no open record" and insert twice.
type Aggregator struct {
	notifications repositories.NotificationRepository
	window        time.Duration
	now           func() time.Time
	locks         [lockStripes]sync.Mutex
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWindow overrides the aggregation window.
func WithWindow(window time.Duration) Option {
	return func(a *Aggregator) { a.window = window }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator creates a new Aggregator
func NewAggregator(notificationRepo repositories.NotificationRepository, opts ...Option) *Aggregator {
	a := &Aggregator{
		notifications: notificationRepo,
		window:        DefaultWindow,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) lockFor(recipientID, memorialID, actorID uint, notifType string) *sync.Mutex {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%d:%d:%s", recipientID, memorialID, actorID, notifType)
	return &a.locks[h.Sum32()%lockStripes]
}

// RecordOrMerge records one qualifying activity. When an open
// notification for the (recipient, memorial, actor, type) key exists
// inside the window, the kind is unioned into it, the count follows the
// set size and the notification turns unread again; otherwise a fresh
// record starts. The window is anchored to each record's creation time:
// after 24 hours from first creation the next activity opens a new
// record no matter how recently the old one was updated.
//
// Callers treat failures as best-effort bookkeeping: log the returned
// error and carry on, never fail the triggering action. Storage failures
// wrap apperr.ErrDependencyFailure so callers can classify them.
func (a *Aggregator) RecordOrMerge(recipientID, memorialID, actorID uint, actorName, notifType, kind string) error {
	lock := a.lockFor(recipientID, memorialID, actorID, notifType)
	lock.Lock()
	defer lock.Unlock()

	now := a.now()
	since := now.Add(-a.window)

	open, err := a.notifications.LatestForMergeKey(recipientID, memorialID, actorID, notifType, since)
	if err != nil {
		return fmt.Errorf("%w: look up open notification: %v", apperr.ErrDependencyFailure, err)
	}

	if open != nil {
		open.Kinds = open.Kinds.Union(kind)
		open.Count = len(open.Kinds)
		open.IsRead = false
		open.ActorName = actorName
		open.UpdatedAt = now
		if err := a.notifications.SaveNotification(open); err != nil {
			return fmt.Errorf("%w: merge notification %d: %v", apperr.ErrDependencyFailure, open.ID, err)
		}
		return nil
	}

	notification := &models.Notification{
		Type:        notifType,
		RecipientID: recipientID,
		MemorialID:  memorialID,
		ActorID:     actorID,
		ActorName:   actorName,
		Kinds:       models.KindSet{kind},
		Count:       1,
		IsRead:      false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.notifications.CreateNotification(notification); err != nil {
		return fmt.Errorf("%w: create notification: %v", apperr.ErrDependencyFailure, err)
	}
	return nil
}
