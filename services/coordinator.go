package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tiansito98/calorie-vision-tracker/models"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrContention is returned when a summary refresh could not acquire its
// (user, date) key within the retry budget. The triggering entry write has
// already committed; the refresh is re-run by the next read of that date.
var ErrContention = errors.New("summary recompute contended, try again")

// Coordinator serializes summary recomputation per (user_id, date) key.
// Each key owns a mutex; the aggregation read and the summary write run in
// one transaction under that lock, so a later mutation always re-reads the
// full entry set after the earlier one commits. Different keys proceed in
// parallel.
type Coordinator struct {
	db        *gorm.DB
	summaries *SummaryService
	hub       *RealtimeHub
	log       *logrus.Logger

	mu    sync.Mutex
	locks map[string]*keyLock
	dirty map[string]struct{}

	maxRetries   uint64
	retryBackoff time.Duration
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewCoordinator(db *gorm.DB, summaries *SummaryService, hub *RealtimeHub, log *logrus.Logger) *Coordinator {
	if log == nil {
		log = logrus.New()
	}
	return &Coordinator{
		db:           db,
		summaries:    summaries,
		hub:          hub,
		log:          log,
		locks:        make(map[string]*keyLock),
		dirty:        make(map[string]struct{}),
		maxRetries:   5,
		retryBackoff: 20 * time.Millisecond,
	}
}

// EntryMutated is the sole trigger surface for the write path. It is called
// after the raw entry mutation commits; a failed mutation must never reach
// here. An update that moves an entry to another date passes both dates.
func (c *Coordinator) EntryMutated(ctx context.Context, userID uint, dates ...string) error {
	seen := make(map[string]struct{}, len(dates))
	var errs []error
	for _, date := range dates {
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		// Every date gets its attempt even after an earlier one failed:
		// skipping a date would leave its summary stale with no dirty flag,
		// and nothing would ever repair it.
		if _, err := c.RecomputeDate(ctx, userID, date); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecomputeDate rebuilds one (user, date) summary under its key lock.
func (c *Coordinator) RecomputeDate(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	key := summaryKey(userID, date)

	if err := c.acquire(ctx, key); err != nil {
		c.markDirty(key)
		c.log.WithFields(logrus.Fields{"user_id": userID, "date": date}).
			Warn("summary recompute contended")
		return nil, fmt.Errorf("%w: user %d date %s", ErrContention, userID, date)
	}
	defer c.release(key)

	var summary *models.DailySummary
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		summary, err = c.summaries.Recompute(tx, userID, date)
		return err
	})
	if err != nil {
		c.markDirty(key)
		return nil, err
	}
	c.clearDirty(key)

	if c.hub != nil {
		c.hub.BroadcastSummary(userID, summary)
	}
	return summary, nil
}

// GetDailySummary reads the stored summary, lazily recomputing when the row
// is missing or a previous refresh was skipped under contention. Guarantees
// that staleness from a contended write is bounded by the next read.
func (c *Coordinator) GetDailySummary(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	key := summaryKey(userID, date)
	if !c.isDirty(key) {
		row, err := c.summaries.Summary(ctx, userID, date)
		if err == nil {
			if err := c.summaries.attachRollingAverages(ctx, row); err != nil {
				return nil, err
			}
			return row, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// No row yet. Only a date with live entries (a missed refresh) gets
		// a persisted recompute; a never-logged date is answered with a
		// transient zero summary so rolling windows don't count it.
		live, err := c.summaries.HasLiveEntries(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		if !live {
			return c.summaries.Preview(ctx, userID, date)
		}
	}
	return c.RecomputeDate(ctx, userID, date)
}

// GetRollingAverage reflects the latest stored summaries; the lazy strategy
// from the aggregator means no eager maintenance of later windows is needed.
func (c *Coordinator) GetRollingAverage(ctx context.Context, userID uint, date string, windowDays int) (*float64, error) {
	return c.summaries.RollingAverage(ctx, userID, date, windowDays)
}

func (c *Coordinator) acquire(ctx context.Context, key string) error {
	lock := c.ref(key)
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if lock.mu.TryLock() {
			return nil
		}
		return retry.RetryableError(errors.New("key locked"))
	})
	if err != nil {
		c.unref(key)
		return err
	}
	return nil
}

func (c *Coordinator) release(key string) {
	c.mu.Lock()
	lock := c.locks[key]
	c.mu.Unlock()
	lock.mu.Unlock()
	c.unref(key)
}

func (c *Coordinator) ref(key string) *keyLock {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &keyLock{}
		c.locks[key] = lock
	}
	lock.refs++
	return lock
}

func (c *Coordinator) unref(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		return
	}
	lock.refs--
	if lock.refs <= 0 {
		delete(c.locks, key)
	}
}

func (c *Coordinator) markDirty(key string) {
	c.mu.Lock()
	c.dirty[key] = struct{}{}
	c.mu.Unlock()
}

func (c *Coordinator) clearDirty(key string) {
	c.mu.Lock()
	delete(c.dirty, key)
	c.mu.Unlock()
}

func (c *Coordinator) isDirty(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.dirty[key]
	return ok
}

func summaryKey(userID uint, date string) string {
	return fmt.Sprintf("%d:%s", userID, date)
}
