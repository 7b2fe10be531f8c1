package api

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
)

// TeamWeekFetcher loads the team week.
type TeamWeekFetcher func(ctx context.Context) (*model.TeamWeek, error)

// AutoRefresh polls the team week in the background
type AutoRefresh struct {
	fetch        TeamWeekFetcher
	pollInterval time.Duration
	debounceTime time.Duration
	pending      bool
	mu           sync.Mutex
	stopCh       chan struct{}
	stopOnce     sync.Once
	onUpdate     func(*model.TeamWeek)
}

// NewAutoRefresh starts polling fetch every interval
func NewAutoRefresh(fetch TeamWeekFetcher, interval time.Duration) *AutoRefresh {
	a := &AutoRefresh{
		fetch:        fetch,
		pollInterval: interval,
		debounceTime: 2 * time.Second,
		stopCh:       make(chan struct{}),
	}

	go a.pollLoop()

	return a
}

// SetOnUpdate sets the callback invoked after each successful fetch
func (a *AutoRefresh) SetOnUpdate(callback func(*model.TeamWeek)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onUpdate = callback
}

func (a *AutoRefresh) pollLoop() {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.refresh()
		case <-a.stopCh:
			return
		}
	}
}

func (a *AutoRefresh) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	week, err := a.fetch(ctx)
	if err != nil {
		logger.Warn("Background refresh failed", logger.F("error", err))
		return
	}

	a.mu.Lock()
	callback := a.onUpdate
	a.mu.Unlock()

	if callback != nil {
		callback(week)
	}
}

// Trigger schedules a refresh after the debounce period. Repeated triggers
// inside that window collapse into one fetch.
func (a *AutoRefresh) Trigger() {
	a.mu.Lock()
	if !a.pending {
		a.pending = true
		go a.debouncedRefresh()
	}
	a.mu.Unlock()
}

func (a *AutoRefresh) debouncedRefresh() {
	timer := time.NewTimer(a.debounceTime)
	defer timer.Stop()

	select {
	case <-timer.C:
		a.mu.Lock()
		a.pending = false
		a.mu.Unlock()
		a.refresh()
	case <-a.stopCh:
	}
}

// IsPending returns true if a debounced refresh is scheduled
func (a *AutoRefresh) IsPending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Stop stops polling. It is safe to call more than once.
func (a *AutoRefresh) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
}
