package triage

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"clamio/internal/domain"
	"clamio/internal/models"
	"clamio/internal/repository"
)

var (
	ErrNotesRequired = errors.New("resolution notes are required")
	ErrNotPending    = errors.New("notification is not pending")
)

// DefaultDismissReason is stored when the operator supplies none.
const DefaultDismissReason = "Dismissed without action"

// Store is the notification store the presenter drives. The notification
// repository implements it.
type Store interface {
	List(f repository.NotificationFilter) ([]models.Notification, int64, error)
	GetByID(id uint) (*models.Notification, error)
	Resolve(id, resolvedBy uint, notes string) error
	Dismiss(id uint, reason string) error
}

// StatsRefresher is told to recompute aggregate counts after a resolve.
type StatsRefresher interface {
	RefreshStats()
}

// Page is one rendered slice of the notification list.
type Page struct {
	Items []models.Notification
	Total int64
}

// Presenter is the triage view-model for one operator session: paginated,
// filterable listing plus the resolve/dismiss workflow. Fetches run
// asynchronously; each carries a sequence number and a response that is
// stale relative to the latest issued request is discarded, so a fast
// filter change is never overwritten by a slower earlier fetch.
type Presenter struct {
	store    Store
	stats    StatsRefresher
	operator uint

	mu       sync.Mutex
	filter   repository.NotificationFilter
	page     Page
	selected *models.Notification
	notes    string
	lastErr  error

	seq      atomic.Uint64
	inflight sync.WaitGroup
	onUpdate func(Page)
}

func NewPresenter(store Store, stats StatsRefresher, operatorID uint) *Presenter {
	return &Presenter{
		store:    store,
		stats:    stats,
		operator: operatorID,
		filter:   repository.NotificationFilter{Page: 1, Limit: 20},
	}
}

// OnUpdate registers a callback invoked whenever a fresh page lands.
func (p *Presenter) OnUpdate(fn func(Page)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = fn
}

// Filter setters. Any change to a filter resets the page to 1 so the next
// fetch starts from the top; pagination position from the previous filter
// is meaningless.

func (p *Presenter) SetStatus(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filter.Status != v {
		p.filter.Status = v
		p.filter.Page = 1
	}
}

func (p *Presenter) SetType(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filter.Type != v {
		p.filter.Type = v
		p.filter.Page = 1
	}
}

func (p *Presenter) SetSeverity(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filter.Severity != v {
		p.filter.Severity = v
		p.filter.Page = 1
	}
}

func (p *Presenter) SetSearch(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filter.Search != v {
		p.filter.Search = v
		p.filter.Page = 1
	}
}

func (p *Presenter) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter.Page = n
}

// Filter returns a copy of the current filter.
func (p *Presenter) Filter() repository.NotificationFilter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// Refresh issues an asynchronous fetch for the current filter.
func (p *Presenter) Refresh() {
	p.mu.Lock()
	f := p.filter
	p.mu.Unlock()
	seq := p.seq.Add(1)
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		p.fetch(f, seq)
	}()
}

// Wait blocks until all issued fetches have completed.
func (p *Presenter) Wait() {
	p.inflight.Wait()
}

func (p *Presenter) fetch(f repository.NotificationFilter, seq uint64) {
	items, total, err := p.store.List(f)

	p.mu.Lock()
	if seq != p.seq.Load() {
		// A newer request was issued while this one was in flight.
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.lastErr = err
		p.mu.Unlock()
		return
	}
	p.lastErr = nil
	p.page = Page{Items: items, Total: total}
	cb := p.onUpdate
	page := p.page
	p.mu.Unlock()

	if cb != nil {
		cb(page)
	}
}

// CurrentPage returns the last page that survived the sequence guard.
func (p *Presenter) CurrentPage() Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// LastErr returns the error of the most recent non-stale fetch, if any.
func (p *Presenter) LastErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Open loads the detail view for a pending notification. At most one detail
// view is open at a time; opening another replaces the prior selection.
func (p *Presenter) Open(id uint) (*models.Notification, error) {
	n, err := p.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if n.Status != domain.StatusPending {
		return nil, ErrNotPending
	}
	p.mu.Lock()
	p.selected = n
	p.notes = ""
	p.mu.Unlock()
	return n, nil
}

// Selected returns the currently open detail view, or nil.
func (p *Presenter) Selected() *models.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

func (p *Presenter) SetNotes(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = v
}

func (p *Presenter) Notes() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notes
}

// Resolve closes a notification with the operator's notes. Empty or
// whitespace notes reject the call before any store access. On success the
// notes buffer is cleared, the detail view closes and aggregate stats are
// refreshed.
func (p *Presenter) Resolve(id uint, notes string) error {
	if strings.TrimSpace(notes) == "" {
		return ErrNotesRequired
	}
	if err := p.store.Resolve(id, p.operator, notes); err != nil {
		return err
	}
	p.mu.Lock()
	p.notes = ""
	if p.selected != nil && p.selected.ID == id {
		p.selected = nil
	}
	p.patchStatus(id, domain.StatusResolved)
	p.mu.Unlock()
	if p.stats != nil {
		p.stats.RefreshStats()
	}
	return nil
}

// Dismiss closes a pending notification without resolution. The detail view
// need not be open. A default reason is substituted when none is supplied.
func (p *Presenter) Dismiss(id uint, reason string) error {
	n, err := p.store.GetByID(id)
	if err != nil {
		return err
	}
	if n.Status != domain.StatusPending {
		return ErrNotPending
	}
	if strings.TrimSpace(reason) == "" {
		reason = DefaultDismissReason
	}
	if err := p.store.Dismiss(id, reason); err != nil {
		return err
	}
	p.mu.Lock()
	if p.selected != nil && p.selected.ID == id {
		p.selected = nil
	}
	p.patchStatus(id, domain.StatusDismissed)
	p.mu.Unlock()
	return nil
}

// patchStatus updates the local copy after the store confirmed the
// transition. Caller holds p.mu.
func (p *Presenter) patchStatus(id uint, status string) {
	for i := range p.page.Items {
		if p.page.Items[i].ID == id {
			p.page.Items[i].Status = status
			return
		}
	}
}
