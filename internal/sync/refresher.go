// Package sync keeps the local view of the account fresh by refreshing
// mailboxes and the current mailbox's emails on an interval.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdubbbbbs/fastmail-tui/internal/cache"
	"github.com/pdubbbbbs/fastmail-tui/internal/jmap"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

// RefreshState represents the current state of a refresh cycle.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshRunning
	RefreshError
)

// RefreshStatus holds the state of the most recent refresh.
type RefreshStatus struct {
	State       RefreshState
	LastRefresh time.Time
	Error       error
}

// RefreshResultMsg is a tea.Msg sent when a refresh cycle completes.
type RefreshResultMsg struct {
	Mailboxes []model.Mailbox
	Emails    []model.Email
	MailboxID string
	Error     error
	AuthError *AuthErrorMsg
}

// AuthErrorMsg is a tea.Msg sent when the server rejects the API token.
type AuthErrorMsg struct {
	Message string
}

// fetchTimeout is the maximum time allowed for a single refresh cycle.
const fetchTimeout = 30 * time.Second

// Refresher polls the JMAP server in the background and mirrors results
// into the local cache.
type Refresher struct {
	client   *jmap.Client
	cache    *cache.EmailCache
	interval time.Duration
	pageSize int
	maxCache int

	mu        gosync.Mutex
	mailboxID string
	status    RefreshStatus
	resultCh  chan RefreshResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	running   bool
}

// New creates a refresher. The cache may be nil when caching is
// disabled. Interval and pageSize fall back to sane defaults.
func New(client *jmap.Client, emailCache *cache.EmailCache, interval time.Duration, pageSize, maxCache int) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Refresher{
		client:    client,
		cache:     emailCache,
		interval:  interval,
		pageSize:  pageSize,
		maxCache:  maxCache,
		resultCh:  make(chan RefreshResultMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// SetMailbox changes which mailbox the periodic refresh fetches.
func (r *Refresher) SetMailbox(mailboxID string) {
	r.mu.Lock()
	r.mailboxID = mailboxID
	r.mu.Unlock()
}

// Start launches the refresh loop and returns a subscription command
// that delivers RefreshResultMsg messages to the Bubble Tea runtime.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()

	return r.waitForResult()
}

// Stop halts the refresh loop.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	close(r.stopCh)
	r.running = false
}

// RefreshNow triggers an immediate refresh cycle.
func (r *Refresher) RefreshNow() tea.Cmd {
	select {
	case r.triggerCh <- struct{}{}:
	default:
		// Channel full; a refresh is already pending
	}
	return nil
}

// Status returns the state of the most recent refresh.
func (r *Refresher) Status() RefreshStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Refresher) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Initial fetch immediately.
	r.refresh()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.refresh()
		case <-r.triggerCh:
			r.refresh()
		}
	}
}

// refresh performs one cycle: mailboxes, then the current mailbox's
// emails, then a cache update.
func (r *Refresher) refresh() {
	r.setStatus(RefreshRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	mailboxes, err := r.client.Mailboxes(ctx)
	if err != nil {
		r.fail(err)
		return
	}

	r.mu.Lock()
	mailboxID := r.mailboxID
	r.mu.Unlock()
	if mailboxID == "" {
		if inbox, ok := r.client.MailboxByRole("inbox"); ok {
			mailboxID = inbox.ID
		}
	}

	var emails []model.Email
	if mailboxID != "" {
		emails, err = r.client.Emails(ctx, jmap.EmailFilter{InMailbox: mailboxID}, 0, r.pageSize)
		if err != nil {
			r.fail(err)
			return
		}
	}

	if r.cache != nil && len(emails) > 0 {
		if err := r.cache.UpsertEmails(ctx, emails); err != nil {
			slog.Warn("cache update failed", "error", err)
		} else if r.maxCache > 0 {
			_ = r.cache.Prune(ctx, r.maxCache)
		}
	}

	r.setStatus(RefreshIdle, nil)
	r.sendResult(RefreshResultMsg{
		Mailboxes: mailboxes,
		Emails:    emails,
		MailboxID: mailboxID,
	})
}

func (r *Refresher) fail(err error) {
	r.setStatus(RefreshError, err)
	slog.Warn("refresh failed", "error", err)

	if jmap.IsAuthError(err) {
		r.sendResult(RefreshResultMsg{
			Error: err,
			AuthError: &AuthErrorMsg{
				Message: fmt.Sprintf("Authentication failed: %v. Run setup to update your token.", err),
			},
		})
		return
	}
	r.sendResult(RefreshResultMsg{Error: err})
}

func (r *Refresher) setStatus(state RefreshState, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.State = state
	r.status.Error = err
	if state == RefreshIdle && err == nil {
		r.status.LastRefresh = time.Now()
	}
}

// sendResult sends on the result channel without blocking.
func (r *Refresher) sendResult(msg RefreshResultMsg) {
	select {
	case r.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the loop
	}
}

func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. Call it after processing a RefreshResultMsg to keep listening.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}
