package store

import (
	"fmt"
	"slices"
	"sync"

	"fleet-client/internal/domain"

	"github.com/google/uuid"
)

// UIStore holds theme, active tab and the notification queue.
type UIStore struct {
	mu    sync.RWMutex
	state domain.UIState
	clock Clock
}

func NewUIStore(clock Clock) *UIStore {
	return &UIStore{
		state: domain.UIState{Theme: domain.ThemeSystem, ActiveTab: "dashboard"},
		clock: clock,
	}
}

func (s *UIStore) State() domain.UIState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *UIStore) SetTheme(t domain.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("set theme: %w: %q", ErrInvalidRecord, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Theme = t
	return nil
}

func (s *UIStore) SetActiveTab(tab string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveTab = tab
}

// Notify appends a notification and returns it with its generated id.
func (s *UIStore) Notify(title, message string, severity domain.Severity) domain.Notification {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		Timestamp: s.clock.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Notifications = append(s.state.Notifications, n)
	return n
}

// Dismiss removes one notification by id and reports whether it was present.
func (s *UIStore) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.state.Notifications, func(n domain.Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	s.state.Notifications = slices.Delete(s.state.Notifications, i, i+1)
	return true
}

func (s *UIStore) Notifications() []domain.Notification {
	return s.State().Notifications
}

func (s *UIStore) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Notifications = nil
}
