package ui

import (
	"context"
	"sync"

	"gitactdash/internal/domain/events"
)

// EventSidebarChanged is dispatched whenever the sidebar collapses or expands
const EventSidebarChanged = "ui.sidebar_changed"

// SidebarChanged carries the new sidebar state
type SidebarChanged struct {
	events.BaseEvent
	Collapsed bool
}

// SidebarState tracks whether the navigation sidebar is collapsed
type SidebarState struct {
	mu          sync.Mutex
	collapsed   bool
	initialized bool
	dispatcher  *events.Dispatcher
}

// NewSidebarState creates an expanded, uninitialized sidebar
func NewSidebarState() *SidebarState {
	return &SidebarState{dispatcher: events.NewDispatcher()}
}

// IsCollapsed reports the current state
func (s *SidebarState) IsCollapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collapsed
}

// Toggle flips the state and always notifies
func (s *SidebarState) Toggle(ctx context.Context) error {
	s.mu.Lock()
	s.collapsed = !s.collapsed
	collapsed := s.collapsed
	s.mu.Unlock()

	return s.notify(ctx, collapsed)
}

// Set changes the state, notifying only when it actually changed
func (s *SidebarState) Set(ctx context.Context, collapsed bool) error {
	s.mu.Lock()
	if s.collapsed == collapsed {
		s.mu.Unlock()
		return nil
	}
	s.collapsed = collapsed
	s.mu.Unlock()

	return s.notify(ctx, collapsed)
}

// InitializeFromClient adopts the state the client remembered. Only the first
// call has any effect; it notifies even when the value is unchanged.
func (s *SidebarState) InitializeFromClient(ctx context.Context, collapsed bool) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	s.collapsed = collapsed
	s.mu.Unlock()

	return s.notify(ctx, collapsed)
}

// OnChange registers a callback for state changes
func (s *SidebarState) OnChange(fn func(ctx context.Context, collapsed bool) error) {
	s.dispatcher.Register(EventSidebarChanged, func(ctx context.Context, e events.DomainEvent) error {
		return fn(ctx, e.(SidebarChanged).Collapsed)
	})
}

func (s *SidebarState) notify(ctx context.Context, collapsed bool) error {
	return s.dispatcher.Dispatch(ctx, SidebarChanged{
		BaseEvent: events.NewBaseEvent(EventSidebarChanged),
		Collapsed: collapsed,
	})
}
