package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gitactdash/internal/domain/events"
)

// Theme is the colour scheme of the dashboard
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme parses a theme name case-insensitively
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Opposite returns the other theme
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// EventThemeChanged is dispatched whenever the theme changes
const EventThemeChanged = "ui.theme_changed"

// ThemeChanged carries the new theme
type ThemeChanged struct {
	events.BaseEvent
	Theme Theme
}

// ThemeState tracks the active theme
type ThemeState struct {
	mu         sync.Mutex
	theme      Theme
	dispatcher *events.Dispatcher
}

// NewThemeState creates a state holding initial, or light when initial is empty
func NewThemeState(initial Theme) *ThemeState {
	if initial == "" {
		initial = ThemeLight
	}
	return &ThemeState{theme: initial, dispatcher: events.NewDispatcher()}
}

// Theme returns the active theme
func (s *ThemeState) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Toggle switches between light and dark
func (s *ThemeState) Toggle(ctx context.Context) error {
	s.mu.Lock()
	s.theme = s.theme.Opposite()
	theme := s.theme
	s.mu.Unlock()

	return s.notify(ctx, theme)
}

// Set changes the theme, notifying only when it actually changed
func (s *ThemeState) Set(ctx context.Context, theme Theme) error {
	s.mu.Lock()
	if s.theme == theme {
		s.mu.Unlock()
		return nil
	}
	s.theme = theme
	s.mu.Unlock()

	return s.notify(ctx, theme)
}

// OnChange registers a callback for theme changes
func (s *ThemeState) OnChange(fn func(ctx context.Context, theme Theme) error) {
	s.dispatcher.Register(EventThemeChanged, func(ctx context.Context, e events.DomainEvent) error {
		return fn(ctx, e.(ThemeChanged).Theme)
	})
}

func (s *ThemeState) notify(ctx context.Context, theme Theme) error {
	return s.dispatcher.Dispatch(ctx, ThemeChanged{
		BaseEvent: events.NewBaseEvent(EventThemeChanged),
		Theme:     theme,
	})
}
