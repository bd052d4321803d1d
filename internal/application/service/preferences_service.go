package service

import (
	"context"
	"fmt"
	"slices"

	"gitactdash/internal/domain/ui"
	"gitactdash/internal/logging"
	"gitactdash/internal/result"
)

// PreferencesKey is the storage key holding the dashboard preferences
const PreferencesKey = "gitactdash-preferences"

// MessageUnreadablePreferences is the warning returned with the defaults when
// the stored preferences cannot be decoded. The next change overwrites them.
const MessageUnreadablePreferences = "Stored preferences could not be read; using defaults."

// PreferencesService loads the sidebar and theme state of a browser and
// persists every change through LocalStorageService
type PreferencesService struct {
	storage *LocalStorageService
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(storage *LocalStorageService) *PreferencesService {
	return &PreferencesService{storage: storage}
}

// Load returns the stored preferences, or the defaults when none are stored.
// An unknown stored theme falls back to light with a Warning, and so does a
// stored value that is not valid JSON.
func (s *PreferencesService) Load(ctx context.Context) result.Result[ui.Preferences] {
	ctx, log := logging.ForServiceOperation(ctx, "PreferencesService", "Load")

	stored := GetJSON[ui.Preferences](ctx, s.storage, PreferencesKey)
	if msg, failed := stored.Message(); failed && stored.IsFailure() && IsDeserializeFailure(msg) {
		log.WithField("reason", msg).Warn("Discarding unreadable stored preferences")
		return result.Warning(ui.DefaultPreferences(), MessageUnreadablePreferences)
	}

	return result.Bind(stored, func(stored *ui.Preferences) result.Result[ui.Preferences] {
		if stored == nil {
			return result.Success(ui.DefaultPreferences())
		}

		prefs := *stored
		theme, err := ui.ParseTheme(string(prefs.Theme))
		if err != nil {
			bad := prefs.Theme
			prefs.Theme = ui.ThemeLight
			return result.Warning(prefs, fmt.Sprintf("Stored theme '%s' is not recognised; using %s.", bad, ui.ThemeLight))
		}
		prefs.Theme = theme
		return result.Success(prefs)
	})
}

// Save stores prefs
func (s *PreferencesService) Save(ctx context.Context, prefs ui.Preferences) result.Void {
	return SetJSON(ctx, s.storage, PreferencesKey, prefs)
}

// Update applies the requested preferences. Nothing is written when they
// equal the stored ones.
func (s *PreferencesService) Update(ctx context.Context, requested ui.Preferences) result.Result[ui.Preferences] {
	ctx, _ = logging.ForServiceOperation(ctx, "PreferencesService", "Update")

	theme, err := ui.ParseTheme(string(requested.Theme))
	if err != nil {
		return result.Failuref[ui.Preferences]("Theme '%s' is not supported. Use '%s' or '%s'.", requested.Theme, ui.ThemeLight, ui.ThemeDark)
	}

	return s.withState(ctx, func(st *uiState) error {
		if err := st.theme.Set(ctx, theme); err != nil {
			return err
		}
		return st.sidebar.Set(ctx, requested.SidebarCollapsed)
	})
}

// ToggleSidebar collapses or expands the sidebar and persists the result
func (s *PreferencesService) ToggleSidebar(ctx context.Context) result.Result[ui.Preferences] {
	ctx, _ = logging.ForServiceOperation(ctx, "PreferencesService", "ToggleSidebar")
	return s.withState(ctx, func(st *uiState) error { return st.sidebar.Toggle(ctx) })
}

// ToggleTheme switches between light and dark and persists the result
func (s *PreferencesService) ToggleTheme(ctx context.Context) result.Result[ui.Preferences] {
	ctx, _ = logging.ForServiceOperation(ctx, "PreferencesService", "ToggleTheme")
	return s.withState(ctx, func(st *uiState) error { return st.theme.Toggle(ctx) })
}

// uiState is the sidebar and theme of one browser for the duration of a call
type uiState struct {
	sidebar *ui.SidebarState
	theme   *ui.ThemeState
	prefs   ui.Preferences
	saved   result.Void
}

// withState loads the preferences into fresh UI state, wires persistence to
// its change notifications and runs change against it
func (s *PreferencesService) withState(ctx context.Context, change func(*uiState) error) result.Result[ui.Preferences] {
	loaded := s.Load(ctx)
	unreadable := slices.Contains(loaded.Messages(), MessageUnreadablePreferences)

	return result.Bind(loaded, func(prefs ui.Preferences) result.Result[ui.Preferences] {
		st := &uiState{
			sidebar: ui.NewSidebarState(),
			theme:   ui.NewThemeState(prefs.Theme),
			prefs:   prefs,
			saved:   result.Ok(),
		}
		if err := st.sidebar.InitializeFromClient(ctx, prefs.SidebarCollapsed); err != nil {
			return result.Failure[ui.Preferences](err.Error())
		}

		persist := func(ctx context.Context) error {
			st.saved = s.Save(ctx, st.prefs)
			return st.saved.Err()
		}
		st.sidebar.OnChange(func(ctx context.Context, collapsed bool) error {
			st.prefs.SidebarCollapsed = collapsed
			return persist(ctx)
		})
		st.theme.OnChange(func(ctx context.Context, theme ui.Theme) error {
			st.prefs.Theme = theme
			return persist(ctx)
		})

		if unreadable {
			if err := persist(ctx); err != nil {
				return result.Failure[ui.Preferences](err.Error())
			}
		}
		if err := change(st); err != nil && st.saved.IsSuccess() {
			return result.Failure[ui.Preferences](err.Error())
		}
		return result.Map(st.saved, func(result.Unit) ui.Preferences { return st.prefs })
	})
}
