package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/jmylchreest/auratheme/internal/observability"
	"github.com/jmylchreest/auratheme/internal/repository"
)

// ThemeStore owns the single device-wide ColorTheme and writes every change
// through to a preference namespace, one key per field.
type ThemeStore struct {
	prefs     repository.PreferenceRepository
	namespace string
	logger    *slog.Logger

	mu      sync.RWMutex
	current models.ColorTheme
}

// NewThemeStore creates a store bound to prefs. It holds the Default preset
// until Load is called.
func NewThemeStore(prefs repository.PreferenceRepository, namespace string) *ThemeStore {
	return &ThemeStore{
		prefs:     prefs,
		namespace: namespace,
		logger:    slog.Default(),
		current:   models.DefaultTheme,
	}
}

// WithLogger sets the logger for the store.
func (s *ThemeStore) WithLogger(logger *slog.Logger) *ThemeStore {
	s.logger = logger
	return s
}

// Namespace returns the preference namespace the store writes to.
func (s *ThemeStore) Namespace() string {
	return s.namespace
}

// Get returns a copy of the current theme.
func (s *ThemeStore) Get() models.ColorTheme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load replaces the current theme with the persisted one. A key that has
// never been written takes the Default preset's value for that field; this
// is the normal first boot path. On a read error the current theme is kept.
func (s *ThemeStore) Load(ctx context.Context) error {
	loaded := models.DefaultTheme
	var missing []string

	for _, field := range models.AllFields() {
		v, found, err := s.prefs.GetUint(ctx, s.namespace, field.PersistKey())
		if err != nil {
			return fmt.Errorf("loading %s: %w", field, err)
		}
		if !found {
			missing = append(missing, field.String())
			continue
		}
		loaded, _ = loaded.With(field, v)
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "theme loaded",
		slog.String("namespace", s.namespace),
		slog.Int("defaulted_fields", len(missing)),
	)
	if len(missing) > 0 {
		s.logger.DebugContext(ctx, "theme fields defaulted", slog.Any("fields", missing))
	}
	return nil
}

// Save writes all ten fields of the current theme. Each field is an
// independent write; a failed write does not stop the others and the
// failures are returned together.
func (s *ThemeStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *ThemeStore) saveLocked(ctx context.Context) (err error) {
	done := observability.TimedOperationWithError(ctx, s.logger, "save_theme", &err)
	defer done()

	var errs []error
	for _, field := range models.AllFields() {
		v, _ := s.current.Get(field)
		if werr := s.prefs.PutUint(ctx, s.namespace, field.PersistKey(), v); werr != nil {
			errs = append(errs, fmt.Errorf("saving %s: %w", field, werr))
			continue
		}
		s.logger.Log(ctx, observability.LevelTrace, "theme field saved",
			slog.String("field", field.String()),
			slog.String("key", field.PersistKey()),
		)
	}
	return errors.Join(errs...)
}

// SetTheme replaces the whole record and saves it. The in-memory record is
// replaced even when saving fails.
func (s *ThemeStore) SetTheme(ctx context.Context, theme models.ColorTheme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = theme
	return s.saveLocked(ctx)
}

// Update replaces the record with fn(current) and saves it. fn runs under
// the store lock, so no other write lands between the read and the save.
// As with SetTheme the record is replaced even when saving fails.
func (s *ThemeStore) Update(ctx context.Context, fn func(models.ColorTheme) models.ColorTheme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = fn(s.current)
	return s.saveLocked(ctx)
}

// SetCustomColor changes one field and saves the record. An invalid field
// leaves the record as it is, still saves it, and reports ErrUnknownField.
func (s *ThemeStore) SetCustomColor(ctx context.Context, field models.ThemeField, value uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := s.current.With(field, value)
	s.current = updated
	saveErr := s.saveLocked(ctx)

	if !ok {
		s.logger.WarnContext(ctx, "ignoring unknown theme field", slog.Int("field", int(field)))
		return errors.Join(fmt.Errorf("field %d: %w", int(field), models.ErrUnknownField), saveErr)
	}
	return saveErr
}

// ApplyPreset replaces the record with the preset named id and saves it.
// An unknown id returns ErrPresetNotFound and changes nothing.
func (s *ThemeStore) ApplyPreset(ctx context.Context, id string) (models.Preset, error) {
	preset, ok := models.PresetByID(id)
	if !ok {
		return models.Preset{}, fmt.Errorf("preset %q: %w", id, models.ErrPresetNotFound)
	}

	if err := s.SetTheme(ctx, preset.Theme); err != nil {
		return preset, err
	}

	s.logger.InfoContext(ctx, "preset applied", slog.String("preset", preset.ID))
	return preset, nil
}
