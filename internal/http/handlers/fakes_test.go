package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/jmylchreest/auratheme/internal/restart"
	"github.com/oklog/ulid/v2"
)

// fakeStore is an in-memory ThemeStore whose saves can be made to fail.
type fakeStore struct {
	mu      sync.Mutex
	current models.ColorTheme
	saveErr error
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{current: models.DefaultTheme}
}

func (s *fakeStore) Get() models.ColorTheme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *fakeStore) SetTheme(_ context.Context, theme models.ColorTheme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = theme
	s.saves++
	return s.saveErr
}

func (s *fakeStore) Update(_ context.Context, fn func(models.ColorTheme) models.ColorTheme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = fn(s.current)
	s.saves++
	return s.saveErr
}

func (s *fakeStore) SetCustomColor(_ context.Context, field models.ThemeField, value uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, ok := s.current.With(field, value)
	s.current = updated
	s.saves++
	if !ok {
		return models.ErrUnknownField
	}
	return s.saveErr
}

func (s *fakeStore) ApplyPreset(ctx context.Context, id string) (models.Preset, error) {
	p, ok := models.PresetByID(id)
	if !ok {
		return models.Preset{}, fmt.Errorf("preset %q: %w", id, models.ErrPresetNotFound)
	}
	return p, s.SetTheme(ctx, p.Theme)
}

// fakeApplier records apply requests.
type fakeApplier struct {
	mu      sync.Mutex
	reasons []string
}

func (a *fakeApplier) Request(reason string) restart.ApplyRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reasons = append(a.reasons, reason)
	return restart.ApplyRequest{ID: ulid.Make(), Reason: reason}
}

func (a *fakeApplier) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.reasons)
}
