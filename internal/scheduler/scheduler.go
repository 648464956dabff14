// Package scheduler rotates theme presets on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jmylchreest/auratheme/internal/config"
	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/jmylchreest/auratheme/internal/restart"
)

// PresetApplier applies a named preset to the theme store.
type PresetApplier interface {
	ApplyPreset(ctx context.Context, id string) (models.Preset, error)
}

// ApplyRequester asks for a committed theme to be applied.
type ApplyRequester interface {
	Request(reason string) restart.ApplyRequest
}

// ScheduledPreset describes one registered entry.
type ScheduledPreset struct {
	Cron   string    `json:"cron"`
	Preset string    `json:"preset"`
	Next   time.Time `json:"next"`
}

// PresetScheduler applies presets when their cron expressions fire.
type PresetScheduler struct {
	mu sync.Mutex

	store   PresetApplier
	applier ApplyRequester
	entries []config.ScheduleEntry
	logger  *slog.Logger

	// cron parser for validating/parsing cron expressions
	parser cron.Parser

	cron *cron.Cron
	ids  []cron.EntryID
	ctx  context.Context
}

// NewPresetScheduler creates a scheduler for entries.
func NewPresetScheduler(store PresetApplier, applier ApplyRequester, entries []config.ScheduleEntry) *PresetScheduler {
	return &PresetScheduler{
		store:   store,
		applier: applier,
		entries: entries,
		logger:  slog.Default(),
		parser:  cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// WithLogger sets a custom logger.
func (s *PresetScheduler) WithLogger(logger *slog.Logger) *PresetScheduler {
	s.logger = logger
	return s
}

// Validate checks every entry without starting anything.
func (s *PresetScheduler) Validate() error {
	for i, entry := range s.entries {
		if _, err := s.parser.Parse(entry.Cron); err != nil {
			return fmt.Errorf("schedule entry %d: invalid cron %q: %w", i, entry.Cron, err)
		}
		if _, ok := models.PresetByID(entry.Preset); !ok {
			return fmt.Errorf("schedule entry %d: preset %q: %w", i, entry.Preset, models.ErrPresetNotFound)
		}
	}
	return nil
}

// Start validates and registers all entries, then starts the cron runner.
// Jobs run with ctx until Stop is called.
func (s *PresetScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("scheduler already started")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	logger := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithParser(s.parser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	s.ctx = ctx
	s.ids = s.ids[:0]
	for _, entry := range s.entries {
		id, err := c.AddFunc(entry.Cron, func() { s.run(s.ctx, entry) })
		if err != nil {
			return fmt.Errorf("registering %q: %w", entry.Cron, err)
		}
		s.ids = append(s.ids, id)
	}

	c.Start()
	s.cron = c

	s.logger.Info("preset scheduler started", slog.Int("entries", len(s.entries)))
	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (s *PresetScheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("preset scheduler stopped")
}

// Entries lists the registered entries with their next run time. Next is
// zero when the scheduler is not running.
func (s *PresetScheduler) Entries() []ScheduledPreset {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ScheduledPreset, 0, len(s.entries))
	for i, entry := range s.entries {
		sp := ScheduledPreset{Cron: entry.Cron, Preset: entry.Preset}
		if s.cron != nil && i < len(s.ids) {
			sp.Next = s.cron.Entry(s.ids[i]).Next
		}
		out = append(out, sp)
	}
	return out
}

// run applies one entry's preset and requests that it be applied.
func (s *PresetScheduler) run(ctx context.Context, entry config.ScheduleEntry) {
	preset, err := s.store.ApplyPreset(ctx, entry.Preset)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled preset failed",
			slog.String("preset", entry.Preset),
			slog.String("cron", entry.Cron),
			slog.String("error", err.Error()),
		)
		return
	}

	req := s.applier.Request("schedule: " + preset.ID)
	s.logger.InfoContext(ctx, "scheduled preset applied",
		slog.String("preset", preset.ID),
		slog.String("apply_id", req.ID.String()),
	)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, slog.String("error", err.Error()))...)
}
