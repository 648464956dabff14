package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/auratheme/internal/codec"
	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/jmylchreest/auratheme/internal/scheduler"
)

// ScheduleLister lists the configured preset rotation.
type ScheduleLister interface {
	Entries() []scheduler.ScheduledPreset
}

// ThemeHandler handles the theme management API.
type ThemeHandler struct {
	store    ThemeStore
	applier  ApplyRequester
	schedule ScheduleLister
	logger   *slog.Logger
}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler(store ThemeStore, applier ApplyRequester) *ThemeHandler {
	return &ThemeHandler{
		store:   store,
		applier: applier,
		logger:  slog.Default(),
	}
}

// WithSchedule exposes the preset rotation on GET /api/v1/theme/schedule.
func (h *ThemeHandler) WithSchedule(schedule ScheduleLister) *ThemeHandler {
	h.schedule = schedule
	return h
}

// WithLogger sets the logger for the handler.
func (h *ThemeHandler) WithLogger(logger *slog.Logger) *ThemeHandler {
	h.logger = logger
	return h
}

// Register registers the theme routes with the API.
func (h *ThemeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getTheme",
		Method:      "GET",
		Path:        "/api/v1/theme",
		Summary:     "Get current theme",
		Description: "Returns all ten theme colors as six digit hex strings",
		Tags:        []string{"Theme"},
	}, h.GetTheme)

	huma.Register(api, huma.Operation{
		OperationID: "setThemeColor",
		Method:      "PUT",
		Path:        "/api/v1/theme/colors/{field}",
		Summary:     "Set one theme color",
		Description: "Updates a single color and persists the theme. Set apply=true to restart into it.",
		Tags:        []string{"Theme"},
	}, h.SetColor)

	huma.Register(api, huma.Operation{
		OperationID: "listThemePresets",
		Method:      "GET",
		Path:        "/api/v1/theme/presets",
		Summary:     "List presets",
		Tags:        []string{"Theme"},
	}, h.ListPresets)

	huma.Register(api, huma.Operation{
		OperationID: "applyThemePreset",
		Method:      "POST",
		Path:        "/api/v1/theme/presets/{id}/apply",
		Summary:     "Apply a preset",
		Description: "Replaces the theme with a preset, persists it and requests an apply",
		Tags:        []string{"Theme"},
	}, h.ApplyPreset)

	huma.Register(api, huma.Operation{
		OperationID: "getThemeSchedule",
		Method:      "GET",
		Path:        "/api/v1/theme/schedule",
		Summary:     "List scheduled presets",
		Tags:        []string{"Theme"},
	}, h.GetSchedule)
}

// ThemeColors is a theme rendered as hex strings keyed by field name.
type ThemeColors map[string]string

// ThemeColorsFromModel renders all ten fields of theme.
func ThemeColorsFromModel(theme models.ColorTheme) ThemeColors {
	out := make(ThemeColors, len(models.AllFields()))
	for _, f := range models.AllFields() {
		v, _ := theme.Get(f)
		out[f.String()] = codec.FormatHex(v)
	}
	return out
}

// GetThemeInput is the input for getting the theme.
type GetThemeInput struct{}

// GetThemeOutput is the output for getting the theme.
type GetThemeOutput struct {
	Body struct {
		Colors ThemeColors `json:"colors"`
	}
}

// GetTheme returns the current theme.
func (h *ThemeHandler) GetTheme(ctx context.Context, input *GetThemeInput) (*GetThemeOutput, error) {
	if h.store == nil {
		return nil, huma.Error500InternalServerError(models.ErrStoreUnbound.Error())
	}
	resp := &GetThemeOutput{}
	resp.Body.Colors = ThemeColorsFromModel(h.store.Get())
	return resp, nil
}

// SetColorInput is the input for setting one color.
type SetColorInput struct {
	Field string `path:"field" doc:"Field name, e.g. bg_top"`
	Apply bool   `query:"apply" doc:"Request an apply after saving"`
	Body  struct {
		Value string `json:"value" pattern:"^(#|0[xX])?[0-9A-Fa-f]{1,6}$" doc:"RGB hex value, e.g. 4C8CB9"`
	}
}

// SetColorOutput is the output for setting one color.
type SetColorOutput struct {
	Body struct {
		Colors  ThemeColors `json:"colors"`
		ApplyID string      `json:"apply_id,omitempty"`
	}
}

// SetColor updates one field of the theme.
func (h *ThemeHandler) SetColor(ctx context.Context, input *SetColorInput) (*SetColorOutput, error) {
	if h.store == nil {
		return nil, huma.Error500InternalServerError(models.ErrStoreUnbound.Error())
	}

	field, ok := models.ParseThemeField(input.Field)
	if !ok {
		return nil, huma.Error400BadRequest("unknown theme field: " + input.Field)
	}

	value, err := codec.ParseRGB(input.Body.Value)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	if err := h.store.SetCustomColor(ctx, field, value); err != nil {
		h.logger.ErrorContext(ctx, "saving theme color",
			slog.String("field", field.String()),
			slog.String("error", err.Error()),
		)
		return nil, huma.Error500InternalServerError("saving theme", err)
	}

	resp := &SetColorOutput{}
	resp.Body.Colors = ThemeColorsFromModel(h.store.Get())
	if input.Apply {
		resp.Body.ApplyID = h.requestApply("color " + field.String() + " set")
	}
	return resp, nil
}

// PresetResponse is a preset in API responses.
type PresetResponse struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Colors ThemeColors `json:"colors"`
}

// ListPresetsInput is the input for listing presets.
type ListPresetsInput struct{}

// ListPresetsOutput is the output for listing presets.
type ListPresetsOutput struct {
	Body struct {
		Presets []PresetResponse `json:"presets"`
	}
}

// ListPresets returns the preset catalog.
func (h *ThemeHandler) ListPresets(ctx context.Context, input *ListPresetsInput) (*ListPresetsOutput, error) {
	presets := models.Presets()
	resp := &ListPresetsOutput{}
	resp.Body.Presets = make([]PresetResponse, 0, len(presets))
	for _, p := range presets {
		resp.Body.Presets = append(resp.Body.Presets, PresetResponse{
			ID:     p.ID,
			Name:   p.Name,
			Colors: ThemeColorsFromModel(p.Theme),
		})
	}
	return resp, nil
}

// ApplyPresetInput is the input for applying a preset.
type ApplyPresetInput struct {
	ID string `path:"id" doc:"Preset id, e.g. ocean"`
}

// ApplyPresetOutput is the output for applying a preset.
type ApplyPresetOutput struct {
	Body struct {
		Preset  PresetResponse `json:"preset"`
		ApplyID string         `json:"apply_id,omitempty"`
	}
}

// ApplyPreset switches the theme to a preset and requests an apply.
func (h *ThemeHandler) ApplyPreset(ctx context.Context, input *ApplyPresetInput) (*ApplyPresetOutput, error) {
	if h.store == nil {
		return nil, huma.Error500InternalServerError(models.ErrStoreUnbound.Error())
	}

	preset, err := h.store.ApplyPreset(ctx, input.ID)
	if errors.Is(err, models.ErrPresetNotFound) {
		return nil, huma.Error404NotFound("preset not found: " + input.ID)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "applying preset",
			slog.String("preset", input.ID),
			slog.String("error", err.Error()),
		)
		return nil, huma.Error500InternalServerError("saving theme", err)
	}

	resp := &ApplyPresetOutput{}
	resp.Body.Preset = PresetResponse{ID: preset.ID, Name: preset.Name, Colors: ThemeColorsFromModel(preset.Theme)}
	resp.Body.ApplyID = h.requestApply("preset " + preset.ID + " applied")
	return resp, nil
}

// ScheduleEntryResponse is one scheduled preset.
type ScheduleEntryResponse struct {
	Cron   string    `json:"cron"`
	Preset string    `json:"preset"`
	Next   time.Time `json:"next,omitempty"`
}

// GetScheduleInput is the input for listing the schedule.
type GetScheduleInput struct{}

// GetScheduleOutput is the output for listing the schedule.
type GetScheduleOutput struct {
	Body struct {
		Enabled bool                    `json:"enabled"`
		Entries []ScheduleEntryResponse `json:"entries"`
	}
}

// GetSchedule lists the running preset rotation.
func (h *ThemeHandler) GetSchedule(ctx context.Context, input *GetScheduleInput) (*GetScheduleOutput, error) {
	resp := &GetScheduleOutput{}
	resp.Body.Entries = []ScheduleEntryResponse{}
	if h.schedule == nil {
		return resp, nil
	}

	resp.Body.Enabled = true
	for _, e := range h.schedule.Entries() {
		resp.Body.Entries = append(resp.Body.Entries, ScheduleEntryResponse{
			Cron:   e.Cron,
			Preset: e.Preset,
			Next:   e.Next,
		})
	}
	return resp, nil
}

func (h *ThemeHandler) requestApply(reason string) string {
	if h.applier == nil {
		return ""
	}
	req := h.applier.Request(reason)
	h.logger.Info("apply requested", slog.String("apply_id", req.ID.String()), slog.String("reason", reason))
	return req.ID.String()
}
