package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/jmylchreest/auratheme/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSchedule []scheduler.ScheduledPreset

func (s staticSchedule) Entries() []scheduler.ScheduledPreset { return s }

func newThemeAPI(h *ThemeHandler) *chi.Mux {
	r := chi.NewRouter()
	api := humachi.New(r, huma.DefaultConfig("test", "1.0.0"))
	h.Register(api)
	return r
}

func statusOf(err error) int {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se.GetStatus()
	}
	return 0
}

func TestThemeHandler_GetTheme(t *testing.T) {
	h := NewThemeHandler(newFakeStore(), nil)

	out, err := h.GetTheme(context.Background(), &GetThemeInput{})
	require.NoError(t, err)
	assert.Len(t, out.Body.Colors, 10)
	assert.Equal(t, "4C8CB9", out.Body.Colors["bg_top"])
	assert.Equal(t, "4CAF50", out.Body.Colors["button_primary"])
}

func TestThemeHandler_Unbound(t *testing.T) {
	h := NewThemeHandler(nil, nil)

	_, err := h.GetTheme(context.Background(), &GetThemeInput{})
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))

	_, err = h.ApplyPreset(context.Background(), &ApplyPresetInput{ID: "ocean"})
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
}

func TestThemeHandler_SetColor(t *testing.T) {
	store := newFakeStore()
	applier := &fakeApplier{}
	h := NewThemeHandler(store, applier)

	in := &SetColorInput{Field: "button_primary"}
	in.Body.Value = "#123abc"
	out, err := h.SetColor(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "123ABC", out.Body.Colors["button_primary"])
	assert.Equal(t, uint32(0x123ABC), store.Get().ButtonPrimary)
	assert.Empty(t, out.Body.ApplyID)
	assert.Zero(t, applier.count())

	in.Apply = true
	out, err = h.SetColor(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Body.ApplyID)
	assert.Equal(t, 1, applier.count())
}

func TestThemeHandler_SetColorUnknownField(t *testing.T) {
	store := newFakeStore()
	h := NewThemeHandler(store, nil)

	in := &SetColorInput{Field: "bg_middle"}
	in.Body.Value = "123456"
	_, err := h.SetColor(context.Background(), in)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	assert.Zero(t, store.saves)
}

func TestThemeHandler_SetColorRejectsWideValue(t *testing.T) {
	store := newFakeStore()
	h := NewThemeHandler(store, nil)

	in := &SetColorInput{Field: "bg_top"}
	in.Body.Value = "1234567"
	_, err := h.SetColor(context.Background(), in)
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(err))
	assert.Zero(t, store.saves)
}

func TestThemeHandler_SetColorSaveFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	applier := &fakeApplier{}
	h := NewThemeHandler(store, applier)

	in := &SetColorInput{Field: "bg_top", Apply: true}
	in.Body.Value = "123456"
	_, err := h.SetColor(context.Background(), in)
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
	assert.Zero(t, applier.count())
}

func TestThemeHandler_ListPresets(t *testing.T) {
	h := NewThemeHandler(newFakeStore(), nil)

	out, err := h.ListPresets(context.Background(), &ListPresetsInput{})
	require.NoError(t, err)
	require.Len(t, out.Body.Presets, 7)
	assert.Equal(t, "default", out.Body.Presets[0].ID)
	assert.Equal(t, "Ocean", out.Body.Presets[2].Name)
	assert.Equal(t, "006994", out.Body.Presets[2].Colors["bg_top"])
}

func TestThemeHandler_ApplyPreset(t *testing.T) {
	store := newFakeStore()
	applier := &fakeApplier{}
	h := NewThemeHandler(store, applier)

	out, err := h.ApplyPreset(context.Background(), &ApplyPresetInput{ID: "Sunset"})
	require.NoError(t, err)
	assert.Equal(t, "sunset", out.Body.Preset.ID)
	assert.NotEmpty(t, out.Body.ApplyID)

	sunset, _ := models.PresetByID("sunset")
	assert.Equal(t, sunset.Theme, store.Get())
	assert.Equal(t, 1, applier.count())

	_, err = h.ApplyPreset(context.Background(), &ApplyPresetInput{ID: "midnight"})
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	assert.Equal(t, 1, applier.count())
}

func TestThemeHandler_GetSchedule(t *testing.T) {
	h := NewThemeHandler(newFakeStore(), nil)

	out, err := h.GetSchedule(context.Background(), &GetScheduleInput{})
	require.NoError(t, err)
	assert.False(t, out.Body.Enabled)
	assert.Empty(t, out.Body.Entries)

	next := time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC)
	h.WithSchedule(staticSchedule{{Cron: "0 7 * * *", Preset: "sunset", Next: next}})
	out, err = h.GetSchedule(context.Background(), &GetScheduleInput{})
	require.NoError(t, err)
	assert.True(t, out.Body.Enabled)
	require.Len(t, out.Body.Entries, 1)
	assert.Equal(t, "sunset", out.Body.Entries[0].Preset)
	assert.Equal(t, next, out.Body.Entries[0].Next)
}

func TestThemeHandler_HTTP(t *testing.T) {
	store := newFakeStore()
	applier := &fakeApplier{}
	r := newThemeAPI(NewThemeHandler(store, applier))

	rec := do(t, r, http.MethodPut, "/api/v1/theme/colors/box_bg?apply=true", `{"value":"0A0B0C"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, uint32(0x0A0B0C), store.Get().BoxBg)
	assert.Equal(t, 1, applier.count())

	rec = do(t, r, http.MethodPut, "/api/v1/theme/colors/box_bg", `{"value":"not-hex"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/theme/presets/forest/apply", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/v1/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Colors map[string]string `json:"colors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	forest, _ := models.PresetByID("forest")
	assert.Equal(t, ThemeColorsFromModel(forest.Theme), ThemeColors(body.Colors))
}
