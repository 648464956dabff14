package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/jmylchreest/auratheme/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexPage = "<!DOCTYPE html><title>theme</title>"

func newDeviceRouter(store ThemeStore, applier ApplyRequester, assets storage.AssetStore) *chi.Mux {
	r := chi.NewRouter()
	NewDeviceHandler(store, applier, assets, "index.html").Register(r)
	return r
}

func pageAssets() storage.AssetStore {
	return storage.NewFSStore(fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte(indexPage)},
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDevice_ServeIndex(t *testing.T) {
	r := newDeviceRouter(newFakeStore(), nil, pageAssets())

	rec := do(t, r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Equal(t, indexPage, rec.Body.String())
}

func TestDevice_ServeIndexMissing(t *testing.T) {
	tests := []struct {
		name   string
		assets storage.AssetStore
	}{
		{"empty store", storage.NewFSStore(fstest.MapFS{})},
		{"no store", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newDeviceRouter(newFakeStore(), nil, tt.assets)

			rec := do(t, r, http.MethodGet, "/", "")
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
			assert.Equal(t, "File not found", rec.Body.String())
		})
	}
}

func TestDevice_GetCurrent(t *testing.T) {
	r := newDeviceRouter(newFakeStore(), nil, nil)

	rec := do(t, r, http.MethodGet, "/current", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t,
		`{"bg_top":"4C8CB9","bg_bottom":"A6CDEC","text_primary":"FFFFFF","text_secondary":"E4FFFF",`+
			`"text_tertiary":"B9ECFF","text_low":"B9ECFF","text_clock":"B9ECFF","box_bg":"5E9BC8"}`,
		rec.Body.String())
}

func TestDevice_GetCurrentUnbound(t *testing.T) {
	r := newDeviceRouter(nil, nil, nil)

	rec := do(t, r, http.MethodGet, "/current", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Theme manager not initialized"}`, rec.Body.String())
}

func TestDevice_SaveMergesAndRequestsApply(t *testing.T) {
	store := newFakeStore()
	applier := &fakeApplier{}
	r := newDeviceRouter(store, applier, nil)

	rec := do(t, r, http.MethodPost, "/save", `{"bg_top":"112233","box_bg":"ABCDEF"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	got := store.Get()
	assert.Equal(t, uint32(0x112233), got.BgTop)
	assert.Equal(t, uint32(0xABCDEF), got.BoxBg)
	assert.Equal(t, models.DefaultTheme.BgBottom, got.BgBottom, "absent keys keep their value")
	assert.Equal(t, 1, applier.count())
}

func TestDevice_ConcurrentSavesKeepEveryField(t *testing.T) {
	store := newFakeStore()
	h := NewDeviceHandler(store, &fakeApplier{}, nil, "")

	keys := []string{"bg_top", "bg_bottom", "text_primary", "text_secondary", "text_low", "text_clock", "box_bg"}
	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/save", strings.NewReader(`{"`+key+`":"0A0B0C"}`))
			rec := httptest.NewRecorder()
			h.Save(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}(key)
	}
	wg.Wait()

	got := store.Get()
	for _, key := range keys {
		f, ok := models.ParseThemeField(key)
		require.True(t, ok)
		v, _ := got.Get(f)
		assert.Equal(t, uint32(0x0A0B0C), v, key)
	}
}

func TestDevice_SaveWideValuesStaySixDigits(t *testing.T) {
	r := newDeviceRouter(newFakeStore(), &fakeApplier{}, nil)

	rec := do(t, r, http.MethodPost, "/save", `{"bg_top":"1234567","box_bg":"ABCDEF12"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/current", "")
	assert.Contains(t, rec.Body.String(), `"bg_top":"123456"`)
	assert.Contains(t, rec.Body.String(), `"box_bg":"ABCDEF"`)
}

func TestDevice_SaveEmptyBodyStillCommits(t *testing.T) {
	store := newFakeStore()
	applier := &fakeApplier{}
	r := newDeviceRouter(store, applier, nil)

	rec := do(t, r, http.MethodPost, "/save", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DefaultTheme, store.Get())
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 1, applier.count())
}

func TestDevice_SaveGarbageIsNotFatal(t *testing.T) {
	store := newFakeStore()
	r := newDeviceRouter(store, &fakeApplier{}, nil)

	rec := do(t, r, http.MethodPost, "/save", `{"bg_top":"zz`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint32(0), store.Get().BgTop)
}

func TestDevice_SaveUnbound(t *testing.T) {
	applier := &fakeApplier{}
	r := newDeviceRouter(nil, applier, nil)

	rec := do(t, r, http.MethodPost, "/save", `{"bg_top":"112233"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false}`, rec.Body.String())
	assert.Zero(t, applier.count())
}

func TestDevice_SavePersistFailureSkipsApply(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	applier := &fakeApplier{}
	r := newDeviceRouter(store, applier, nil)

	rec := do(t, r, http.MethodPost, "/save", `{"bg_top":"112233"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false}`, rec.Body.String())
	assert.Zero(t, applier.count())
}

func TestDevice_SaveThenCurrentRoundTrip(t *testing.T) {
	r := newDeviceRouter(newFakeStore(), &fakeApplier{}, nil)

	rec := do(t, r, http.MethodPost, "/save", `{"text_clock":"0a0b0c"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/current", "")
	assert.Contains(t, rec.Body.String(), `"text_clock":"0A0B0C"`)
}
