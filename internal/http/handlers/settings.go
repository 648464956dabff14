package handlers

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jmylchreest/auratheme/internal/observability"
	"github.com/jmylchreest/auratheme/internal/restart"
)

// logLevels are the values accepted for logging.level.
var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// PendingApplies reports an apply request still waiting for its delay.
type PendingApplies interface {
	Pending() (restart.ApplyRequest, bool)
}

// ApplySettings is how committed themes take effect. It is fixed at startup.
type ApplySettings struct {
	Namespace   string
	RestartMode restart.Mode
	ApplyDelay  time.Duration
}

// SettingsHandler exposes the runtime settings of the theme server. Logging
// can be changed until the next restart; apply settings are read-only.
type SettingsHandler struct {
	apply   ApplySettings
	pending PendingApplies
}

// NewSettingsHandler creates a settings handler reporting apply.
func NewSettingsHandler(apply ApplySettings) *SettingsHandler {
	return &SettingsHandler{apply: apply}
}

// WithPending reports the pending apply request from p.
func (h *SettingsHandler) WithPending(p PendingApplies) *SettingsHandler {
	h.pending = p
	return h
}

// Register registers the settings routes with the API.
func (h *SettingsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getSettings",
		Method:      "GET",
		Path:        "/api/v1/settings",
		Summary:     "Get runtime settings",
		Description: "Returns the logging switches and how saved themes are applied",
		Tags:        []string{"Settings"},
	}, h.GetSettings)

	huma.Register(api, huma.Operation{
		OperationID: "updateSettings",
		Method:      "PUT",
		Path:        "/api/v1/settings",
		Summary:     "Update logging settings",
		Description: "Changes the log level or request logging until the next restart",
		Tags:        []string{"Settings"},
	}, h.UpdateSettings)

	huma.Register(api, huma.Operation{
		OperationID: "getSettingsInfo",
		Method:      "GET",
		Path:        "/api/v1/settings/info",
		Summary:     "Describe settings",
		Description: "Lists each setting with its type, options and whether it can be changed",
		Tags:        []string{"Settings"},
	}, h.GetSettingsInfo)
}

// LoggingSettings are the settings PUT /api/v1/settings can change.
type LoggingSettings struct {
	Level          string `json:"level"`
	RequestLogging bool   `json:"request_logging"`
}

// ApplyState reports the apply settings and any request in flight.
type ApplyState struct {
	Namespace      string `json:"namespace"`
	RestartMode    string `json:"restart_mode"`
	ApplyDelay     string `json:"apply_delay" doc:"Go duration, e.g. 500ms"`
	PendingApplyID string `json:"pending_apply_id,omitempty"`
	PendingReason  string `json:"pending_reason,omitempty"`
}

// Settings is the body of the settings responses.
type Settings struct {
	Logging LoggingSettings `json:"logging"`
	Apply   ApplyState      `json:"apply"`
}

// GetSettingsInput is the input for getting settings.
type GetSettingsInput struct{}

// GetSettingsOutput is the output for getting settings.
type GetSettingsOutput struct {
	Body Settings
}

// GetSettings returns the current runtime settings.
func (h *SettingsHandler) GetSettings(ctx context.Context, input *GetSettingsInput) (*GetSettingsOutput, error) {
	return &GetSettingsOutput{Body: h.current()}, nil
}

// UpdateSettingsInput is the input for updating settings.
type UpdateSettingsInput struct {
	Body struct {
		Level          *string `json:"level,omitempty" doc:"trace, debug, info, warn or error"`
		RequestLogging *bool   `json:"request_logging,omitempty"`
	}
}

// UpdateSettingsOutput is the output for updating settings.
type UpdateSettingsOutput struct {
	Body struct {
		Settings Settings `json:"settings"`
		Changed  []string `json:"changed"`
	}
}

// UpdateSettings changes the logging settings. A new level applies at once
// to every logger built by observability.NewLogger.
func (h *SettingsHandler) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	changed := []string{}

	if input.Body.Level != nil {
		level := strings.ToLower(strings.TrimSpace(*input.Body.Level))
		if level == "warning" {
			level = "warn"
		}
		if !slices.Contains(logLevels, level) {
			return nil, huma.Error400BadRequest("invalid logging level: " + *input.Body.Level)
		}
		observability.SetLogLevel(level)
		changed = append(changed, "logging.level")
	}

	if input.Body.RequestLogging != nil {
		observability.SetRequestLogging(*input.Body.RequestLogging)
		changed = append(changed, "logging.request_logging")
	}

	resp := &UpdateSettingsOutput{}
	resp.Body.Settings = h.current()
	resp.Body.Changed = changed
	return resp, nil
}

func (h *SettingsHandler) current() Settings {
	s := Settings{
		Logging: LoggingSettings{
			Level:          observability.GetLogLevel(),
			RequestLogging: observability.IsRequestLoggingEnabled(),
		},
		Apply: ApplyState{
			Namespace:   h.apply.Namespace,
			RestartMode: string(h.apply.RestartMode),
			ApplyDelay:  h.apply.ApplyDelay.String(),
		},
	}
	if h.pending != nil {
		if req, ok := h.pending.Pending(); ok {
			s.Apply.PendingApplyID = req.ID.String()
			s.Apply.PendingReason = req.Reason
		}
	}
	return s
}

// GetSettingsInfoInput is the input for describing settings.
type GetSettingsInfoInput struct{}

// SettingField describes one setting.
type SettingField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	ReadOnly bool     `json:"read_only"`
	Value    any      `json:"value"`
	Options  []string `json:"options,omitempty"`
	Source   string   `json:"source,omitempty" doc:"Config key for read-only settings"`
}

// GetSettingsInfoOutput is the output for describing settings.
type GetSettingsInfoOutput struct {
	Body struct {
		Fields []SettingField `json:"fields"`
	}
}

// GetSettingsInfo describes every setting.
func (h *SettingsHandler) GetSettingsInfo(ctx context.Context, input *GetSettingsInfoInput) (*GetSettingsInfoOutput, error) {
	modes := make([]string, 0, len(restart.Modes()))
	for _, m := range restart.Modes() {
		modes = append(modes, string(m))
	}

	cur := h.current()
	resp := &GetSettingsInfoOutput{}
	resp.Body.Fields = []SettingField{
		{Name: "logging.level", Type: "select", Value: cur.Logging.Level, Options: logLevels},
		{Name: "logging.request_logging", Type: "boolean", Value: cur.Logging.RequestLogging},
		{Name: "apply.namespace", Type: "string", ReadOnly: true, Value: cur.Apply.Namespace, Source: "theme.namespace"},
		{Name: "apply.restart_mode", Type: "select", ReadOnly: true, Value: cur.Apply.RestartMode, Options: modes, Source: "theme.restart_mode"},
		{Name: "apply.apply_delay", Type: "duration", ReadOnly: true, Value: cur.Apply.ApplyDelay, Source: "theme.apply_delay"},
	}
	return resp, nil
}
