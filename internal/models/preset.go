package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Preset is a named, immutable ColorTheme shipped with the binary.
type Preset struct {
	// ID is the lowercase lookup key, e.g. "ocean".
	ID string `json:"id"`
	// Name is the display name, e.g. "Ocean".
	Name  string     `json:"name"`
	Theme ColorTheme `json:"theme"`
}

// DefaultPresetID is the preset used on first boot and for missing keys.
const DefaultPresetID = "default"

// DefaultTheme is the original device palette.
var DefaultTheme = ColorTheme{
	BgTop:           0x4c8cb9,
	BgBottom:        0xa6cdec,
	TextPrimary:     0xFFFFFF,
	TextSecondary:   0xe4ffff,
	TextTertiary:    0xb9ecff,
	TextLow:         0xb9ecff,
	TextClock:       0xb9ecff,
	BoxBg:           0x5e9bc8,
	ButtonPrimary:   0x4CAF50,
	ButtonSecondary: 0x9E9E9E,
}

var (
	themeSunset   = ColorTheme{0xFF6B35, 0xFFAA80, 0xFFFFFF, 0xFFE5D9, 0xFFCCB3, 0xFFB399, 0xFFCC99, 0xFF8C5A, 0x4CAF50, 0x9E9E9E}
	themeOcean    = ColorTheme{0x006994, 0x33B5E5, 0xFFFFFF, 0xCCF2FF, 0x99E5FF, 0x66D9FF, 0x99E5FF, 0x0099CC, 0x4CAF50, 0x9E9E9E}
	themeForest   = ColorTheme{0x2D5016, 0x73A942, 0xFFFFFF, 0xE8F5E3, 0xD1EBCC, 0xBAE1B5, 0xD1EBCC, 0x4A7C2C, 0x4CAF50, 0x9E9E9E}
	themeLavender = ColorTheme{0x6A4C93, 0xA78BCC, 0xFFFFFF, 0xF4EEFF, 0xE5D4FF, 0xD6BFFF, 0xE5D4FF, 0x8B6BB7, 0x4CAF50, 0x9E9E9E}
	themeDesert   = ColorTheme{0xC77026, 0xE8A87C, 0xFFFFFF, 0xFFEFE0, 0xFFDFC6, 0xFFCFAC, 0xFFDFC6, 0xD98E4A, 0x4CAF50, 0x9E9E9E}
	themeArctic   = ColorTheme{0x4A90A4, 0xB4E1F0, 0xFFFFFF, 0xF0FAFF, 0xD9F2FF, 0xC2EAFF, 0xD9F2FF, 0x6BADC4, 0x4CAF50, 0x9E9E9E}
)

var presetCatalog = []Preset{
	newPreset(DefaultPresetID, DefaultTheme),
	newPreset("sunset", themeSunset),
	newPreset("ocean", themeOcean),
	newPreset("forest", themeForest),
	newPreset("lavender", themeLavender),
	newPreset("desert", themeDesert),
	newPreset("arctic", themeArctic),
}

func newPreset(id string, theme ColorTheme) Preset {
	return Preset{
		ID:    id,
		Name:  cases.Title(language.English).String(id),
		Theme: theme,
	}
}

// Presets returns the catalog in display order. The slice is a copy.
func Presets() []Preset {
	out := make([]Preset, len(presetCatalog))
	copy(out, presetCatalog)
	return out
}

// PresetByID looks up a preset by ID, ignoring case and surrounding whitespace.
func PresetByID(id string) (Preset, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range presetCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetIDs returns the IDs of all presets in catalog order.
func PresetIDs() []string {
	ids := make([]string, 0, len(presetCatalog))
	for _, p := range presetCatalog {
		ids = append(ids, p.ID)
	}
	return ids
}
