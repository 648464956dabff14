// Package models defines the theme data model, the preset catalog, and the
// GORM model backing the preference store.
package models

import "strings"

// ColorTheme is the device-wide color record. Each field holds an RGB value
// in the low 24 bits of a 32-bit slot.
type ColorTheme struct {
	BgTop           uint32 `json:"bg_top"`
	BgBottom        uint32 `json:"bg_bottom"`
	TextPrimary     uint32 `json:"text_primary"`
	TextSecondary   uint32 `json:"text_secondary"`
	TextTertiary    uint32 `json:"text_tertiary"`
	TextLow         uint32 `json:"text_low"`
	TextClock       uint32 `json:"text_clock"`
	BoxBg           uint32 `json:"box_bg"`
	ButtonPrimary   uint32 `json:"button_primary"`
	ButtonSecondary uint32 `json:"button_secondary"`
}

// ThemeField identifies one ColorTheme field.
type ThemeField int

const (
	// FieldUnknown is the zero value and never maps to a ColorTheme field.
	FieldUnknown ThemeField = iota
	FieldBgTop
	FieldBgBottom
	FieldTextPrimary
	FieldTextSecondary
	FieldTextTertiary
	FieldTextLow
	FieldTextClock
	FieldBoxBg
	FieldButtonPrimary
	FieldButtonSecondary
)

// fieldMeta holds the names a field goes by on the wire and in storage.
type fieldMeta struct {
	name       string
	persistKey string
}

var fieldTable = map[ThemeField]fieldMeta{
	FieldBgTop:           {name: "bg_top", persistKey: "theme_bg_top"},
	FieldBgBottom:        {name: "bg_bottom", persistKey: "theme_bg_bot"},
	FieldTextPrimary:     {name: "text_primary", persistKey: "theme_txt_pri"},
	FieldTextSecondary:   {name: "text_secondary", persistKey: "theme_txt_sec"},
	FieldTextTertiary:    {name: "text_tertiary", persistKey: "theme_txt_ter"},
	FieldTextLow:         {name: "text_low", persistKey: "theme_txt_low"},
	FieldTextClock:       {name: "text_clock", persistKey: "theme_txt_clk"},
	FieldBoxBg:           {name: "box_bg", persistKey: "theme_box_bg"},
	FieldButtonPrimary:   {name: "button_primary", persistKey: "theme_btn_pri"},
	FieldButtonSecondary: {name: "button_secondary", persistKey: "theme_btn_sec"},
}

var allFields = []ThemeField{
	FieldBgTop,
	FieldBgBottom,
	FieldTextPrimary,
	FieldTextSecondary,
	FieldTextTertiary,
	FieldTextLow,
	FieldTextClock,
	FieldBoxBg,
	FieldButtonPrimary,
	FieldButtonSecondary,
}

// AllFields returns every valid field in model order.
func AllFields() []ThemeField {
	out := make([]ThemeField, len(allFields))
	copy(out, allFields)
	return out
}

// ParseThemeField maps a wire name such as "bg_top" to its field.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseThemeField(name string) (ThemeField, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range allFields {
		if fieldTable[f].name == name {
			return f, true
		}
	}
	return FieldUnknown, false
}

// Valid reports whether f names one of the ten ColorTheme fields.
func (f ThemeField) Valid() bool {
	_, ok := fieldTable[f]
	return ok
}

// String returns the wire name of the field, or "unknown".
func (f ThemeField) String() string {
	if m, ok := fieldTable[f]; ok {
		return m.name
	}
	return "unknown"
}

// PersistKey returns the key the field is stored under, or "" for FieldUnknown.
func (f ThemeField) PersistKey() string {
	return fieldTable[f].persistKey
}

// Get returns the value of field f.
func (t ColorTheme) Get(f ThemeField) (uint32, bool) {
	p := t.slot(f)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// With returns a copy of t with field f set to value. The returned bool is
// false, and the copy unchanged, when f is not a valid field.
func (t ColorTheme) With(f ThemeField, value uint32) (ColorTheme, bool) {
	p := t.slot(f)
	if p == nil {
		return t, false
	}
	*p = value
	return t, true
}

// slot returns a pointer into the receiver's copy for field f.
func (t *ColorTheme) slot(f ThemeField) *uint32 {
	switch f {
	case FieldBgTop:
		return &t.BgTop
	case FieldBgBottom:
		return &t.BgBottom
	case FieldTextPrimary:
		return &t.TextPrimary
	case FieldTextSecondary:
		return &t.TextSecondary
	case FieldTextTertiary:
		return &t.TextTertiary
	case FieldTextLow:
		return &t.TextLow
	case FieldTextClock:
		return &t.TextClock
	case FieldBoxBg:
		return &t.BoxBg
	case FieldButtonPrimary:
		return &t.ButtonPrimary
	case FieldButtonSecondary:
		return &t.ButtonSecondary
	default:
		return nil
	}
}

// Equal reports whether every field of t and other matches.
func (t ColorTheme) Equal(other ColorTheme) bool {
	return t == other
}
