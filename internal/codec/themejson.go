// Package codec converts ColorTheme values to and from the flat JSON object
// exchanged with the device web page.
//
// Decoding is deliberately lenient. The body is scanned for "key": value
// pairs rather than parsed, so malformed input never fails: keys that are
// not found leave the base value untouched and unparsable values become 0.
package codec

import (
	"encoding/json"

	"github.com/jmylchreest/auratheme/internal/models"
)

// encodedFields are the fields written by Encode, in output order.
var encodedFields = []models.ThemeField{
	models.FieldBgTop,
	models.FieldBgBottom,
	models.FieldTextPrimary,
	models.FieldTextSecondary,
	models.FieldTextTertiary,
	models.FieldTextLow,
	models.FieldTextClock,
	models.FieldBoxBg,
}

// decodedFields are the fields Decode recognizes. text_tertiary is emitted
// by Encode but not accepted back, and the button colors are neither.
var decodedFields = []models.ThemeField{
	models.FieldBgTop,
	models.FieldBgBottom,
	models.FieldTextPrimary,
	models.FieldTextSecondary,
	models.FieldTextLow,
	models.FieldTextClock,
	models.FieldBoxBg,
}

// wireTheme fixes the key order of the encoded object.
type wireTheme struct {
	BgTop         string `json:"bg_top"`
	BgBottom      string `json:"bg_bottom"`
	TextPrimary   string `json:"text_primary"`
	TextSecondary string `json:"text_secondary"`
	TextTertiary  string `json:"text_tertiary"`
	TextLow       string `json:"text_low"`
	TextClock     string `json:"text_clock"`
	BoxBg         string `json:"box_bg"`
}

// EncodedFields returns the fields Encode emits, in order.
func EncodedFields() []models.ThemeField {
	return append([]models.ThemeField(nil), encodedFields...)
}

// DecodedFields returns the fields Decode recognizes.
func DecodedFields() []models.ThemeField {
	return append([]models.ThemeField(nil), decodedFields...)
}

// Encode renders the eight display colors of theme as a JSON object whose
// values are uppercase hex strings without a prefix, e.g. {"bg_top":"4C8CB9",...}.
func Encode(theme models.ColorTheme) []byte {
	out, err := json.Marshal(wireTheme{
		BgTop:         FormatHex(theme.BgTop),
		BgBottom:      FormatHex(theme.BgBottom),
		TextPrimary:   FormatHex(theme.TextPrimary),
		TextSecondary: FormatHex(theme.TextSecondary),
		TextTertiary:  FormatHex(theme.TextTertiary),
		TextLow:       FormatHex(theme.TextLow),
		TextClock:     FormatHex(theme.TextClock),
		BoxBg:         FormatHex(theme.BoxBg),
	})
	if err != nil {
		// A struct of strings always marshals.
		panic(err)
	}
	return out
}

// Decode applies every recognized key found in body on top of base and
// returns the result. It never fails.
func Decode(body []byte, base models.ColorTheme) models.ColorTheme {
	theme, _ := DecodeReport(body, base)
	return theme
}

// DecodeReport is Decode that also returns which fields were present in
// body, in recognition order.
func DecodeReport(body []byte, base models.ColorTheme) (models.ColorTheme, []models.ThemeField) {
	pairs := scanPairs(body)

	var applied []models.ThemeField
	for _, field := range decodedFields {
		raw, ok := pairs[field.String()]
		if !ok {
			continue
		}
		base, _ = base.With(field, parseWireValue(raw))
		applied = append(applied, field)
	}
	return base, applied
}

// wireValueWidth is the number of characters read from each value.
const wireValueWidth = 6

// rgbMask keeps a decoded value within 24 bits.
const rgbMask = 0xFFFFFF

// parseWireValue reads a color from the first six characters of raw.
// Longer values are cut rather than widened, and a leading '-' that wraps
// the result is masked back to 24 bits.
func parseWireValue(raw string) uint32 {
	if len(raw) > wireValueWidth {
		raw = raw[:wireValueWidth]
	}
	return ParseHex(raw) & rgbMask
}
