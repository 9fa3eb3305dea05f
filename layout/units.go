package layout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by font sizes and spacing options.
// Logical pixels (px) are the layout unit; the canvas backend maps 1 unit to 1 px.

// Unit represents the original unit of a length value as written in a style.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as px
	UnitPX               // logical pixels
	UnitPT               // points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitEM               // relative to DefaultFontSizePX
)

// Conversion constants between pt, mm and px (CSS reference pixel, 96 per inch).
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	PxPerIn = 96.0
	PxPerPt = PxPerIn / 72.0
	PxPerMm = PxPerIn / 25.4

	// DefaultFontSizePX 是 em 的基准字号。
	DefaultFontSizePX = 16.0
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitEM:
		return "em"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Px 构造像素长度。
func Px(v float64) Length { return Length{Value: v, Unit: UnitPX} }

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPX converts this length to logical pixels.
func (l Length) ToPX() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PxPerPt
	case UnitMM:
		return l.Value * PxPerMm
	case UnitCM:
		return l.Value * 10 * PxPerMm
	case UnitIN:
		return l.Value * PxPerIn
	case UnitEM:
		return l.Value * DefaultFontSizePX
	default:
		return l.Value
	}
}

// ToPT converts this length to points, the unit font faces are created with.
func (l Length) ToPT() float64 { return l.ToPX() / PxPerPt }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses "16px", "12pt", "4.2mm", "1.5em" or a bare number (px).
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"em", UnitEM}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负: %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// MarshalJSON writes the length in its original textual form.
func (l Length) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts a bare number (px) or a string with unit.
func (l *Length) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*l = Length{Value: n, Unit: UnitPX}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("长度必须是数字或字符串: %w", err)
	}
	parsed, err := ParseLength(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
