package property

import (
	"encoding/json"
	"time"
)

// Value is the typed reading of a stored value row for one property type.
// Exactly one of the concrete types below is returned by Decode.
type Value interface {
	isValue()
}

type (
	Empty       struct{}
	TextValue   string
	NumberValue float64
	Choice      string
	Choices     []string
	Bool        bool
	DateRange   struct {
		Start time.Time  `json:"start"`
		End   *time.Time `json:"end,omitempty"`
	}
)

func (Empty) isValue() {}
func (TextValue) isValue() {}
func (NumberValue) isValue() {}
func (Choice) isValue() {}
func (Choices) isValue() {}
func (Bool) isValue() {}
func (DateRange) isValue() {}

func (Empty) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Default is the value a type reads as when nothing is stored.
func Default(t Type) Value {
	if t == Checkbox {
		return Bool(false)
	}
	return Empty{}
}

// Decode reads f through the lens of t. Columns the type does not own are
// ignored, so rows written under a previous type read as that type's default.
func Decode(t Type, cfg Config, f Fields) Value {
	switch t {
	case Text:
		if f.Text != nil {
			return TextValue(*f.Text)
		}
	case Number:
		if f.Number != nil {
			return NumberValue(*f.Number)
		}
	case Select, Status:
		if f.OptionID != nil {
			return Choice(*f.OptionID)
		}
	case MultiSelect:
		if len(f.OptionIDs) > 0 {
			return Choices(append([]string(nil), f.OptionIDs...))
		}
	case Date:
		if f.Date != nil {
			r := DateRange{Start: *f.Date}
			if cfg.IsRange && f.EndDate != nil {
				end := *f.EndDate
				r.End = &end
			}
			return r
		}
	case Checkbox:
		if f.Checked != nil {
			return Bool(*f.Checked)
		}
	}
	return Default(t)
}

var _ json.Marshaler = Empty{}
