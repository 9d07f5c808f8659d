package property

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Target describes the property a payload is written to.
type Target struct {
	ID     string
	Type   Type
	Config Config
}

// Fields mirrors the value columns of a stored row. Nil means unset.
type Fields struct {
	Text      *string
	Number    *float64
	Date      *time.Time
	EndDate   *time.Time
	Checked   *bool
	OptionID  *string
	OptionIDs []string
}

// Patch is the validated subset of value fields a write assigns.
type Patch struct {
	set map[Column]any
}

func (p Patch) Len() int { return len(p.set) }

// Columns lists the assigned columns in canonical order.
func (p Patch) Columns() []Column {
	out := make([]Column, 0, len(p.set))
	for _, c := range columnOrder {
		if _, ok := p.set[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Apply assigns the patched columns onto f and leaves the rest untouched.
func (p Patch) Apply(f *Fields) {
	for col, v := range p.set {
		switch col {
		case ColText:
			f.Text = v.(*string)
		case ColNumber:
			f.Number = v.(*float64)
		case ColDate:
			f.Date = v.(*time.Time)
		case ColEndDate:
			f.EndDate = v.(*time.Time)
		case ColChecked:
			f.Checked = v.(*bool)
		case ColOptionID:
			f.OptionID = v.(*string)
		case ColOptionIDs:
			f.OptionIDs = v.([]string)
		}
	}
}

type Coercer struct {
	log *zap.SugaredLogger
	loc *time.Location
}

// NewCoercer builds a coercer. Plain calendar dates are read as midnight in
// loc; a nil loc means time.Local.
func NewCoercer(log *zap.SugaredLogger, loc *time.Location) *Coercer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Coercer{log: log, loc: loc}
}

// Coerce validates raw field by field against the target's type. Unknown keys
// are dropped; any rejected field fails the whole payload.
func (c *Coercer) Coerce(target Target, raw map[string]any) (Patch, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := Patch{set: make(map[Column]any, len(raw))}
	for _, key := range keys {
		col, ok := isColumn(key)
		if !ok {
			c.log.Debugw("dropping unknown value field", "property_id", target.ID, "field", key)
			continue
		}
		if !target.Type.allows(col) {
			return Patch{}, fmt.Errorf("%w: %s property does not take %q", ErrInvalidValueShape, target.Type, key)
		}
		v, err := c.field(target, col, raw[key])
		if err != nil {
			return Patch{}, err
		}
		p.set[col] = v
	}
	return p, nil
}

func (c *Coercer) field(target Target, col Column, v any) (any, error) {
	switch col {
	case ColText:
		return toText(v)
	case ColNumber:
		return toNumber(v)
	case ColDate, ColEndDate:
		return c.toDate(target, col, v), nil
	case ColChecked:
		switch b := v.(type) {
		case nil:
			return (*bool)(nil), nil
		case bool:
			return &b, nil
		}
		return nil, fmt.Errorf("%w: checked expects a boolean, got %T", ErrInvalidValueShape, v)
	case ColOptionID:
		return toOptionID(target.Config, v)
	case ColOptionIDs:
		return toOptionIDs(target.Config, v)
	}
	return nil, fmt.Errorf("%w: unsupported field %q", ErrInvalidValueShape, col)
}

func toText(v any) (*string, error) {
	var s string
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		s = t
	case bool:
		s = strconv.FormatBool(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		s = t.String()
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	default:
		return nil, fmt.Errorf("%w: text expects a scalar, got %T", ErrInvalidValueShape, v)
	}
	return &s, nil
}

func toNumber(v any) (*float64, error) {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrInvalidValueShape, t)
		}
		f = n
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrInvalidValueShape, t)
		}
		f = n
	default:
		return nil, fmt.Errorf("%w: number expects a numeric value, got %T", ErrInvalidValueShape, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: number must be finite", ErrInvalidValueShape)
	}
	return &f, nil
}

func toOptionID(cfg Config, v any) (*string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		id := strings.TrimSpace(t)
		if id == "" {
			return nil, nil
		}
		if cfg.closed() {
			if _, ok := cfg.Option(id); !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidOption, id)
			}
		}
		return &id, nil
	}
	return nil, fmt.Errorf("%w: option_id expects a string, got %T", ErrInvalidValueShape, v)
}

func toOptionIDs(cfg Config, v any) ([]string, error) {
	var ids []string
	switch t := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		ids = append(ids, t...)
	case []any:
		ids = make([]string, 0, len(t))
		for i, el := range t {
			s, ok := el.(string)
			if !ok {
				return nil, fmt.Errorf("%w: option_ids[%d] expects a string, got %T", ErrInvalidValueShape, i, el)
			}
			ids = append(ids, s)
		}
	default:
		return nil, fmt.Errorf("%w: option_ids expects a list, got %T", ErrInvalidValueShape, v)
	}
	if ids == nil {
		ids = []string{}
	}
	if cfg.closed() {
		for _, id := range ids {
			if _, ok := cfg.Option(id); !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidOption, id)
			}
		}
	}
	return ids, nil
}

// Layouts tried in order after the trailing Z has been rewritten as +00:00.
// Layouts without a zone are read in the coercer's location.
var isoLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02 15:04:05", false},
}

// toDate never fails: input that cannot be read as a date becomes unset.
func (c *Coercer) toDate(target Target, col Column, v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return &t
	case *time.Time:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if tm, ok := c.parseDate(s); ok {
			return &tm
		}
	}
	c.log.Warnw("unparseable date, storing no value",
		"property_id", target.ID, "field", string(col), "input", v)
	return nil
}

func (c *Coercer) parseDate(s string) (time.Time, bool) {
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, l := range isoLayouts {
		var (
			tm  time.Time
			err error
		)
		if l.zoned {
			tm, err = time.Parse(l.layout, s)
		} else {
			tm, err = time.ParseInLocation(l.layout, s, c.loc)
		}
		if err == nil {
			return tm, true
		}
	}
	if tm, err := time.ParseInLocation(time.DateOnly, s, c.loc); err == nil {
		return tm, true
	}
	return time.Time{}, false
}
