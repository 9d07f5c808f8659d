package property

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const defaultColor = "gray"

// Option is one selectable choice of a select, multi_select or status property.
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color"`
	Group string `json:"group,omitempty" yaml:"group"`
}

// UnmarshalJSON accepts "label" as an alias for "name".
func (o *Option) UnmarshalJSON(b []byte) error {
	var aux struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Label string `json:"label"`
		Color string `json:"color"`
		Group string `json:"group"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	o.ID, o.Name, o.Color, o.Group = aux.ID, aux.Name, aux.Color, aux.Group
	if o.Name == "" {
		o.Name = aux.Label
	}
	return nil
}

// Config is the typed per-type configuration of a property.
type Config struct {
	Options []Option `json:"options,omitempty"`
	IsRange bool     `json:"is_range,omitempty"`
}

func (c Config) Option(id string) (Option, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// closed reports whether option references must be members of Options.
func (c Config) closed() bool { return len(c.Options) > 0 }

// NormalizeConfig parses a raw config payload into the shape t requires.
// A nil or JSON-null payload yields the type's defaults; choice types get
// their preset option set.
func NormalizeConfig(t Type, raw json.RawMessage) (Config, error) {
	if _, err := ParseType(string(t)); err != nil {
		return Config{}, err
	}

	var cfg Config
	present := len(bytes.TrimSpace(raw)) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	if present {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	switch {
	case t.RequiresOptions():
		cfg.IsRange = false
		if !present {
			opts, err := Preset(t)
			if err != nil {
				return Config{}, err
			}
			cfg.Options = opts
		}
		opts, err := normalizeOptions(cfg.Options)
		if err != nil {
			return Config{}, err
		}
		cfg.Options = opts
	case t == Date:
		cfg.Options = nil
	default:
		cfg = Config{}
	}
	return cfg, nil
}

func normalizeOptions(in []Option) ([]Option, error) {
	out := make([]Option, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, o := range in {
		o.Name = strings.TrimSpace(o.Name)
		if o.Name == "" {
			return nil, fmt.Errorf("%w: option %d has no name", ErrInvalidConfig, i)
		}
		o.ID = strings.TrimSpace(o.ID)
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if _, dup := seen[o.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate option id %q", ErrInvalidConfig, o.ID)
		}
		seen[o.ID] = struct{}{}
		if o.Color == "" {
			o.Color = defaultColor
		}
		out = append(out, o)
	}
	return out, nil
}
