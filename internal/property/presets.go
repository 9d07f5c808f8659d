package property

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Status groups a status option can belong to.
const (
	GroupTodo       = "To-do"
	GroupInProgress = "In Progress"
	GroupComplete   = "Complete"
)

var loadPresets = sync.OnceValues(func() (map[Type][]Option, error) {
	raw := map[string][]Option{}
	if err := yaml.Unmarshal(presetsYAML, &raw); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	out := make(map[Type][]Option, len(raw))
	for name, opts := range raw {
		t, err := ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("presets: %w", err)
		}
		out[t] = opts
	}
	return out, nil
})

// Preset returns a fresh copy of the default options for a choice type.
// Ids are left empty; NormalizeConfig assigns them.
func Preset(t Type) ([]Option, error) {
	all, err := loadPresets()
	if err != nil {
		return nil, err
	}
	src := all[t]
	out := make([]Option, len(src))
	copy(out, src)
	return out, nil
}
