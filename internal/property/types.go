// Package property holds the closed set of property types, their typed
// configuration, and the coercion of loosely-typed input into value fields.
package property

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType       = errors.New("unknown property type")
	ErrInvalidValueShape = errors.New("invalid value shape")
	ErrInvalidOption     = errors.New("invalid option")
	ErrInvalidConfig     = errors.New("invalid property config")
)

type Type string

const (
	Text        Type = "text"
	Number      Type = "number"
	Select      Type = "select"
	MultiSelect Type = "multi_select"
	Status      Type = "status"
	Date        Type = "date"
	Checkbox    Type = "checkbox"
)

// Column names one field of a stored value row.
type Column string

const (
	ColText      Column = "text"
	ColNumber    Column = "number"
	ColDate      Column = "date"
	ColEndDate   Column = "end_date"
	ColChecked   Column = "checked"
	ColOptionID  Column = "option_id"
	ColOptionIDs Column = "option_ids"
)

// columnOrder is the canonical order used when listing patched columns.
var columnOrder = []Column{ColText, ColNumber, ColDate, ColEndDate, ColChecked, ColOptionID, ColOptionIDs}

type typeShape struct {
	columns      []Column
	needsOptions bool
}

var registry = map[Type]typeShape{
	Text:        {columns: []Column{ColText}},
	Number:      {columns: []Column{ColNumber}},
	Select:      {columns: []Column{ColOptionID}, needsOptions: true},
	MultiSelect: {columns: []Column{ColOptionIDs}, needsOptions: true},
	Status:      {columns: []Column{ColOptionID}, needsOptions: true},
	Date:        {columns: []Column{ColDate, ColEndDate}},
	Checkbox:    {columns: []Column{ColChecked}},
}

// Types lists every registered type in a stable order.
func Types() []Type {
	return []Type{Text, Number, Select, MultiSelect, Status, Date, Checkbox}
}

// ParseType looks a type up by its exact (case-sensitive) name.
func ParseType(name string) (Type, error) {
	t := Type(name)
	if _, ok := registry[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// Columns reports which value fields a type may populate.
func (t Type) Columns() []Column {
	return registry[t].columns
}

// RequiresOptions is true for the choice types, whose config must carry an
// option list.
func (t Type) RequiresOptions() bool {
	return registry[t].needsOptions
}

func (t Type) allows(c Column) bool {
	for _, have := range registry[t].columns {
		if have == c {
			return true
		}
	}
	return false
}

func isColumn(name string) (Column, bool) {
	for _, c := range columnOrder {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
