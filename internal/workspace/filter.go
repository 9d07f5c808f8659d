package workspace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"pagebase/internal/db"
	"pagebase/internal/property"
)

// FilterOp is a page filter operator.
type FilterOp string

const (
	OpIs           FilterOp = "is"
	OpIsNot        FilterOp = "is_not"
	OpContains     FilterOp = "contains"
	OpIsEmpty      FilterOp = "is_empty"
	OpIsNotEmpty   FilterOp = "is_not_empty"
	OpIsChecked    FilterOp = "is_checked"
	OpIsNotChecked FilterOp = "is_not_checked"
)

// PageFilter keeps the pages whose value for PropertyID satisfies Op.
// Value is ignored by the emptiness and checkbox operators.
type PageFilter struct {
	PropertyID string
	Op         FilterOp
	Value      string
}

const valueExists = `EXISTS (SELECT 1 FROM property_values v WHERE v.page_id = pages.id AND v.property_id = ? AND %s)`

// where renders the filter as a condition on the pages table.
func (f PageFilter) where(prop Property, dialect string) (string, []any, error) {
	pred, arg, negate, err := f.predicate(prop, dialect)
	if err != nil {
		return "", nil, err
	}
	cond := fmt.Sprintf(valueExists, pred)
	if negate {
		cond = "NOT " + cond
	}
	args := []any{prop.ID}
	if arg != nil {
		args = append(args, arg)
	}
	return cond, args, nil
}

// predicate returns the condition on the value row, its bind argument, and
// whether the page matches when no such row exists.
func (f PageFilter) predicate(prop Property, dialect string) (string, any, bool, error) {
	invalid := func() (string, any, bool, error) {
		return "", nil, false, fmt.Errorf("%w: %q on %s property", ErrInvalidFilter, f.Op, prop.Type)
	}

	switch prop.Type {
	case property.Text:
		const set = "v.text IS NOT NULL AND v.text <> ''"
		switch f.Op {
		case OpIs:
			return "v.text = ?", f.Value, false, nil
		case OpIsNot:
			return "v.text = ?", f.Value, true, nil
		case OpContains:
			return containsExpr("v.text", dialect), likePattern(f.Value), false, nil
		case OpIsEmpty:
			return set, nil, true, nil
		case OpIsNotEmpty:
			return set, nil, false, nil
		}
	case property.Select, property.Status:
		switch f.Op {
		case OpIs:
			return "v.option_id = ?", f.Value, false, nil
		case OpIsNot:
			return "v.option_id = ?", f.Value, true, nil
		case OpIsEmpty:
			return "v.option_id IS NOT NULL", nil, true, nil
		case OpIsNotEmpty:
			return "v.option_id IS NOT NULL", nil, false, nil
		}
	case property.MultiSelect:
		const set = "CAST(v.option_ids AS TEXT) <> '[]'"
		switch f.Op {
		case OpContains:
			return `CAST(v.option_ids AS TEXT) LIKE ? ESCAPE '\'`, "%" + escapeLike(jsonString(f.Value)) + "%", false, nil
		case OpIsEmpty:
			return set, nil, true, nil
		case OpIsNotEmpty:
			return set, nil, false, nil
		}
	case property.Number:
		switch f.Op {
		case OpIs, OpIsNot:
			n, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
			if err != nil {
				return "", nil, false, fmt.Errorf("%w: %q is not a number", ErrInvalidFilter, f.Value)
			}
			return "v.number = ?", n, f.Op == OpIsNot, nil
		case OpIsEmpty:
			return "v.number IS NOT NULL", nil, true, nil
		case OpIsNotEmpty:
			return "v.number IS NOT NULL", nil, false, nil
		}
	case property.Date:
		switch f.Op {
		case OpIsEmpty:
			return "v.date IS NOT NULL", nil, true, nil
		case OpIsNotEmpty:
			return "v.date IS NOT NULL", nil, false, nil
		}
	case property.Checkbox:
		switch f.Op {
		case OpIsChecked:
			return "v.checked = ?", true, false, nil
		case OpIsNotChecked:
			return "v.checked = ?", true, true, nil
		}
	}
	return invalid()
}

// containsExpr is a case-insensitive substring match of col against a
// likePattern argument.
func containsExpr(col, dialect string) string {
	if dialect == "postgres" {
		return col + ` ILIKE ? ESCAPE '\'`
	}
	return db.LowerFunc + "(" + col + `) LIKE ? ESCAPE '\'`
}

func likePattern(term string) string {
	return "%" + escapeLike(strings.ToLower(term)) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// jsonString renders s the way it appears inside a stored option_ids array.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
