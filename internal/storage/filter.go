package storage

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

// Cond maps an operator ($gte, $like, ...) to its operand.
type Cond map[string]any

// Filter maps a field name to either a literal (equality), a Cond, or a
// []Cond (implicitly ANDed).
type Filter map[string]any

const (
	OpEq      = "$eq"
	OpNe      = "$ne"
	OpGt      = "$gt"
	OpGte     = "$gte"
	OpLt      = "$lt"
	OpLte     = "$lte"
	OpIn      = "$in"
	OpNotIn   = "$not_in"
	OpLike    = "$like"
	OpNotLike = "$not_like"
	OpOr      = "$or"
	OpAnd     = "$and"
)

// predicate is one rendered SQL fragment plus its bind arguments.
type predicate struct {
	expr string
	args []any
}

// Predicate is the exported form of a rendered fragment, for repositories
// that combine the grammar with raw clauses the grammar cannot express.
type Predicate struct {
	Expr string
	Args []any
}

// Predicates renders a Filter into fragments the caller applies itself.
func Predicates(s Schema, f Filter) ([]Predicate, error) {
	preds, err := buildPredicates(s, f)
	if err != nil {
		return nil, err
	}
	out := make([]Predicate, len(preds))
	for i, p := range preds {
		out[i] = Predicate{Expr: p.expr, Args: p.args}
	}
	return out, nil
}

// buildPredicates renders a Filter against a schema. Unknown fields and
// unknown operators fail with a validation error before any SQL is issued.
func buildPredicates(s Schema, f Filter) ([]predicate, error) {
	if len(f) == 0 {
		return nil, nil
	}

	// Deterministic order keeps generated SQL stable for tests and logs.
	fields := make([]string, 0, len(f))
	for name := range f {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var preds []predicate
	for _, name := range fields {
		fd, ok := s.Fields[name]
		if !ok {
			return nil, apperror.Validationf("Unsupported filter field for %s: %s", s.Entity, name)
		}

		switch v := f[name].(type) {
		case Cond:
			ps, err := applyConds(s, fd, v)
			if err != nil {
				return nil, err
			}
			preds = append(preds, ps...)
		case []Cond:
			for _, cond := range v {
				ps, err := applyConds(s, fd, cond)
				if err != nil {
					return nil, err
				}
				preds = append(preds, ps...)
			}
		default:
			preds = append(preds, predicate{expr: fd.Column + " = ?", args: []any{v}})
		}
	}

	return preds, nil
}

func applyConds(s Schema, fd Field, cond Cond) ([]predicate, error) {
	ops := make([]string, 0, len(cond))
	for op := range cond {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	var preds []predicate
	for _, op := range ops {
		p, skip, err := applyOperator(s, fd, op, cond[op])
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func applyOperator(s Schema, fd Field, op string, operand any) (predicate, bool, error) {
	col := fd.Column

	switch op {
	case OpEq:
		return predicate{col + " = ?", []any{operand}}, false, nil
	case OpNe:
		return predicate{col + " <> ?", []any{operand}}, false, nil
	case OpGt:
		return predicate{col + " > ?", []any{operand}}, false, nil
	case OpGte:
		return predicate{col + " >= ?", []any{operand}}, false, nil
	case OpLt:
		return predicate{col + " < ?", []any{operand}}, false, nil
	case OpLte:
		return predicate{col + " <= ?", []any{operand}}, false, nil
	case OpIn, OpNotIn:
		vals, ok := asSlice(operand)
		if !ok {
			return predicate{}, false, apperror.Validationf("Operator %s requires a list operand", op)
		}
		// Empty membership list means the filter is skipped, not
		// "match nothing".
		if len(vals) == 0 {
			return predicate{}, true, nil
		}
		expr := col + " IN ?"
		if op == OpNotIn {
			expr = col + " NOT IN ?"
		}
		return predicate{expr, []any{vals}}, false, nil
	case OpLike, OpNotLike:
		term, ok := operand.(string)
		if !ok {
			return predicate{}, false, apperror.Validationf("Operator %s requires a string operand", op)
		}
		expr := col + " LIKE ?"
		if op == OpNotLike {
			expr = col + " NOT LIKE ?"
		}
		return predicate{expr, []any{"%" + term + "%"}}, false, nil
	case OpOr, OpAnd:
		sub, ok := operand.(map[string]any)
		if !ok {
			return predicate{}, false, apperror.Validationf("Operator %s requires a field mapping operand", op)
		}
		return combineFieldMap(s, sub, op)
	default:
		return predicate{}, false, apperror.Validationf("Unsupported filter operator: %s", op)
	}
}

// combineFieldMap renders {field: value, ...} as equality sub-predicates
// joined with OR or AND.
func combineFieldMap(s Schema, sub map[string]any, op string) (predicate, bool, error) {
	names := make([]string, 0, len(sub))
	for name := range sub {
		names = append(names, name)
	}
	sort.Strings(names)

	exprs := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, name := range names {
		fd, ok := s.Fields[name]
		if !ok {
			return predicate{}, false, apperror.Validationf("Unsupported filter field for %s: %s", s.Entity, name)
		}
		exprs = append(exprs, fd.Column+" = ?")
		args = append(args, sub[name])
	}

	joiner := " OR "
	if op == OpAnd {
		joiner = " AND "
	}
	return predicate{"(" + strings.Join(exprs, joiner) + ")", args}, false, nil
}

// asSlice coerces a typed slice operand ([]string, []int, ...) into []any.
func asSlice(operand any) ([]any, bool) {
	if operand == nil {
		return nil, true
	}
	if vals, ok := operand.([]any); ok {
		return vals, true
	}
	rv := reflect.ValueOf(operand)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// resolveColumns maps update-value field names onto columns, rejecting
// anything outside the descriptor table.
func resolveColumns(s Schema, values map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for name, v := range values {
		fd, ok := s.Fields[name]
		if !ok {
			return nil, apperror.Validationf("Unsupported field for %s: %s", s.Entity, name)
		}
		out[fd.Column] = v
	}
	return out, nil
}

func dateExpr(col string) string {
	return fmt.Sprintf("CAST(%s AS date) = ?", col)
}
