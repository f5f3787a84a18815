package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

func testSchema() Schema {
	return Schema{
		Entity: "Widget",
		Table:  "widgets",
		Fields: map[string]Field{
			"id":      {Column: "id", Kind: KindString},
			"name":    {Column: "widget_name", Kind: KindString},
			"size":    {Column: "size", Kind: KindInt},
			"country": {Column: "country", Kind: KindString},
			"active":  {Column: "active", Kind: KindBool},
		},
		Deletion: HardCascade,
	}
}

func TestBuildPredicates_LiteralEquality(t *testing.T) {
	preds, err := buildPredicates(testSchema(), Filter{"name": "acme"})
	assert.NoError(t, err)
	assert.Len(t, preds, 1)
	assert.Equal(t, "widget_name = ?", preds[0].expr)
	assert.Equal(t, []any{"acme"}, preds[0].args)
}

func TestBuildPredicates_ComparisonOperators(t *testing.T) {
	cases := []struct {
		op   string
		expr string
	}{
		{OpEq, "size = ?"},
		{OpNe, "size <> ?"},
		{OpGt, "size > ?"},
		{OpGte, "size >= ?"},
		{OpLt, "size < ?"},
		{OpLte, "size <= ?"},
	}
	for _, tc := range cases {
		preds, err := buildPredicates(testSchema(), Filter{"size": Cond{tc.op: 10}})
		assert.NoError(t, err, tc.op)
		assert.Len(t, preds, 1, tc.op)
		assert.Equal(t, tc.expr, preds[0].expr, tc.op)
		assert.Equal(t, []any{10}, preds[0].args, tc.op)
	}
}

func TestBuildPredicates_MembershipOperators(t *testing.T) {
	preds, err := buildPredicates(testSchema(), Filter{"country": Cond{OpIn: []string{"NG", "KE"}}})
	assert.NoError(t, err)
	assert.Len(t, preds, 1)
	assert.Equal(t, "country IN ?", preds[0].expr)
	assert.Equal(t, []any{[]any{"NG", "KE"}}, preds[0].args)

	preds, err = buildPredicates(testSchema(), Filter{"country": Cond{OpNotIn: []any{"NG"}}})
	assert.NoError(t, err)
	assert.Equal(t, "country NOT IN ?", preds[0].expr)
}

func TestBuildPredicates_EmptyMembershipListSkipsCondition(t *testing.T) {
	preds, err := buildPredicates(testSchema(), Filter{"country": Cond{OpIn: []string{}}})
	assert.NoError(t, err)
	assert.Empty(t, preds)

	preds, err = buildPredicates(testSchema(), Filter{"country": Cond{OpNotIn: []any{}}})
	assert.NoError(t, err)
	assert.Empty(t, preds)
}

func TestBuildPredicates_LikeWrapsTermCaseSensitive(t *testing.T) {
	preds, err := buildPredicates(testSchema(), Filter{"name": Cond{OpLike: "Reg"}})
	assert.NoError(t, err)
	assert.Equal(t, "widget_name LIKE ?", preds[0].expr)
	assert.Equal(t, []any{"%Reg%"}, preds[0].args)

	preds, err = buildPredicates(testSchema(), Filter{"name": Cond{OpNotLike: "Reg"}})
	assert.NoError(t, err)
	assert.Equal(t, "widget_name NOT LIKE ?", preds[0].expr)
}

func TestBuildPredicates_OrAndFieldMaps(t *testing.T) {
	preds, err := buildPredicates(testSchema(), Filter{
		"name": Cond{OpOr: map[string]any{"country": "NG", "size": 5}},
	})
	assert.NoError(t, err)
	assert.Len(t, preds, 1)
	assert.Equal(t, "(country = ? OR size = ?)", preds[0].expr)
	assert.Equal(t, []any{"NG", 5}, preds[0].args)

	preds, err = buildPredicates(testSchema(), Filter{
		"name": Cond{OpAnd: map[string]any{"active": true, "country": "KE"}},
	})
	assert.NoError(t, err)
	assert.Equal(t, "(active = ? AND country = ?)", preds[0].expr)
}

func TestBuildPredicates_CondListIsANDed(t *testing.T) {
	preds, err := buildPredicates(testSchema(), Filter{
		"size": []Cond{{OpGte: 1}, {OpLte: 9}},
	})
	assert.NoError(t, err)
	assert.Len(t, preds, 2)
	assert.Equal(t, "size >= ?", preds[0].expr)
	assert.Equal(t, "size <= ?", preds[1].expr)
}

func TestBuildPredicates_UnknownFieldRejected(t *testing.T) {
	_, err := buildPredicates(testSchema(), Filter{"salary": 100})

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Contains(t, appErr.Message, "salary")
}

func TestBuildPredicates_UnknownOperatorRejected(t *testing.T) {
	_, err := buildPredicates(testSchema(), Filter{"size": Cond{"$between": []int{1, 2}}})

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Contains(t, appErr.Message, "$between")
}

func TestBuildPredicates_OrRequiresFieldMap(t *testing.T) {
	_, err := buildPredicates(testSchema(), Filter{"name": Cond{OpOr: []string{"a", "b"}}})

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

func TestResolveColumns(t *testing.T) {
	cols, err := resolveColumns(testSchema(), map[string]any{"name": "x", "size": 3})
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"widget_name": "x", "size": 3}, cols)

	_, err = resolveColumns(testSchema(), map[string]any{"owner": "x"})
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}
