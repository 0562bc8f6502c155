// Package filter translates AIP-160 battle filters into SQL conditions.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ErrInvalidFilter reports a filter expression that cannot be translated.
var ErrInvalidFilter = errors.New("invalid filter")

// BattleDeclarations returns the fields a battle list filter may reference.
func BattleDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("victory", filtering.TypeString),
		filtering.DeclareIdent("turn", filtering.TypeInt),
		filtering.DeclareIdent("created_at", filtering.TypeTimestamp),
		filtering.DeclareIdent("updated_at", filtering.TypeTimestamp),
	)
}

// SQLCondition is a WHERE clause fragment with positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

// Empty reports whether the condition matches everything.
func (c SQLCondition) Empty() bool {
	return c.Clause == ""
}

var fieldMapping = map[string]string{
	"victory":    "victory",
	"turn":       "turn",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

var operators = map[string]string{
	"_==_": "=", "=": "=",
	"_!=_": "!=", "!=": "!=",
	"_<_": "<", "<": "<",
	"_<=_": "<=", "<=": "<=",
	"_>_": ">", ">": ">",
	"_>=_": ">=", ">=": ">=",
}

// ParseBattleFilter parses a filter such as
// `victory = "side_a" AND turn >= 5` into a SQL condition. An empty filter
// yields an empty condition.
func ParseBattleFilter(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}

	decls, err := BattleDeclarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	cond, err := translateExpr(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return SQLCondition{}, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return cond, nil
}

func translateExpr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}
	return translateCall(call.CallExpr)
}

func translateCall(call *expr.Expr_Call) (SQLCondition, error) {
	switch call.Function {
	case "_&&_", "AND":
		return translateLogical(call.Args, "AND")
	case "_||_", "OR":
		return translateLogical(call.Args, "OR")
	case "NOT", "_!_":
		if len(call.Args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := translateExpr(call.Args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: fmt.Sprintf("NOT (%s)", inner.Clause), Params: inner.Params}, nil
	}
	if op, ok := operators[call.Function]; ok {
		return translateComparison(call.Args, op)
	}
	return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
}

func translateLogical(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := translateExpr(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	right, err := translateExpr(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	column, ok := fieldMapping[ident.IdentExpr.GetName()]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}
	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

func extractValue(e *expr.Expr) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		switch c := kind.ConstExpr.GetConstantKind().(type) {
		case *expr.Constant_StringValue:
			return c.StringValue, nil
		case *expr.Constant_Int64Value:
			return c.Int64Value, nil
		case *expr.Constant_Uint64Value:
			return c.Uint64Value, nil
		default:
			return nil, fmt.Errorf("unsupported constant type: %T", c)
		}
	case *expr.Expr_CallExpr:
		if kind.CallExpr.GetFunction() == "timestamp" && len(kind.CallExpr.GetArgs()) == 1 {
			return extractTimestampMillis(kind.CallExpr.GetArgs()[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.GetFunction())
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

// extractTimestampMillis converts timestamp("...") to the millisecond
// epoch the store keeps in its time columns.
func extractTimestampMillis(e *expr.Expr) (int64, error) {
	c, ok := e.GetConstExpr().GetConstantKind().(*expr.Constant_StringValue)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a constant string")
	}
	t, err := time.Parse(time.RFC3339Nano, c.StringValue)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", c.StringValue)
	}
	return t.UTC().UnixMilli(), nil
}
