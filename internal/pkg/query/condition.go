package query

import "fmt"

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// comparison implements a binary comparison against a single parameter.
type comparison struct {
	field string
	op    string
	value interface{}
}

func (c *comparison) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, paramName), map[string]interface{}{
		paramName: c.value,
	}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "active") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &comparison{field: field, op: "=", value: value}
}

// Gte creates a "field >= @pN" condition.
func Gte(field string, value interface{}) Condition {
	return &comparison{field: field, op: ">=", value: value}
}

// Lt creates a "field < @pN" condition.
func Lt(field string, value interface{}) Condition {
	return &comparison{field: field, op: "<", value: value}
}

// inCondition matches a field against an array parameter.
type inCondition struct {
	field  string
	values []string
}

// In creates a membership condition bound as a single ARRAY<STRING> parameter.
// Example: In("payment_method", []string{"pix"}) generates "payment_method IN UNNEST(@p0)"
func In(field string, values []string) Condition {
	return &inCondition{field: field, values: values}
}

func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName), map[string]interface{}{
		paramName: c.values,
	}
}

// exprCondition is a literal fragment that binds no parameters.
type exprCondition struct {
	fragment string
}

// Expr wraps a literal SQL fragment. It must not contain user input.
func Expr(fragment string) Condition {
	return &exprCondition{fragment: fragment}
}

func (c *exprCondition) SQL(int) (string, map[string]interface{}) {
	return c.fragment, map[string]interface{}{}
}
