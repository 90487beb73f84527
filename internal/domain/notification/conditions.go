package notification

import (
	"fmt"
	"strconv"
	"strings"
)

// lookupField resolves a dot-separated path against the entity data. The
// second return reports whether the path resolved to a present value; an
// explicit JSON null counts as absent.
func lookupField(data map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var cur interface{} = data
	for _, p := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// evaluateConditions reports whether every condition holds against the entity
// data. Conditions are AND-ed; an empty list matches. An unknown operator is
// an error so that a malformed rule never fires.
func evaluateConditions(conds []Condition, data map[string]interface{}) (bool, error) {
	for _, c := range conds {
		ok, err := evaluateCondition(c, data)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluateCondition(c Condition, data map[string]interface{}) (bool, error) {
	val, present := lookupField(data, c.Field)

	switch c.Operator {
	case OpIsNull:
		return !present, nil
	case OpIsNotNull:
		return present, nil
	}

	// All remaining operators compare against the condition value; an absent
	// field never matches them.
	if !present {
		return false, nil
	}

	switch c.Operator {
	case OpEquals:
		return looseEqual(val, c.Value), nil
	case OpNotEquals:
		return !looseEqual(val, c.Value), nil
	case OpGreaterThan:
		a, b, ok := bothNumeric(val, c.Value)
		return ok && a > b, nil
	case OpLessThan:
		a, b, ok := bothNumeric(val, c.Value)
		return ok && a < b, nil
	case OpContains:
		return strings.Contains(stringify(val), stringify(c.Value)), nil
	case OpNotContains:
		return !strings.Contains(stringify(val), stringify(c.Value)), nil
	default:
		return false, fmt.Errorf("unknown condition operator %q", c.Operator)
	}
}

// looseEqual compares two values, coercing both to numbers when possible so
// that a JSON 3 matches a rule value "3".
func looseEqual(a, b interface{}) bool {
	if na, nb, ok := bothNumeric(a, b); ok {
		return na == nb
	}
	return stringify(a) == stringify(b)
}

func bothNumeric(a, b interface{}) (float64, float64, bool) {
	na, aok := toNumber(a)
	nb, bok := toNumber(b)
	return na, nb, aok && bok
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}
