package dbroute

import (
	"fmt"
	"strconv"

	"biblioteca/dbroute/util/str"
	"github.com/Knetic/govaluate"
	"github.com/juju/errors"
)

var expressionFunctions = map[string]govaluate.ExpressionFunction{
	"parse": func(args ...interface{}) (interface{}, error) {
		s := ""
		for _, arg := range args {
			s += fmt.Sprintf("%v", arg)
		}
		return s, nil
	},
	"hashcode": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, errors.Errorf("hashcode: want 1 argument, got %d", len(args))
		}
		return float64(str.Hashcode(fmt.Sprintf("%v", args[0]))), nil
	},
	"hashmod": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, errors.Errorf("hashmod: want 2 arguments, got %d", len(args))
		}
		n, err := toInt64(args[1])
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, errors.New("hashmod: modulus must be positive")
		}
		return float64(str.HashMode(fmt.Sprintf("%v", args[0]), int32(n))), nil
	},
	"mod": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, errors.Errorf("mod: want 2 arguments, got %d", len(args))
		}
		a, err := toInt64(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toInt64(args[1])
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, errors.New("mod: division by zero")
		}
		m := a % b
		if m < 0 {
			m += b
		}
		return float64(m), nil
	},
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return strconv.ParseInt(fmt.Sprintf("%v", v), 10, 64)
}

// evaluateExpression evaluates a fragmentation expression with parameter bound to value
func evaluateExpression(parameter string, expression string, value interface{}) (interface{}, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, expressionFunctions)
	if err != nil {
		return nil, errors.Annotatef(err, "parsing expression %q", expression)
	}
	result, err := expr.Evaluate(map[string]interface{}{parameter: value})
	if err != nil {
		return nil, errors.Annotatef(err, "evaluating expression %q", expression)
	}
	return result, nil
}
