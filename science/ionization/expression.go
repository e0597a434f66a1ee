/*
Copyright © 2024 the ionochem authors.
This file is part of ionochem.

ionochem is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ionochem is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ionochem.  If not, see <http://www.gnu.org/licenses/>.
*/

package ionization

import (
	"fmt"
	"math"
	"strings"

	"github.com/Knetic/govaluate"
)

// Expression is a source whose rate is given by a formula of the
// time variable 't' [s], for example
//
//	t < 3600 ? pow(10, 8) : 5 * pow(10, 9) * exp(-(t-3600)/60)
//
// The functions sin, cos, exp, sqrt and pow and the constant pi are
// available. Exponent notation such as 1e8 is not understood by the
// expression parser; use pow(10, 8).
type Expression struct {
	text string
	expr *govaluate.EvaluableExpression
}

var expressionFuncs = map[string]govaluate.ExpressionFunction{
	"sin":  unary("sin", math.Sin),
	"cos":  unary("cos", math.Cos),
	"exp":  unary("exp", math.Exp),
	"sqrt": unary("sqrt", math.Sqrt),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("ionization: got %d arguments for function 'pow', but needs 2", len(args))
		}
		x, ok1 := args[0].(float64)
		y, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("ionization: non-numeric argument to 'pow'")
		}
		return math.Pow(x, y), nil
	},
}

func unary(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("ionization: got %d arguments for function '%s', but needs 1", len(args), name)
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("ionization: non-numeric argument to '%s'", name)
		}
		return f(x), nil
	}
}

// timeParameters supplies expression variables without allocating a map
// on every evaluation.
type timeParameters float64

func (t timeParameters) Get(name string) (interface{}, error) {
	switch name {
	case "t":
		return float64(t), nil
	case "pi":
		return math.Pi, nil
	}
	return nil, fmt.Errorf("ionization: undefined variable '%s'; only 't' and 'pi' are available", name)
}

// NewExpression compiles a rate formula. It returns an error if the
// formula does not parse, refers to variables other than t and pi, or
// does not evaluate to a number at t=0.
func NewExpression(text string) (*Expression, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("ionization: the custom regime requires a rate expression")
	}
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(text, expressionFuncs)
	if err != nil {
		return nil, fmt.Errorf("ionization: parsing rate expression %q: %v", text, err)
	}
	for _, v := range expr.Vars() {
		if v != "t" && v != "pi" {
			return nil, fmt.Errorf("ionization: rate expression %q: undefined variable '%s'", text, v)
		}
	}
	e := &Expression{text: text, expr: expr}
	if _, err := e.eval(0); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Expression) eval(t float64) (float64, error) {
	v, err := e.expr.Eval(timeParameters(t))
	if err != nil {
		return math.NaN(), fmt.Errorf("ionization: evaluating %q at t=%g: %v", e.text, t, err)
	}
	f, ok := v.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("ionization: rate expression %q returned %T, not a number", e.text, v)
	}
	return f, nil
}

// Rate evaluates the formula at t. Evaluation failures return NaN,
// which the integrator reports as a non-finite solution.
func (e *Expression) Rate(t float64) float64 {
	v, _ := e.eval(t)
	return v
}

func (e *Expression) String() string { return e.text }
