// Package expr parses and evaluates arithmetic expressions over float64.
package expr

import (
	"fmt"
	"math"
)

// Expr is a parsed expression.
type Expr struct {
	root node
	src  string
}

// Eval computes the value. Division by zero yields an infinity, as in IEEE
// arithmetic.
func (e *Expr) Eval() float64 {
	return e.root.eval()
}

func (e *Expr) String() string {
	return e.src
}

// Eval parses and evaluates src.
func Eval(src string) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(), nil
}

func (n numNode) eval() float64 {
	return float64(n)
}

func (n *unaryNode) eval() float64 {
	return -n.x.eval()
}

func (n *binaryNode) eval() float64 {
	l, r := n.l.eval(), n.r.eval()
	switch n.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	case '%':
		return math.Mod(l, r)
	case '^':
		return math.Pow(l, r)
	}
	panic(fmt.Sprintf("expr: unknown operator %q", n.op))
}

func (n *callNode) eval() float64 {
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		args[i] = a.eval()
	}
	return n.fn.call(args)
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

type function struct {
	call func([]float64) float64
	min  int
	max  int // -1 for variadic
}

func (f *function) arity() string {
	switch {
	case f.max < 0:
		return fmt.Sprintf("at least %d argument(s)", f.min)
	case f.min == f.max:
		return fmt.Sprintf("%d argument(s)", f.min)
	}
	return fmt.Sprintf("%d to %d arguments", f.min, f.max)
}

func unary(fn func(float64) float64) *function {
	return &function{min: 1, max: 1, call: func(a []float64) float64 { return fn(a[0]) }}
}

func signum(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case math.Signbit(x):
		return -1
	}
	return 1
}

var functions = map[string]*function{
	"sqrt":   unary(math.Sqrt),
	"abs":    unary(math.Abs),
	"exp":    unary(math.Exp),
	"ln":     unary(math.Log),
	"log10":  unary(math.Log10),
	"floor":  unary(math.Floor),
	"ceil":   unary(math.Ceil),
	"round":  unary(math.Round),
	"signum": unary(signum),
	"sin":    unary(math.Sin),
	"cos":    unary(math.Cos),
	"tan":    unary(math.Tan),
	"asin":   unary(math.Asin),
	"acos":   unary(math.Acos),
	"atan":   unary(math.Atan),
	"sinh":   unary(math.Sinh),
	"cosh":   unary(math.Cosh),
	"tanh":   unary(math.Tanh),
	"asinh":  unary(math.Asinh),
	"acosh":  unary(math.Acosh),
	"atanh":  unary(math.Atanh),
	"atan2": {min: 2, max: 2, call: func(a []float64) float64 {
		return math.Atan2(a[0], a[1])
	}},
	"min": {min: 1, max: -1, call: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {min: 1, max: -1, call: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}
