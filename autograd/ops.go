package autograd

import (
	"fmt"
	"math"
)

// promote turns a raw scalar into a fresh leaf in v's graph.
func (v Value) promote(s float64) Value {
	if err := v.check(); err != nil {
		panic(err)
	}
	return v.g.Leaf(s)
}

// Add performs addition: v + other
func (v Value) Add(other Value) Value {
	mustSameGraph(v, other)
	return v.g.binary(OpAdd, v.Data()+other.Data(), v, other)
}

// AddScalar performs addition with a float64: v + scalar
func (v Value) AddScalar(scalar float64) Value {
	return v.Add(v.promote(scalar))
}

// Mul performs multiplication: v * other
func (v Value) Mul(other Value) Value {
	mustSameGraph(v, other)
	return v.g.binary(OpMul, v.Data()*other.Data(), v, other)
}

// MulScalar performs multiplication with a float64: v * scalar
func (v Value) MulScalar(scalar float64) Value {
	return v.Mul(v.promote(scalar))
}

// Pow raises v to a tracked exponent. Both operands receive gradients, so the
// base must be positive for ln(base) to exist.
func (v Value) Pow(exponent Value) (Value, error) {
	if err := sameGraph(v, exponent); err != nil {
		return Value{}, err
	}
	base, e := v.Data(), exponent.Data()
	if base <= 0 {
		return Value{}, fmt.Errorf("pow(%g, %g) with tracked exponent: %w", base, e, ErrDomain)
	}
	return v.g.binary(OpPow, math.Pow(base, e), v, exponent), nil
}

// PowScalar raises v to a constant exponent. A negative base needs an integer
// exponent. A zero base needs an exponent of 0 or at least 1, where the
// derivative is finite.
func (v Value) PowScalar(exponent float64) (Value, error) {
	if err := v.check(); err != nil {
		return Value{}, err
	}
	base := v.Data()
	if err := checkPow(base, exponent); err != nil {
		return Value{}, err
	}
	out := v.g.unary(OpPowConst, math.Pow(base, exponent), v)
	v.g.nodes[out.id].exponent = exponent
	return out, nil
}

func checkPow(base, exponent float64) error {
	switch {
	case base < 0 && exponent != math.Trunc(exponent):
		return fmt.Errorf("pow(%g, %g): negative base needs integer exponent: %w", base, exponent, ErrDomain)
	case base == 0 && exponent < 0:
		return fmt.Errorf("pow(%g, %g): zero base with negative exponent: %w", base, exponent, ErrDomain)
	case base == 0 && exponent > 0 && exponent < 1:
		return fmt.Errorf("pow(%g, %g): derivative is infinite at zero: %w", base, exponent, ErrDomain)
	}
	return nil
}

// Neg computes -v as v * -1.
func (v Value) Neg() Value {
	return v.MulScalar(-1)
}

// Sub computes v - other as v + (-other).
func (v Value) Sub(other Value) Value {
	mustSameGraph(v, other)
	return v.Add(other.Neg())
}

// SubScalar computes v - scalar.
func (v Value) SubScalar(scalar float64) Value {
	return v.Sub(v.promote(scalar))
}

// RSub computes scalar - v.
func (v Value) RSub(scalar float64) Value {
	return v.promote(scalar).Add(v.Neg())
}

// Div computes v / other as v * other**-1.
func (v Value) Div(other Value) (Value, error) {
	if err := sameGraph(v, other); err != nil {
		return Value{}, err
	}
	inv, err := other.PowScalar(-1)
	if err != nil {
		return Value{}, fmt.Errorf("div: %w", err)
	}
	return v.Mul(inv), nil
}

// DivScalar computes v / scalar.
func (v Value) DivScalar(scalar float64) (Value, error) {
	if err := v.check(); err != nil {
		return Value{}, err
	}
	return v.Div(v.promote(scalar))
}

// RDiv computes scalar / v.
func (v Value) RDiv(scalar float64) (Value, error) {
	if err := v.check(); err != nil {
		return Value{}, err
	}
	return v.promote(scalar).Div(v)
}

// Exp computes e**v.
func (v Value) Exp() Value {
	return v.g.unary(OpExp, math.Exp(v.Data()), v)
}

// Log computes the natural logarithm; v must be positive.
func (v Value) Log() (Value, error) {
	if err := v.check(); err != nil {
		return Value{}, err
	}
	x := v.Data()
	if x <= 0 {
		return Value{}, fmt.Errorf("log(%g): %w", x, ErrDomain)
	}
	return v.g.unary(OpLog, math.Log(x), v), nil
}

// Sin computes sin(v).
func (v Value) Sin() Value {
	return v.g.unary(OpSin, math.Sin(v.Data()), v)
}

// Cos computes cos(v).
func (v Value) Cos() Value {
	return v.g.unary(OpCos, math.Cos(v.Data()), v)
}

// Tan computes tan(v).
func (v Value) Tan() Value {
	return v.g.unary(OpTan, math.Tan(v.Data()), v)
}

// Tanh performs hyperbolic tangent activation
func (v Value) Tanh() Value {
	return v.g.unary(OpTanh, math.Tanh(v.Data()), v)
}

// ReLU performs Rectified Linear Unit activation
func (v Value) ReLU() Value {
	return v.g.unary(OpReLU, math.Max(0, v.Data()), v)
}

// Sum folds values onto start with Add, left to right.
func Sum(start Value, values ...Value) Value {
	acc := start
	for _, v := range values {
		acc = acc.Add(v)
	}
	return acc
}
