package autograd_test

import (
	"math/rand"
	"testing"

	"github.com/tektwister/ai_engineering/micrograd/autograd"
	"github.com/tektwister/ai_engineering/micrograd/gradcheck"
)

type V = autograd.Value

func unary(f func(V) V) gradcheck.Func {
	return func(_ *autograd.Graph, xs []V) (V, error) {
		return f(xs[0]), nil
	}
}

func unaryErr(f func(V) (V, error)) gradcheck.Func {
	return func(_ *autograd.Graph, xs []V) (V, error) {
		return f(xs[0])
	}
}

func binary(f func(V, V) V) gradcheck.Func {
	return func(_ *autograd.Graph, xs []V) (V, error) {
		return f(xs[0], xs[1]), nil
	}
}

func binaryErr(f func(V, V) (V, error)) gradcheck.Func {
	return func(_ *autograd.Graph, xs []V) (V, error) {
		return f(xs[0], xs[1])
	}
}

// TestGradientsMatchFiniteDifferences samples in-domain inputs for every
// operation and compares backward with a centered difference.
func TestGradientsMatchFiniteDifferences(t *testing.T) {
	type interval struct{ lo, hi float64 }

	tests := []struct {
		name   string
		f      gradcheck.Func
		ranges []interval
	}{
		{"Add", binary(V.Add), []interval{{-3, 3}, {-3, 3}}},
		{"Mul", binary(V.Mul), []interval{{-3, 3}, {-3, 3}}},
		{"Sub", binary(V.Sub), []interval{{-3, 3}, {-3, 3}}},
		{"Div", binaryErr(V.Div), []interval{{-3, 3}, {0.5, 3}}},
		{"Pow", binaryErr(V.Pow), []interval{{0.5, 2}, {-2, 2}}},
		{"PowScalarSquare", unaryErr(func(x V) (V, error) { return x.PowScalar(2) }), []interval{{-3, 3}}},
		{"PowScalarSqrt", unaryErr(func(x V) (V, error) { return x.PowScalar(0.5) }), []interval{{0.2, 3}}},
		{"PowScalarInverse", unaryErr(func(x V) (V, error) { return x.PowScalar(-1) }), []interval{{0.5, 3}}},
		{"Neg", unary(V.Neg), []interval{{-3, 3}}},
		{"AddScalar", unary(func(x V) V { return x.AddScalar(1.5) }), []interval{{-3, 3}}},
		{"MulScalar", unary(func(x V) V { return x.MulScalar(-2.5) }), []interval{{-3, 3}}},
		{"RSub", unary(func(x V) V { return x.RSub(2) }), []interval{{-3, 3}}},
		{"RDiv", unaryErr(func(x V) (V, error) { return x.RDiv(2) }), []interval{{0.5, 3}}},
		{"Exp", unary(V.Exp), []interval{{-2, 2}}},
		{"Log", unaryErr(V.Log), []interval{{0.1, 5}}},
		{"Sin", unary(V.Sin), []interval{{-3, 3}}},
		{"Cos", unary(V.Cos), []interval{{-3, 3}}},
		{"Tan", unary(V.Tan), []interval{{-1, 1}}},
		{"Tanh", unary(V.Tanh), []interval{{-2, 2}}},
		{"ReLUPositive", unary(V.ReLU), []interval{{0.1, 3}}},
		{"ReLUNegative", unary(V.ReLU), []interval{{-3, -0.1}}},
		{"Composite", func(_ *autograd.Graph, xs []V) (V, error) {
			// exp(sin(x*y)) / (1 + y**2) + tanh(x - y) * x
			sq, err := xs[1].PowScalar(2)
			if err != nil {
				return V{}, err
			}
			q, err := xs[0].Mul(xs[1]).Sin().Exp().Div(sq.AddScalar(1))
			if err != nil {
				return V{}, err
			}
			return q.Add(xs[0].Sub(xs[1]).Tanh().Mul(xs[0])), nil
		}, []interval{{-2, 2}, {-2, 2}}},
	}

	rng := rand.New(rand.NewSource(42))
	settings := gradcheck.DefaultSettings()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for trial := 0; trial < 10; trial++ {
				x := make([]float64, len(tt.ranges))
				for i, r := range tt.ranges {
					x[i] = r.lo + rng.Float64()*(r.hi-r.lo)
				}
				res, err := gradcheck.Check(tt.f, x, settings)
				if err != nil {
					t.Fatalf("Check(%v) failed: %v", x, err)
				}
				if !res.OK {
					t.Errorf("x=%v: analytic %v, numeric %v", x, res.Analytic, res.Numeric)
				}
			}
		})
	}
}
