// Package gradcheck compares gradients from autograd's backward pass with
// centered finite differences.
package gradcheck

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/tektwister/ai_engineering/micrograd/autograd"
)

// Func builds a scalar expression of xs in g.
type Func func(g *autograd.Graph, xs []autograd.Value) (autograd.Value, error)

// Settings controls the finite difference step and the comparison tolerance.
type Settings struct {
	Step   float64
	AbsTol float64
	RelTol float64
}

// DefaultSettings returns settings that suit well-conditioned float64 inputs.
func DefaultSettings() Settings {
	return Settings{
		Step:   1e-6,
		AbsTol: 1e-5,
		RelTol: 1e-4,
	}
}

// Result holds both gradients for one input point.
type Result struct {
	Analytic   []float64
	Numeric    []float64
	MaxAbsDiff float64
	OK         bool
}

// Check evaluates f at x, runs backward, and compares the result with a
// centered finite difference estimate.
func Check(f Func, x []float64, s Settings) (*Result, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("gradcheck: no inputs")
	}

	analytic, err := Analytic(f, x)
	if err != nil {
		return nil, err
	}

	var evalErr error
	forward := func(p []float64) float64 {
		v, err := Eval(f, p)
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.NaN()
		}
		return v
	}

	numeric := fd.Gradient(nil, forward, x, &fd.Settings{
		Formula: fd.Central,
		Step:    s.Step,
	})
	if evalErr != nil {
		return nil, fmt.Errorf("gradcheck: finite difference left the domain: %w", evalErr)
	}

	res := &Result{Analytic: analytic, Numeric: numeric, OK: true}
	for i := range analytic {
		d := math.Abs(analytic[i] - numeric[i])
		if d > res.MaxAbsDiff || math.IsNaN(d) {
			res.MaxAbsDiff = d
		}
		if !scalar.EqualWithinAbsOrRel(analytic[i], numeric[i], s.AbsTol, s.RelTol) {
			res.OK = false
		}
	}
	return res, nil
}

// Eval builds f on a fresh graph and returns its forward value.
func Eval(f Func, x []float64) (float64, error) {
	g := autograd.NewGraph()
	out, err := f(g, g.Leaves(x...))
	if err != nil {
		return 0, err
	}
	return out.Data(), nil
}

// Analytic builds f on a fresh graph, runs backward, and returns the
// gradient with respect to each input.
func Analytic(f Func, x []float64) ([]float64, error) {
	g := autograd.NewGraph()
	xs := g.Leaves(x...)
	out, err := f(g, xs)
	if err != nil {
		return nil, err
	}
	if err := out.Backward(); err != nil {
		return nil, err
	}
	grads := make([]float64, len(xs))
	for i, v := range xs {
		grads[i] = v.Grad()
	}
	return grads, nil
}
