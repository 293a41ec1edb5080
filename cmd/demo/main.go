package main

import (
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"

	"github.com/tektwister/ai_engineering/micrograd/autograd"
	"github.com/tektwister/ai_engineering/micrograd/gradcheck"
	"github.com/tektwister/ai_engineering/micrograd/nn"
	"github.com/tektwister/ai_engineering/micrograd/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	fmt.Println("=== Scalar Autograd Demo ===")

	fmt.Println("\n--- Chain Rule ---")
	if err := demoChainRule(logger); err != nil {
		log.Fatalf("Chain rule demo failed: %v", err)
	}

	fmt.Println("\n--- Gradient Check ---")
	demoGradCheck()

	fmt.Println("\n--- Training ---")
	if err := train(cfg, logger); err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	fmt.Println("\n=== Demo Complete ===")
}

// demoChainRule runs L = (a*b + c) * f and prints every gradient.
func demoChainRule(logger *slog.Logger) error {
	g := autograd.NewGraph()
	g.SetLogger(logger)

	a := g.Labeled(2.0, "a")
	b := g.Labeled(-3.0, "b")
	c := g.Labeled(10.0, "c")
	f := g.Labeled(-2.0, "f")
	e := a.Mul(b).WithLabel("e")
	d := e.Add(c).WithLabel("d")
	L := d.Mul(f).WithLabel("L")

	if err := L.Backward(); err != nil {
		return err
	}
	for _, v := range []autograd.Value{a, b, c, e, d, f, L} {
		fmt.Println(v)
	}
	return nil
}

// demoGradCheck compares analytic and numeric gradients for a few expressions.
func demoGradCheck() {
	cases := []struct {
		name string
		f    gradcheck.Func
		x    []float64
	}{
		{
			name: "sin(x)*cos(y) + tan(x*y)",
			f: func(g *autograd.Graph, xs []autograd.Value) (autograd.Value, error) {
				return xs[0].Sin().Mul(xs[1].Cos()).Add(xs[0].Mul(xs[1]).Tan()), nil
			},
			x: []float64{0.3, 0.7},
		},
		{
			name: "log(x) / y**z",
			f: func(g *autograd.Graph, xs []autograd.Value) (autograd.Value, error) {
				lx, err := xs[0].Log()
				if err != nil {
					return autograd.Value{}, err
				}
				p, err := xs[1].Pow(xs[2])
				if err != nil {
					return autograd.Value{}, err
				}
				return lx.Div(p)
			},
			x: []float64{2.5, 1.5, 0.8},
		},
	}

	for _, tc := range cases {
		res, err := gradcheck.Check(tc.f, tc.x, gradcheck.DefaultSettings())
		if err != nil {
			log.Printf("Gradient check for %s failed: %v", tc.name, err)
			continue
		}
		fmt.Printf("%s: ok=%v max|diff|=%.2e\n", tc.name, res.OK, res.MaxAbsDiff)
	}
}

// train fits a tiny dataset with plain gradient descent.
func train(cfg *config.TrainingConfig, logger *slog.Logger) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	g := autograd.NewGraph()
	g.SetLogger(logger)

	// 1. Create a tiny dataset
	xs := [][]float64{
		{2.0, 3.0, -1.0},
		{3.0, -1.0, 0.5},
		{0.5, 1.0, 1.0},
		{1.0, 1.0, -1.0},
	}
	ys := []float64{1.0, -1.0, -1.0, 1.0}

	// 2. Initialize the model
	n := nn.NewMLP(g, rng, len(xs[0]), cfg.Layers)
	params := n.Parameters()
	logger.Info("model created", "model", n.String(), "parameters", len(params))

	// Everything above this mark survives between steps.
	mark := g.Len()

	// 3. Training loop
	for k := 0; k < cfg.Iterations; k++ {
		g.Truncate(mark)

		// Forward pass
		losses := make([]autograd.Value, len(xs))
		for i, x := range xs {
			pred, err := n.CallScalar(g.Leaves(x...))
			if err != nil {
				return err
			}
			diff := pred.SubScalar(ys[i]) // (pred - target)
			sq, err := diff.PowScalar(2)
			if err != nil {
				return err
			}
			losses[i] = sq
		}
		loss := autograd.Sum(losses[0], losses[1:]...)

		// Zero gradients
		n.ZeroGrad()

		// Backward pass
		if err := loss.Backward(); err != nil {
			return err
		}

		// Update parameters (Gradient Descent)
		for _, p := range params {
			p.SetData(p.Data() - cfg.LearningRate*p.Grad())
		}

		fmt.Printf("Step %d: loss %f\n", k, loss.Data())
	}

	// Check final predictions
	fmt.Println("\nFinal predictions:")
	g.Truncate(mark)
	for i, x := range xs {
		pred, err := n.CallScalar(g.Leaves(x...))
		if err != nil {
			return err
		}
		fmt.Printf("Input: %v, Target: %f, Prediction: %f\n", i, ys[i], pred.Data())
	}
	return nil
}
