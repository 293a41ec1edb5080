// Package nn builds small feed-forward networks on top of the autograd engine.
package nn

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/tektwister/ai_engineering/micrograd/autograd"
)

var (
	// ErrInputSize is returned when an input does not match a module's width.
	ErrInputSize = errors.New("nn: input size mismatch")

	// ErrNotScalar is returned by CallScalar when the output is wider than one.
	ErrNotScalar = errors.New("nn: network output is not a scalar")
)

var (
	_ Module = (*Neuron)(nil)
	_ Module = (*Layer)(nil)
	_ Module = (*MLP)(nil)
)

// Module is the interface for all neural network modules.
type Module interface {
	Parameters() []autograd.Value
	ZeroGrad()
}

// zeroGrad resets gradients of all parameters of m.
func zeroGrad(m Module) {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// Neuron represents a single neuron with weights and a bias.
type Neuron struct {
	w []autograd.Value
	b autograd.Value
}

// NewNeuron creates a new Neuron with nin inputs in graph g.
func NewNeuron(g *autograd.Graph, rng *rand.Rand, nin int) *Neuron {
	w := make([]autograd.Value, nin)
	for i := range w {
		w[i] = g.Leaf(rng.Float64()*2 - 1) // random weights between -1 and 1
	}
	b := g.Leaf(0) // bias initialized to 0
	return &Neuron{w: w, b: b}
}

// Call computes tanh(w·x + b).
func (n *Neuron) Call(x []autograd.Value) (autograd.Value, error) {
	if len(x) != len(n.w) {
		return autograd.Value{}, fmt.Errorf("neuron expects %d inputs, got %d: %w", len(n.w), len(x), ErrInputSize)
	}

	terms := make([]autograd.Value, len(n.w))
	for i, wi := range n.w {
		terms[i] = wi.Mul(x[i])
	}
	return autograd.Sum(n.b, terms...).Tanh(), nil
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []autograd.Value {
	params := make([]autograd.Value, len(n.w)+1)
	copy(params, n.w)
	params[len(n.w)] = n.b
	return params
}

// ZeroGrad resets gradients of all parameters in the neuron.
func (n *Neuron) ZeroGrad() {
	zeroGrad(n)
}

// NumInputs returns the neuron's input width.
func (n *Neuron) NumInputs() int {
	return len(n.w)
}

func (n *Neuron) String() string {
	return fmt.Sprintf("TanhNeuron(%d)", len(n.w))
}

// Layer represents a layer of neurons sharing one input.
type Layer struct {
	nin     int
	neurons []*Neuron
}

// NewLayer creates a new Layer with nin inputs and nout outputs.
func NewLayer(g *autograd.Graph, rng *rand.Rand, nin, nout int) *Layer {
	neurons := make([]*Neuron, nout)
	for i := range neurons {
		neurons[i] = NewNeuron(g, rng, nin)
	}
	return &Layer{nin: nin, neurons: neurons}
}

// Call evaluates every neuron on x and returns their outputs in order.
func (l *Layer) Call(x []autograd.Value) ([]autograd.Value, error) {
	if len(x) != l.nin {
		return nil, fmt.Errorf("layer expects %d inputs, got %d: %w", l.nin, len(x), ErrInputSize)
	}
	outs := make([]autograd.Value, len(l.neurons))
	for i, n := range l.neurons {
		out, err := n.Call(x)
		if err != nil {
			return nil, err
		}
		outs[i] = out
	}
	return outs, nil
}

// CallScalar is Call for a layer with a single neuron.
func (l *Layer) CallScalar(x []autograd.Value) (autograd.Value, error) {
	out, err := l.Call(x)
	if err != nil {
		return autograd.Value{}, err
	}
	if len(out) != 1 {
		return autograd.Value{}, fmt.Errorf("layer has %d outputs, want 1: %w", len(out), ErrNotScalar)
	}
	return out[0], nil
}

// Parameters returns the parameters of all neurons in the layer.
func (l *Layer) Parameters() []autograd.Value {
	var params []autograd.Value
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// ZeroGrad resets gradients of all parameters in the layer.
func (l *Layer) ZeroGrad() {
	zeroGrad(l)
}

// NumOutputs returns the number of neurons.
func (l *Layer) NumOutputs() int {
	return len(l.neurons)
}

func (l *Layer) String() string {
	parts := make([]string, len(l.neurons))
	for i, n := range l.neurons {
		parts[i] = n.String()
	}
	return fmt.Sprintf("Layer of [%s]", strings.Join(parts, ", "))
}

// MLP represents a Multi-Layer Perceptron.
type MLP struct {
	g      *autograd.Graph
	layers []*Layer
}

// NewMLP creates a new MLP.
// nin is the number of inputs.
// nouts is a list of the number of neurons in each layer.
func NewMLP(g *autograd.Graph, rng *rand.Rand, nin int, nouts []int) *MLP {
	layers := make([]*Layer, len(nouts))
	sz := append([]int{nin}, nouts...)
	for i := range nouts {
		layers[i] = NewLayer(g, rng, sz[i], sz[i+1])
	}
	return &MLP{g: g, layers: layers}
}

// Call feeds x through each layer in order.
func (m *MLP) Call(x []autograd.Value) ([]autograd.Value, error) {
	for i, l := range m.layers {
		out, err := l.Call(x)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		x = out
	}
	return x, nil
}

// CallScalar is Call for networks whose last layer has a single neuron.
func (m *MLP) CallScalar(x []autograd.Value) (autograd.Value, error) {
	out, err := m.Call(x)
	if err != nil {
		return autograd.Value{}, err
	}
	if len(out) != 1 {
		return autograd.Value{}, fmt.Errorf("network has %d outputs, want 1: %w", len(out), ErrNotScalar)
	}
	return out[0], nil
}

// CallFloats promotes raw inputs to leaves in the network's graph and calls it.
func (m *MLP) CallFloats(x []float64) ([]autograd.Value, error) {
	return m.Call(m.g.Leaves(x...))
}

// Parameters returns the parameters of all layers in the MLP.
func (m *MLP) Parameters() []autograd.Value {
	var params []autograd.Value
	for _, l := range m.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// ZeroGrad resets gradients of all parameters in the MLP.
func (m *MLP) ZeroGrad() {
	zeroGrad(m)
}

// Layers returns the network's layers.
func (m *MLP) Layers() []*Layer {
	return m.layers
}

func (m *MLP) String() string {
	parts := make([]string, len(m.layers))
	for i, l := range m.layers {
		parts[i] = l.String()
	}
	return fmt.Sprintf("MLP of [%s]", strings.Join(parts, ", "))
}

// NumParameters returns how many parameters NewMLP(nin, nouts) allocates.
func NumParameters(nin int, nouts []int) int {
	total := 0
	for _, nout := range nouts {
		total += (nin + 1) * nout
		nin = nout
	}
	return total
}
