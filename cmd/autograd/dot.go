package main

import (
	"flag"
	"os"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/nn"
	"github.com/born-ml/autograd/internal/optim"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

// runDot prints the graph of a small two-layer network loss, optionally with
// the graph of its gradient.
func runDot(args []string) {
	fs := flag.NewFlagSet("dot", flag.ExitOnError)
	klog.InitFlags(fs)
	flagGrad := fs.Bool("grad", false, "Also record the gradient computation (create_graph) and print its graph.")
	flagSeed := fs.Uint64("seed", 1, "Random seed for the parameters.")
	must.M(fs.Parse(args))

	rng := nn.NewRand(*flagSeed)
	opt := optim.NewSGD(0.1)
	model := nn.NewSequential(
		nn.NewLinear("fc1", 2, 3, opt, rng),
		nn.NewTanh(),
		nn.NewLinear("fc2", 3, 1, opt, rng),
	)
	x := autodiff.New(must.M1(tensor.FromSlice([]float32{1, 2, -1, 0.5}, tensor.Shape{2, 2}))).Named("x")
	y := autodiff.New(must.M1(tensor.FromSlice([]float32{1, 0}, tensor.Shape{2, 1}))).Named("y")
	loss := ops.MSE(model.Forward(x), y).Named("loss")

	outputs := []autodiff.Computed{loss}
	if *flagGrad {
		refs := autodiff.ParamsOf(loss)
		handles := make([]autodiff.Computed, len(refs))
		for i, ref := range refs {
			handles[i] = ref.Handle
		}
		outputs = autodiff.Gradients([]autodiff.Computed{loss}, handles, true)
	}
	must.M(autodiff.WriteDOT(os.Stdout, outputs...))
}
