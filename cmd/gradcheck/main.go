package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/djeday123/gograd/autograd"
	"github.com/djeday123/gograd/gradcheck"
	"github.com/djeday123/gograd/nn"
	"github.com/djeday123/gograd/pkg/hostinfo"
)

func main() {
	seed := flag.Int64("seed", 1, "Random seed for the model")
	step := flag.Float64("step", 1e-6, "Finite difference step")
	tol := flag.Float64("tol", 1e-4, "Accepted error")
	flag.Parse()

	fmt.Println("=== Gradient Check ===")
	fmt.Printf("Host: %s\n\n", hostinfo.Detect())

	settings := gradcheck.Settings{Step: *step, Tolerance: *tol}
	failed := false

	// Test 1: the reference expression over two leaves
	tape := autograd.NewTape()
	a := tape.Leaf(-4)
	b := tape.Leaf(2)
	rep, err := gradcheck.Check([]autograd.Var{a, b}, func() (autograd.Var, error) {
		c := a.Add(b)
		d := a.Mul(b).Add(b.Pow(3))
		c1 := c.Add(c).Add(autograd.Const(1))
		c2 := c1.Add(autograd.Const(1)).Add(c1).Add(a.Neg())
		d1 := d.Add(d.Mul(autograd.Const(2))).Add(b.Add(a).ReLU())
		d2 := d1.Add(d1.Mul(autograd.Const(3))).Add(b.Sub(a).ReLU())
		e := c2.Sub(d2)
		f := e.Pow(2)
		return f.Div(autograd.Const(2)).Add(f.RevDiv(autograd.Const(10))), nil
	}, settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "expression check: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("expression value: %.6f\n", rep.Value)
	failed = report([]string{"a", "b"}, rep) || failed

	// Test 2: a small MLP under squared error
	fmt.Println("\n--- MLP(3, [4, 2]) ---")
	mlp, err := nn.NewMLP(tape, 3, []int{4, 2}, nn.NeuronOptions{}, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build mlp: %v\n", err)
		os.Exit(1)
	}
	in := tape.Leaves(0.5, -1.2, 0.3)
	truth := tape.Leaves(1, -1)
	rep, err = gradcheck.Check(mlp.Parameters(), func() (autograd.Var, error) {
		out, err := mlp.Forward(in)
		if err != nil {
			return autograd.Var{}, err
		}
		return nn.SquaredError(truth, out)
	}, settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mlp check: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("loss: %.6f\n", rep.Value)
	names := make([]string, len(rep.Analytic))
	for i := range names {
		names[i] = fmt.Sprintf("param[%d]", i)
	}
	failed = report(names, rep) || failed

	if failed {
		fmt.Println("\n✗ Gradient mismatch")
		os.Exit(1)
	}
	fmt.Println("\n✓ All gradients match")
}

func report(names []string, rep gradcheck.Report) bool {
	for i, name := range names {
		status := "✓"
		if !rep.Pass[i] {
			status = "✗"
		}
		fmt.Printf("  %-10s: ana=%.6f num=%.6f rel_err=%.2e %s\n",
			name, rep.Analytic[i], rep.Numeric[i], rep.RelErr[i], status)
	}
	fmt.Printf("max_rel_err=%.2e max_abs_err=%.2e\n", rep.MaxRelErr, rep.MaxAbsErr)
	return !rep.OK
}
