package main

import (
	"fmt"
	"math"

	"github.com/djeday123/gograd/autograd"
)

func main() {
	fmt.Println("=== GoGrad Scalar Engine Test ===")
	fmt.Println()
	tape := autograd.NewTape()

	// Test 1: Leaves and basic operators
	fmt.Println("--- Test 1: Operators ---")
	a := tape.Leaf(3)
	b := tape.Leaf(2)
	fmt.Println("a + b:", a.Add(b).Value())
	fmt.Println("a - b:", a.Sub(b).Value())
	fmt.Println("a * b:", a.Mul(b).Value())
	fmt.Println("a / b:", a.Div(b).Value())
	fmt.Println("a ^ 3:", a.Pow(3).Value())
	fmt.Println("-a:", a.Neg().Value())
	fmt.Println("relu(-a):", a.Neg().ReLU().Value())

	// Test 2: Operator tags
	fmt.Println("\n--- Test 2: Tags ---")
	fmt.Printf("sub op: %q (negation folded into add)\n", a.Sub(b).Op())
	fmt.Printf("neg op: %q\n", a.Neg().Op())
	fmt.Printf("tanh op: %q\n", a.Tanh().Op())

	// Test 3: Diamond
	fmt.Println("\n--- Test 3: Diamond ---")
	x := tape.Leaf(1)
	d := x.Add(x)
	d.Backward()
	fmt.Printf("d(x+x)/dx = %v (should be 2)\n", x.Grad(d))

	// Test 4: Known values
	fmt.Println("\n--- Test 4: Known values ---")
	x = tape.Leaf(-4)
	z := x.Mul(autograd.Const(2)).Add(autograd.Const(2)).Add(x)
	q := z.ReLU().Add(z.Mul(x))
	h := z.Mul(z).ReLU()
	y := h.Add(q).Add(q.Mul(x))
	y.Backward()
	fmt.Printf("y = %.4f (should be -20)\n", y.Value())
	fmt.Printf("dy/dx = %.4f (should be 46)\n", x.Grad(y))

	// Test 5: Unary activations
	fmt.Println("\n--- Test 5: tanh / exp ---")
	u := tape.Leaf(0.5)
	th := u.Tanh()
	th.Backward()
	fmt.Printf("tanh(0.5) = %.4f, grad = %.4f (expected %.4f)\n",
		th.Value(), u.Grad(th), 1-math.Pow(math.Tanh(0.5), 2))
	ex := u.Exp()
	ex.Backward()
	fmt.Printf("exp(0.5) = %.4f, grad = %.4f\n", ex.Value(), u.Grad(ex))

	// Test 6: Accumulation without clearing
	fmt.Println("\n--- Test 6: Repeated backward ---")
	d.Backward()
	fmt.Printf("d(x+x)/dx after a second pass = %v (gradients accumulate)\n", d.Operands()[0].Grad(d))

	fmt.Printf("\nTape holds %d nodes\n", tape.Len())
	fmt.Println("\n=== All tests passed! ===")
}
