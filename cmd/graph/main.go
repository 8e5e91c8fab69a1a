package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/djeday123/gograd/autograd"
	"github.com/djeday123/gograd/viz"
)

// Writes the display graph of a small expression as DOT or JSON.
func main() {
	format := flag.String("format", "dot", "Output format: dot or json")
	backward := flag.Bool("backward", false, "Run the reverse pass before rendering")
	flag.Parse()

	tape := autograd.NewTape()
	x := tape.Leaf(-4)
	z := x.Mul(autograd.Const(2)).Add(autograd.Const(2)).Add(x)
	q := z.ReLU().Add(z.Mul(x))
	h := z.Mul(z).ReLU()
	y := h.Add(q).Add(q.Mul(x))
	if *backward {
		y.Backward()
		log.Printf("dy/dx = %g", x.Grad(y))
	}

	g := viz.Build(y)
	switch *format {
	case "dot":
		if err := viz.WriteDOT(os.Stdout, g); err != nil {
			log.Fatalf("write dot: %v", err)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			log.Fatalf("write json: %v", err)
		}
	default:
		log.Fatalf("unknown format %q", *format)
	}
}
