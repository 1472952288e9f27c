// Package main demonstrates building a small control-flow graph and
// querying it with the typegraph solver.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gitrdm/typegraph/pkg/typegraph"
)

func main() {
	trace := flag.Bool("trace", false, "enable solver/graph tracing to stderr")
	timeout := flag.Duration("timeout", 2*time.Second, "deadline for the batch-query run")
	flag.Parse()

	opts := []typegraph.Option{}
	if *trace {
		opts = append(opts, typegraph.WithTrace(true))
	}

	program := typegraph.NewProgram(opts...)
	program.SetDefaultData("unknown")

	fmt.Println("=== typegraph demo ===")
	fmt.Println()

	thenBranch, elseBranch, x := ifThenElse(program)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := batchQueries(ctx, thenBranch, elseBranch, x); err != nil {
		fmt.Fprintf(os.Stderr, "batch query run: %v\n", err)
		os.Exit(1)
	}

	metricsReport(program)
}

// batchQueries re-runs a handful of HasCombination checks across the demo
// graph's bindings, checking ctx before each node's checks so a --timeout of 0
// (or a parent deriving its own deadline) cancels the run cleanly instead of
// plowing through the rest of the batch.
func batchQueries(ctx context.Context, thenBranch, elseBranch *typegraph.CFGNode, x *typegraph.Variable) error {
	fmt.Println("2. Batch query run:")

	nodes := []*typegraph.CFGNode{thenBranch, elseBranch}
	for _, node := range nodes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for _, b := range x.Bindings() {
			fmt.Printf("   HasCombination(%s, [%v]) = %v\n", node.Name(), b.Data(), node.HasCombination([]*typegraph.Binding{b}))
		}
	}
	return nil
}

// ifThenElse builds:
//
//	entry -> cond -> then_branch
//	              -> else_branch
//
// x is assigned "yes" in then_branch and "no" in else_branch; each branch
// sees only its own assignment.
func ifThenElse(program *typegraph.Program) (thenBranch, elseBranch *typegraph.CFGNode, x *typegraph.Variable) {
	fmt.Println("1. If/then/else variable visibility:")

	entry := program.NewCFGNode("entry", nil)
	program.SetEntrypoint(entry)

	cond := program.NewVariable()
	condTrue := cond.AddBinding(true, entry, nil)

	condNode := entry.ConnectNew("cond", nil)
	thenBranch = condNode.ConnectNew("then_branch", condTrue)
	elseBranch = condNode.ConnectNew("else_branch", nil)

	x = program.NewVariable()
	x.AddBinding("yes", thenBranch, nil)
	x.AddBinding("no", elseBranch, nil)

	fmt.Printf("   visible at then_branch: %v\n", x.FilteredData(thenBranch))
	fmt.Printf("   visible at else_branch: %v\n", x.FilteredData(elseBranch))
	return thenBranch, elseBranch, x
}

func metricsReport(program *typegraph.Program) {
	fmt.Println()
	fmt.Println("3. Metrics snapshot:")

	m := program.CalculateMetrics()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("   ", "  ")
	fmt.Print("   ")
	if err := enc.Encode(m); err != nil {
		fmt.Fprintf(os.Stderr, "encode metrics: %v\n", err)
	}
}
