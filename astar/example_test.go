package astar_test

import (
	"fmt"

	"github.com/katalvlaran/cbsplan/astar"
)

// ExampleSearch finds the shortest route around a wall on a 4-connected grid.
func ExampleSearch() {
	g := newGrid(
		"...",
		"##.",
		"...",
	)
	res, err := astar.Search[cell](g, cell{0, 0}, cell{0, 2}, astar.DefaultOptions[cell]())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("cost:", res.Cost)
	fmt.Println("path:", res.Path)

	// Output:
	// cost: 6
	// path: [{0 0} {1 0} {2 0} {2 1} {2 2} {1 2} {0 2}]
}
