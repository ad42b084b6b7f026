package graph

// Components returns the weakly connected components of the graph:
// maximal vertex sets reachable from one another when edge direction
// is ignored. Components and their members come back in insertion
// order, so repeated runs see the same order
func (g *Graph) Components() (components [][]Node) {
	seen := make([]bool, len(g.nodes))

	for start := range g.nodes {
		if seen[start] {
			continue
		}

		// breadth-first over the undirected view
		var comp []Node
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			comp = append(comp, g.nodes[i])

			for _, next := range append(append([]int{}, g.out[i]...), g.in[i]...) {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}

		components = append(components, comp)
	}

	return components
}

// Cyclic reports whether the graph contains at least one directed
// cycle. Iterative depth-first search with an on-stack set: the first
// back edge found proves a cycle
func (g *Graph) Cyclic() bool {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make([]int, len(g.nodes))

	// frame tracks how far into a vertex's out-edges the walk is
	type frame struct {
		node int
		next int
	}

	for start := range g.nodes {
		if state[start] != unvisited {
			continue
		}

		stack := []frame{{node: start}}
		state[start] = onStack
		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.next < len(g.out[top.node]) {
				child := g.out[top.node][top.next]
				top.next++

				switch state[child] {
				case onStack:
					return true
				case unvisited:
					state[child] = onStack
					stack = append(stack, frame{node: child})
				}
				continue
			}

			state[top.node] = done
			stack = stack[:len(stack)-1]
		}
	}

	return false
}
