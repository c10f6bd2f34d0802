// Package pathutil rebuilds routes from predecessor maps.
package pathutil

import (
	"errors"
	"fmt"
)

var (
	ErrBrokenChain = errors.New("predecessor chain does not reach start")
	ErrCycle       = errors.New("predecessor chain contains a cycle")
)

// Reconstruct follows cameFrom backwards from goal to start and returns the
// route start..goal inclusive. visit is called for every predecessor reached,
// in walk order (nearest to goal first, start last). A nil visit is allowed.
func Reconstruct[NodeType comparable](
	cameFrom map[NodeType]NodeType,
	start NodeType,
	goal NodeType,
	visit func(NodeType),
) ([]NodeType, error) {
	path := make([]NodeType, 0, 16)
	path = append(path, goal)
	current := goal
	for current != start {
		previousNode, exists := cameFrom[current]
		if !exists {
			return nil, fmt.Errorf("%w: stopped at %v", ErrBrokenChain, current)
		}
		// A chain longer than the map must revisit a node.
		if len(path) > len(cameFrom) {
			return nil, fmt.Errorf("%w: at %v", ErrCycle, previousNode)
		}
		path = append(path, previousNode)
		if visit != nil {
			visit(previousNode)
		}
		current = previousNode
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
