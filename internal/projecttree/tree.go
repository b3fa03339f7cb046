// Package projecttree loads the navigation forest that drives the project
// showcase sidebar and request resolution.
package projecttree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

// ErrParse marks a tree document that is not valid JSON or has the wrong shape.
var ErrParse = errors.New("projecttree: parse")

// Node is one entry in the navigation forest.
type Node struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Children []Node `json:"children,omitempty"`
}

// HasChildren reports whether the node has any child nodes.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Forest is a read-only ordered collection of root nodes.
type Forest struct {
	roots []Node
}

type document struct {
	ProjectTree []Node `json:"project_tree"`
}

// Load reads and parses the tree document at path.
func Load(path string) (*Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("projecttree: open %s: %w", path, err)
	}
	defer f.Close()

	forest, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return forest, nil
}

// Parse decodes a `{"project_tree": [...]}` document.
func Parse(r io.Reader) (*Forest, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return NewForest(doc.ProjectTree), nil
}

// NewForest wraps already-built roots.
func NewForest(roots []Node) *Forest {
	return &Forest{roots: roots}
}

// Roots returns the top-level nodes in source order.
func (f *Forest) Roots() []Node {
	if f == nil {
		return nil
	}
	return f.roots
}

// Count returns the total number of nodes in the forest.
func (f *Forest) Count() int {
	total := 0
	for range f.All() {
		total++
	}
	return total
}

// FindByPath returns the first node, depth first, whose path equals target.
func (f *Forest) FindByPath(target string) (*Node, bool) {
	for node := range f.All() {
		if node.Path == target {
			return node, true
		}
	}
	return nil, false
}

// All yields every node once in pre-order: parents before children, siblings
// in source order. Each call starts a fresh traversal.
func (f *Forest) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if f == nil {
			return
		}
		stack := make([]*Node, 0, len(f.roots))
		for i := len(f.roots) - 1; i >= 0; i-- {
			stack = append(stack, &f.roots[i])
		}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(node) {
				return
			}
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, &node.Children[i])
			}
		}
	}
}
