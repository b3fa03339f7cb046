// Package showcase maps request paths under the projects mount onto the
// project tree and serves the resulting list and project pages.
package showcase

import (
	"strings"

	"github.com/SummonTheCat/smn-site-ciri/internal/projecttree"
)

// Outcome is the terminal state of resolving one request path.
type Outcome int

const (
	// OutcomeList renders the project index.
	OutcomeList Outcome = iota
	// OutcomeNotFound covers both an unmatched path and a matched project
	// followed by a non-empty remainder.
	OutcomeNotFound
	// OutcomeRedirect sends the client to the matched path with a trailing slash.
	OutcomeRedirect
	// OutcomeRender renders the matched project page.
	OutcomeRender
)

func (o Outcome) String() string {
	switch o {
	case OutcomeList:
		return "list"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeRender:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is the result of Resolve.
type Decision struct {
	Outcome Outcome
	// Node is the longest matching node, nil for OutcomeList and unmatched paths.
	Node *projecttree.Node
	// Remainder is what follows the matched path, without leading slashes.
	Remainder string
	// Location is set for OutcomeRedirect.
	Location string
}

// Resolve decides how to answer reqPath. relPath is reqPath with the mount
// prefix removed; when it is empty after trimming slashes the list page is
// served.
func Resolve(forest *projecttree.Forest, reqPath, relPath string) Decision {
	if strings.Trim(relPath, "/") == "" {
		return Decision{Outcome: OutcomeList}
	}

	node := LongestMatch(forest, reqPath)
	if node == nil {
		return Decision{Outcome: OutcomeNotFound}
	}

	remainder := strings.TrimLeft(strings.TrimPrefix(reqPath, node.Path), "/")
	if remainder != "" {
		return Decision{Outcome: OutcomeNotFound, Node: node, Remainder: remainder}
	}
	if !strings.HasSuffix(reqPath, "/") {
		return Decision{
			Outcome:  OutcomeRedirect,
			Node:     node,
			Location: strings.TrimRight(node.Path, "/") + "/",
		}
	}
	return Decision{Outcome: OutcomeRender, Node: node}
}

// LongestMatch returns the node whose path equals reqPath or prefixes it at a
// "/" boundary, preferring the longest path. The first node seen wins a tie.
func LongestMatch(forest *projecttree.Forest, reqPath string) *projecttree.Node {
	var best *projecttree.Node
	bestLen := 0
	for node := range forest.All() {
		if !pathMatches(node.Path, reqPath) {
			continue
		}
		if len(node.Path) > bestLen {
			best = node
			bestLen = len(node.Path)
		}
	}
	return best
}

func pathMatches(nodePath, reqPath string) bool {
	if nodePath == "" {
		return false
	}
	if reqPath == nodePath {
		return true
	}
	return len(reqPath) > len(nodePath) &&
		strings.HasPrefix(reqPath, nodePath) &&
		reqPath[len(nodePath)] == '/'
}
