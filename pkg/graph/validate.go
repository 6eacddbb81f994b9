package graph

import (
	"errors"
	"fmt"

	apperr "github.com/matzehuels/reasongraph/pkg/errors"
)

// Validate checks that every node has a usable, unique ID and that every
// link endpoint resolves to a node. All problems are reported, joined into
// a single INVALID_GRAPH error.
func Validate(g *Graph) error {
	if g == nil {
		return apperr.New(apperr.ErrCodeInvalidGraph, "graph is nil")
	}

	var errs []error
	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if err := apperr.ValidateNodeID(n.ID); err != nil {
			errs = append(errs, fmt.Errorf("node %d: %w", i, err))
			continue
		}
		if seen[n.ID] {
			errs = append(errs, fmt.Errorf("node %d: duplicate id %q", i, n.ID))
			continue
		}
		seen[n.ID] = true
	}
	for i, l := range g.Links {
		if !seen[l.Source] {
			errs = append(errs, fmt.Errorf("link %d: unknown source %q", i, l.Source))
		}
		if !seen[l.Target] {
			errs = append(errs, fmt.Errorf("link %d: unknown target %q", i, l.Target))
		}
	}

	if len(errs) > 0 {
		return apperr.Wrap(apperr.ErrCodeInvalidGraph, errors.Join(errs...), "invalid graph")
	}
	return nil
}

// Resolution is the outcome of [Resolve].
type Resolution struct {
	// Graph holds the usable nodes and links, in input order.
	Graph *Graph
	// DroppedNodes lists nodes removed for an empty or repeated ID.
	DroppedNodes []Node
	// DroppedLinks lists links whose source or target did not resolve.
	DroppedLinks []Link
}

// Clean reports whether nothing was dropped.
func (r Resolution) Clean() bool {
	return len(r.DroppedNodes) == 0 && len(r.DroppedLinks) == 0
}

// Resolve returns the largest well-formed subset of g. The first node for
// each ID wins; links with an unknown endpoint are skipped. A nil graph
// resolves to an empty one.
func Resolve(g *Graph) Resolution {
	res := Resolution{Graph: &Graph{}}
	if g == nil {
		return res
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" || seen[n.ID] {
			res.DroppedNodes = append(res.DroppedNodes, n)
			continue
		}
		seen[n.ID] = true
		res.Graph.Nodes = append(res.Graph.Nodes, n)
	}
	for _, l := range g.Links {
		if !seen[l.Source] || !seen[l.Target] {
			res.DroppedLinks = append(res.DroppedLinks, l)
			continue
		}
		res.Graph.Links = append(res.Graph.Links, l)
	}
	return res
}
