// Package chain groups pairwise coreference relations into chains, the
// connected components of the undirected relation graph.
package chain

import (
	"slices"

	"github.com/revelaction/corefbridge/standoff"
)

// Chain is a set of coreferent entity ids.
type Chain struct {
	// 0-based, in discovery order
	ID int

	// entity ids, ascending
	Members []int
}

// Build returns the chains formed by relations. Vertices are visited in the
// order they first appear (Arg1 before Arg2, relations in input order), which
// fixes the chain ids.
func Build(relations []standoff.Relation) []Chain {
	adj := map[int][]int{}
	var order []int

	add := func(v int) {
		if _, ok := adj[v]; !ok {
			adj[v] = nil
			order = append(order, v)
		}
	}

	for _, r := range relations {
		add(r.Arg1)
		add(r.Arg2)
		adj[r.Arg1] = append(adj[r.Arg1], r.Arg2)
		if r.Arg1 != r.Arg2 {
			adj[r.Arg2] = append(adj[r.Arg2], r.Arg1)
		}
	}

	visited := make(map[int]bool, len(order))
	var chains []Chain

	for _, start := range order {
		if visited[start] {
			continue
		}

		visited[start] = true
		members := []int{start}
		queue := []int{start}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, n := range adj[v] {
				if !visited[n] {
					visited[n] = true
					members = append(members, n)
					queue = append(queue, n)
				}
			}
		}

		slices.Sort(members)
		chains = append(chains, Chain{ID: len(chains), Members: members})
	}

	return chains
}

// Of returns a map from entity id to the id of its chain.
func Of(chains []Chain) map[int]int {
	m := map[int]int{}
	for _, c := range chains {
		for _, e := range c.Members {
			m[e] = c.ID
		}
	}
	return m
}
