// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"sort"

	"github.com/pdiddy/bibcomplete/internal/bib"
)

// Vote is one source's contribution to a field: the raw value as
// returned, its normalized comparison form, and whether the lookup
// layer verified it to resolve (identifier fields only).
type Vote struct {
	Source   string
	Raw      string
	Norm     string
	Valid    bool
	Verified bool
}

// Winner is the value chosen for a field, with the sources that voted
// for its equivalence class.
type Winner struct {
	Value   string
	Sources []string
}

// pickWinner groups votes into equivalence classes under the field's
// comparator and returns the class backed by the most distinct sources.
// Ties go to the class containing the best-ranked source in priority
// (lower rank wins); the stored value is the longest member of the
// winning class. ok is false when there are no votes.
//
// Clustering is by union-find over pairwise equivalence: abbreviation
// comparators are not transitive, so A~B and B~C joins all three even
// when A and C do not compare equal directly. Accepted approximation.
func pickWinner(field string, votes []Vote, priority map[string]int) (Winner, bool) {
	if len(votes) == 0 {
		return Winner{}, false
	}

	parent := make([]int, len(votes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	for i := 0; i < len(votes); i++ {
		for j := i + 1; j < len(votes); j++ {
			if find(i) == find(j) {
				continue
			}
			if bib.Equivalent(field, votes[i].Raw, votes[j].Raw) {
				union(i, j)
			}
		}
	}

	type class struct {
		members []int
		sources map[string]bool
	}
	classes := make(map[int]*class)
	var order []int // roots in first-vote order, for deterministic output
	for i := range votes {
		root := find(i)
		c, ok := classes[root]
		if !ok {
			c = &class{sources: make(map[string]bool)}
			classes[root] = c
			order = append(order, root)
		}
		c.members = append(c.members, i)
		c.sources[votes[i].Source] = true
	}

	rank := func(c *class) int {
		best := len(priority) + 1
		for src := range c.sources {
			if r, ok := priority[src]; ok && r < best {
				best = r
			}
		}
		return best
	}

	var winning *class
	for _, root := range order {
		c := classes[root]
		if winning == nil ||
			len(c.sources) > len(winning.sources) ||
			(len(c.sources) == len(winning.sources) && rank(c) < rank(winning)) {
			winning = c
		}
	}

	value := votes[winning.members[0]].Raw
	for _, i := range winning.members[1:] {
		value = bib.PickLongest(value, votes[i].Raw)
	}

	sources := make([]string, 0, len(winning.sources))
	for src := range winning.sources {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool {
		ri, okI := priority[sources[i]]
		rj, okJ := priority[sources[j]]
		if okI && okJ && ri != rj {
			return ri < rj
		}
		if okI != okJ {
			return okI
		}
		return sources[i] < sources[j]
	})

	return Winner{Value: value, Sources: sources}, true
}
