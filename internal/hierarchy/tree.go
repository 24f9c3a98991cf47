package hierarchy

import (
	"cmp"
	"slices"
)

// Tree is the reconstructed hierarchy: an insertion-ordered mapping from
// life domain id to DomainNode.
type Tree struct {
	domains orderedMap[*DomainNode]
}

// DomainNode is a life domain together with its goals.
type DomainNode struct {
	Info  Domain
	goals orderedMap[*GoalNode]
}

// GoalNode is a goal together with its objectives.
type GoalNode struct {
	Info       Goal
	objectives orderedMap[*ObjectiveNode]
}

// ObjectiveNode is an objective together with its key results in arrival order.
type ObjectiveNode struct {
	Info       Objective
	KeyResults []KeyResult
}

// Counts holds the number of entities below a node.
type Counts struct {
	Goals      int `yaml:"goals"`
	Objectives int `yaml:"objectives"`
	KeyResults int `yaml:"key_results"`
}

// Add returns the element-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Goals:      c.Goals + o.Goals,
		Objectives: c.Objectives + o.Objectives,
		KeyResults: c.KeyResults + o.KeyResults,
	}
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{domains: newOrderedMap[*DomainNode]()}
}

// Len returns the number of life domains.
func (t *Tree) Len() int {
	return t.domains.len()
}

// Domain returns the node for the given life domain id.
func (t *Tree) Domain(id int64) (*DomainNode, bool) {
	return t.domains.get(id)
}

// Domains returns the life domains in insertion order.
func (t *Tree) Domains() []*DomainNode {
	return t.domains.values()
}

// SortedDomains returns the life domains ordered by display order, nulls last.
func (t *Tree) SortedDomains() []*DomainNode {
	out := t.domains.values()
	slices.SortStableFunc(out, func(a, b *DomainNode) int {
		return CompareOrder(a.Info.Order, b.Info.Order)
	})
	return out
}

// Totals sums the counts of every domain.
func (t *Tree) Totals() Counts {
	var total Counts
	for _, d := range t.domains.items {
		total = total.Add(d.Counts())
	}
	return total
}

// Goals returns the goals in insertion order.
func (d *DomainNode) Goals() []*GoalNode {
	return d.goals.values()
}

// Goal returns the goal with the given id.
func (d *DomainNode) Goal(id int64) (*GoalNode, bool) {
	return d.goals.get(id)
}

// SortedGoals returns the goals ordered by order index, nulls last.
func (d *DomainNode) SortedGoals() []*GoalNode {
	out := d.goals.values()
	slices.SortStableFunc(out, func(a, b *GoalNode) int {
		return CompareOrder(a.Info.Order, b.Info.Order)
	})
	return out
}

// Counts returns the number of goals, objectives and key results in the domain.
func (d *DomainNode) Counts() Counts {
	c := Counts{Goals: d.goals.len()}
	for _, g := range d.goals.items {
		c.Objectives += g.objectives.len()
		for _, o := range g.objectives.items {
			c.KeyResults += len(o.KeyResults)
		}
	}
	return c
}

// Objectives returns the objectives in insertion order.
func (g *GoalNode) Objectives() []*ObjectiveNode {
	return g.objectives.values()
}

// Objective returns the objective with the given id.
func (g *GoalNode) Objective(id int64) (*ObjectiveNode, bool) {
	return g.objectives.get(id)
}

// SortedObjectives returns the objectives ordered by order index, nulls last.
func (g *GoalNode) SortedObjectives() []*ObjectiveNode {
	out := g.objectives.values()
	slices.SortStableFunc(out, func(a, b *ObjectiveNode) int {
		return CompareOrder(a.Info.Order, b.Info.Order)
	})
	return out
}

// SortedKeyResults returns a copy of the key results ordered by order index,
// nulls last.
func (o *ObjectiveNode) SortedKeyResults() []KeyResult {
	out := slices.Clone(o.KeyResults)
	slices.SortStableFunc(out, func(a, b KeyResult) int {
		return CompareOrder(a.Order, b.Order)
	})
	return out
}

// CompareOrder compares two optional order values. A missing order is greater
// than any present one, matching NULLS LAST in the fetch query.
func CompareOrder(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}
