package hierarchy

// Build folds the denormalized rows into a Tree in a single pass.
//
// Domains, goals and objectives are created the first time their id is seen;
// the columns of later rows with the same id are ignored. Every row with a
// key result id appends a key result to its objective. A NULL id at any level
// stops the row from contributing anything at that level or below.
//
// Grouping does not depend on row order. Insertion order of the resulting
// mappings does, which is why consumers use the Sorted* accessors.
func Build(rows []Row) *Tree {
	tree := NewTree()
	for i := range rows {
		tree.add(&rows[i])
	}
	return tree
}

func (t *Tree) add(r *Row) {
	if r.DomainID == nil {
		return
	}
	domain, _ := t.domains.getOrCreate(*r.DomainID, func() *DomainNode {
		return &DomainNode{
			Info: Domain{
				ID:    *r.DomainID,
				Key:   deref(r.DomainKey),
				Title: newText(r.DomainTitleNL, r.DomainTitleEN),
				Order: clonePtr(r.DomainOrder),
			},
			goals: newOrderedMap[*GoalNode](),
		}
	})

	if r.GoalID == nil {
		return
	}
	goal, _ := domain.goals.getOrCreate(*r.GoalID, func() *GoalNode {
		return &GoalNode{
			Info: Goal{
				ID:          *r.GoalID,
				Title:       newText(r.GoalTitleNL, r.GoalTitleEN),
				Description: newText(r.GoalDescriptionNL, r.GoalDescriptionEN),
				Order:       clonePtr(r.GoalOrder),
			},
			objectives: newOrderedMap[*ObjectiveNode](),
		}
	})

	if r.ObjectiveID == nil {
		return
	}
	objective, _ := goal.objectives.getOrCreate(*r.ObjectiveID, func() *ObjectiveNode {
		return &ObjectiveNode{
			Info: Objective{
				ID:          *r.ObjectiveID,
				Title:       newText(r.ObjectiveTitleNL, r.ObjectiveTitleEN),
				Description: newText(r.ObjectiveDescriptionNL, r.ObjectiveDescriptionEN),
				Order:       clonePtr(r.ObjectiveOrder),
			},
		}
	})

	if r.KeyResultID == nil {
		return
	}
	objective.KeyResults = append(objective.KeyResults, KeyResult{
		ID:          *r.KeyResultID,
		Title:       newText(r.KeyResultTitleNL, r.KeyResultTitleEN),
		Description: newText(r.KeyResultDescriptionNL, r.KeyResultDescriptionEN),
		Target:      clonePtr(r.KeyResultTarget),
		Unit:        deref(r.KeyResultUnit),
		Order:       clonePtr(r.KeyResultOrder),
	})
}
