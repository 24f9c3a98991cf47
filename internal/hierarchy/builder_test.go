package hierarchy

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

// domainRow returns a row carrying only life domain columns.
func domainRow(id int64, title string, order int) Row {
	return Row{
		DomainID:      ptr(id),
		DomainKey:     ptr("key-" + title),
		DomainTitleNL: ptr(title),
		DomainTitleEN: ptr(title + " (en)"),
		DomainOrder:   ptr(order),
	}
}

func (r Row) withGoal(id int64, title string, order int) Row {
	r.GoalID = ptr(id)
	r.GoalTitleNL = ptr(title)
	r.GoalTitleEN = ptr(title + " (en)")
	r.GoalOrder = ptr(order)
	return r
}

func (r Row) withObjective(id int64, title string, order int) Row {
	r.ObjectiveID = ptr(id)
	r.ObjectiveTitleNL = ptr(title)
	r.ObjectiveTitleEN = ptr(title + " (en)")
	r.ObjectiveOrder = ptr(order)
	return r
}

func (r Row) withKeyResult(id int64, title string, order int, target float64, unit string) Row {
	r.KeyResultID = ptr(id)
	r.KeyResultTitleNL = ptr(title)
	r.KeyResultTitleEN = ptr(title + " (en)")
	r.KeyResultOrder = ptr(order)
	r.KeyResultTarget = ptr(target)
	r.KeyResultUnit = ptr(unit)
	return r
}

func sampleRows() []Row {
	health := domainRow(1, "Health", 1)
	career := domainRow(2, "Career", 2)
	hobby := domainRow(3, "Hobby", 3)

	exercise := health.withGoal(10, "Exercise", 1)
	sleep := health.withGoal(11, "Sleep", 2)
	promotion := career.withGoal(20, "Promotion", 1)

	run := exercise.withObjective(100, "Run 5k", 1)
	lift := exercise.withObjective(101, "Lift", 2)
	lead := promotion.withObjective(200, "Lead a team", 1)

	return []Row{
		run.withKeyResult(1000, "Distance", 1, 5, "km"),
		run.withKeyResult(1001, "Pace", 2, 6.5, "min/km"),
		lift.withKeyResult(1010, "Bench", 1, 80, "kg"),
		sleep,
		lead.withKeyResult(2000, "Reports", 1, 4, "people"),
		lead.withKeyResult(2001, "Reviews", 2, 12, "reviews"),
		hobby,
	}
}

func TestBuild_WorkedExample(t *testing.T) {
	t.Parallel()

	d1 := domainRow(1, "Health", 1)
	g1 := d1.withGoal(10, "Exercise", 1)
	rows := []Row{
		d1,
		g1,
		g1.withObjective(100, "Run 5k", 1).withKeyResult(1000, "Distance", 1, 5, "km"),
	}

	tree := Build(rows)

	require.Equal(t, 1, tree.Len())
	domain, ok := tree.Domain(1)
	require.True(t, ok)
	assert.Equal(t, "Health", domain.Info.Title.NL)

	goals := domain.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, int64(10), goals[0].Info.ID)

	objectives := goals[0].Objectives()
	require.Len(t, objectives, 1)
	assert.Equal(t, int64(100), objectives[0].Info.ID)

	krs := objectives[0].KeyResults
	require.Len(t, krs, 1)
	assert.Equal(t, int64(1000), krs[0].ID)
	require.NotNil(t, krs[0].Target)
	assert.Equal(t, 5.0, *krs[0].Target)
	assert.Equal(t, "km", krs[0].Unit)
}

func TestBuild_EmptyInput(t *testing.T) {
	t.Parallel()

	tree := Build(nil)
	assert.Equal(t, 0, tree.Len())
	assert.Empty(t, tree.Domains())
	assert.Equal(t, Counts{}, tree.Totals())
}

func TestBuild_TwoKeyResultsUnderOneObjective(t *testing.T) {
	t.Parallel()

	base := domainRow(1, "Health", 1).withGoal(10, "Exercise", 1).withObjective(100, "Run", 1)
	rows := []Row{
		base.withKeyResult(1000, "Distance", 1, 5, "km"),
		base.withKeyResult(1001, "Pace", 2, 6, "min/km"),
	}

	tree := Build(rows)

	domain, ok := tree.Domain(1)
	require.True(t, ok)
	require.Len(t, domain.Goals(), 1)
	goal := domain.Goals()[0]
	require.Len(t, goal.Objectives(), 1)
	assert.Len(t, goal.Objectives()[0].KeyResults, 2)
}

func TestBuild_OneDomainPerDistinctID(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	tree := Build(rows)

	distinct := map[int64]struct{}{}
	for _, r := range rows {
		if r.DomainID != nil {
			distinct[*r.DomainID] = struct{}{}
		}
	}
	assert.Equal(t, len(distinct), tree.Len())
}

func TestBuild_KeyResultCountMatchesRows(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	// Same key result id twice: key results are never deduplicated.
	rows = append(rows, rows[0])
	tree := Build(rows)

	want := map[int64]int{}
	for _, r := range rows {
		if r.ObjectiveID != nil && r.KeyResultID != nil {
			want[*r.ObjectiveID]++
		}
	}

	got := map[int64]int{}
	for _, d := range tree.Domains() {
		for _, g := range d.Goals() {
			for _, o := range g.Objectives() {
				got[o.Info.ID] = len(o.KeyResults)
			}
		}
	}
	for id, n := range want {
		assert.Equal(t, n, got[id], "objective %d", id)
	}
	assert.Equal(t, 3, got[100])
}

func TestBuild_DomainWithoutGoalsIsKept(t *testing.T) {
	t.Parallel()

	tree := Build(sampleRows())

	hobby, ok := tree.Domain(3)
	require.True(t, ok)
	assert.Empty(t, hobby.Goals())
	assert.Equal(t, Counts{}, hobby.Counts())
}

func TestBuild_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	first := domainRow(1, "Health", 1).withGoal(10, "Exercise", 1)
	second := domainRow(1, "Renamed", 9).withGoal(10, "Renamed goal", 9)

	tree := Build([]Row{first, second})

	domain, ok := tree.Domain(1)
	require.True(t, ok)
	assert.Equal(t, "Health", domain.Info.Title.NL)
	assert.Equal(t, 1, *domain.Info.Order)

	goal, ok := domain.Goal(10)
	require.True(t, ok)
	assert.Equal(t, "Exercise", goal.Info.Title.NL)
	assert.Equal(t, 1, *goal.Info.Order)
}

func TestBuild_NullIDsGateDeeperLevels(t *testing.T) {
	t.Parallel()

	orphanGoal := Row{
		GoalID:      ptr(int64(10)),
		GoalTitleNL: ptr("Orphan"),
	}
	noObjective := domainRow(1, "Health", 1).withGoal(10, "Exercise", 1)
	noObjective.KeyResultID = ptr(int64(999))
	noKeyResult := domainRow(1, "Health", 1).withGoal(10, "Exercise", 1).withObjective(100, "Run", 1)

	var tree *Tree
	require.NotPanics(t, func() {
		tree = Build([]Row{orphanGoal, noObjective, noKeyResult})
	})

	require.Equal(t, 1, tree.Len())
	domain, _ := tree.Domain(1)
	goal, ok := domain.Goal(10)
	require.True(t, ok)
	require.Len(t, goal.Objectives(), 1)
	assert.Empty(t, goal.Objectives()[0].KeyResults)
	assert.Equal(t, Counts{Goals: 1, Objectives: 1, KeyResults: 0}, tree.Totals())
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	first := Build(rows)
	second := Build(rows)

	opts := cmp.AllowUnexported(
		Tree{}, DomainNode{}, GoalNode{},
		orderedMap[*DomainNode]{}, orderedMap[*GoalNode]{}, orderedMap[*ObjectiveNode]{},
	)
	if diff := cmp.Diff(first, second, opts); diff != "" {
		t.Errorf("Build() is not idempotent (-first +second):\n%s", diff)
	}
}

func TestBuild_GroupingIsOrderIndependent(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	want := snapshot(Build(rows))

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		shuffled := slices.Clone(rows)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := snapshot(Build(shuffled))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("grouping changed after shuffle %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestBuild_DoesNotAliasRows(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	tree := Build(rows)
	*rows[0].DomainKey = "mutated"
	*rows[0].DomainOrder = 99

	domain, _ := tree.Domain(1)
	assert.Equal(t, "key-Health", domain.Info.Key)
	require.NotNil(t, domain.Info.Order)
	assert.NotEqual(t, 99, *domain.Info.Order)
}

// nodeSnapshot is an id-sorted view of a tree used to compare grouping
// independently of insertion order.
type nodeSnapshot struct {
	Domain Domain
	Goals  []goalSnapshot
}

type goalSnapshot struct {
	Goal       Goal
	Objectives []objectiveSnapshot
}

type objectiveSnapshot struct {
	Objective  Objective
	KeyResults []KeyResult
}

func snapshot(tree *Tree) []nodeSnapshot {
	var out []nodeSnapshot
	for _, d := range tree.Domains() {
		ds := nodeSnapshot{Domain: d.Info}
		for _, g := range d.Goals() {
			gs := goalSnapshot{Goal: g.Info}
			for _, o := range g.Objectives() {
				krs := slices.Clone(o.KeyResults)
				slices.SortFunc(krs, func(a, b KeyResult) int { return int(a.ID - b.ID) })
				gs.Objectives = append(gs.Objectives, objectiveSnapshot{Objective: o.Info, KeyResults: krs})
			}
			slices.SortFunc(gs.Objectives, func(a, b objectiveSnapshot) int {
				return int(a.Objective.ID - b.Objective.ID)
			})
			ds.Goals = append(ds.Goals, gs)
		}
		slices.SortFunc(ds.Goals, func(a, b goalSnapshot) int { return int(a.Goal.ID - b.Goal.ID) })
		out = append(out, ds)
	}
	slices.SortFunc(out, func(a, b nodeSnapshot) int { return int(a.Domain.ID - b.Domain.ID) })
	return out
}
