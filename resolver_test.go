package quiren

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simulate applies the plan over an in-memory name set, failing the
// test if any step would read a missing name or overwrite an occupied
// one. The result maps each final name to the original it holds.
func simulate(t *testing.T, names []string, plan *Plan) map[string]string {
	t.Helper()
	held := make(map[string]string, len(names))
	for _, n := range names {
		held[n] = n
	}

	for i, s := range plan.Steps {
		origin, ok := held[s.From]
		require.Truef(t, ok, "step %d: source %q not present", i, s.From)

		switch s.Kind {
		case StepRename:
			_, busy := held[s.To]
			require.Falsef(t, busy, "step %d: target %q already occupied", i, s.To)
			held[s.To] = origin
			delete(held, s.From)
		case StepDelete:
			delete(held, s.From)
		}
	}
	return held
}

func resolve(t *testing.T, snap *Snapshot, lines []string, allowDelete bool) *Plan {
	t.Helper()
	ops, err := InterpretEdits(snap, lines, allowDelete)
	require.NoError(t, err)
	plan, err := Resolve(snap, ops, nil)
	require.NoError(t, err)
	return plan
}

func TestResolveNoEditsIsEmptyPlan(t *testing.T) {
	snap := makeSnapshot("a.txt", "b.txt")
	plan := resolve(t, snap, []string{"a.txt", "b.txt"}, false)
	assert.True(t, plan.Empty())
}

func TestResolveSwapRoutesThroughTemp(t *testing.T) {
	snap := makeSnapshot("a.txt", "b.txt")
	plan := resolve(t, snap, []string{"b.txt", "a.txt"}, false)

	require.Len(t, plan.Steps, 3)

	first := plan.Steps[0]
	assert.Equal(t, StepRename, first.Kind)
	assert.Equal(t, "a.txt", first.From)
	assert.True(t, first.Via)
	assert.True(t, strings.HasPrefix(first.To, tempPrefix))

	assert.Equal(t, Step{Kind: StepRename, From: "b.txt", To: "a.txt", EntryIndex: 1}, plan.Steps[1])
	assert.Equal(t, Step{Kind: StepRename, From: first.To, To: "b.txt", EntryIndex: 0}, plan.Steps[2])

	held := simulate(t, snap.Names(), plan)
	assert.Equal(t, "a.txt", held["b.txt"])
	assert.Equal(t, "b.txt", held["a.txt"])
}

func TestResolveChainRunsInReverseOrder(t *testing.T) {
	snap := makeSnapshot("a", "b", "c")
	plan := resolve(t, snap, []string{"b", "c", "d"}, false)

	want := []Step{
		{Kind: StepRename, From: "c", To: "d", EntryIndex: 2},
		{Kind: StepRename, From: "b", To: "c", EntryIndex: 1},
		{Kind: StepRename, From: "a", To: "b", EntryIndex: 0},
	}
	assert.Equal(t, want, plan.Steps)

	held := simulate(t, snap.Names(), plan)
	assert.Equal(t, map[string]string{"b": "a", "c": "b", "d": "c"}, held)
}

func TestResolveThreeCycle(t *testing.T) {
	snap := makeSnapshot("a", "b", "c")
	plan := resolve(t, snap, []string{"b", "c", "a"}, false)

	// One temporary hop plus the three real renames.
	require.Len(t, plan.Steps, 4)

	held := simulate(t, snap.Names(), plan)
	assert.Equal(t, map[string]string{"b": "a", "c": "b", "a": "c"}, held)
}

func TestResolveCollisionWithKeptName(t *testing.T) {
	snap := makeSnapshot("a.txt", "b.txt")
	ops, err := InterpretEdits(snap, []string{"b.txt", "b.txt"}, false)
	require.NoError(t, err)

	_, err = Resolve(snap, ops, nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrNameCollision))
}

func TestResolveDuplicateTargets(t *testing.T) {
	snap := makeSnapshot("a", "b", "c")
	ops, err := InterpretEdits(snap, []string{"x", "x", "c"}, false)
	require.NoError(t, err)

	_, err = Resolve(snap, ops, nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrNameCollision))
}

func TestResolveRejectsNamesReservedOutsideSnapshot(t *testing.T) {
	// A retry round resolves against a sub-snapshot; names settled by
	// the earlier rounds are still reserved and must be rejected
	// before anything runs, not at execution time.
	snap := makeSnapshot("c", "d")
	ops, err := InterpretEdits(snap, []string{"c-new", "b2"}, false)
	require.NoError(t, err)

	_, err = Resolve(snap, ops, []string{"a2", "b2", "c2"})
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrNameCollision))
}

func TestResolveTempNameAvoidsOutsideNames(t *testing.T) {
	snap := makeSnapshot("a", "b")
	ops, err := InterpretEdits(snap, []string{"b", "a"}, false)
	require.NoError(t, err)

	plan, err := Resolve(snap, ops, []string{"x", "y"})
	require.NoError(t, err)
	for _, s := range plan.Steps {
		assert.NotContains(t, []string{"x", "y"}, s.To)
	}
}

func TestResolveDeleteFreesTargetName(t *testing.T) {
	snap := makeSnapshot("a.txt", "b.txt")
	plan := resolve(t, snap, []string{"b.txt"}, true)

	want := []Step{
		{Kind: StepDelete, From: "b.txt", EntryIndex: 1},
		{Kind: StepRename, From: "a.txt", To: "b.txt", EntryIndex: 0},
	}
	assert.Equal(t, want, plan.Steps)

	held := simulate(t, snap.Names(), plan)
	assert.Equal(t, map[string]string{"b.txt": "a.txt"}, held)
}

func TestResolveDeleteByOmission(t *testing.T) {
	snap := makeSnapshot("note.txt", "draft.txt")
	plan := resolve(t, snap, []string{"note.txt"}, true)

	assert.Equal(t, []Step{{Kind: StepDelete, From: "draft.txt", EntryIndex: 1}}, plan.Steps)
}

func TestResolvePermutations(t *testing.T) {
	names := []string{"f0", "f1", "f2", "f3", "f4"}

	perms := map[string][]string{
		"identity_tail_swap": {"f0", "f1", "f2", "f4", "f3"},
		"full_rotation":      {"f1", "f2", "f3", "f4", "f0"},
		"two_disjoint_swaps": {"f1", "f0", "f3", "f2", "f4"},
		"reversal":           {"f4", "f3", "f2", "f1", "f0"},
	}

	for name, lines := range perms {
		t.Run(name, func(t *testing.T) {
			snap := makeSnapshot(names...)
			plan := resolve(t, snap, lines, false)
			held := simulate(t, names, plan)

			// Positional correspondence: the original at index i now
			// carries the name on line i, with nothing lost.
			require.Len(t, held, len(names))
			for i, line := range lines {
				assert.Equal(t, names[i], held[line], "line %d", i)
			}
		})
	}
}

func TestTempNameAvoidsTakenNames(t *testing.T) {
	taken := make(map[string]struct{})

	name, err := tempName(taken)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, tempPrefix))
	assert.Len(t, name, len(tempPrefix)+tempNameLength)

	// Unique across repeated draws once reserved.
	taken[name] = struct{}{}
	other, err := tempName(taken)
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestResolveLargeCycleStaysSafe(t *testing.T) {
	var names, lines []string
	for i := 0; i < 50; i++ {
		names = append(names, fmt.Sprintf("n%02d", i))
	}
	for i := range names {
		lines = append(lines, names[(i+1)%len(names)])
	}

	snap := makeSnapshot(names...)
	plan := resolve(t, snap, lines, false)
	held := simulate(t, names, plan)

	for i, line := range lines {
		assert.Equal(t, names[i], held[line])
	}
}
