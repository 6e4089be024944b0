package quiren

// Resolve orders the planned operations into a concrete plan whose
// steps can be applied strictly in sequence without ever overwriting a
// file that is still needed.
//
// Renames form a graph over names: an edge from -> to is blocked while
// `to` is occupied. Kept entries reserve their names permanently, so a
// rename targeting one is rejected outright. Deletes only free names
// and run first. What remains is a functional graph (each name is the
// source of at most one rename, and targets are unique), so after all
// runnable chains are emitted the leftover edges are disjoint cycles,
// each broken by routing one edge through a fresh temporary name.
//
// outside lists on-disk names not covered by the snapshot. A full
// session snapshots the whole directory and passes none; a retry round
// operates on a sub-snapshot, and every other file in the directory
// still reserves its name.
func Resolve(snap *Snapshot, ops []PlannedOp, outside []string) (*Plan, error) {
	logger := getLogger("resolver")

	reserved := make(map[string]Entry)
	for _, name := range outside {
		reserved[name] = Entry{Name: name, Index: -1}
	}
	var deletes, renames []PlannedOp
	for _, op := range ops {
		switch op.Kind {
		case OpKeep:
			reserved[op.Entry.Name] = op.Entry
		case OpDelete:
			deletes = append(deletes, op)
		case OpRename:
			renames = append(renames, op)
		}
	}

	// Unresolvable conflicts abort the whole batch before any step is
	// emitted: duplicate targets, and targets held by kept entries.
	targets := make(map[string]Entry, len(renames))
	for _, r := range renames {
		if prev, ok := targets[r.NewName]; ok {
			return nil, Newf(ErrNameCollision,
				"both %q and %q were renamed to %q", prev.Name, r.Entry.Name, r.NewName).
				WithDetail("target", r.NewName)
		}
		targets[r.NewName] = r.Entry
		if held, ok := reserved[r.NewName]; ok {
			return nil, Newf(ErrNameCollision,
				"renaming %q to %q would overwrite %q, which is neither renamed nor deleted",
				r.Entry.Name, r.NewName, held.Name).
				WithDetail("target", r.NewName)
		}
	}

	// occupied tracks which names hold a file at the current point of
	// the plan.
	occupied := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		occupied[op.Entry.Name] = struct{}{}
	}

	plan := &Plan{Dir: snap.Dir}
	for _, d := range deletes {
		plan.Steps = append(plan.Steps, Step{
			Kind:       StepDelete,
			From:       d.Entry.Name,
			EntryIndex: d.Entry.Index,
		})
		delete(occupied, d.Entry.Name)
	}

	// Temporary names must dodge every name that exists now or will
	// exist at any point of the plan.
	taken := make(map[string]struct{}, 2*len(ops))
	for _, op := range ops {
		taken[op.Entry.Name] = struct{}{}
	}
	for t := range targets {
		taken[t] = struct{}{}
	}
	for _, name := range outside {
		taken[name] = struct{}{}
	}

	type edge struct {
		from, to   string
		entryIndex int
	}
	pending := make([]edge, len(renames))
	for i, r := range renames {
		pending[i] = edge{from: r.Entry.Name, to: r.NewName, entryIndex: r.Entry.Index}
	}

	for len(pending) > 0 {
		emitted := false
		for i, p := range pending {
			if _, busy := occupied[p.to]; busy {
				continue
			}
			plan.Steps = append(plan.Steps, Step{
				Kind:       StepRename,
				From:       p.from,
				To:         p.to,
				EntryIndex: p.entryIndex,
			})
			delete(occupied, p.from)
			occupied[p.to] = struct{}{}
			pending = append(pending[:i], pending[i+1:]...)
			emitted = true
			break
		}
		if emitted {
			continue
		}

		// Every remaining target is occupied by another pending
		// source: a cycle. Route one edge through a temporary name
		// and let the loop unwind the rest in reverse order.
		head := pending[0]
		tmp, err := tempName(taken)
		if err != nil {
			return nil, err
		}
		taken[tmp] = struct{}{}
		plan.Steps = append(plan.Steps, Step{
			Kind:       StepRename,
			From:       head.from,
			To:         tmp,
			EntryIndex: head.entryIndex,
			Via:        true,
		})
		delete(occupied, head.from)
		occupied[tmp] = struct{}{}
		pending[0] = edge{from: tmp, to: head.to, entryIndex: head.entryIndex}

		logger.Debug().
			Str("entry", head.from).
			Str("temp", tmp).
			Msg("Rename cycle broken through temporary name")
	}

	logger.Debug().
		Int("renames", len(renames)).
		Int("deletes", len(deletes)).
		Int("steps", len(plan.Steps)).
		Msg("Plan resolved")
	return plan, nil
}
