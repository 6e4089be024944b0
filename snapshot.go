package quiren

import (
	"errors"
	"io/fs"
	"os"
)

// TakeSnapshot lists the immediate children of dir, files and
// directories alike. os.ReadDir already sorts by name, so two runs
// against an unchanged directory produce identical snapshots.
func TakeSnapshot(dir string) (*Snapshot, error) {
	logger := getLogger("snapshot")

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, Wrapf(err, ErrNotADirectory, "no such directory: %s", dir)
	case errors.Is(err, fs.ErrPermission):
		return nil, Wrapf(err, ErrAccessDenied, "cannot access %s", dir)
	case err != nil:
		return nil, Wrapf(err, ErrIO, "cannot stat %s", dir)
	}
	if !info.IsDir() {
		return nil, Newf(ErrNotADirectory, "%s is not a directory", dir)
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, Wrapf(err, ErrAccessDenied, "cannot list %s", dir)
		}
		return nil, Wrapf(err, ErrIO, "cannot list %s", dir)
	}

	snap := &Snapshot{Dir: dir, Entries: make([]Entry, len(children))}
	for i, c := range children {
		snap.Entries[i] = Entry{Name: c.Name(), Index: i}
	}

	logger.Debug().Str("dir", dir).Int("entries", len(snap.Entries)).Msg("Snapshot taken")
	return snap, nil
}

// reservedNames re-lists the directory and returns the on-disk names
// the snapshot does not cover. A sub-snapshot from a retry round only
// carries the unresolved entries; every other file, including those the
// failed plan already settled, still reserves its name.
func reservedNames(snap *Snapshot) ([]string, error) {
	children, err := os.ReadDir(snap.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, Wrapf(err, ErrAccessDenied, "cannot list %s", snap.Dir)
		}
		return nil, Wrapf(err, ErrIO, "cannot list %s", snap.Dir)
	}

	inSnapshot := make(map[string]struct{}, len(snap.Entries))
	for _, e := range snap.Entries {
		inSnapshot[e.Name] = struct{}{}
	}

	var outside []string
	for _, c := range children {
		if _, ok := inSnapshot[c.Name()]; !ok {
			outside = append(outside, c.Name())
		}
	}
	return outside, nil
}
