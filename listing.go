package quiren

import (
	"os"
	"strings"
)

// The listing is the text buffer handed to the editor: one name per
// line, UTF-8, in snapshot order. The line at position i always refers
// to the entry at index i, no matter what its text was changed to.

// WriteListing serializes the snapshot to a fresh temporary file and
// returns its path. The caller removes the file when the session ends.
func WriteListing(snap *Snapshot) (string, error) {
	f, err := os.CreateTemp("", "quiren-*.txt")
	if err != nil {
		return "", Wrap(err, ErrIO, "cannot create listing file")
	}

	var b strings.Builder
	for _, e := range snap.Entries {
		b.WriteString(e.Name)
		b.WriteByte('\n')
	}

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", Wrap(err, ErrIO, "cannot write listing file")
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", Wrap(err, ErrIO, "cannot write listing file")
	}
	return f.Name(), nil
}

// ReadListing reads the edited listing back as raw lines. Exactly one
// final newline is stripped; every other blank line is preserved, since
// a blanked line is a deletion request. That cut-off is deliberate: a
// listing ending in "\n\n" reads back with a trailing empty line, which
// positionally blanks the last entry and is honored as its deletion.
func ReadListing(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Wrap(err, ErrIO, "cannot read listing file")
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
