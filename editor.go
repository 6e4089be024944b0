package quiren

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

const fallbackEditor = "vi"

// editorCommand returns the user's editor command line, split on
// whitespace so values like "code --wait" work. $VISUAL wins over
// $EDITOR, per convention.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return strings.Fields(v)
		}
	}
	return []string{fallbackEditor}
}

// RunEditor opens the listing file in the user's editor and blocks
// until it exits. This is the only suspension point in a session; no
// filesystem mutation has happened yet when it returns.
func RunEditor(ctx context.Context, listingPath string) error {
	argv := editorCommand()
	logger := getLogger("editor")
	logger.Debug().Strs("argv", argv).Str("listing", listingPath).Msg("Launching editor")

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], listingPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return Wrapf(err, ErrEditorFailed, "editor %q failed", strings.Join(argv, " "))
	}
	return nil
}
