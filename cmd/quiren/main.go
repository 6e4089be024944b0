package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Sinono3/quiren"
)

func main() {
	if err := quiren.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// Exit 2 signals that some steps were applied before the
		// failure; exit 1 means the directory was left untouched.
		var applyErr *quiren.ApplyError
		if errors.As(err, &applyErr) && len(applyErr.Completed) > 0 {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
