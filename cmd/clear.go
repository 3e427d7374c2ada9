package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
)

// NewClearCommand creates the `eca clear` command. It removes the persisted
// index artifacts and the conversation history.
func NewClearCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the processed transcript data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd, deps)
		},
	}
}

func runClear(cmd *cobra.Command, deps *Deps) error {
	store, err := deps.indexStore()
	if err != nil {
		return err
	}

	hadIndex := store.Exists()
	if err := store.Clear(cmd.Context()); err != nil {
		switch {
		case ecaerrors.IsIndexLocked(err):
			return fmt.Errorf("%w: another process may be using the index; try again shortly", err)
		case ecaerrors.IsPartialClear(err):
			return fmt.Errorf("%w: some artifacts remain in %s; remove them manually or retry", err, store.Dir())
		default:
			return err
		}
	}

	// History is best-effort; a missing file is fine.
	if err := os.Remove(historyPath(store.Dir())); err != nil && !os.IsNotExist(err) {
		deps.log().Warn("failed to remove history", logging.Err(err))
	}

	if hadIndex {
		fmt.Fprintln(deps.out(), "Index cleared.")
	} else {
		fmt.Fprintln(deps.out(), "No index to clear.")
	}
	return nil
}
