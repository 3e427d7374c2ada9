package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vishwa0198/earnings-call-analyzer/credentials"
	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
)

// NewAuthCommand creates the `eca auth` command group for managing the
// OpenAI API key.
func NewAuthCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the OpenAI API key",
	}

	cmd.AddCommand(newAuthSetKeyCommand(deps))
	cmd.AddCommand(newAuthShowCommand(deps))
	cmd.AddCommand(newAuthDeleteKeyCommand(deps))

	return cmd
}

func newAuthSetKeyCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key",
		Short: "Store the OpenAI API key in the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthSetKey(deps)
		},
	}
}

func runAuthSetKey(deps *Deps) error {
	fmt.Fprint(deps.out(), "OpenAI API key: ")

	key, err := readSecret(deps)
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}
	fmt.Fprintln(deps.out())

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: API key must not be empty", ecaerrors.ErrValidation)
	}

	if err := deps.credentials().SetAPIKey(key); err != nil {
		return err
	}
	fmt.Fprintln(deps.out(), "API key stored.")
	return nil
}

// readSecret reads the key without echo when stdin is a terminal, falling
// back to a plain line read otherwise (pipes, tests).
func readSecret(deps *Deps) (string, error) {
	if f, ok := deps.in().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	reader := bufio.NewReader(deps.in())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func newAuthShowCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show where the API key comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthShow(deps)
		},
	}
}

func runAuthShow(deps *Deps) error {
	store := deps.credentials()

	key, err := store.APIKey()
	if err != nil {
		if errors.Is(err, credentials.ErrNoAPIKey) {
			fmt.Fprintln(deps.out(), "No API key configured.")
			fmt.Fprintf(deps.out(), "Run `eca auth set-key` or export %s.\n", credentials.EnvAPIKey)
			return nil
		}
		return err
	}

	fmt.Fprintf(deps.out(), "API key: %s (from %s)\n", credentials.Redact(key), store.Source())
	return nil
}

func newAuthDeleteKeyCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-key",
		Short: "Remove the API key from the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthDeleteKey(deps)
		},
	}
}

func runAuthDeleteKey(deps *Deps) error {
	if err := deps.credentials().DeleteAPIKey(); err != nil {
		return err
	}
	fmt.Fprintln(deps.out(), "API key deleted.")
	return nil
}
