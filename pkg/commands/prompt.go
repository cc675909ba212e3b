package commands

import (
	"errors"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool { return isTerminal(os.Stdin) }

// confirm asks a yes/no question on the command's streams. Anything but an
// explicit yes is a no.
func confirm(cmd *cobra.Command, label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    nopWriteCloser{cmd.OutOrStdout()},
	}
	_, err := prompt.Run()
	if err != nil && !errors.Is(err, promptui.ErrAbort) {
		_, _ = cmd.ErrOrStderr().Write([]byte(err.Error() + "\n"))
	}
	return err == nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
