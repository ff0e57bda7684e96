package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	bashCompletion       = "bash"
	zshCompletion        = "zsh"
	powerShellCompletion = "power"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion",
		Short:     "generates shell completion scripts",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{bashCompletion, zshCompletion, powerShellCompletion},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch shell := args[0]; shell {
			case bashCompletion:
				return cmd.Root().GenBashCompletion(out)
			case zshCompletion:
				return cmd.Root().GenZshCompletion(out)
			case powerShellCompletion:
				return cmd.Root().GenPowerShellCompletion(out)
			default:
				return errors.Errorf("unexpected shell provided: %s", shell)
			}
		},
	}
}
