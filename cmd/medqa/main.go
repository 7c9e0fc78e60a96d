package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type cliState struct {
	configPath string
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	root := &cobra.Command{
		Use:           "medqa",
		Short:         "Evaluate LLM providers on a medical multiple-choice dataset",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", "", "path to config file")

	root.AddCommand(newRunCmd(st))
	root.AddCommand(newHistoryCmd(st))
	return root
}
