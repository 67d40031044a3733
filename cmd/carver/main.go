package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/esimov/carver/utils"
	"github.com/spf13/cobra"
)

const helpBanner = `
┌─┐┌─┐┬─┐┬  ┬┌─┐┬─┐
│  ├─┤├┬┘└┐┌┘├┤ ├┬┘
└─┘┴ ┴┴└─ └┘ └─┘┴└─

Content aware image resize tool.
    Version: %s
`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, utils.DecorateText("Error: "+err.Error(), utils.ErrorMessage))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "carver",
		Short:         "Content aware image resize tool",
		Long:          fmt.Sprintf(helpBanner, Version),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newResizeCmd())
	root.AddCommand(newSeamsCmd())
	return root
}
