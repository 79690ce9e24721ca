// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/apptainer/slurm-singularity-exec/docs"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/buildcfg"
	"github.com/apptainer/slurm-singularity-exec/pkg/sylog"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// slurm-singularity-exec command flags
var (
	debug   bool
	nocolor bool
	silent  bool
	verbose bool
	quiet   bool
)

func setSylogMessageLevel() {
	var level int

	if debug {
		level = 5
	} else if verbose {
		level = 4
	} else if quiet {
		level = -1
	} else if silent {
		level = -3
	} else {
		level = 1
	}

	useColor := true
	if nocolor || !term.IsTerminal(2) {
		useColor = false
	}
	if nocolor {
		color.NoColor = true
	}

	sylog.SetLevel(level, useColor)
}

// rootCmd is the base command when called without any subcommands
var rootCmd = &cobra.Command{
	TraverseChildren:      true,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setSylogMessageLevel()
	},

	Use:           docs.SingularityExecUse,
	Version:       buildcfg.PACKAGE_VERSION,
	Short:         docs.SingularityExecShort,
	Long:          docs.SingularityExecLong,
	Example:       docs.SingularityExecExample,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// VersionCmd displays the plugin version
var VersionCmd = &cobra.Command{
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s plugin %s, version %d)\n",
			buildcfg.PACKAGE_NAME, buildcfg.PACKAGE_VERSION,
			buildcfg.PLUGIN_TYPE, buildcfg.PLUGIN_NAME, buildcfg.PLUGIN_VERSION)
	},

	Use:   "version",
	Short: "Show the version of the plugin",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&debug, "debug", "d", false, "print debugging information (highest verbosity)")
	pf.BoolVar(&nocolor, "nocolor", false, "print without color output (default False)")
	pf.BoolVarP(&silent, "silent", "s", false, "only print errors")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress normal output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "print additional information")

	rootCmd.AddCommand(VersionCmd, PlanCmd, ExecCmd)
}

// RootCmd returns the root cobra command.
func RootCmd() *cobra.Command {
	return rootCmd
}

// ExecuteSingularityExec runs the root command. This is called by main.main().
func ExecuteSingularityExec() {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer func() {
		signal.Stop(c)
		cancel()
	}()
	go func() {
		select {
		case <-c:
			sylog.Debugf("User requested cancellation with interrupt")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		sylog.Errorf("%s", err)
		os.Exit(1)
	}
}
