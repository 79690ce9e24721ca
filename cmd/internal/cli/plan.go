// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apptainer/slurm-singularity-exec/docs"
	"github.com/apptainer/slurm-singularity-exec/internal/app/singularityexec"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/buildcfg"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/execconf"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/launcher"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/localspank"
	"github.com/apptainer/slurm-singularity-exec/pkg/spank"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
	"mvdan.cc/sh/v3/syntax"
)

// planOptions are the flags of plan and exec, plugin options are added at
// run time once the plugin registered them.
type planOptions struct {
	plugstack string
	config    []string
	format    string
}

func newPlanFlags(name string, o *planOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&o.plugstack, "plugstack", "", "read the plugin arguments from this plugstack.conf file")
	fs.StringArrayVar(&o.config, "config", nil, "plugin argument as written on a plugstack.conf line, may be repeated")
	fs.StringVar(&o.format, "format", "text", "output format of plan: text, yaml or json")
	return fs
}

// session is a plugin loaded as srun and slurmstepd would load it, with the
// job command set.
type session struct {
	plugin  *singularityexec.Plugin
	handle  *localspank.Handle
	options *planOptions
}

// loadPlugin parses args in two passes: plan options first to find the
// plugin arguments, then everything once the plugin registered its options.
func loadPlugin(cmd *cobra.Command, args, env []string) (*session, error) {
	pre := &planOptions{}
	fs := newPlanFlags(cmd.Name(), pre)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return nil, err
	}

	var tokens []string
	if pre.plugstack != "" {
		t, err := execconf.ReadPlugstackFile(pre.plugstack, buildcfg.PLUGIN_NAME)
		if err != nil {
			return nil, err
		}
		tokens = t
	}
	tokens = append(tokens, pre.config...)

	s := &session{
		plugin:  singularityexec.New(nil),
		options: &planOptions{},
	}
	fs = newPlanFlags(cmd.Name(), s.options)
	fs.SetOutput(cmd.ErrOrStderr())
	s.handle = localspank.New(fs, env)

	if err := s.plugin.Init(s.handle, spank.Args(tokens)); err != nil {
		return nil, errors.Wrap(err, "while loading plugin")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			cmd.Println(cmd.Long)
			cmd.Printf("\nUsage:\n  %s\n\nOptions:\n%s", cmd.UseLine(), fs.FlagUsages())
		}
		return nil, err
	}

	job := fs.Args()
	if len(job) == 0 {
		return nil, errors.New("no job command given")
	}
	s.handle.SetJob(job)
	s.handle.SetRemote(true)
	return s, nil
}

// PlanCmd prints the launch plan of a job
var PlanCmd = &cobra.Command{
	DisableFlagParsing:    true,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadPlugin(cmd, args, os.Environ())
		if err != nil {
			return err
		}
		plan, err := s.plugin.Plan(s.handle)
		if err != nil {
			return err
		}
		return printPlan(cmd.OutOrStdout(), s.options.format, plan)
	},

	Use:     docs.PlanUse,
	Short:   docs.PlanShort,
	Long:    docs.PlanLong,
	Example: docs.PlanExample,
}

// ExecCmd starts a command as the plugin starts a job task
var ExecCmd = &cobra.Command{
	DisableFlagParsing:    true,
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadPlugin(cmd, args, os.Environ())
		if err != nil {
			return err
		}
		if err := s.plugin.TaskInitPrivileged(s.handle, nil); err != nil {
			return err
		}
		// with the exec lifecycle this doesn't return unless it failed
		if err := s.plugin.TaskInit(s.handle, nil); err != nil {
			return err
		}

		argv, err := spank.JobArgv(s.handle)
		if err != nil {
			return err
		}
		env, err := s.handle.JobEnv()
		if err != nil {
			return err
		}
		return launcher.New().ExecArgv(argv, env)
	},

	Use:     docs.ExecUse,
	Short:   docs.ExecShort,
	Long:    docs.ExecLong,
	Example: docs.ExecExample,
}

func printPlan(w io.Writer, format string, plan *singularityexec.Plan) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "yaml":
		b, err := yaml.Marshal(plan)
		if err != nil {
			return errors.Wrap(err, "while encoding plan")
		}
		_, err = w.Write(b)
		return err
	case "text", "":
		return printPlanText(w, plan)
	}
	return errors.Errorf("unknown output format %q", format)
}

func printPlanText(w io.Writer, plan *singularityexec.Plan) error {
	label := color.New(color.Bold).SprintFunc()

	decision := color.GreenString("launch in container")
	if plan.PassThrough {
		decision = color.YellowString("pass-through")
	}

	fmt.Fprintf(w, "%s %s\n", label("Decision:  "), decision)
	fmt.Fprintf(w, "%s %s\n", label("Lifecycle: "), plan.Lifecycle)
	fmt.Fprintf(w, "%s %s\n", label("Container: "), plan.Container)
	fmt.Fprintf(w, "%s %s\n", label("Script:    "), plan.Script)
	fmt.Fprintf(w, "%s %s\n", label("Arguments: "), plan.LauncherArgs)
	for _, e := range plan.Env {
		fmt.Fprintf(w, "%s %s\n", label("Set:       "), e)
	}

	quoted := make([]string, len(plan.Argv))
	for i, a := range plan.Argv {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			return errors.Wrapf(err, "while quoting %q", a)
		}
		quoted[i] = q
	}
	_, err := fmt.Fprintf(w, "%s %s\n", label("Command:   "), strings.Join(quoted, " "))
	return err
}
