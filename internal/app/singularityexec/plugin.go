// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package singularityexec implements the singularity-exec SPANK plugin: it
// reads its plugstack.conf arguments, registers the submitter options and
// starts job tasks inside a container through a launcher script.
package singularityexec

import (
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/buildcfg"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/execconf"
	"github.com/apptainer/slurm-singularity-exec/internal/pkg/launcher"
	"github.com/apptainer/slurm-singularity-exec/pkg/spank"
	"github.com/apptainer/slurm-singularity-exec/pkg/sylog"
	"github.com/pkg/errors"
)

// Option values passed back to option callbacks.
const (
	optContainer = iota
	optNoContainer
	optLauncherArgs
)

// ErrNoJobArguments is returned by the rewrite lifecycle for a task without
// command.
var ErrNoJobArguments = errors.New("no job arguments")

// Plugin is the plugin instance. slurmstepd invokes one callback at a time,
// Plugin is not safe for concurrent use and must be the sole owner of its
// configuration.
type Plugin struct {
	conf     *execconf.Config
	launcher *launcher.Launcher
}

// New returns an unconfigured plugin launching jobs with l.
func New(l *launcher.Launcher) *Plugin {
	if l == nil {
		l = launcher.New()
	}
	return &Plugin{
		conf:     execconf.Default(),
		launcher: l,
	}
}

// Config returns the current plugin state.
func (p *Plugin) Config() execconf.Config {
	return *p.conf
}

// Init ingests the plugstack.conf arguments and registers the submitter
// options. It runs once per process load, in every context.
func (p *Plugin) Init(h spank.Handle, args spank.ArgumentView) error {
	tokens := spank.Strings(args)
	for _, tok := range tokens {
		sylog.Debugf("%s argument: %s", buildcfg.PLUGIN_NAME, tok)
	}
	for _, err := range p.conf.Apply(tokens) {
		sylog.Errorf("%s plugin: %s", buildcfg.PLUGIN_NAME, err)
	}

	for _, opt := range p.options() {
		if err := h.RegisterOption(opt); err != nil {
			return errors.Wrapf(err, "while registering option --%s", opt.Name)
		}
	}
	return nil
}

func (p *Plugin) options() []*spank.Option {
	return []*spank.Option{
		{
			Name:     "container",
			ArgInfo:  "<name>",
			Usage:    "name of the requested container / user space (default: '" + p.conf.ContainerName + "')",
			HasArg:   true,
			Val:      optContainer,
			Callback: p.setOption,
		},
		{
			Name:     "no-container",
			Usage:    "run the job directly on the worker node",
			Val:      optNoContainer,
			Callback: p.setOption,
		},
		{
			Name:     "singularity-args",
			ArgInfo:  "<args>",
			Usage:    "arguments passed to the container launcher (default: '" + p.conf.LauncherArgs + "')",
			HasArg:   true,
			Val:      optLauncherArgs,
			Callback: p.setOption,
		},
	}
}

func (p *Plugin) setOption(val int, optarg string, remote bool) error {
	switch val {
	case optContainer:
		p.conf.ContainerName = optarg
	case optNoContainer:
		p.conf.ContainerName = ""
	case optLauncherArgs:
		return p.conf.SetLauncherArgs(optarg)
	default:
		return errors.Errorf("unknown option value %d", val)
	}
	return nil
}

// active reports whether the task callbacks of lifecycle l must act.
func (p *Plugin) active(h spank.Handle, l execconf.Lifecycle) (bool, error) {
	if p.conf.Lifecycle != l {
		return false, nil
	}
	remote, err := h.Remote()
	if err != nil || !remote {
		return false, err
	}
	if !p.conf.Containerize() {
		sylog.Verbosef("%s: no container selected. Skipping start_container.", buildcfg.PLUGIN_NAME)
		return false, nil
	}
	return true, nil
}

// TaskInit runs in the task, after privileges were dropped and right before
// slurmstepd execs the job. With the exec lifecycle it replaces the task by
// the launcher and only returns on failure. A failed launch is logged here,
// other errors are left to the caller.
func (p *Plugin) TaskInit(h spank.Handle, _ spank.ArgumentView) error {
	ok, err := p.active(h, execconf.LifecycleExec)
	if err != nil || !ok {
		return err
	}

	if err := h.Setenv(buildcfg.ENV_LAUNCHER_ARGS, p.conf.LauncherArgs, true); err != nil {
		return err
	}
	jobArgs, err := spank.JobArgv(h)
	if err != nil {
		return err
	}
	env, err := h.JobEnv()
	if err != nil {
		return err
	}

	sylog.Debugf("%s: starting %v in %s", buildcfg.PLUGIN_NAME, jobArgs, p.conf.ContainerName)
	lerr := p.launcher.Launch(p.conf.Script, p.conf.ContainerName, jobArgs, env)
	if !errors.Is(lerr, errPlanned) {
		sylog.Errorf("%s", lerr)
	}
	return lerr
}

// TaskInitPrivileged runs in the task while still privileged. With the
// rewrite lifecycle it records the original command and container for the
// launcher and substitutes the launcher as the job's executable.
func (p *Plugin) TaskInitPrivileged(h spank.Handle, _ spank.ArgumentView) error {
	ok, err := p.active(h, execconf.LifecycleRewrite)
	if err != nil || !ok {
		return err
	}

	args, err := h.JobArgs()
	if err != nil {
		return err
	}
	if args.Len() < 1 {
		return ErrNoJobArguments
	}
	command := args.At(0)

	env := []struct{ name, value string }{
		{buildcfg.ENV_LAUNCHER_ARGS, p.conf.LauncherArgs},
		{buildcfg.ENV_COMMAND, command},
		{buildcfg.ENV_CONTAINER, p.conf.ContainerName},
	}
	for _, e := range env {
		if err := h.Setenv(e.name, e.value, true); err != nil {
			return err
		}
	}

	sylog.Debugf("%s: replacing %s by %s", buildcfg.PLUGIN_NAME, command, p.conf.Script)
	return h.SetJobArg(0, p.conf.Script)
}
