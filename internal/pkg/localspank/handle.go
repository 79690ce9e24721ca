// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package localspank provides a spank.Handle outside of Slurm: plugin
// options become command line flags and the job runs with the given
// arguments and environment.
package localspank

import (
	"strings"

	"github.com/apptainer/slurm-singularity-exec/pkg/spank"
	"github.com/spf13/pflag"
)

// Handle is a spank.Handle backed by a pflag.FlagSet.
type Handle struct {
	flags  *pflag.FlagSet
	remote bool
	args   []string
	env    []string
}

// New returns a local context registering options into flags.
func New(flags *pflag.FlagSet, env []string) *Handle {
	return &Handle{
		flags: flags,
		env:   append([]string(nil), env...),
	}
}

// SetRemote switches the handle between the local (srun) and the remote
// (task) context.
func (h *Handle) SetRemote(remote bool) {
	h.remote = remote
}

// SetJob sets the job argument vector.
func (h *Handle) SetJob(args []string) {
	h.args = append([]string(nil), args...)
}

// Remote implements spank.Handle.
func (h *Handle) Remote() (bool, error) {
	if h == nil || h.flags == nil {
		return false, spank.ErrInvalidHandle
	}
	return h.remote, nil
}

// JobArgs implements spank.Handle.
func (h *Handle) JobArgs() (spank.ArgumentView, error) {
	if !h.remote {
		return nil, spank.Check("spank_get_item", spank.NotRemote)
	}
	return spank.Args(h.args), nil
}

// SetJobArg implements spank.Handle.
func (h *Handle) SetJobArg(i int, value string) error {
	if !h.remote {
		return spank.Check("spank_get_item", spank.NotRemote)
	}
	if i < 0 || i >= len(h.args) {
		return spank.Check("spank_get_item", spank.BadArg)
	}
	h.args[i] = value
	return nil
}

// JobEnv implements spank.Handle.
func (h *Handle) JobEnv() ([]string, error) {
	if !h.remote {
		return nil, spank.Check("spank_get_item", spank.NotRemote)
	}
	return h.env, nil
}

// Setenv implements spank.Handle.
func (h *Handle) Setenv(name, value string, overwrite bool) error {
	env, err := spank.SetEnv(h.env, name, value, overwrite)
	h.env = env
	return err
}

// RegisterOption implements spank.Handle by adding a flag.
func (h *Handle) RegisterOption(opt *spank.Option) error {
	if opt.Name == "" || h.flags.Lookup(opt.Name) != nil {
		return spank.Check("spank_option_register", spank.BadArg)
	}
	f := h.flags.VarPF(&optionValue{opt: opt, h: h}, opt.Name, "", opt.Usage)
	if !opt.HasArg {
		f.NoOptDefVal = "true"
	}
	return nil
}

// optionValue forwards flag values to the option callback.
type optionValue struct {
	opt   *spank.Option
	h     *Handle
	value string
}

func (v *optionValue) String() string { return v.value }

func (v *optionValue) Set(s string) error {
	optarg := s
	if !v.opt.HasArg {
		optarg = ""
	}
	if err := v.opt.Callback(v.opt.Val, optarg, v.h.remote); err != nil {
		return err
	}
	v.value = s
	return nil
}

func (v *optionValue) Type() string {
	if !v.opt.HasArg {
		return "bool"
	}
	if t := strings.Trim(v.opt.ArgInfo, "<>"); t != "" {
		return t
	}
	return "string"
}
