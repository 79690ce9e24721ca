// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package spanktest provides an in-memory spank.Handle for tests.
package spanktest

import (
	"github.com/apptainer/slurm-singularity-exec/pkg/spank"
)

// Handle is a fake host context. The zero value is a usable local context
// with no job arguments and an empty environment.
type Handle struct {
	IsRemote bool
	Args     []string
	Env      []string
	Options  []spank.Option

	// Invalid makes Remote report spank.ErrInvalidHandle.
	Invalid bool
	// Fail maps a host call name ("spank_get_item", "spank_setenv",
	// "spank_option_register") to the code it returns.
	Fail map[string]spank.ErrCode
	// FailOption maps an option name to the code returned when registering it.
	FailOption map[string]spank.ErrCode
}

// New returns a remote context running args with environment env.
func New(args []string, env ...string) *Handle {
	return &Handle{
		IsRemote: true,
		Args:     args,
		Env:      env,
	}
}

func (h *Handle) fail(op string) error {
	if code, ok := h.Fail[op]; ok {
		return spank.Check(op, code)
	}
	return nil
}

// Remote implements spank.Handle.
func (h *Handle) Remote() (bool, error) {
	if h.Invalid {
		return false, spank.ErrInvalidHandle
	}
	return h.IsRemote, nil
}

// JobArgs implements spank.Handle.
func (h *Handle) JobArgs() (spank.ArgumentView, error) {
	if err := h.fail("spank_get_item"); err != nil {
		return nil, err
	}
	return spank.Args(h.Args), nil
}

// SetJobArg implements spank.Handle.
func (h *Handle) SetJobArg(i int, value string) error {
	if err := h.fail("spank_get_item"); err != nil {
		return err
	}
	if i < 0 || i >= len(h.Args) {
		return spank.Check("spank_get_item", spank.BadArg)
	}
	h.Args[i] = value
	return nil
}

// JobEnv implements spank.Handle.
func (h *Handle) JobEnv() ([]string, error) {
	if err := h.fail("spank_get_item"); err != nil {
		return nil, err
	}
	return h.Env, nil
}

// Setenv implements spank.Handle.
func (h *Handle) Setenv(name, value string, overwrite bool) error {
	if err := h.fail("spank_setenv"); err != nil {
		return err
	}
	env, err := spank.SetEnv(h.Env, name, value, overwrite)
	h.Env = env
	return err
}

// Getenv returns the value of name in the job environment.
func (h *Handle) Getenv(name string) (string, bool) {
	return spank.LookupEnv(h.Env, name)
}

// RegisterOption implements spank.Handle. Registering a name twice fails
// with ESPANK_BAD_ARG, like the host does.
func (h *Handle) RegisterOption(opt *spank.Option) error {
	if err := h.fail("spank_option_register"); err != nil {
		return err
	}
	if code, ok := h.FailOption[opt.Name]; ok {
		return spank.Check("spank_option_register", code)
	}
	if opt.Name == "" || h.Option(opt.Name) != nil {
		return spank.Check("spank_option_register", spank.BadArg)
	}
	h.Options = append(h.Options, *opt)
	return nil
}

// Option returns the registered option called name, or nil.
func (h *Handle) Option(name string) *spank.Option {
	for i := range h.Options {
		if h.Options[i].Name == name {
			return &h.Options[i]
		}
	}
	return nil
}

// Use invokes the callback of option name as the host would when a
// submitter passes --name[=optarg].
func (h *Handle) Use(name, optarg string) error {
	opt := h.Option(name)
	if opt == nil {
		return spank.Check("spank_option_getopt", spank.NoExist)
	}
	return opt.Callback(opt.Val, optarg, h.IsRemote)
}
