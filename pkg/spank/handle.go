// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package spank

// OptionCallback is invoked by the host when a registered option is used.
// optarg is empty for options without argument, remote reports whether the
// callback runs in the remote context.
type OptionCallback func(val int, optarg string, remote bool) error

// Option describes a plugin option, the equivalent of struct spank_option.
type Option struct {
	Name string
	// ArgInfo is the placeholder shown in usage, e.g. "<name>". An option
	// takes an argument only when HasArg is set.
	ArgInfo  string
	Usage    string
	HasArg   bool
	Val      int
	Callback OptionCallback
}

// Handle is the per-invocation host context. Every method may fail; a
// failing host call is reported as a *HostError, an unusable handle as
// ErrInvalidHandle.
type Handle interface {
	// Remote reports whether the callback runs in the remote (slurmstepd)
	// context.
	Remote() (bool, error)
	// JobArgs returns a borrowed view of the job argument vector.
	JobArgs() (ArgumentView, error)
	// SetJobArg overwrites job argument i in place, in host memory.
	SetJobArg(i int, value string) error
	// JobEnv returns the job environment as NAME=value entries.
	JobEnv() ([]string, error)
	// Setenv sets a variable in the job environment.
	Setenv(name, value string, overwrite bool) error
	// RegisterOption exposes opt to job submitters.
	RegisterOption(opt *Option) error
}

// JobArgv returns an owned copy of the job argument vector which may be
// freely extended without touching host memory.
func JobArgv(h Handle) ([]string, error) {
	args, err := h.JobArgs()
	if err != nil {
		return nil, err
	}
	return Strings(args), nil
}
