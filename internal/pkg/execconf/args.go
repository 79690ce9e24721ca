// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package execconf

import (
	"strings"

	"github.com/pkg/errors"
	"mvdan.cc/sh/v3/shell"
)

// ArgsError reports launcher arguments that don't form valid shell words.
type ArgsError struct {
	Args string
	Err  error
}

func (e *ArgsError) Error() string {
	return "invalid launcher arguments '" + e.Args + "': " + e.Err.Error()
}

func (e *ArgsError) Unwrap() error { return e.Err }

// LauncherWords splits launcher arguments the way the wrapper script's shell
// will. Variables are left unexpanded and command substitutions are refused.
func LauncherWords(args string) ([]string, error) {
	if strings.TrimSpace(args) == "" {
		return nil, nil
	}
	words, err := shell.Fields(args, func(name string) string {
		// field splitting reads IFS through the same lookup
		if name == "IFS" {
			return " \t\n"
		}
		return "$" + name
	})
	if err != nil {
		return nil, &ArgsError{Args: args, Err: errors.Cause(err)}
	}
	return words, nil
}

// SetLauncherArgs replaces the launcher arguments after checking they can be
// split into shell words.
func (c *Config) SetLauncherArgs(args string) error {
	if _, err := LauncherWords(args); err != nil {
		return err
	}
	c.LauncherArgs = args
	return nil
}
