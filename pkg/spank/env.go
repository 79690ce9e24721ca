// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package spank

import "strings"

// SetEnv sets name to value in a NAME=value environment list and returns
// the updated list, following spank_setenv semantics.
func SetEnv(env []string, name, value string, overwrite bool) ([]string, error) {
	if name == "" || strings.Contains(name, "=") {
		return env, Check("spank_setenv", BadArg)
	}
	prefix := name + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			if !overwrite {
				return env, Check("spank_setenv", EnvExists)
			}
			env[i] = prefix + value
			return env, nil
		}
	}
	return append(env, prefix+value), nil
}

// LookupEnv returns the value of name in a NAME=value environment list.
func LookupEnv(env []string, name string) (string, bool) {
	prefix := name + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return e[len(prefix):], true
		}
	}
	return "", false
}
