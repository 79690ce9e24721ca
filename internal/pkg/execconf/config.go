// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package execconf holds the singularity-exec plugin state and parses the
// arguments given to the plugin on its plugstack.conf line.
package execconf

import (
	"fmt"
	"strings"

	"github.com/apptainer/slurm-singularity-exec/internal/pkg/buildcfg"
)

// Lifecycle selects how a job is handed to the launcher script.
type Lifecycle string

const (
	// LifecycleExec replaces the task process with the launcher from
	// slurm_spank_task_init.
	LifecycleExec Lifecycle = "exec"
	// LifecycleRewrite substitutes argv[0] with the launcher from
	// slurm_spank_task_init_privileged and lets slurmstepd exec it.
	LifecycleRewrite Lifecycle = "rewrite"
)

const (
	defaultPrefix   = "default="
	scriptPrefix    = "script="
	argsPrefix      = `args="`
	lifecyclePrefix = "lifecycle="
)

// Config is the process wide plugin state. slurmstepd serializes callbacks,
// so a Config is only ever touched by one callback at a time and must have a
// single owner: the plugin instance.
type Config struct {
	// ContainerName is the requested container, empty for none.
	ContainerName string
	// Script is the launcher executed in place of the job.
	Script string
	// LauncherArgs is exported to the launcher as SLURM_SINGULARITY_ARGS.
	LauncherArgs string
	Lifecycle    Lifecycle
}

// Default returns the state before any plugstack.conf argument is applied.
func Default() *Config {
	return &Config{
		Script:    buildcfg.LAUNCHER_SCRIPT,
		Lifecycle: LifecycleExec,
	}
}

// ConfigError reports a plugstack.conf argument which was not applied.
type ConfigError struct {
	Token  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("argument in plugstack.conf is invalid: '%s'", e.Token)
	}
	return fmt.Sprintf("argument in plugstack.conf is invalid: '%s': %s", e.Token, e.Reason)
}

// Apply parses tokens left to right into c. Tokens which can't be applied
// are returned as *ConfigError and skipped; none of them is fatal.
//
// An args=" token starts a quoted value: following tokens are joined with a
// single space until one ends with a double quote. A value never closed
// swallows every remaining token.
func (c *Config) Apply(tokens []string) []error {
	var errs []error

	quoted := false
	for _, tok := range tokens {
		if quoted {
			if strings.HasSuffix(tok, `"`) {
				tok = strings.TrimSuffix(tok, `"`)
				quoted = false
			}
			c.LauncherArgs += " " + tok
			continue
		}

		switch {
		case strings.HasPrefix(tok, defaultPrefix):
			c.ContainerName = strings.TrimPrefix(tok, defaultPrefix)
		case strings.HasPrefix(tok, scriptPrefix):
			c.Script = strings.TrimPrefix(tok, scriptPrefix)
		case strings.HasPrefix(tok, argsPrefix):
			value := strings.TrimPrefix(tok, argsPrefix)
			if strings.HasSuffix(value, `"`) {
				value = strings.TrimSuffix(value, `"`)
			} else {
				quoted = true
			}
			c.LauncherArgs = value
		case strings.HasPrefix(tok, lifecyclePrefix):
			switch l := Lifecycle(strings.TrimPrefix(tok, lifecyclePrefix)); l {
			case LifecycleExec, LifecycleRewrite:
				c.Lifecycle = l
			default:
				errs = append(errs, &ConfigError{Token: tok, Reason: "lifecycle must be exec or rewrite"})
			}
		default:
			errs = append(errs, &ConfigError{Token: tok})
		}
	}

	if quoted {
		errs = append(errs, &ConfigError{Token: argsPrefix + c.LauncherArgs, Reason: "missing closing quote"})
	}

	return errs
}

// Containerize reports whether jobs are to be started in a container.
func (c *Config) Containerize() bool {
	return c.ContainerName != "" && c.Script != ""
}
