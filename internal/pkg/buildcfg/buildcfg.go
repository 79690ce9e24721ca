// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package buildcfg holds the plugin identity and the installation defaults.
// PACKAGE_VERSION and LAUNCHER_SCRIPT may be overridden at link time with
// -ldflags "-X github.com/apptainer/slurm-singularity-exec/internal/pkg/buildcfg.NAME=value".
package buildcfg

// Plugin identity read by slurmstepd when loading the plugin.
const (
	PLUGIN_NAME    = "singularity-exec"
	PLUGIN_TYPE    = "spank"
	PLUGIN_VERSION = 0
)

var (
	PACKAGE_NAME    = "slurm-singularity-exec"
	PACKAGE_VERSION = "0.1.0"

	// LAUNCHER_SCRIPT is the wrapper executed when plugstack.conf gives no
	// script= argument.
	LAUNCHER_SCRIPT = "/usr/lib/slurm/slurm-singularity-wrapper.sh"
)

// Job environment variables handed to the launcher script.
const (
	ENV_LAUNCHER_ARGS = "SLURM_SINGULARITY_ARGS"
	ENV_CONTAINER     = "SLURM_SINGULARITY_CONTAINER"
	ENV_COMMAND       = "SLURM_SINGULARITY_COMMAND"
)
