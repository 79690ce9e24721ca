// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package docs

// Global content for help and man pages
const (

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// main slurm-singularity-exec command
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	SingularityExecUse   string = `slurm-singularity-exec [global options...]`
	SingularityExecShort string = `
Inspect and exercise the singularity-exec SPANK plugin outside of Slurm`
	SingularityExecLong string = `
  The singularity-exec SPANK plugin starts Slurm job tasks inside a container
  by replacing the task with a launcher script. This command loads the plugin
  logic with the same plugstack.conf arguments and submitter options, and shows
  or performs what the plugin would do for a given job command.`
	SingularityExecExample string = `
  $ slurm-singularity-exec plan --plugstack /etc/slurm/plugstack.conf -- hostname
  $ slurm-singularity-exec plan --config default=base.sif --container other.sif -- /bin/echo hi`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// plan
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	PlanUse   string = `plan [plan options...] [plugin options...] -- <command> [args...]`
	PlanShort string = `Show how the plugin would start a job`
	PlanLong  string = `
  The plan command ingests the plugin arguments, either from a plugstack.conf
  file (--plugstack) or given one by one (--config), applies the plugin
  options exactly as srun would (--container, --no-container,
  --singularity-args) and prints the launch decision: pass-through, or the
  environment variables set on the job and the argument vector handed to the
  launcher script. Nothing is executed.`
	PlanExample string = `
  $ slurm-singularity-exec plan --config default=base.sif --config script=/opt/launch.sh -- /bin/echo hi
  $ slurm-singularity-exec plan --plugstack /etc/slurm/plugstack.conf --format yaml --no-container -- hostname`

	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	// exec
	// ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
	ExecUse   string = `exec [plan options...] [plugin options...] -- <command> [args...]`
	ExecShort string = `Start a command the way the plugin starts a job task`
	ExecLong  string = `
  The exec command takes the same options as plan, then replaces itself with
  the launcher script (or with the command itself when no container is
  selected), using the current environment as job environment.`
	ExecExample string = `
  $ slurm-singularity-exec exec --config default=base.sif -- cat /etc/os-release`
)
