// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package spank describes the SPANK host interface a Slurm plugin talks to:
// the per-invocation handle, job argument views, plugin options and the
// error codes returned by the host. The types here are free of cgo so that
// plugin logic can be exercised without a running slurmstepd.
package spank
