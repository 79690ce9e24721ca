// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package sylog implements a basic leveled logger. Messages are written to an
// io.Writer, or handed to a Sink when the hosting process owns logging (as
// slurmstepd does for SPANK plugins).
package sylog
