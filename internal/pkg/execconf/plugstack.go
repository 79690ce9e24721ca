// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package execconf

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotConfigured is returned when no plugstack.conf line loads the plugin.
var ErrNotConfigured = errors.New("plugin is not configured in plugstack.conf")

// ReadPlugstack returns the arguments of the first plugstack.conf line
// loading plugin, e.g. "singularity-exec" matches
// "required /usr/lib64/slurm/singularity-exec.so default=... script=...".
// Arguments are split on whitespace only, as slurmstepd does.
func ReadPlugstack(r io.Reader, plugin string) ([]string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "required", "optional":
		default:
			// include directives and anything slurmstepd would reject
			continue
		}
		base := filepath.Base(fields[1])
		if base == plugin || strings.TrimSuffix(base, ".so") == plugin {
			return fields[2:], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "while reading plugstack configuration")
	}
	return nil, ErrNotConfigured
}

// ReadPlugstackFile is ReadPlugstack on the named file.
func ReadPlugstackFile(path, plugin string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()

	args, err := ReadPlugstack(f, plugin)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}
	return args, nil
}
