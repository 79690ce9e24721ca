// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package execconf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestLauncherWords(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		words   []string
		wantErr bool
	}{
		{
			name: "empty",
			args: "  ",
		},
		{
			name:  "plain",
			args:  "--nv --cleanenv",
			words: []string{"--nv", "--cleanenv"},
		},
		{
			name:  "quoted",
			args:  `-B "/a b:/c" --env 'X=1 2'`,
			words: []string{"-B", "/a b:/c", "--env", "X=1 2"},
		},
		{
			name:  "variables are kept",
			args:  "-B $HOME",
			words: []string{"-B", "$HOME"},
		},
		{
			name:  "variables with separator letters",
			args:  "-B $SCRATCH:/scratch --env FOO=$USER",
			words: []string{"-B", "$SCRATCH:/scratch", "--env", "FOO=$USER"},
		},
		{
			name:  "braced variable",
			args:  `--env "TMP=${TMPDIR}/job"`,
			words: []string{"--env", "TMP=$TMPDIR/job"},
		},
		{
			name:    "unbalanced quote",
			args:    `-B "/a`,
			wantErr: true,
		},
		{
			name:    "command substitution",
			args:    "-B $(id -u)",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := LauncherWords(tt.args)
			if tt.wantErr {
				var aerr *ArgsError
				assert.Assert(t, errors.As(err, &aerr))
				assert.Equal(t, aerr.Args, tt.args)
				return
			}
			assert.NilError(t, err)
			assert.DeepEqual(t, words, tt.words)
		})
	}
}

func TestSetLauncherArgs(t *testing.T) {
	c := Default()
	c.Apply([]string{`args="--nv"`})

	assert.NilError(t, c.SetLauncherArgs("--contain"))
	assert.Equal(t, c.LauncherArgs, "--contain")

	assert.ErrorContains(t, c.SetLauncherArgs(`"--nv`), "invalid launcher arguments")
	assert.Equal(t, c.LauncherArgs, "--contain")
}

const plugstack = `# Slurm plugin stack
include /etc/slurm/plugstack.conf.d/*.conf
optional /usr/lib64/slurm/other.so debug
required /usr/lib64/slurm/singularity-exec.so default=/cvmfs/images/base.sif script=/opt/launch.sh args="-B /data --nv" # containers
`

func TestReadPlugstack(t *testing.T) {
	args, err := ReadPlugstack(strings.NewReader(plugstack), "singularity-exec")
	assert.NilError(t, err)
	assert.DeepEqual(t, args, []string{
		"default=/cvmfs/images/base.sif",
		"script=/opt/launch.sh",
		`args="-B`,
		"/data",
		`--nv"`,
	})

	args, err = ReadPlugstack(strings.NewReader(plugstack), "other")
	assert.NilError(t, err)
	assert.DeepEqual(t, args, []string{"debug"})

	_, err = ReadPlugstack(strings.NewReader(plugstack), "missing")
	assert.Assert(t, errors.Is(err, ErrNotConfigured))
}

func TestReadPlugstackFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugstack.conf")
	assert.NilError(t, os.WriteFile(path, []byte("required singularity-exec.so default=base\n"), 0o644))

	args, err := ReadPlugstackFile(path, "singularity-exec")
	assert.NilError(t, err)
	assert.DeepEqual(t, args, []string{"default=base"})

	_, err = ReadPlugstackFile(filepath.Join(t.TempDir(), "none.conf"), "singularity-exec")
	assert.ErrorContains(t, err, "could not open")
}
