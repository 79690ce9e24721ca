// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package launcher hands a job over to the container launcher script by
// replacing the current process image.
package launcher

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ExecFunc replaces the current process image. It only returns on failure.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// LaunchError reports a failed process replacement.
type LaunchError struct {
	Script    string
	Container string
	Err       error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("Starting %s in %s failed: %s", e.Script, e.Container, strerror(e.Err))
}

// strerror returns errno text capitalized as strerror(3) prints it.
func strerror(err error) string {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return err.Error()
	}
	msg := errno.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Launcher starts jobs through a launcher script.
type Launcher struct {
	// Exec defaults to unix.Exec.
	Exec ExecFunc
	// LookPath resolves a script name without slash, defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// New returns a Launcher replacing the process for real.
func New() *Launcher {
	return &Launcher{
		Exec:     unix.Exec,
		LookPath: exec.LookPath,
	}
}

// Argv returns the argument vector of the launcher: the script, the
// container and then the job arguments, order preserved.
func Argv(script, container string, jobArgs []string) []string {
	argv := make([]string, 0, len(jobArgs)+2)
	argv = append(argv, script, container)
	return append(argv, jobArgs...)
}

// resolve finds the executable the same way execvpe does.
func (l *Launcher) resolve(script string) (string, error) {
	if strings.Contains(script, "/") || l.LookPath == nil {
		return script, nil
	}
	path, err := l.LookPath(script)
	if err != nil {
		// execvpe runs a match found through a relative PATH entry
		if errors.Is(err, exec.ErrDot) {
			return path, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", unix.ENOENT
		}
		return "", err
	}
	return path, nil
}

// Launch replaces the current process with script running jobArgs in
// container, with environment env. It never returns on success: a nil
// error can't be observed, the process image is gone.
func (l *Launcher) Launch(script, container string, jobArgs, env []string) *LaunchError {
	argv := Argv(script, container, jobArgs)

	path, err := l.resolve(script)
	if err != nil {
		return &LaunchError{Script: script, Container: container, Err: err}
	}

	execFn := l.Exec
	if execFn == nil {
		execFn = unix.Exec
	}
	err = execFn(path, argv, env)
	if err == nil {
		err = errors.New("exec returned without error")
	}
	return &LaunchError{Script: script, Container: container, Err: err}
}

// ExecArgv replaces the current process with argv, resolving argv[0] like
// slurmstepd does for job commands. It only returns on failure.
func (l *Launcher) ExecArgv(argv, env []string) error {
	if len(argv) == 0 {
		return errors.New("no command to execute")
	}
	path, err := l.resolve(argv[0])
	if err != nil {
		return errors.Wrapf(err, "could not find %s", argv[0])
	}
	execFn := l.Exec
	if execFn == nil {
		execFn = unix.Exec
	}
	return errors.Wrapf(execFn(path, argv, env), "while executing %s", path)
}
