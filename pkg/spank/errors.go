// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package spank

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrCode mirrors spank_err_t.
type ErrCode int

const (
	Success    ErrCode = iota // ESPANK_SUCCESS
	Error                     // ESPANK_ERROR
	BadArg                    // ESPANK_BAD_ARG
	NotTask                   // ESPANK_NOT_TASK
	EnvExists                 // ESPANK_ENV_EXISTS
	EnvNoExist                // ESPANK_ENV_NOEXIST
	NoSpace                   // ESPANK_NOSPACE
	NotRemote                 // ESPANK_NOT_REMOTE
	NoExist                   // ESPANK_NOEXIST
	NotExecd                  // ESPANK_NOT_EXECD
	NotAvail                  // ESPANK_NOT_AVAIL
	NotLocal                  // ESPANK_NOT_LOCAL
)

var errMessages = map[ErrCode]string{
	Success:    "Success",
	Error:      "Generic error",
	BadArg:     "Bad argument",
	NotTask:    "Not in task context",
	EnvExists:  "Environment variable exists",
	EnvNoExist: "No such environment variable",
	NoSpace:    "Buffer too small",
	NotRemote:  "Valid only in remote context",
	NoExist:    "Id/PID does not exist on this node",
	NotExecd:   "Lookup by PID requested, but no tasks running",
	NotAvail:   "Item not available from this callback",
	NotLocal:   "Valid only in local or allocator context",
}

// String returns the same text spank_strerror would.
func (c ErrCode) String() string {
	if m, ok := errMessages[c]; ok {
		return m
	}
	return fmt.Sprintf("Unknown error (%d)", int(c))
}

// ErrInvalidHandle is returned when the host rejects the per-invocation handle.
var ErrInvalidHandle = errors.New("invalid spank_t handle")

// HostError is a failed call into the host API.
type HostError struct {
	// Op names the host call, e.g. "spank_setenv".
	Op   string
	Code ErrCode
	// Message overrides Code.String() when the host supplied its own text.
	Message string
}

func (e *HostError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// Check converts a host status into an error, nil for Success.
func Check(op string, code ErrCode) error {
	if code == Success {
		return nil
	}
	return &HostError{Op: op, Code: code}
}

// Status converts the outcome of a callback into the integer returned to the
// host: 0 on success, the negated host code for host failures and
// -ESPANK_ERROR for anything else.
func Status(err error) int {
	if err == nil {
		return 0
	}
	var herr *HostError
	if errors.As(err, &herr) && herr.Code != Success {
		return -int(herr.Code)
	}
	return -int(Error)
}
