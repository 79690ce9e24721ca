// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package sylog

type messageLevel int

// Level is the exported form of a message level, handed to a Sink.
type Level = messageLevel

const (
	FatalLevel    messageLevel = iota - 4 // Fatal    : -4
	ErrorLevel                            // Error    : -3
	WarnLevel                             // Warn     : -2
	LogLevel                              // Log      : -1
	_                                     // SKIP     : 0
	InfoLevel                             // Info     : 1
	VerboseLevel                          // Verbose  : 2
	Verbose2Level                         // Verbose2 : 3
	Verbose3Level                         // Verbose3 : 4
	DebugLevel                            // Debug    : 5
)

func (l messageLevel) String() string {
	str, ok := messageLabels[l]

	if !ok {
		str = "????"
	}

	return str
}

var messageLabels = map[messageLevel]string{
	FatalLevel:    "FATAL",
	ErrorLevel:    "ERROR",
	WarnLevel:     "WARNING",
	LogLevel:      "LOG",
	InfoLevel:     "INFO",
	VerboseLevel:  "VERBOSE",
	Verbose2Level: "VERBOSE",
	Verbose3Level: "VERBOSE",
	DebugLevel:    "DEBUG",
}
