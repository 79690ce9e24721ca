// Copyright (c) Contributors to the Apptainer project, established as
//   Apptainer a Series of LF Projects LLC.
//   For website terms of use, trademark policy, privacy policy and other
//   project policies see https://lfprojects.org/policies
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package spank

import "strings"

// ArgumentView is a read-only, ordered view over an argument array owned by
// someone else, typically the host. A view must not be retained past the
// callback it was handed to.
type ArgumentView interface {
	Len() int
	At(i int) string
}

// Args is an ArgumentView over a Go slice.
type Args []string

// Len returns the number of arguments.
func (a Args) Len() int { return len(a) }

// At returns argument i.
func (a Args) At(i int) string { return a[i] }

// Strings copies the view into newly allocated strings the caller owns,
// none of them sharing memory with the view.
func Strings(v ArgumentView) []string {
	if v == nil {
		return nil
	}
	s := make([]string, v.Len())
	for i := range s {
		s[i] = strings.Clone(v.At(i))
	}
	return s
}
