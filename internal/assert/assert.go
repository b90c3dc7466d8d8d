// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package assert reports programming errors. Assertions panic when built
// with the linkeddebug build tag and are otherwise ignored.
package assert

import "fmt"

// True panics with the formatted message if cond is false and
// assertions are enabled.
func True(cond bool, format string, args ...any) {
	if !Enabled || cond {
		return
	}
	panic(fmt.Sprintf("assertion failed: "+format, args...))
}
