// Package stacktrace trims goroutine dumps down to this module's frames.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// stack that points into an internal package, innermost first.
func InternalPaths(stack []byte) []string {
	var paths []string
	for _, line := range strings.Split(string(stack), "\n") {
		// file lines are tab indented: "\t/abs/path/file.go:42 +0x1d"
		if !strings.HasPrefix(line, "\t") {
			continue
		}

		frame, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		if !strings.Contains(frame, ".go:") {
			continue
		}

		idx := strings.LastIndex(frame, marker)
		if idx == -1 {
			continue
		}
		paths = append(paths, frame[idx+1:])
	}

	return paths
}
