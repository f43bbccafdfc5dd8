package main

import (
	"path/filepath"
	"strings"
)

// deriveDumpPath maps an input container path to its dump file destination:
// dir/stem-dump.txt where stem is the filename with every extension removed
// ("script.js.compiled" -> "script"). The directory's own separator is kept
// as-is, so a trailing separator never doubles and an extension-less name in
// the current directory stays bare.
func deriveDumpPath(input string) string {
	dir, rest := "", input
	if sep := strings.LastIndexAny(input, `/\`); sep >= 0 {
		dir, rest = input[:sep+1], input[sep+1:]
	}
	stem := rest
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		stem = rest[:dot]
	}
	return dir + stem + "-dump.txt"
}

// dumpPathInDir places the dump file for input into an explicit directory,
// used when the manifest overrides the destination.
func dumpPathInDir(input, dir string) string {
	return filepath.Join(dir, deriveDumpPath(filepath.Base(input)))
}
