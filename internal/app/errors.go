package app

import "errors"

// Usage errors reported before any input is touched.
var (
	// ErrWriteStdin indicates -w was combined with standard input.
	ErrWriteStdin = errors.New("cannot use -w with standard input")

	// ErrListStdin indicates -l was combined with standard input.
	ErrListStdin = errors.New("cannot use -l with standard input")

	// ErrWatchWithoutWrite indicates -watch was used without -w.
	ErrWatchWithoutWrite = errors.New("-watch requires -w")

	// ErrWatchWithoutPaths indicates -watch was used without any paths.
	ErrWatchWithoutPaths = errors.New("-watch requires at least one file or directory")
)
