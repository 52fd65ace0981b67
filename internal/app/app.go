// Package app drives the mcfunc command line tool. A run converts the raw
// coordinate selectors in Minecraft function files and, depending on the
// options, prints the result, lists the files that would change, shows diffs,
// or rewrites the files in place. Without paths it filters standard input to
// standard output.
package app

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/mcfunc/internal/config"
	"github.com/dshills/mcfunc/internal/rewrite"
)

// Options control one mcfunc run.
type Options struct {
	List      bool   // list files whose contents would change
	Write     bool   // rewrite files in place
	Diff      bool   // print a diff for each file that would change
	Extension string // file extension the tool acts on, ".mcfunction" when empty
}

// App is one batch conversion over files, directories, or standard input.
type App struct {
	opts   Options
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	rewrites int  // selectors rewritten across all inputs
	failed   bool // some input could not be read or written
}

// New creates an App writing results to stdout and messages to stderr.
func New(opts Options, stdout, stderr io.Writer) *App {
	if opts.Extension == "" {
		opts.Extension = config.DefaultExtension
	}
	opts.Extension = config.NormalizeExtension(opts.Extension)
	return &App{opts: opts, stdin: os.Stdin, stdout: stdout, stderr: stderr}
}

// Run converts the named files and directories and returns the process exit
// code: 0 on success, 2 when an input could not be processed. Directories are
// walked recursively for files with the configured extension. Without paths
// the converted standard input is written to standard output.
//
// A named file with the wrong extension is skipped with a note, and a run
// that finds nothing to rewrite says so; neither is an error.
func (a *App) Run(paths []string) int {
	if len(paths) == 0 {
		switch {
		case a.opts.Write:
			a.errorf("%v", ErrWriteStdin)
			return 2
		case a.opts.List:
			a.errorf("%v", ErrListStdin)
			return 2
		}
		if err := a.convertStdin(); err != nil {
			a.errorf("%v", err)
			return 2
		}
	} else {
		for _, path := range paths {
			a.processPath(path)
		}
	}

	if !a.failed && a.rewrites == 0 {
		a.infof("nothing to convert")
	}
	return a.exitCode()
}

// processPath dispatches one command line argument. Directories are walked;
// explicitly named files must carry the configured extension.
func (a *App) processPath(path string) {
	info, err := os.Stat(path)
	if err != nil {
		a.fail("%v", err)
		return
	}
	if info.IsDir() {
		a.processDir(path)
		return
	}
	if !a.matches(path) {
		a.infof("skipping %s: not a %s file", path, a.opts.Extension)
		return
	}
	a.processFile(path)
}

// processDir converts every matching file under dir. Hidden directories are
// skipped; files without the configured extension are passed over silently.
func (a *App) processDir(dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.fail("%v", err)
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && a.matches(path) {
			a.processFile(path)
		}
		return nil
	})
	if err != nil {
		a.fail("%v", err)
	}
}

// processFile converts one file and reports, per the options, its new
// content, its name, or its diff, writing the result back when write mode is
// on. It returns the number of selectors rewritten.
func (a *App) processFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		a.fail("%v", err)
		return 0
	}
	src := string(data)

	out, n := rewrite.Convert(src)
	a.rewrites += n

	if a.opts.List && n > 0 {
		fmt.Fprintln(a.stdout, path)
	}
	if a.opts.Diff && n > 0 {
		a.printDiff(path, src, out)
	}
	if a.opts.Write && n > 0 {
		if err := writeFileAtomic(path, []byte(out)); err != nil {
			a.fail("%v", err)
			return n
		}
	}
	if !a.opts.List && !a.opts.Diff && !a.opts.Write {
		fmt.Fprint(a.stdout, out)
	}
	return n
}

// convertStdin filters standard input to standard output.
func (a *App) convertStdin() error {
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmt.Errorf("reading standard input: %w", err)
	}

	out, n := rewrite.Convert(string(data))
	a.rewrites += n

	if a.opts.Diff {
		if n > 0 {
			a.printDiff("<standard input>", string(data), out)
		}
		return nil
	}
	_, err = io.WriteString(a.stdout, out)
	return err
}

// matches reports whether path carries the configured extension.
func (a *App) matches(path string) bool {
	return filepath.Ext(path) == a.opts.Extension
}

// writeFileAtomic replaces the contents of path by writing a temporary file
// next to it and renaming it over the original, keeping the original's mode.
// The temporary name starts with a dot so a watcher ignores it.
func writeFileAtomic(path string, data []byte) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// infof prints an informational note for the user.
func (a *App) infof(format string, args ...any) {
	fmt.Fprintf(a.stderr, "mcfunc: "+format+"\n", args...)
}

// errorf prints an error message without marking the run failed.
func (a *App) errorf(format string, args ...any) {
	fmt.Fprintf(a.stderr, "mcfunc: "+format+"\n", args...)
}

// fail prints an error message and marks the run failed.
func (a *App) fail(format string, args ...any) {
	a.failed = true
	a.errorf(format, args...)
}

// exitCode maps the run outcome to a process exit code.
func (a *App) exitCode() int {
	if a.failed {
		return 2
	}
	return 0
}
