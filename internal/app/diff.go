package app

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// printDiff writes the change from src to out as a patch, one header line
// naming the file followed by the hunks.
func (a *App) printDiff(name, src, out string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(src, out, false)
	patches := dmp.PatchMake(src, diffs)

	fmt.Fprintf(a.stdout, "diff %s\n", name)
	fmt.Fprint(a.stdout, dmp.PatchToText(patches))
}
