// Package rename truncates file names after the first occurrence of an extension,
// e.g. "movie.mkv?token=abc" -> "movie.mkv".
package rename

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Rename is a single proposed rename.
type Rename struct {
	From string
	To   string
}

// StripPostExt returns name cut right after the first occurrence of ext.
// ok is false when ext is absent or already terminates the name.
func StripPostExt(name, ext string) (string, bool) {
	pre, post, found := strings.Cut(name, ext)
	if !found || post == "" {
		return "", false
	}
	return pre + ext, true
}

// Plan proposes renames for files, in input order. Repeated paths are planned once.
func Plan(files []string, ext string) []Rename {
	seen := make(map[string]struct{}, len(files))
	plans := make([]Rename, 0, len(files))
	for _, f := range files {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}

		if to, ok := StripPostExt(f, ext); ok {
			plans = append(plans, Rename{From: f, To: to})
		}
	}
	return plans
}

// Renamer performs the actual filesystem rename.
type Renamer func(from, to string) error

// Applier prints and performs planned renames.
type Applier struct {
	DryRun bool
	Out    io.Writer
	Rename Renamer
	Logger *logrus.Logger
}

// Apply prints every plan as "old -> new" and renames it unless DryRun is set.
// A failed rename is reported and the batch continues; the failure count is returned.
func (a *Applier) Apply(plans []Rename) int {
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	rename := a.Rename
	if rename == nil {
		rename = os.Rename
	}
	logger := a.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	failed := 0
	for _, p := range plans {
		fmt.Fprintf(out, "%s -> %s\n", p.From, p.To)
		if a.DryRun {
			continue
		}
		if err := rename(p.From, p.To); err != nil {
			failed++
			logger.WithError(err).WithField("file", p.From).Debug("Rename failed")
			color.New(color.FgRed).Fprintf(out, "error: %v\n", err)
		}
	}
	return failed
}
