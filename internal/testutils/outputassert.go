package testutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/mcuadros/go-defaults"
)

// TestingT is the part of *testing.T the asserter reports through.
type TestingT interface {
	Helper()
	Errorf(format string, args ...interface{})
}

// OutputAssertOptions control how captured command output is normalized
// before it is compared.
type OutputAssertOptions struct {
	StripANSI                bool `default:"true"`
	NormalizeNewlines        bool `default:"true"`
	IgnoreTrailingWhitespace bool `default:"true"`
	IgnoreEmptyLines         bool `default:"false"`
	EnableColors             bool `default:"false"`
}

// OutputOption is a functional option for configuring OutputAsserter
type OutputOption func(*OutputAssertOptions)

// OutputAsserter compares terminal output and reports a unified diff on mismatch.
type OutputAsserter struct {
	t       TestingT
	options OutputAssertOptions
}

var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// NewOutputAsserter creates an asserter with default options.
func NewOutputAsserter(t TestingT, opts ...OutputOption) *OutputAsserter {
	options := OutputAssertOptions{}
	defaults.SetDefaults(&options)
	for _, opt := range opts {
		opt(&options)
	}
	return &OutputAsserter{t: t, options: options}
}

// Options returns a copy of the current options
func (oa *OutputAsserter) Options() OutputAssertOptions {
	return oa.options
}

// Assert fails the test when actual differs from expected after normalization.
func (oa *OutputAsserter) Assert(actual, expected string) bool {
	oa.t.Helper()
	if diff := oa.Diff(actual, expected); diff != "" {
		oa.t.Errorf("Output assertion failed - unified diff:\n%s", diff)
		return false
	}
	return true
}

// Diff returns an empty string when the texts match.
func (oa *OutputAsserter) Diff(actual, expected string) string {
	normalizedActual := oa.Normalize(actual)
	normalizedExpected := oa.Normalize(expected)
	if normalizedActual == normalizedExpected {
		return ""
	}

	edits := myers.ComputeEdits("", normalizedExpected, normalizedActual)
	unified := fmt.Sprint(gotextdiff.ToUnified("expected", "actual", normalizedExpected, edits))
	if !oa.options.EnableColors {
		return unified
	}
	return colorize(unified)
}

// Normalize applies the configured transformations.
func (oa *OutputAsserter) Normalize(text string) string {
	if oa.options.StripANSI {
		text = ansiSequence.ReplaceAllString(text, "")
	}
	if oa.options.NormalizeNewlines {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if oa.options.IgnoreTrailingWhitespace {
			line = strings.TrimRight(line, " \t")
		}
		if oa.options.IgnoreEmptyLines && line == "" {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

func colorize(diff string) string {
	red := color.New(color.FgRed)
	red.EnableColor()
	green := color.New(color.FgGreen)
	green.EnableColor()
	cyan := color.New(color.FgCyan)
	cyan.EnableColor()

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "@@"):
			lines[i] = cyan.Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = red.Sprint(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = green.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}

// WithStripANSI sets whether escape sequences are removed before comparing
func WithStripANSI(strip bool) OutputOption {
	return func(o *OutputAssertOptions) { o.StripANSI = strip }
}

// WithIgnoreEmptyLines sets whether empty lines are dropped before comparing
func WithIgnoreEmptyLines(ignore bool) OutputOption {
	return func(o *OutputAssertOptions) { o.IgnoreEmptyLines = ignore }
}

// WithEnableColors sets whether the reported diff is colored
func WithEnableColors(enable bool) OutputOption {
	return func(o *OutputAssertOptions) { o.EnableColors = enable }
}
