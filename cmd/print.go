package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/helmcode/hotel-audit/pkg/logging"
)

// Progress goes to stderr so -o json and -o yaml stay parseable.

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	return s
}

// newLogger only logs in verbose mode; the terminal output covers the rest.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return logging.New(true)
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "✗ %s\n", msg)
}

func printHint(msg string) {
	fmt.Fprintf(os.Stderr, "💡 %s\n", color.HiBlackString(msg))
}

func printLLMInfo(modelName string) {
	blue := color.New(color.FgBlue)
	blue.Fprintf(os.Stderr, "🤖 Model: %s\n", modelName)
}
