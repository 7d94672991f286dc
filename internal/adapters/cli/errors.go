package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/example/depot/internal/errs"
)

// FormatError renders an error for the terminal, prefixing taxonomy errors
// with their highlighted kind.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	kind := errs.KindOf(err)
	if kind == "" {
		return fmt.Sprintf("%s %v", color.New(color.FgRed).Sprint("Error:"), err)
	}

	c := color.New(color.FgRed)
	if kind == errs.KindOperationFailed {
		c = color.New(color.FgYellow)
	}
	return fmt.Sprintf("%s %v", c.Sprintf("[%s]", kind), err)
}
