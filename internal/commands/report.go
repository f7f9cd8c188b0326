package commands

import (
	"errors"
	"fmt"
	"io"

	"sidepad/internal/exitcode"
	"sidepad/internal/service"
)

// warnUnreadable prints a recovered storage read error.
// The command continues with the empty list it was given.
func warnUnreadable(errOut io.Writer, err error) {
	if err != nil && errors.Is(err, service.ErrStorageRead) {
		fmt.Fprintf(errOut, "warning: %v (starting with an empty list)\n", err)
	}
}

// reportListError prints a failed list mutation and returns its exit code.
// kind names the item, as in "todo number out of range: 3".
func reportListError(errOut io.Writer, kind string, num int, err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrIndexOutOfRange):
		fmt.Fprintf(errOut, "error: %s number out of range: %d\n", kind, num)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
}

// reportItemNumber prints an item number parse error.
func reportItemNumber(errOut io.Writer, kind string, err error) int {
	if errors.Is(err, ErrItemNumberRequired) {
		fmt.Fprintf(errOut, "error: %s number required\n", kind)
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}
