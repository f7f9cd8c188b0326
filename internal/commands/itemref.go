package commands

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrItemNumberRequired indicates no item number was provided.
var ErrItemNumberRequired = errors.New("item number required")

// ParseItemNumber parses the 1-based item number shown by list and notes
// and returns the 0-based index. Only the first argument is considered;
// it must be all ASCII digits and at least 1.
func ParseItemNumber(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrItemNumberRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid item number: %s", ref)
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid item number: %s", ref)
	}
	return n - 1, nil
}

// isAllDigits returns true if s is non-empty and consists only of ASCII digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
