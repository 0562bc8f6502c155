package scenario

import (
	"errors"
	"fmt"
	"log"
)

// AssertionMode controls how failed expectations are reported.
type AssertionMode int

const (
	// AssertionStrict stops the scenario on the first failed expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs failed expectations and keeps going.
	AssertionLogOnly
)

// ErrAssertionsFailed is returned after a log-only run that had failures.
var ErrAssertionsFailed = errors.New("scenario assertions failed")

// Assertions applies an AssertionMode to expectation failures.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger

	failures int
}

// Failf reports a failure that always stops the scenario, such as a
// malformed step.
func (a *Assertions) Failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Assertf reports a failed expectation. In log-only mode it is logged and
// counted, and nil is returned.
func (a *Assertions) Assertf(format string, args ...any) error {
	if a.Mode == AssertionStrict {
		return fmt.Errorf(format, args...)
	}
	a.failures++
	if a.Logger != nil {
		a.Logger.Printf("assertion failed: "+format, args...)
	}
	return nil
}

// Failures returns how many expectations failed in log-only mode.
func (a *Assertions) Failures() int {
	return a.failures
}
