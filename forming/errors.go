package forming

import (
	"errors"
	"fmt"
)

// Input errors. They are reported before any geometry is computed.
var (
	ErrNoToolFaces       = errors.New("forming: no tool faces given")
	ErrNonPlanarBaseFace = errors.New("forming: base face is not planar")
	ErrBadThickness      = errors.New("forming: thickness must be > 0")
)

// Shell offset errors.
var (
	// ErrEmptyShell means every face of the tool was excluded from the shell.
	ErrEmptyShell = errors.New("forming: no faces left to offset")
	// ErrSelfIntersecting means the offset surface would fold over itself.
	ErrSelfIntersecting = errors.New("forming: offset surface self-intersects")
	// ErrOffsetFailed is returned when both the offset and the thickening fail.
	ErrOffsetFailed = errors.New("forming: shell offset failed")
)

// ErrBoolean is wrapped by BooleanError.
var ErrBoolean = errors.New("forming: boolean operation failed")

// OffsetError records why both shell offset algorithms failed.
type OffsetError struct {
	Primary  error
	Fallback error
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("%v: offset: %v; thicken: %v", ErrOffsetFailed, e.Primary, e.Fallback)
}

func (e *OffsetError) Unwrap() []error {
	return []error{ErrOffsetFailed, e.Primary, e.Fallback}
}

// Step names a stage of the forming pipeline.
type Step string

const (
	StepAlign     Step = "align"
	StepOffset    Step = "offset"
	StepClipShell Step = "clip shell"
	StepCutBase   Step = "cut base"
	StepFuse      Step = "fuse"
)

// BooleanError is returned when a boolean step yields an invalid solid.
type BooleanError struct {
	Step Step
	Err  error
}

func (e *BooleanError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrBoolean, e.Step, e.Err)
}

func (e *BooleanError) Unwrap() []error {
	return []error{ErrBoolean, e.Err}
}

// PlacementError locates a failure within a multi placement run.
type PlacementError struct {
	Index int
	Step  Step
	Err   error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placement %d: %s: %v", e.Index, e.Step, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }
