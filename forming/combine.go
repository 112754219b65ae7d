package forming

import "github.com/soypat/sheetmetal"

// Combine stamps a positioned tool into base. The part of shell already
// inside base is discarded, the footprint of the tool is carved out of base
// and the clipped shell is fused into the carved base. A *BooleanError
// names the first step yielding an invalid solid.
func Combine(base, footprint, shell sheetmetal.Solid) (sheetmetal.Solid, error) {
	clipped := shell.Cut(base)
	if err := clipped.Validate(); err != nil {
		return sheetmetal.Solid{}, &BooleanError{Step: StepClipShell, Err: err}
	}
	carved := base.Cut(footprint)
	if err := carved.Validate(); err != nil {
		return sheetmetal.Solid{}, &BooleanError{Step: StepCutBase, Err: err}
	}
	formed := carved.Fuse(clipped)
	if err := formed.Validate(); err != nil {
		return sheetmetal.Solid{}, &BooleanError{Step: StepFuse, Err: err}
	}
	return formed, nil
}
