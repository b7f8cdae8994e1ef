package check

import (
	"fmt"

	"github.com/n2cholas/shapecheck/report"
	"github.com/n2cholas/shapecheck/walk"
)

// Stage tells which side of a call failed to match.
type Stage uint8

const (
	InputStage Stage = iota
	OutputStage
)

func (s Stage) String() string {
	switch s {
	case InputStage:
		return "input"
	case OutputStage:
		return "output"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// MismatchError is returned once per failing call, after every leaf of the
// failing stage has been matched.
type MismatchError struct {
	Report *Report
	Stage  Stage
	// Output is the value the body returned, for OutputStage failures
	Output any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("shape mismatch in %s of %s\n%s", e.Stage, e.Report.Name, report.Render(*e.Report, report.Plain))
}

// Mismatches returns the mismatching leaves of the failing stage.
func (e *MismatchError) Mismatches() []*walk.Result {
	if e.Stage == OutputStage {
		return e.Report.Output.Mismatches()
	}
	return e.Report.Inputs.Mismatches()
}
