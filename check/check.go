// Package check attaches shape checks to function calls.
//
// A checked call matches its arguments against its Signature before the
// body runs and its result afterwards. Named dimensions must agree across
// all arguments and the result of one call, and, when cross-call matching
// is on, with the calls currently executing above it.
package check

import (
	"context"

	"github.com/n2cholas/shapecheck/chain"
	"github.com/n2cholas/shapecheck/internal/log"
	"github.com/n2cholas/shapecheck/report"
	"github.com/n2cholas/shapecheck/shapeerr"
	"github.com/n2cholas/shapecheck/walk"
)

var logger = log.DefaultLogger.With("section", "check")

// Report is everything known about one checked call.
type Report = report.Diagnostic

// CallContext is one call of a checked function. Args are positional and
// must line up with the signature's parameters.
type CallContext struct {
	Signature *Signature
	Args      []any
}

// Frame is a checked call in progress.
type Frame struct {
	sig    *Signature
	scope  *chain.Scope
	walker *walk.Walker
	report Report
}

// CheckCall matches the inputs of call and enters its scope in the chain
// carried by ctx. The returned context must be handed to the body, so that
// checked calls made from it see this one as their caller, and the returned
// Frame must be exited once the body returns.
//
// Mismatching inputs are reported as a *MismatchError. On any error, or if
// checking the inputs panics, the scope has already been exited and the
// Frame is nil.
func CheckCall(ctx context.Context, call CallContext) (context.Context, *Frame, error) {
	sig := call.Signature
	if len(call.Args) != len(sig.params) {
		return ctx, nil, shapeerr.AtPath(shapeerr.LengthMismatch, sig.name, "%s takes %d arguments, got %d", sig.name, len(sig.params), len(call.Args))
	}

	ctx, scope := chain.Enter(ctx, sig.name, sig.matchCallees)
	ok := false
	defer func() {
		if !ok {
			scope.Exit()
		}
	}()

	f := &Frame{
		sig:    sig,
		scope:  scope,
		walker: walk.NewWalker(scope.Ancestors()),
		report: Report{Name: sig.name},
	}

	children := make([]*walk.Result, 0, len(sig.params))
	for i, p := range sig.params {
		res, err := f.walker.Walk(p.node, call.Args[i], p.name)
		if err != nil {
			return ctx, nil, err
		}
		children = append(children, res)
	}
	f.report.Inputs = walk.Branch(walk.SequenceKind, "", "", children)
	f.report.Bindings = f.walker.Registry.Snapshot()

	if !f.report.Inputs.OK() {
		logger.Debug("inputs mismatch", "call", sig.name, "mismatches", len(f.report.Inputs.Mismatches()))
		return ctx, nil, &MismatchError{Report: f.Report(), Stage: InputStage}
	}
	scope.RecordAll(f.walker.Registry)
	logger.Debug("inputs match", "call", sig.name, "bindings", f.walker.Registry.Len())
	ok = true
	return ctx, f, nil
}

// CheckOutput matches out against the declared result, if there is one.
// Bindings made by the inputs still apply.
func (f *Frame) CheckOutput(out any) error {
	if f.sig.out == nil {
		return nil
	}
	res, err := f.walker.Walk(f.sig.out, out, "out")
	if err != nil {
		return err
	}
	f.report.Output = res
	f.report.Bindings = f.walker.Registry.Snapshot()
	if !res.OK() {
		logger.Debug("output mismatch", "call", f.sig.name, "mismatches", len(res.Mismatches()))
		return &MismatchError{Report: f.Report(), Stage: OutputStage, Output: out}
	}
	f.scope.RecordAll(f.walker.Registry)
	return nil
}

// Exit pops the call's scope. It is safe to call more than once.
func (f *Frame) Exit() {
	f.scope.Exit()
}

// Report returns a copy of what has been checked so far.
func (f *Frame) Report() *Report {
	r := f.report
	return &r
}
