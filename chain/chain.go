// Package chain tracks the named dimensions bound by the checked calls
// currently executing, so that a callee can be required to agree with its
// callers.
//
// Each checked call pushes a Scope linked to its caller's. Scopes travel on
// the context.Context handed to the call's body, so call chains running on
// different goroutines, or otherwise started from unrelated contexts, never
// observe each other's bindings.
package chain

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/n2cholas/shapecheck/internal/log"
	"github.com/n2cholas/shapecheck/match"
)

var logger = log.DefaultLogger.With("section", "chain")

// Tracker counts the scopes that have been entered but not exited yet.
type Tracker struct {
	active atomic.Int64
}

var defaultTracker = sync.OnceValue(func() *Tracker { return &Tracker{} })

// Default returns the process-wide Tracker.
func Default() *Tracker {
	return defaultTracker()
}

// Active returns the number of scopes entered through t and not yet exited.
func (t *Tracker) Active() int {
	return int(t.active.Load())
}

type scopeKey struct{}

// Scope is the binding scope of one checked call.
type Scope struct {
	tracker   *Tracker
	parent    *Scope
	name      string
	depth     int
	crossCall bool
	exited    atomic.Bool

	mu       sync.RWMutex
	bindings *immutable.Map[string, match.Binding]
}

// Enter pushes a scope for the call named name onto the chain carried by
// ctx, and returns a context carrying the new scope. The caller must Exit
// the scope once the call returns, whichever way it returns.
//
// Cross-call matching is on for the scope if crossCall is set or if it is
// on for any live enclosing scope.
func (t *Tracker) Enter(ctx context.Context, name string, crossCall bool) (context.Context, *Scope) {
	parent := FromContext(ctx)
	s := &Scope{
		tracker:   t,
		parent:    parent,
		name:      name,
		crossCall: crossCall,
		bindings:  immutable.NewMap[string, match.Binding](nil),
	}
	for p := parent; p != nil; p = p.parent {
		if p.exited.Load() {
			continue
		}
		s.depth++
		s.crossCall = s.crossCall || p.crossCall
	}
	t.active.Add(1)
	logger.Debug("enter", "call", name, "depth", s.depth, "crossCall", s.crossCall)
	return context.WithValue(ctx, scopeKey{}, s), s
}

// Enter pushes a scope using the Default tracker. See Tracker.Enter.
func Enter(ctx context.Context, name string, crossCall bool) (context.Context, *Scope) {
	return Default().Enter(ctx, name, crossCall)
}

// FromContext returns the innermost scope carried by ctx, or nil.
func FromContext(ctx context.Context) *Scope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(scopeKey{}).(*Scope)
	return s
}

func (s *Scope) Name() string { return s.name }

// Depth is the number of live scopes enclosing s when it was entered.
func (s *Scope) Depth() int { return s.depth }

// CrossCall reports whether bindings made under s must agree with its callers'.
func (s *Scope) CrossCall() bool { return s.crossCall }

// Exit pops s. It is safe to call more than once.
func (s *Scope) Exit() {
	if s.exited.CompareAndSwap(false, true) {
		s.tracker.active.Add(-1)
		logger.Debug("exit", "call", s.name, "depth", s.depth)
	}
}

// Record publishes a binding made by the call owning s, for callees to see.
// It does nothing unless cross-call matching is on for s.
func (s *Scope) Record(key string, b match.Binding) {
	if !s.crossCall || s.exited.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings = s.bindings.Set(key, b)
}

// RecordAll publishes every binding of reg. See Record.
func (s *Scope) RecordAll(reg *match.Registry) {
	for k, b := range reg.All() {
		s.Record(k, b)
	}
}

func (s *Scope) own(key string) (match.Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bindings.Get(key)
}

// Lookup finds the nearest binding of key published by a live enclosing
// scope. The bindings of s itself are not searched.
func (s *Scope) Lookup(key string) (match.Binding, bool) {
	for p := s.parent; p != nil; p = p.parent {
		if p.exited.Load() {
			continue
		}
		if b, ok := p.own(key); ok {
			return b, true
		}
	}
	return match.Binding{}, false
}

// Ancestors returns the lookup to match the call owning s against, or nil
// when cross-call matching is off for s.
func (s *Scope) Ancestors() match.Lookup {
	if s == nil || !s.crossCall {
		return nil
	}
	return s
}
