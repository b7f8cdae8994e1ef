package chain

import (
	"context"
	"sync"
	"testing"

	"github.com/n2cholas/shapecheck/match"
	"github.com/n2cholas/shapecheck/shape"
	"github.com/n2cholas/shapecheck/shapespec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSpec(t *testing.T, s string) shapespec.Spec {
	t.Helper()
	spec, err := shapespec.Parse(s)
	require.NoError(t, err)
	return spec
}

func TestEnterExit(t *testing.T) {
	tr := &Tracker{}
	ctx, outer := tr.Enter(context.Background(), "outer", false)
	assert.Equal(t, 1, tr.Active())
	assert.Same(t, outer, FromContext(ctx))

	innerCtx, inner := tr.Enter(ctx, "inner", false)
	assert.Equal(t, 2, tr.Active())
	assert.Equal(t, 1, inner.Depth())
	assert.Same(t, inner, FromContext(innerCtx))

	inner.Exit()
	inner.Exit()
	assert.Equal(t, 1, tr.Active())
	outer.Exit()
	assert.Equal(t, 0, tr.Active())
}

func TestRecordOnlyWithCrossCall(t *testing.T) {
	tr := &Tracker{}
	ctx, outer := tr.Enter(context.Background(), "outer", false)
	defer outer.Exit()
	outer.Record("M", match.Dim(4))

	_, inner := tr.Enter(ctx, "inner", true)
	defer inner.Exit()
	_, ok := inner.Lookup("M")
	assert.False(t, ok, "outer did not opt in, so it publishes nothing")
}

func TestLookupNearest(t *testing.T) {
	tr := &Tracker{}
	ctx, a := tr.Enter(context.Background(), "a", true)
	defer a.Exit()
	a.Record("M", match.Dim(1))
	a.Record("rest...", match.Span(shape.Shape{2, 3}))

	ctx, b := tr.Enter(ctx, "b", false)
	defer b.Exit()
	assert.True(t, b.CrossCall(), "inherited from a")
	b.Record("M", match.Dim(2))

	_, c := tr.Enter(ctx, "c", false)
	defer c.Exit()
	got, ok := c.Lookup("M")
	require.True(t, ok)
	assert.Equal(t, match.Dim(2), got)
	got, ok = c.Lookup("rest...")
	require.True(t, ok)
	assert.Equal(t, match.Span(shape.Shape{2, 3}), got)

	// a scope never sees its own bindings through Lookup
	_, ok = a.Lookup("M")
	assert.False(t, ok)
}

func TestExitedScopesAreInvisible(t *testing.T) {
	tr := &Tracker{}
	ctx, a := tr.Enter(context.Background(), "a", true)
	a.Record("M", match.Dim(1))
	a.Exit()

	_, b := tr.Enter(ctx, "b", false)
	defer b.Exit()
	_, ok := b.Lookup("M")
	assert.False(t, ok)
	assert.False(t, b.CrossCall())
	assert.Equal(t, 0, b.Depth())
}

func TestAncestors(t *testing.T) {
	tr := &Tracker{}
	_, off := tr.Enter(context.Background(), "off", false)
	defer off.Exit()
	assert.Nil(t, off.Ancestors())

	_, on := tr.Enter(context.Background(), "on", true)
	defer on.Exit()
	assert.NotNil(t, on.Ancestors())

	var none *Scope
	assert.Nil(t, none.Ancestors())
}

func TestRecordAll(t *testing.T) {
	tr := &Tracker{}
	ctx, a := tr.Enter(context.Background(), "a", true)
	defer a.Exit()
	reg := match.NewRegistry()
	match.Shape(mustSpec(t, "N, C"), shape.Shape{2, 3}, reg, nil)
	a.RecordAll(reg)

	_, b := tr.Enter(ctx, "b", false)
	defer b.Exit()
	got, ok := b.Lookup("C")
	require.True(t, ok)
	assert.Equal(t, match.Dim(3), got)
}

func TestIndependentChains(t *testing.T) {
	tr := &Tracker{}
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, outer := tr.Enter(context.Background(), "outer", true)
			defer outer.Exit()
			outer.Record("M", match.Dim(i))

			_, inner := tr.Enter(ctx, "inner", true)
			defer inner.Exit()
			got, ok := inner.Lookup("M")
			assert.True(t, ok)
			assert.Equal(t, match.Dim(i), got)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, tr.Active())
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
	before := Default().Active()
	_, s := Enter(context.Background(), "f", false)
	assert.Equal(t, before+1, Default().Active())
	s.Exit()
	assert.Equal(t, before, Default().Active())
	assert.Nil(t, FromContext(context.Background()))
}
