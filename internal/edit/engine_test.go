package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/ecgedit/internal/ecg"
)

func exampleAnnotations() ecg.Annotations {
	return ecg.Annotations{{Sample: 1, Symbol: "N"}, {Sample: 4, Symbol: "V"}}
}

func TestGuardedEditScenario(t *testing.T) {
	anns := exampleAnnotations()
	e := NewEngine(anns, nil)

	// index 0 is the "N" annotation
	require.NoError(t, e.Guarded(0, "N", "A"))
	assert.Equal(t, []string{"A", "V"}, anns.Symbols())

	err := e.Guarded(0, "N", "A")
	var stale *ecg.StaleEditError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, 0, stale.Index)
	assert.Equal(t, "N", stale.Expected)
	assert.Equal(t, "A", stale.Actual)
	assert.Equal(t, []string{"A", "V"}, anns.Symbols())
	assert.Equal(t, 1, e.Count())
}

func TestGuardedRoundTrip(t *testing.T) {
	anns := exampleAnnotations()
	e := NewEngine(anns, nil)

	for i := range anns {
		current, err := e.Symbol(i)
		require.NoError(t, err)
		require.NoError(t, e.Guarded(i, current, "X"))

		got, err := e.Symbol(i)
		require.NoError(t, err)
		assert.Equal(t, "X", got)
	}
}

func TestDirectEdit(t *testing.T) {
	anns := exampleAnnotations()
	e := NewEngine(anns, nil)

	require.NoError(t, e.Direct(1, ""))
	assert.Equal(t, "", anns[1].Symbol)
	require.NoError(t, e.Direct(1, "F"))
	assert.Equal(t, "F", anns[1].Symbol)
	assert.Equal(t, 2, e.Count())
}

func TestIndexOutOfRange(t *testing.T) {
	e := NewEngine(exampleAnnotations(), nil)

	assert.ErrorIs(t, e.Direct(2, "N"), ecg.ErrIndexOutOfRange)
	assert.ErrorIs(t, e.Guarded(-1, "N", "V"), ecg.ErrIndexOutOfRange)
	_, err := e.Symbol(5)
	assert.ErrorIs(t, err, ecg.ErrIndexOutOfRange)
	assert.Zero(t, e.Count())
}

func TestLookupBySample(t *testing.T) {
	anns := ecg.Annotations{{Sample: 1, Symbol: "N"}, {Sample: 4, Symbol: "V"}, {Sample: 4, Symbol: "A"}, {Sample: 6, Symbol: ""}}
	e := NewEngine(anns, nil)

	i, ann, err := e.LookupBySample(4)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "V", ann.Symbol)

	i, ann, err = e.LookupBySample(6)
	require.NoError(t, err)
	assert.Equal(t, 3, i)
	assert.Equal(t, "", ann.Symbol)

	i, _, err = e.LookupBySample(99)
	assert.Equal(t, -1, i)
	assert.True(t, ecg.IsNotFound(err))
}

func TestLengthInvariantUnderEdits(t *testing.T) {
	anns := exampleAnnotations()
	e := NewEngine(anns, nil)

	ops := []func(){
		func() { _ = e.Direct(0, "V") },
		func() { _ = e.Guarded(1, "V", "N") },
		func() { _ = e.Guarded(1, "stale", "N") },
		func() { _ = e.Direct(7, "N") },
		func() { _, _, _ = e.LookupBySample(4) },
	}
	for _, op := range ops {
		op()
		assert.Equal(t, 2, e.Len())
		assert.Len(t, anns.Samples(), len(anns.Symbols()))
	}
	assert.Equal(t, []int{1, 4}, anns.Samples())
}
