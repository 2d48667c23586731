package weighted_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/artificer/internal/weighted"
)

// TestSplitCSV verifies trimming and blank-dropping.
func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"fire", "flames", "burning"},
		weighted.SplitCSV(" fire, flames ,burning,"))
	assert.Empty(t, weighted.SplitCSV("  ,  ,"))
	assert.Empty(t, weighted.SplitCSV(""))
}

// TestUniform verifies equal weights and blank skipping.
func TestUniform(t *testing.T) {
	opts := weighted.Uniform([]string{"thunder", "", "storms"})
	require.Len(t, opts, 2)
	for _, o := range opts {
		assert.Equal(t, 1.0, o.Weight)
	}
}

// TestPickOption_SingleOption verifies the degenerate one-option case.
func TestPickOption_SingleOption(t *testing.T) {
	got := weighted.PickOption(weighted.NewSeededSource(3), []weighted.Option{
		{Value: "{name} of {nouns}", Weight: 0.5},
	})
	assert.Equal(t, "{name} of {nouns}", got)
}

// TestPickOption_ZeroWeightExcluded verifies zero-weight options are never picked.
func TestPickOption_ZeroWeightExcluded(t *testing.T) {
	src := weighted.NewSeededSource(11)
	opts := []weighted.Option{
		{Value: "never", Weight: 0},
		{Value: "always", Weight: 1},
	}
	for i := 0; i < 200; i++ {
		assert.Equal(t, "always", weighted.PickOption(src, opts))
	}
}

// TestPickOption_NoPositiveWeights verifies the documented panic.
func TestPickOption_NoPositiveWeights(t *testing.T) {
	assert.Panics(t, func() {
		weighted.PickOption(weighted.NewSeededSource(1), []weighted.Option{{Value: "x", Weight: 0}})
	})
}

// TestPickOption_Property verifies membership for arbitrary option sets.
func TestPickOption_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 1, 6).Draw(rt, "values")
		opts := weighted.Uniform(values)
		src := weighted.NewSeededSource(rapid.Int64().Draw(rt, "seed"))

		got := weighted.PickOption(src, opts)
		assert.Contains(rt, values, got, "picked value must be a member of the option set")
	})
}

// TestPickCSV verifies membership and the empty case.
func TestPickCSV(t *testing.T) {
	src := weighted.NewSeededSource(5)
	for i := 0; i < 50; i++ {
		got := weighted.PickCSV(src, "frost, rime, winter")
		assert.Contains(t, []string{"frost", "rime", "winter"}, got)
	}
	assert.Equal(t, "", weighted.PickCSV(src, " , "))
}

// TestNewSeededSource_Reproducible verifies equal seeds produce equal streams.
func TestNewSeededSource_Reproducible(t *testing.T) {
	a := weighted.NewSeededSource(42)
	b := weighted.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

// TestCryptoSource_Bounds verifies range invariants of the crypto source.
func TestCryptoSource_Bounds(t *testing.T) {
	src := weighted.NewCryptoSource()
	for i := 0; i < 100; i++ {
		n := src.Intn(6)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 6)

		f := src.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
	assert.Panics(t, func() { src.Intn(0) }, "Intn precondition: n > 0")
}
