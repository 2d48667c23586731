package gen_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/artificer/internal/gen"
	"github.com/cory-johannsen/artificer/internal/weighted"
)

// TestFrequencyForChallenge verifies the exact bracket boundaries.
func TestFrequencyForChallenge(t *testing.T) {
	cases := map[int]string{
		0:   "default",
		1:   "1-4",
		4:   "1-4",
		5:   "5-10",
		10:  "5-10",
		11:  "11-16",
		16:  "11-16",
		17:  "17+",
		100: "17+",
	}
	for challenge, want := range cases {
		assert.Equal(t, want, gen.FrequencyForChallenge(challenge),
			"challenge %d must map to bracket %s", challenge, want)
	}
}

func mustTable(t *testing.T, name string, entries []weighted.Entry) *weighted.Table {
	t.Helper()
	table, err := weighted.NewTable(name, entries)
	require.NoError(t, err)
	return table
}

func testConfig(t *testing.T) gen.Config {
	t.Helper()
	return gen.Config{
		Bases: mustTable(t, "bases", []weighted.Entry{
			{Name: "Dagger", Attrs: map[string]any{
				"category":    "Simple",
				"damage":      "1d4",
				"damage_type": "Piercing",
				"range":       "20/60",
				"targets":     1,
				"properties":  "thrown",
			}},
		}),
		Rarity: mustTable(t, "rarity", []weighted.Entry{
			{Name: "common", Weights: map[string]float64{"default": 1, "17+": 0},
				Attrs: map[string]any{"sort_order": 0}},
			{Name: "legendary", Weights: map[string]float64{"default": 0, "17+": 1},
				Attrs: map[string]any{"sort_order": 4}},
		}),
		PropertiesByRarity: map[string]*weighted.Table{
			"base": mustTable(t, "base properties", []weighted.Entry{
				{Name: "thrown", Attrs: map[string]any{
					"description": "This weapon can be thrown.",
				}},
			}),
			"common": mustTable(t, "common properties", []weighted.Entry{
				{Name: "sturdy", Attrs: map[string]any{
					"description": "Feels solid in the hand.",
					"adjectives":  "sturdy,stout",
				}},
			}),
			"legendary": mustTable(t, "legendary properties", []weighted.Entry{
				{Name: "flaming", Attrs: map[string]any{
					"description": "Wreathed in flame.",
					"nouns":       "Flames,Fire",
					"adjectives":  "Flaming",
					"damage":      "1d6",
					"damage_type": "Fire",
				}},
				{Name: "vorpal", Attrs: map[string]any{
					"description": "Impossibly keen.",
					"adjectives":  "Vorpal",
					"to_hit":      3,
				}},
			}),
		},
	}
}

// TestGenerator_Random verifies the pipeline produces the requested number of
// resolved items carrying a rarity sub-node.
func TestGenerator_Random(t *testing.T) {
	g, err := gen.New("test items", testConfig(t),
		gen.WithSource(weighted.NewSeededSource(1)))
	require.NoError(t, err)

	nodes, err := g.Random(5, 0)
	require.NoError(t, err)
	require.Len(t, nodes, 5, "Random must produce an eager, finite list")

	for _, node := range nodes {
		assert.Equal(t, "Dagger", node.Name())
		rarity, ok := node.Lookup("rarity.rarity")
		require.True(t, ok, "every item must carry its rarity tier")
		assert.Equal(t, "common", rarity.Text())
		order, ok := node.Lookup("rarity.sort_order")
		require.True(t, ok)
		n, _ := order.Int()
		assert.Equal(t, 0, n)
	}
}

// TestGenerator_PropertyCountClamp verifies the pool bound: legendary items
// want two or three properties, but a two-member pool must yield exactly two
// sampled properties (plus the base's intrinsic one), never more.
func TestGenerator_PropertyCountClamp(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g, err := gen.New("test items", testConfig(t),
			gen.WithSource(weighted.NewSeededSource(seed)))
		require.NoError(t, err)

		nodes, err := g.Random(1, 20)
		require.NoError(t, err)

		props := nodes[0].Properties()
		require.NotNil(t, props)
		keys := props.Keys()
		assert.Len(t, keys, 3, "seed %d: 2 distinct legendary properties + 1 intrinsic", seed)
		assert.True(t, props.Has("flaming"))
		assert.True(t, props.Has("vorpal"))
		assert.True(t, props.Has("thrown"), "intrinsic base property must be merged")
	}
}

// TestGenerator_ZeroWeightPropertyPool verifies the clamp counts only
// selectable entries: a tier member whose weights name only a bracket column
// can never be drawn under the default column, so a two-member table with one
// such entry must behave as a one-member pool rather than sampling forever.
func TestGenerator_ZeroWeightPropertyPool(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		cfg := testConfig(t)
		cfg.PropertiesByRarity["legendary"] = mustTable(t, "legendary properties", []weighted.Entry{
			{Name: "flaming", Attrs: map[string]any{
				"description": "Wreathed in flame.",
			}},
			{Name: "dormant", Weights: map[string]float64{"17+": 1},
				Attrs: map[string]any{"description": "Sleeps until awakened."}},
		})

		g, err := gen.New("test items", cfg,
			gen.WithSource(weighted.NewSeededSource(seed)))
		require.NoError(t, err)

		nodes, err := g.Random(1, 20)
		require.NoError(t, err)

		props := nodes[0].Properties()
		require.NotNil(t, props)
		assert.Len(t, props.Keys(), 2, "seed %d: 1 selectable legendary property + 1 intrinsic", seed)
		assert.True(t, props.Has("flaming"))
		assert.False(t, props.Has("dormant"), "zero-default-weight entries must never be drawn")
	}
}

// TestGenerator_Random_NonPositiveCount verifies non-positive counts yield an
// empty list instead of panicking.
func TestGenerator_Random_NonPositiveCount(t *testing.T) {
	g, err := gen.New("test items", testConfig(t),
		gen.WithSource(weighted.NewSeededSource(1)))
	require.NoError(t, err)

	for _, count := range []int{0, -3} {
		nodes, err := g.Random(count, 0)
		require.NoError(t, err, "count %d", count)
		assert.Empty(t, nodes, "count %d must produce no items", count)
	}
}

// TestGenerator_IntrinsicMerge_UnknownProperty verifies the fatal path when a
// base names an intrinsic property missing from the base tier table.
func TestGenerator_IntrinsicMerge_UnknownProperty(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bases = mustTable(t, "bases", []weighted.Entry{
		{Name: "Whip", Attrs: map[string]any{"properties": "reach", "damage": "1d4", "damage_type": "Slashing"}},
	})

	g, err := gen.New("test items", cfg, gen.WithSource(weighted.NewSeededSource(3)))
	require.NoError(t, err)

	_, err = g.Random(1, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown intrinsic property "reach"`)
}

// hummingConfig returns a config whose legendary tier holds a single property
// referencing the "enchantment" requirement; legendary items always draw at
// least one property, so challenge 20 exercises requirement dispatch
// deterministically.
func hummingConfig(t *testing.T) gen.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.PropertiesByRarity["legendary"] = mustTable(t, "legendary properties", []weighted.Entry{
		{Name: "humming", Attrs: map[string]any{
			"description": "Hums with {enchantment.adjectives} energy.",
		}},
	})
	return cfg
}

// TestGenerator_MissingProvider verifies that a requirement with no provider
// is fatal and reports both the generator and the requirement.
func TestGenerator_MissingProvider(t *testing.T) {
	g, err := gen.New("hummed items", hummingConfig(t),
		gen.WithSource(weighted.NewSeededSource(5)))
	require.NoError(t, err)

	_, err = g.Random(1, 20)
	require.Error(t, err)

	var missing *gen.MissingProviderError
	require.True(t, errors.As(err, &missing), "error must be a *MissingProviderError, got %v", err)
	assert.Equal(t, "hummed items", missing.Generator)
	assert.Equal(t, "enchantment", missing.Requirement)
}

// TestGenerator_ProviderDispatch verifies a registered provider satisfies its
// requirement and the result renders into templates.
func TestGenerator_ProviderDispatch(t *testing.T) {
	g, err := gen.New("hummed items", hummingConfig(t),
		gen.WithSource(weighted.NewSeededSource(5)))
	require.NoError(t, err)
	g.RegisterProvider("enchantment", func(attrs map[string]any) (any, error) {
		require.Contains(t, attrs, "rarity", "providers must see the mapping-so-far")
		return map[string]any{"adjectives": "crackling"}, nil
	})

	nodes, err := g.Random(1, 20)
	require.NoError(t, err)
	desc, ok := nodes[0].Lookup("properties.humming.description")
	require.True(t, ok, "legendary items always carry the humming property")
	assert.Equal(t, "Hums with crackling energy.", desc.Text())
}

// TestGenerator_FallbackProviders verifies the secondary lookup is consulted
// only when the registry misses.
func TestGenerator_FallbackProviders(t *testing.T) {
	calls := 0
	g, err := gen.New("hummed items", hummingConfig(t),
		gen.WithSource(weighted.NewSeededSource(5)),
		gen.WithFallbackProviders(func(requirement string) (gen.ProviderFunc, bool) {
			calls++
			if requirement != "enchantment" {
				return nil, false
			}
			return func(map[string]any) (any, error) {
				return map[string]any{"adjectives": "borrowed"}, nil
			}, true
		}),
	)
	require.NoError(t, err)

	nodes, err := g.Random(1, 20)
	require.NoError(t, err)
	assert.Positive(t, calls, "fallback must be consulted for unregistered requirements")

	desc, ok := nodes[0].Lookup("properties.humming.description")
	require.True(t, ok)
	assert.Equal(t, "Hums with borrowed energy.", desc.Text())
}

// TestGenerator_PostSample verifies the post-sample hook patches mappings
// before resolution.
func TestGenerator_PostSample(t *testing.T) {
	g, err := gen.New("test items", testConfig(t),
		gen.WithSource(weighted.NewSeededSource(9)),
		gen.WithPostSample(func(attrs map[string]any) {
			if _, ok := attrs["targets"]; !ok {
				attrs["targets"] = 1
			}
			attrs["patched"] = true
		}),
	)
	require.NoError(t, err)

	nodes, err := g.Random(1, 0)
	require.NoError(t, err)
	v, ok := nodes[0].Get("patched")
	require.True(t, ok)
	assert.True(t, v.Truthy())
}

// TestNew_Validation verifies constructor preconditions.
func TestNew_Validation(t *testing.T) {
	_, err := gen.New("", testConfig(t))
	require.Error(t, err)

	_, err = gen.New("x", gen.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bases")

	cfg := testConfig(t)
	cfg.Rarity = nil
	_, err = gen.New("x", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rarity")
}

// TestGenerator_RandomAttributes_FreshMappings verifies each sampled mapping
// is independently owned.
func TestGenerator_RandomAttributes_FreshMappings(t *testing.T) {
	g, err := gen.New("test items", testConfig(t),
		gen.WithSource(weighted.NewSeededSource(13)))
	require.NoError(t, err)

	first, err := g.RandomAttributes(0)
	require.NoError(t, err)
	first["damage"] = "9d9"
	first["rarity"].(map[string]any)["rarity"] = "mangled"

	second, err := g.RandomAttributes(0)
	require.NoError(t, err)
	assert.Equal(t, "1d4", second["damage"], "mappings must never share state")
	assert.Equal(t, "common", second["rarity"].(map[string]any)["rarity"])
}
