// Package gen implements the procedural generation pipeline: it samples a
// base item, a difficulty-skewed rarity tier, and a set of distinct
// properties, satisfies any template requirements through registered
// providers, and hands the assembled raw mapping to attribute resolution.
package gen

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/artificer/internal/attr"
	"github.com/cory-johannsen/artificer/internal/weighted"
)

// BaseTier is the reserved properties tier holding intrinsic base-item
// properties, merged by exact lookup rather than random sampling.
const BaseTier = "base"

// ProviderFunc supplies the value for one requirement: an attribute
// referenced by a template placeholder but absent from the sampled mapping.
// It receives the mapping assembled so far and returns the raw value to
// store under the requirement's key.
type ProviderFunc func(attrs map[string]any) (any, error)

// ProviderLookup resolves a requirement name to a ProviderFunc, consulted
// when the generator's own registry has no entry. Used to plug in scripted
// providers.
type ProviderLookup func(requirement string) (ProviderFunc, bool)

// Config carries the weighted tables a generator samples from. Substituting
// tables is how callers retarget generation to a different item family
// without altering pipeline logic.
type Config struct {
	// Bases is the table of base item templates.
	Bases *weighted.Table
	// Rarity is the tier table; it must carry one weight column per
	// difficulty bracket it distinguishes.
	Rarity *weighted.Table
	// PropertiesByRarity maps tier name to that tier's property table. The
	// reserved BaseTier table holds intrinsic base-item properties.
	PropertiesByRarity map[string]*weighted.Table
}

func (c Config) validate() error {
	if c.Bases == nil {
		return fmt.Errorf("gen: config requires a bases table")
	}
	if c.Rarity == nil {
		return fmt.Errorf("gen: config requires a rarity table")
	}
	return nil
}

// Generator orchestrates one item family's sampling pipeline. It is not safe
// for concurrent use when built with a seeded source.
type Generator struct {
	name      string
	cfg       Config
	src       weighted.Source
	logger    *zap.Logger
	providers map[string]ProviderFunc
	fallback  ProviderLookup
	post      func(attrs map[string]any)
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource substitutes the randomness source. Defaults to crypto/rand.
func WithSource(src weighted.Source) Option {
	return func(g *Generator) { g.src = src }
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithFallbackProviders installs a secondary provider lookup consulted when
// the registry has no entry for a requirement.
func WithFallbackProviders(lookup ProviderLookup) Option {
	return func(g *Generator) { g.fallback = lookup }
}

// WithPostSample installs a hook that may patch each sampled raw mapping
// before requirement resolution. Item subtypes use this to fill base-table
// defaults.
func WithPostSample(post func(attrs map[string]any)) Option {
	return func(g *Generator) { g.post = post }
}

// New builds a Generator.
//
// Precondition: cfg must carry bases and rarity tables.
// Postcondition: Returns a non-nil Generator or a descriptive error.
func New(name string, cfg Config, opts ...Option) (*Generator, error) {
	if name == "" {
		return nil, fmt.Errorf("gen: generator name must not be empty")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := &Generator{
		name:      name,
		cfg:       cfg,
		src:       weighted.NewCryptoSource(),
		logger:    zap.NewNop(),
		providers: make(map[string]ProviderFunc),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Name returns the generator's name, used in error reporting.
func (g *Generator) Name() string { return g.name }

// Source returns the generator's randomness source, shared with naming so a
// seeded run is fully reproducible.
func (g *Generator) Source() weighted.Source { return g.src }

// RegisterProvider registers the provider for one requirement name,
// replacing any previous registration.
//
// Precondition: requirement must be non-empty; fn must be non-nil.
func (g *Generator) RegisterProvider(requirement string, fn ProviderFunc) {
	if requirement == "" || fn == nil {
		panic("gen: RegisterProvider requires a requirement name and a non-nil provider")
	}
	g.providers[requirement] = fn
}

// Random generates count items eagerly, resolving each sampled mapping into
// an attribute node. Challenge selects the rarity table's weight column.
//
// Postcondition: returns exactly count nodes (none when count <= 0) or the
// first error encountered;
// fatal conditions (unresolvable placeholders, missing providers) bubble
// unchanged.
func (g *Generator) Random(count, challenge int) ([]*attr.Node, error) {
	if count <= 0 {
		return nil, nil
	}
	nodes := make([]*attr.Node, 0, count)
	for i := 0; i < count; i++ {
		attrs, err := g.RandomAttributes(challenge)
		if err != nil {
			return nil, err
		}
		node, err := attr.Resolve(attrs)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// RandomAttributes samples one raw attribute mapping: base + rarity +
// properties, with requirements satisfied by providers. The returned mapping
// is freshly built and owned by the caller.
func (g *Generator) RandomAttributes(challenge int) (map[string]any, error) {
	frequency := FrequencyForChallenge(challenge)

	rarityEntry, err := g.cfg.Rarity.Pick(g.src, frequency)
	if err != nil {
		return nil, fmt.Errorf("gen: sampling rarity: %w", err)
	}
	baseEntry, err := g.cfg.Bases.Pick(g.src, weighted.DefaultFrequency)
	if err != nil {
		return nil, fmt.Errorf("gen: sampling base: %w", err)
	}
	g.logger.Debug("sampled item",
		zap.String("generator", g.name),
		zap.String("base", baseEntry.Name),
		zap.String("rarity", rarityEntry.Name),
		zap.String("frequency", frequency),
	)

	attrs := baseEntry.AttrMap()

	rarity := rarityEntry.AttrMap()
	delete(rarity, "name")
	rarity["rarity"] = rarityEntry.Name
	attrs["rarity"] = rarity

	properties, err := g.sampleProperties(baseEntry, rarityEntry.Name)
	if err != nil {
		return nil, err
	}
	delete(attrs, "properties") // base's intrinsic CSV list, already merged
	if len(properties) > 0 {
		attrs["properties"] = properties
	}

	if g.post != nil {
		g.post(attrs)
	}

	if err := g.resolveRequirements(attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// sampleProperties draws the tier's property count, clamps it to the pool of
// distinct property names, rejection-samples duplicates, and merges the base
// entry's intrinsic properties by exact lookup.
func (g *Generator) sampleProperties(base weighted.Entry, tier string) (map[string]any, error) {
	properties := make(map[string]any)

	table := g.cfg.PropertiesByRarity[tier]
	count := 0
	if table != nil {
		count = rollPropertyCount(g.src, tier)
		// Clamp to the selectable pool, not Len: entries with zero weight
		// under the default column can never be drawn, and a count the pool
		// cannot satisfy would keep the rejection loop spinning forever.
		if selectable := table.CountPositive(weighted.DefaultFrequency); count > selectable {
			count = selectable
		}
	}

	for len(properties) < count {
		entry, err := table.Pick(g.src, weighted.DefaultFrequency)
		if err != nil {
			return nil, fmt.Errorf("gen: sampling %s property: %w", tier, err)
		}
		if _, dup := properties[entry.Name]; dup {
			continue
		}
		propAttrs := entry.AttrMap()
		delete(propAttrs, "name")
		properties[entry.Name] = propAttrs
	}

	if intrinsic, ok := base.Attrs["properties"].(string); ok && intrinsic != "" {
		baseTable := g.cfg.PropertiesByRarity[BaseTier]
		for _, name := range weighted.SplitCSV(intrinsic) {
			if baseTable == nil {
				return nil, fmt.Errorf("gen: base %q names intrinsic property %q but no %q tier table is configured", base.Name, name, BaseTier)
			}
			entry, found := baseTable.Lookup(name)
			if !found {
				return nil, fmt.Errorf("gen: base %q names unknown intrinsic property %q", base.Name, name)
			}
			propAttrs := entry.AttrMap()
			delete(propAttrs, "name")
			properties[entry.Name] = propAttrs
		}
	}

	return properties, nil
}

// resolveRequirements scans the mapping for requirements and dispatches each
// to its provider, storing the returned value under the requirement's key.
func (g *Generator) resolveRequirements(attrs map[string]any) error {
	for _, requirement := range attr.Requirements(attrs) {
		provider, ok := g.providers[requirement]
		if !ok && g.fallback != nil {
			provider, ok = g.fallback(requirement)
		}
		if !ok {
			return &MissingProviderError{Generator: g.name, Requirement: requirement}
		}
		value, err := provider(attrs)
		if err != nil {
			return fmt.Errorf("gen: provider for requirement %q: %w", requirement, err)
		}
		attrs[requirement] = value
		g.logger.Debug("resolved requirement",
			zap.String("generator", g.name),
			zap.String("requirement", requirement),
		)
	}
	return nil
}
