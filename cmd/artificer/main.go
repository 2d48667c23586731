// Package main provides the item generator binary: it generates random
// weapons or spell scrolls and can lay a batch out as a die roll table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/artificer/internal/config"
	"github.com/cory-johannsen/artificer/internal/datasource"
	"github.com/cory-johannsen/artificer/internal/gen"
	"github.com/cory-johannsen/artificer/internal/item"
	"github.com/cory-johannsen/artificer/internal/observability"
	"github.com/cory-johannsen/artificer/internal/render"
	"github.com/cory-johannsen/artificer/internal/rolltable"
	"github.com/cory-johannsen/artificer/internal/scripting"
	"github.com/cory-johannsen/artificer/internal/weighted"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	kind := flag.String("kind", "weapon", "item kind to generate: weapon or scroll")
	count := flag.Int("count", 1, "number of items to generate")
	challenge := flag.Int("cr", 0, "challenge rating, skews rarity selection")
	rollTable := flag.Bool("roll-table", false, "lay the batch out as a die roll table")
	die := flag.Int("die", 20, "die size for -roll-table")
	hideRolls := flag.Bool("hide-rolls", false, "omit the Roll column from roll tables")
	expanded := flag.Bool("expanded", false, "one roll-table row per die face instead of collapsed ranges")
	format := flag.String("format", "text", "roll table output format: text, yaml, or markdown")
	width := flag.Int("width", 0, "width of the text roll table; 0 = unconstrained")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := weighted.NewCryptoSource()
	if cfg.Generator.Seed != 0 {
		src = weighted.NewSeededSource(cfg.Generator.Seed)
		logger.Info("using seeded randomness", zap.Int64("seed", cfg.Generator.Seed))
	}

	opts := []gen.Option{gen.WithSource(src), gen.WithLogger(logger)}
	if cfg.Generator.ScriptDir != "" {
		providers, err := scripting.Load(cfg.Generator.ScriptDir, cfg.Generator.ScriptInstructionLimit, logger)
		if err != nil {
			logger.Fatal("loading provider scripts", zap.Error(err))
		}
		defer providers.Close()
		opts = append(opts, gen.WithFallbackProviders(providers.Lookup))
	}

	items, err := generate(cfg.Generator.ContentDir, *kind, *count, *challenge, opts)
	if err != nil {
		logger.Fatal("generating items", zap.Error(err))
	}
	logger.Info("generated items",
		zap.String("kind", *kind),
		zap.Int("count", len(items)),
		zap.Int("cr", *challenge),
		zap.Duration("elapsed", time.Since(start)),
	)

	if !*rollTable {
		for _, it := range items {
			fmt.Println(it.Details())
		}
		return
	}

	var tableOpts []rolltable.Option
	if *hideRolls {
		tableOpts = append(tableOpts, rolltable.HideRolls())
	}
	rows := make([]rolltable.Item, len(items))
	for i, it := range items {
		rows[i] = it
	}
	table, err := rolltable.New(*die, rows, tableOpts...)
	if err != nil {
		logger.Fatal("building roll table", zap.Error(err))
	}

	switch *format {
	case "text":
		fmt.Println(render.Console(table, render.Options{Width: *width, Expanded: *expanded}))
	case "markdown":
		fmt.Print(table.Markdown())
	case "yaml":
		out, err := table.YAML()
		if err != nil {
			logger.Fatal("rendering roll table", zap.Error(err))
		}
		fmt.Print(out)
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (supported: text, yaml, markdown)\n", *format)
		os.Exit(1)
	}
}

// generated is an item the CLI can print or tabulate.
type generated interface {
	rolltable.Item
	Details() string
}

// generate loads the content tables for the requested kind and runs its
// generator.
func generate(contentDir, kind string, count, challenge int, opts []gen.Option) ([]generated, error) {
	rarity, err := datasource.LoadTable(filepath.Join(contentDir, "rarity.yaml"))
	if err != nil {
		return nil, err
	}

	switch kind {
	case "weapon":
		bases, err := datasource.LoadTable(filepath.Join(contentDir, "bases", "weapons.yaml"))
		if err != nil {
			return nil, err
		}
		properties, err := datasource.LoadTierTables(filepath.Join(contentDir, "properties"))
		if err != nil {
			return nil, err
		}
		enchantments, err := datasource.LoadTable(filepath.Join(contentDir, "enchantments.yaml"))
		if err != nil {
			return nil, err
		}
		wg, err := item.NewWeaponGenerator(gen.Config{
			Bases:              bases,
			Rarity:             rarity,
			PropertiesByRarity: properties,
		}, enchantments, opts...)
		if err != nil {
			return nil, err
		}
		weapons, err := wg.Random(count, challenge)
		if err != nil {
			return nil, err
		}
		items := make([]generated, len(weapons))
		for i, w := range weapons {
			items[i] = w
		}
		return items, nil

	case "scroll":
		spells, err := datasource.LoadTable(filepath.Join(contentDir, "spells.yaml"))
		if err != nil {
			return nil, err
		}
		bases, err := datasource.LoadTable(filepath.Join(contentDir, "bases", "scrolls.yaml"))
		if err != nil {
			return nil, err
		}
		sg, err := item.NewScrollGenerator(gen.Config{
			Bases:  bases,
			Rarity: rarity,
		}, spells, opts...)
		if err != nil {
			return nil, err
		}
		scrolls, err := sg.Random(count, challenge)
		if err != nil {
			return nil, err
		}
		items := make([]generated, len(scrolls))
		for i, s := range scrolls {
			items[i] = s
		}
		return items, nil

	default:
		return nil, fmt.Errorf("unknown item kind %q (supported: weapon, scroll)", kind)
	}
}
