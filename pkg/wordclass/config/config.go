// Package config loads the driver's YAML configuration and optional
// seed class assignments, the same way the teacher's config.Loader
// loads taxonomy/stoplist/dict YAML documents and wires them into
// runtime components.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/driver"
	"github.com/cognicore/wordclass/pkg/wordclass/internalerr"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

// File is the on-disk shape of the driver configuration document
// (spec §4.7).
type File struct {
	NumClasses          int     `yaml:"num_classes"`
	MaxIterations       int     `yaml:"max_iterations"`
	MaxSeconds          float64 `yaml:"max_seconds"`
	LLPrintInterval     int     `yaml:"ll_print_interval"`
	StopOnNoImprovement bool    `yaml:"stop_on_no_improvement"`
	SeedClasses         string  `yaml:"seed_classes"`
}

// Seeds is the on-disk shape of an optional seed-class document
// (spec §4.7): explicit word -> class assignments applied after
// round-robin init, before the first pass.
type Seeds struct {
	Assignments map[string]int `yaml:"assignments"`
}

// Load reads path and returns the driver.Config it describes, plus the
// resolved seed assignments (nil if none were configured).
func Load(path string) (driver.Config, *Seeds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return driver.Config{}, nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return driver.Config{}, nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if f.NumClasses < 1 {
		return driver.Config{}, nil, fmt.Errorf("num_classes must be >= 1: %w", internalerr.ErrInvalidConfig)
	}

	cfg := driver.Config{
		NumClasses:          f.NumClasses,
		MaxIterations:       f.MaxIterations,
		MaxSeconds:          f.MaxSeconds,
		LLPrintInterval:     f.LLPrintInterval,
		StopOnNoImprovement: f.StopOnNoImprovement,
	}

	if f.SeedClasses == "" {
		return cfg, nil, nil
	}

	seedPath := f.SeedClasses
	if !filepath.IsAbs(seedPath) {
		seedPath = filepath.Join(filepath.Dir(path), seedPath)
	}

	seedData, err := os.ReadFile(seedPath)
	if err != nil {
		return driver.Config{}, nil, fmt.Errorf("read seed classes %s: %w", seedPath, err)
	}
	var seeds Seeds
	if err := yaml.Unmarshal(seedData, &seeds); err != nil {
		return driver.Config{}, nil, fmt.Errorf("parse seed classes %s: %w", seedPath, err)
	}

	return cfg, &seeds, nil
}

// ApplySeeds assigns every word named in seeds to its configured class,
// skipping words not present in the vocabulary. It never touches the
// three reserved tokens' frozen membership (spec §4.2, §I7) — a seed file
// naming <s>, </s>, or <unk> has that entry silently ignored.
func ApplySeeds(v *vocab.Vocabulary, asg *classes.Assignment, seeds *Seeds) {
	if seeds == nil {
		return
	}
	for tok, class := range seeds.Assignments {
		id, ok := v.ID(tok)
		if !ok {
			continue
		}
		if id == vocab.StartID || id == vocab.EndID || id == vocab.UnkID {
			continue
		}
		asg.Move(id, class)
	}
}
