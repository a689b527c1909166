// Package config holds packer configuration: collision-engine resolution,
// polygon simplification, and JSON I/O tuning, loadable from defaults or
// overridden by environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
)

// Config holds all packer configuration.
type Config struct {
	CDE       CDEConfig
	PolySimpl PolySimplConfig
	JSONIO    JSONIOConfig
}

// CDEConfig controls the resolution of the collision detection engine.
type CDEConfig struct {
	QuadtreeDepth    int     // max QT depth (default: 5)
	HPGNCells        int     // target HPG cell count (default: 2000)
	PoleCoverageGoal float64 // item_surrogate_config.pole_coverage_goal (default: 0.9)
	MaxPoles         int     // item_surrogate_config.max_poles (default: 10)
	NFailFastPoles   int     // item_surrogate_config.n_ff_poles (default: 2)
	NFailFastPiers   int     // item_surrogate_config.n_ff_piers (default: 0)
}

// SimplificationMode selects how polygon simplification trades area for
// vertex count.
type SimplificationMode int

const (
	// SimplificationDisabled performs no simplification (default).
	SimplificationDisabled SimplificationMode = iota
	// SimplificationInflate grows items — conservative for forbidden
	// regions' complements.
	SimplificationInflate
	// SimplificationDeflate shrinks bins/holes — conservative for allowed
	// regions.
	SimplificationDeflate
)

// PolySimplConfig controls the optional polygon-simplification pre-pass.
type PolySimplConfig struct {
	Mode      SimplificationMode
	Tolerance float64 // area units; ignored when Mode == SimplificationDisabled
}

// JSONIOConfig controls the parallel JSON parsing pipeline.
type JSONIOConfig struct {
	Workers               int     // parser worker-pool size (default: runtime.NumCPU())
	MaxSurrogateBuildRate float64 // surrogate builds/sec, 0 = unlimited
	CenterPolygons        bool    // recenter every parsed polygon on its centroid
}

// Defaults returns the documented default configuration.
func Defaults() Config {
	return Config{
		CDE: CDEConfig{
			QuadtreeDepth:    5,
			HPGNCells:        2000,
			PoleCoverageGoal: 0.9,
			MaxPoles:         10,
			NFailFastPoles:   2,
			NFailFastPiers:   0,
		},
		PolySimpl: PolySimplConfig{Mode: SimplificationDisabled},
		JSONIO: JSONIOConfig{
			Workers:               0, // 0 means "let the parser pick runtime.NumCPU()"
			MaxSurrogateBuildRate: 0,
			CenterPolygons:        true,
		},
	}
}

// LoadFromEnv starts from Defaults and applies PACKER_* environment
// variable overrides.
func LoadFromEnv() Config {
	cfg := Defaults()

	if v := os.Getenv("PACKER_QUADTREE_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CDE.QuadtreeDepth = n
		}
	}
	if v := os.Getenv("PACKER_HPG_N_CELLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CDE.HPGNCells = n
		}
	}
	if v := os.Getenv("PACKER_POLE_COVERAGE_GOAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.CDE.PoleCoverageGoal = f
		}
	}
	if v := os.Getenv("PACKER_MAX_POLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CDE.MaxPoles = n
		}
	}
	if v := os.Getenv("PACKER_JSONIO_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.JSONIO.Workers = n
		}
	}
	if v := os.Getenv("PACKER_JSONIO_MAX_SURROGATE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.JSONIO.MaxSurrogateBuildRate = f
		}
	}
	if v := os.Getenv("PACKER_CENTER_POLYGONS"); v == "false" {
		cfg.JSONIO.CenterPolygons = false
	}

	return cfg
}

// Validate checks the configuration for obviously invalid values.
func (c *Config) Validate() error {
	if c.CDE.QuadtreeDepth < 0 || c.CDE.QuadtreeDepth > 20 {
		return fmt.Errorf("invalid quadtree depth: %d (must be 0-20)", c.CDE.QuadtreeDepth)
	}
	if c.CDE.HPGNCells < 1 {
		return fmt.Errorf("invalid hpg cell target: %d (must be > 0)", c.CDE.HPGNCells)
	}
	if c.CDE.PoleCoverageGoal <= 0 || c.CDE.PoleCoverageGoal > 1 {
		return fmt.Errorf("invalid pole coverage goal: %f (must be in (0,1])", c.CDE.PoleCoverageGoal)
	}
	if c.CDE.MaxPoles < 0 {
		return fmt.Errorf("invalid max poles: %d (must be >= 0)", c.CDE.MaxPoles)
	}
	if c.JSONIO.Workers < 0 {
		return fmt.Errorf("invalid jsonio worker count: %d (must be >= 0)", c.JSONIO.Workers)
	}
	if c.JSONIO.MaxSurrogateBuildRate < 0 {
		return fmt.Errorf("invalid max surrogate build rate: %f (must be >= 0)", c.JSONIO.MaxSurrogateBuildRate)
	}
	return nil
}

// ToEngineConfig converts the documented CDE configuration into the
// collision engine's resolution parameters. HPGNCells is a target cell
// count, not a direct cell size, so the conversion needs the bin's area.
func (c CDEConfig) ToEngineConfig(binArea float64) EngineResolution {
	cellSize := 1.0
	if c.HPGNCells > 0 && binArea > 0 {
		cellSize = math.Sqrt(binArea / float64(c.HPGNCells))
	}
	return EngineResolution{QuadtreeMaxDepth: c.QuadtreeDepth, HPGCellSize: cellSize}
}

// EngineResolution is the subset of cde.EngineConfig derivable from
// CDEConfig plus a bin's area. Callers translate this 1:1 into
// cde.EngineConfig at the call site that constructs a Layout.
type EngineResolution struct {
	QuadtreeMaxDepth int
	HPGCellSize      float64
}
