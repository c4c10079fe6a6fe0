// Package config loads the tunable scheduler constants (quantum, aging
// threshold, band boundaries, promotion step) the way the rest of this
// retrieved course-project corpus loads configuration: a JSON-tagged struct
// read with encoding/json, no third-party config library, because none
// appears anywhere in the corpus either.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Constants bundles every tunable named in the scheduling spec. JSON files
// may override any subset; fields omitted from the file keep their default
// value.
type Constants struct {
	// Quantum is the maximum number of consecutive ticks an L3 thread may
	// run before a forced yield.
	Quantum int `json:"quantum"`
	// AgingThreshold is the accumulated waiting ticks after which a ready
	// thread is promoted.
	AgingThreshold int `json:"aging_threshold"`
	// PromotionStep is how much priority aging adds, before capping.
	PromotionStep int `json:"promotion_step"`
	// PriorityMax is the highest legal priority value.
	PriorityMax int `json:"priority_max"`
	// Band1Min is the lowest priority that belongs to L1 (highest band).
	Band1Min int `json:"band1_min"`
	// Band2Min is the lowest priority that belongs to L2.
	Band2Min int `json:"band2_min"`
}

// Default returns the constants from the scheduling spec.
func Default() Constants {
	return Constants{
		Quantum:        100,
		AgingThreshold: 1500,
		PromotionStep:  10,
		PriorityMax:    149,
		Band1Min:       100,
		Band2Min:       50,
	}
}

// Load reads constants from path, overlaying them on Default(). An empty
// path returns Default() unchanged.
func Load(path string) (Constants, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, nil
}

// Band returns the queue level (1, 2, or 3) a priority belongs to.
func (c Constants) Band(priority int) int {
	switch {
	case priority >= c.Band1Min:
		return 1
	case priority >= c.Band2Min:
		return 2
	default:
		return 3
	}
}
