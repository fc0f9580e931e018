package config

import "sort"

var Presets = map[string]*Config{
	"random-disk": {
		Scenario: "random", NumBodies: 10, Seed: 1,
		Dt: 1000, Steps: 200000, ReportFreq: 2000,
	},
	"sun-planet": {
		Scenario: "sun-planet",
		Dt:       1000, Steps: 1000, ReportFreq: 100,
	},
	"binary": {
		Scenario: "binary",
		Dt:       1000, Steps: 100000, ReportFreq: 1000,
	},
	"collision": {
		Scenario: "head-on",
		Dt:       1000, Steps: 5000, ReportFreq: 50,
	},
	"crowded": {
		Scenario: "random", NumBodies: 50, Seed: 7,
		Dt: 1000, Steps: 50000, ReportFreq: 500,
	},
}

// GetPreset returns a copy of the named preset with physics constants
// filled in from DefaultConfig, or nil if there is none.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scenario = p.Scenario
	cfg.NumBodies = p.NumBodies
	cfg.Seed = p.Seed
	cfg.Dt = p.Dt
	cfg.Steps = p.Steps
	cfg.ReportFreq = p.ReportFreq
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
