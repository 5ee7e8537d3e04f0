package config

var Presets = map[string]map[string]*Config{
	"verlet": {
		"harmonic": {
			Scheme: "verlet", Model: "harmonic", Particles: 64, Dt: 0.001, Steps: 20000,
			Forces: ForcesConfig{K: 1.0},
		},
		"stiff": {
			Scheme: "verlet", Model: "harmonic", Particles: 64, Dt: 0.0005, Steps: 40000,
			Forces: ForcesConfig{K: 16.0},
		},
	},
	"respa": {
		"split": {
			Scheme: "respa", Model: "split_harmonic", Particles: 64, Dt: 0.004, Steps: 10000,
			Loops: []int{4, 1},
			Forces: ForcesConfig{KFast: 16.0, KSlow: 0.5},
		},
		"deep": {
			Scheme: "respa", Model: "split_harmonic", Particles: 64, Dt: 0.008, Steps: 5000,
			Loops: []int{4, 2},
			Forces: ForcesConfig{KFast: 64.0, KSlow: 0.25},
		},
	},
	"nose-hoover": {
		"bath": {
			Scheme: "nose-hoover", Model: "harmonic", Particles: 64, Dt: 0.001, Steps: 50000,
			Thermostat: ThermostatConfig{KT: 1.0, Tau: 0.1, NLoops: 1},
			Forces:     ForcesConfig{K: 1.0},
		},
		"tight": {
			Scheme: "nose-hoover", Model: "harmonic", Particles: 64, Dt: 0.001, Steps: 50000,
			Thermostat: ThermostatConfig{KT: 0.5, Tau: 0.05, NLoops: 3},
			Forces:     ForcesConfig{K: 1.0},
		},
	},
	"nhl": {
		"bath": {
			Scheme: "nhl", Model: "harmonic", Particles: 64, Dt: 0.001, Steps: 50000,
			Thermostat: ThermostatConfig{KT: 1.0, Tau: 0.1, Gamma: 10.0},
			Forces:     ForcesConfig{K: 1.0},
		},
	},
	"rescaling": {
		"bath": {
			Scheme: "rescaling", Model: "harmonic", Particles: 64, Dt: 0.001, Steps: 50000,
			Thermostat: ThermostatConfig{KT: 1.0, Tau: 0.1},
			Forces:     ForcesConfig{K: 1.0},
		},
	},
	"sinr": {
		"bath": {
			Scheme: "sinr", Model: "harmonic", Particles: 64, Dt: 0.002, Steps: 25000,
			Thermostat: ThermostatConfig{KT: 1.0, Tau: 0.1, Gamma: 10.0},
			Forces:     ForcesConfig{K: 1.0},
		},
		"hot": {
			Scheme: "sinr", Model: "harmonic", Particles: 64, Dt: 0.002, Steps: 25000,
			Thermostat: ThermostatConfig{KT: 4.0, Tau: 0.1, Gamma: 10.0},
			Forces:     ForcesConfig{K: 1.0},
		},
	},
	"yoshida": {
		"fourth-order": {
			Scheme: "yoshida", Model: "harmonic", Particles: 64, Dt: 0.004, Steps: 10000,
			Nsy:    3,
			Forces: ForcesConfig{K: 1.0},
		},
		"high-order": {
			Scheme: "yoshida", Model: "harmonic", Particles: 64, Dt: 0.008, Steps: 5000,
			Nsy:    7,
			Forces: ForcesConfig{K: 1.0},
		},
	},
}

func GetPreset(scheme, preset string) *Config {
	schemePresets, ok := Presets[scheme]
	if !ok {
		return nil
	}
	cfg, ok := schemePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scheme string) []string {
	schemePresets, ok := Presets[scheme]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(schemePresets))
	for name := range schemePresets {
		names = append(names, name)
	}
	return names
}
