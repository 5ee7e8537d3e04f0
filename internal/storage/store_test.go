package storage

import (
	"testing"

	"github.com/craabreu/atomsmm/internal/config"
	"github.com/craabreu/atomsmm/internal/sim"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Scheme = "verlet"
	cfg.Seed = 7

	result := &sim.Result{
		Times:       []float64{0, 0.001, 0.002},
		Energies:    []float64{0.5, 0.5000001, 0.4999999},
		EnergyDrift: 2e-7,
		StepsTaken:  2,
		Metrics:     map[string]float64{"temperature": 0.98},
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Scheme != "verlet" {
		t.Errorf("expected scheme verlet, got %s", meta.Scheme)
	}
	if meta.Seed != 7 {
		t.Errorf("expected seed 7, got %d", meta.Seed)
	}
	if meta.Metrics["temperature"] != 0.98 {
		t.Errorf("metrics did not round-trip: %v", meta.Metrics)
	}

	times, energies, err := st.LoadEnergies(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 3 || len(energies) != 3 {
		t.Fatalf("expected 3 samples, got %d/%d", len(times), len(energies))
	}
	if energies[0] != 0.5 {
		t.Errorf("expected first energy 0.5, got %g", energies[0])
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestListEmpty(t *testing.T) {
	st := New(t.TempDir() + "/missing")
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
