package main

import (
	"fmt"
	"os"

	"github.com/daniacca/metabocell/internal/cellular"
)

func buildRegistry() (*cellular.Registry, error) {
	registry := cellular.DefaultRegistry()
	if err := registry.Register(Quiescent, NewQuiescentReaction()); err != nil {
		return nil, err
	}
	if err := registry.Register(Oxidative, NewLactateShuttleReaction()); err != nil {
		return nil, err
	}
	return registry, nil
}

// buildTissue lays out one row per state. The right half of the tissue gets
// oxygen and lactate but no glucose.
func buildTissue(registry *cellular.Registry) (*cellular.Tissue, error) {
	states := []cellular.CellState{cellular.Healthy, cellular.Cancerous, Quiescent, Oxidative}
	const width = 4

	tissue, err := cellular.NewTissue(registry, width, len(states))
	if err != nil {
		return nil, err
	}
	tissue.SetName("demo")
	for y, state := range states {
		for x := range width {
			if _, err := tissue.Place(x, y, state); err != nil {
				return nil, err
			}
		}
	}

	tissue.SetSupply(cellular.RegionSupply{
		Default: cellular.NewReactionInput(true, true),
		Regions: []cellular.Region{{
			X0: width / 2, Y0: 0, X1: width - 1, Y1: len(states) - 1,
			Input: cellular.ReactionInput{cellular.Oxygen: true, Lactate: true},
		}},
	})
	return tissue, nil
}

func main() {
	registry, err := buildRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	tissue, err := buildTissue(registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	report := tissue.Step()
	fmt.Printf("tick %d, total energy %d\n", report.Tick, report.Total)
	for _, state := range registry.States() {
		fmt.Printf("  %-10s %d\n", state, report.ByState[state])
	}
}
