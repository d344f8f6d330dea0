package main

import "github.com/daniacca/metabocell/internal/cellular"

// Lactate is an extra substrate released by fermenting neighbours.
const Lactate cellular.Substrate = "lactate"

// Oxidative cells can respire lactate when glucose runs out.
const Oxidative cellular.CellState = "Oxidative"

type LactateShuttleReaction struct {
	healthy cellular.HealthyReaction
}

func NewLactateShuttleReaction() cellular.ReactionStrategy {
	return &LactateShuttleReaction{}
}

func (r *LactateShuttleReaction) Kind() string { return "LactateShuttleReaction" }

func (r *LactateShuttleReaction) Process(input cellular.ReactionInput) cellular.EnergyYield {
	if yield := r.healthy.Process(input); yield != cellular.NoReaction {
		return yield
	}
	if input.Has(cellular.Oxygen) && input.Has(Lactate) {
		return 15
	}
	return cellular.NoReaction
}
