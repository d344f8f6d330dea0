package main

import "github.com/daniacca/metabocell/internal/cellular"

// Quiescent is a resting cell that only burns glucose at a maintenance rate.
const Quiescent cellular.CellState = "Quiescent"

type QuiescentReaction struct {
	maintenance cellular.EnergyYield
}

func NewQuiescentReaction() cellular.ReactionStrategy {
	return &QuiescentReaction{maintenance: 1}
}

func (r *QuiescentReaction) Kind() string { return "QuiescentReaction" }

func (r *QuiescentReaction) Process(input cellular.ReactionInput) cellular.EnergyYield {
	if input.Has(cellular.Glucose) {
		return r.maintenance
	}
	return cellular.NoReaction
}
