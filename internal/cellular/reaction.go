package cellular

// EnergyYield is the ATP-equivalent output of one reaction step. It is never
// negative.
type EnergyYield int

const (
	NoReaction        EnergyYield = 0
	FermentationYield EnergyYield = 2
	WarburgYield      EnergyYield = 4
	AerobicYield      EnergyYield = 36
)

// ReactionStrategy converts a substrate snapshot into an energy yield.
// Implementations must be pure: the same input always gives the same yield.
type ReactionStrategy interface {
	// Kind names the strategy variant (e.g. "HealthyReaction").
	Kind() string

	// Process computes the yield for one step. Substrates the strategy does
	// not need are ignored.
	Process(input ReactionInput) EnergyYield
}

// BaseReaction can be embedded by strategy variants to inherit Kind.
// Its Process panics with a NotImplementedError, so a variant that forgets
// to specialize Process fails on first use instead of yielding a default.
type BaseReaction struct {
	Variant string
}

func (b BaseReaction) Kind() string {
	return b.Variant
}

func (b BaseReaction) Process(ReactionInput) EnergyYield {
	panic(&NotImplementedError{Variant: b.Variant})
}

// HealthyReaction models a normal cell: aerobic respiration when both
// substrates are present, fermentation when only glucose is.
// Without glucose no reaction takes place and the yield is NoReaction.
type HealthyReaction struct{}

func (HealthyReaction) Kind() string { return "HealthyReaction" }

func (HealthyReaction) Process(input ReactionInput) EnergyYield {
	switch {
	case input.Has(Oxygen) && input.Has(Glucose):
		return AerobicYield
	case !input.Has(Oxygen) && input.Has(Glucose):
		return FermentationYield
	default:
		return NoReaction
	}
}

// CancerousReaction yields WarburgYield whatever the substrates.
type CancerousReaction struct{}

func (CancerousReaction) Kind() string { return "CancerousReaction" }

func (CancerousReaction) Process(ReactionInput) EnergyYield {
	return WarburgYield
}

// ConstantReaction always returns Yield.
type ConstantReaction struct {
	Yield EnergyYield
}

func (*ConstantReaction) Kind() string { return "ConstantReaction" }

func (r *ConstantReaction) Process(ReactionInput) EnergyYield {
	return r.Yield
}

// ReactionRule matches when every substrate listed in When has the given
// presence in the input.
type ReactionRule struct {
	When  map[Substrate]bool
	Yield EnergyYield
}

func (r ReactionRule) matches(input ReactionInput) bool {
	for s, want := range r.When {
		if input.Has(s) != want {
			return false
		}
	}
	return true
}

// TableReaction evaluates rules in order; the first match wins and Fallback
// is returned when none match.
type TableReaction struct {
	Rules    []ReactionRule
	Fallback EnergyYield
}

func (*TableReaction) Kind() string { return "TableReaction" }

func (r *TableReaction) Process(input ReactionInput) EnergyYield {
	for _, rule := range r.Rules {
		if rule.matches(input) {
			return rule.Yield
		}
	}
	return r.Fallback
}
