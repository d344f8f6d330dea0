package cellular

// Substrate is the name of a metabolic input.
type Substrate string

const (
	Oxygen  Substrate = "oxygen"
	Glucose Substrate = "glucose"
)

// ReactionInput is a snapshot of substrate availability for one reaction step.
// A missing key means the substrate is absent.
type ReactionInput map[Substrate]bool

// NewReactionInput builds the base oxygen/glucose snapshot.
func NewReactionInput(oxygen, glucose bool) ReactionInput {
	return ReactionInput{
		Oxygen:  oxygen,
		Glucose: glucose,
	}
}

// Has reports whether the substrate is present. Safe on a nil input.
func (in ReactionInput) Has(s Substrate) bool {
	return in[s]
}

// Clone returns an independent copy of the input.
func (in ReactionInput) Clone() ReactionInput {
	out := make(ReactionInput, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
