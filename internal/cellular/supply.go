package cellular

// InputSupply decides which substrates reach the cell at a position.
type InputSupply interface {
	InputAt(x, y int) ReactionInput
}

// SupplyFunc adapts a plain function to InputSupply.
type SupplyFunc func(x, y int) ReactionInput

func (f SupplyFunc) InputAt(x, y int) ReactionInput {
	return f(x, y)
}

// UniformSupply gives every position the same input.
type UniformSupply struct {
	Input ReactionInput
}

func (u UniformSupply) InputAt(int, int) ReactionInput {
	return u.Input
}

// Region is an inclusive rectangle of positions sharing one input.
type Region struct {
	X0, Y0, X1, Y1 int
	Input          ReactionInput
}

// Contains reports whether (x, y) lies inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// RegionSupply uses Default everywhere except inside Regions.
// When regions overlap, the one listed last wins.
type RegionSupply struct {
	Default ReactionInput
	Regions []Region
}

func (s RegionSupply) InputAt(x, y int) ReactionInput {
	for i := len(s.Regions) - 1; i >= 0; i-- {
		if s.Regions[i].Contains(x, y) {
			return s.Regions[i].Input
		}
	}
	return s.Default
}
