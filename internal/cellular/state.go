package cellular

// CellState is the biological state of a cell. Each state is bound to a
// reaction strategy through a Registry.
type CellState string

const (
	Healthy   CellState = "Healthy"
	Cancerous CellState = "Cancerous"
)

// DefaultState is used when a cell is created without an explicit state.
const DefaultState = Healthy

func (s CellState) String() string {
	return string(s)
}
