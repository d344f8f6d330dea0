package cellular

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// TissueID is a unique identifier for a tissue.
type TissueID string

// MaxTissueSide bounds both tissue dimensions.
const MaxTissueSide = 1024

// NewTissueID returns a random tissue identifier.
func NewTissueID() TissueID {
	return TissueID(uuid.NewString())
}

// PositionYield is the outcome of one cell reacting during a step.
type PositionYield struct {
	X     int         `json:"x"`
	Y     int         `json:"y"`
	State CellState   `json:"state"`
	Yield EnergyYield `json:"yield"`
}

// StepReport summarizes a single tissue step.
type StepReport struct {
	TissueID TissueID            `json:"tissue_id"`
	Tick     int64               `json:"tick"`
	Yields   []PositionYield     `json:"yields"`
	Total    int64               `json:"total"`
	ByState  map[CellState]int64 `json:"by_state"`
}

// CellView is the read-only projection of an occupied position.
type CellView struct {
	X        int       `json:"x"`
	Y        int       `json:"y"`
	State    CellState `json:"state"`
	Strategy string    `json:"strategy"`
}

// TissueSnapshot is an in-memory view of a tissue at a given tick.
type TissueSnapshot struct {
	ID          TissueID   `json:"id"`
	Name        string     `json:"name"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Tick        int64      `json:"tick"`
	Cells       []CellView `json:"cells"`
	Energy      [][]int64  `json:"energy"`
	TotalEnergy int64      `json:"total_energy"`
}

// Tissue is a two-dimensional arrangement of cells with one energy
// accumulator per position. It owns placement and input supply; cells only
// compute yields.
type Tissue struct {
	mu       sync.RWMutex
	id       TissueID
	name     string
	width    int
	height   int
	registry *Registry
	cells    [][]*Cell
	energy   [][]int64
	tick     int64
	supply   InputSupply
	logger   Logger

	notificationMgr *NotificationManager
	notify          NotificationConfig
}

// NewTissue creates an empty tissue of the given size. Each side must lie in
// 1..MaxTissueSide. A nil registry means DefaultRegistry(). The default
// supply gives every position oxygen and glucose.
func NewTissue(registry *Registry, width, height int) (*Tissue, error) {
	if width <= 0 || height <= 0 || width > MaxTissueSide || height > MaxTissueSide {
		return nil, fmt.Errorf("%w: got %dx%d, each side must be 1..%d", ErrInvalidSize, width, height, MaxTissueSide)
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	cells := make([][]*Cell, height)
	energy := make([][]int64, height)
	for y := range height {
		cells[y] = make([]*Cell, width)
		energy[y] = make([]int64, width)
	}
	return &Tissue{
		id:       NewTissueID(),
		width:    width,
		height:   height,
		registry: registry,
		cells:    cells,
		energy:   energy,
		supply:   UniformSupply{Input: NewReactionInput(true, true)},
		logger:   NewNoOpLogger(),
	}, nil
}

func (t *Tissue) ID() TissueID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.id
}

// SetID overrides the generated identifier.
func (t *Tissue) SetID(id TissueID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.id = id
}

func (t *Tissue) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

func (t *Tissue) SetName(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.name = name
}

// Size returns width and height.
func (t *Tissue) Size() (int, int) {
	return t.width, t.height
}

func (t *Tissue) Registry() *Registry {
	return t.registry
}

func (t *Tissue) Tick() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tick
}

// SetLogger sets the logger for the tissue.
func (t *Tissue) SetLogger(logger Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if logger == nil {
		logger = NewNoOpLogger()
	}
	t.logger = logger
}

// SetSupply replaces the input supply used by Step. A nil supply gives every
// position an empty input.
func (t *Tissue) SetSupply(supply InputSupply) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if supply == nil {
		supply = UniformSupply{}
	}
	t.supply = supply
}

// SetNotificationManager sets the manager that receives step events.
func (t *Tissue) SetNotificationManager(mgr *NotificationManager) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationMgr = mgr
}

// SetNotificationConfig selects which notifiers receive step events.
func (t *Tissue) SetNotificationConfig(cfg NotificationConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notify = cfg
}

func (t *Tissue) inBounds(x, y int) bool {
	return x >= 0 && x < t.width && y >= 0 && y < t.height
}

func (t *Tissue) checkBounds(x, y int) error {
	if !t.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, t.width, t.height)
	}
	return nil
}

// Place creates a cell in the given state at (x, y), replacing any cell
// already there.
func (t *Tissue) Place(x, y int, state CellState) (*Cell, error) {
	if err := t.checkBounds(x, y); err != nil {
		return nil, err
	}
	c, err := NewCell(t.registry, state)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.cells[y][x] = c
	t.mu.Unlock()
	return c, nil
}

// PlaceCell puts an existing cell at (x, y).
func (t *Tissue) PlaceCell(x, y int, c *Cell) error {
	if err := t.checkBounds(x, y); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("cannot place nil cell at (%d,%d)", x, y)
	}
	t.mu.Lock()
	t.cells[y][x] = c
	t.mu.Unlock()
	return nil
}

// Remove empties the position. The energy accumulator is kept.
func (t *Tissue) Remove(x, y int) error {
	if err := t.checkBounds(x, y); err != nil {
		return err
	}
	t.mu.Lock()
	t.cells[y][x] = nil
	t.mu.Unlock()
	return nil
}

// CellAt returns the cell at (x, y), if any.
func (t *Tissue) CellAt(x, y int) (*Cell, bool) {
	if !t.inBounds(x, y) {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := t.cells[y][x]
	return c, c != nil
}

// SetCellState changes the state of the cell at (x, y). The tissue lock is
// held so no step observes a half-applied change.
func (t *Tissue) SetCellState(x, y int, state CellState) error {
	if err := t.checkBounds(x, y); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.cells[y][x]
	if c == nil {
		return fmt.Errorf("%w: (%d,%d)", ErrNoCell, x, y)
	}
	return c.SetState(state)
}

// Step runs one reaction for every occupied position, in row-major order,
// and adds each yield to that position's accumulator.
func (t *Tissue) Step() StepReport {
	report, publish := t.step()

	publish.logger.Debugf("Tissue step: tissue_id=%s tick=%d cells=%d total=%d", report.TissueID, report.Tick, len(report.Yields), report.Total)

	if publish.mgr != nil && publish.notify.Enabled && len(publish.notify.Notifiers) > 0 {
		publish.mgr.Enqueue(NewStepEvent(publish.name, report), publish.notify.Notifiers)
	}
	return report
}

// stepPublish is what Step needs after the lock is released.
type stepPublish struct {
	name   string
	mgr    *NotificationManager
	notify NotificationConfig
	logger Logger
}

// step evaluates the grid under the lock. A panicking strategy or supply
// unwinds through the deferred unlock and leaves the tissue usable.
func (t *Tissue) step() (StepReport, stepPublish) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tick++
	report := StepReport{
		TissueID: t.id,
		Tick:     t.tick,
		Yields:   make([]PositionYield, 0),
		ByState:  make(map[CellState]int64),
	}

	for y := range t.height {
		for x := range t.width {
			c := t.cells[y][x]
			if c == nil {
				continue
			}
			yield := c.React(t.supply.InputAt(x, y))
			t.energy[y][x] += int64(yield)
			report.Yields = append(report.Yields, PositionYield{X: x, Y: y, State: c.State(), Yield: yield})
			report.Total += int64(yield)
			report.ByState[c.State()] += int64(yield)
		}
	}

	return report, stepPublish{
		name:   t.name,
		mgr:    t.notificationMgr,
		notify: t.notify,
		logger: t.logger,
	}
}

// Energy returns the accumulated energy at (x, y); zero when out of range.
func (t *Tissue) Energy(x, y int) int64 {
	if !t.inBounds(x, y) {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.energy[y][x]
}

// EnergyGrid returns a copy of the accumulators indexed [y][x].
func (t *Tissue) EnergyGrid() [][]int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.energyGridLocked()
}

func (t *Tissue) energyGridLocked() [][]int64 {
	out := make([][]int64, t.height)
	for y := range t.height {
		out[y] = make([]int64, t.width)
		copy(out[y], t.energy[y])
	}
	return out
}

// TotalEnergy sums every accumulator.
func (t *Tissue) TotalEnergy() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalEnergyLocked()
}

func (t *Tissue) totalEnergyLocked() int64 {
	var total int64
	for y := range t.height {
		for x := range t.width {
			total += t.energy[y][x]
		}
	}
	return total
}

// ResetEnergy zeroes every accumulator. Tick and cells are unchanged.
func (t *Tissue) ResetEnergy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for y := range t.height {
		clear(t.energy[y])
	}
}

// Snapshot captures the tissue for reporting and rendering.
func (t *Tissue) Snapshot() TissueSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cells := make([]CellView, 0)
	for y := range t.height {
		for x := range t.width {
			if c := t.cells[y][x]; c != nil {
				cells = append(cells, CellView{X: x, Y: y, State: c.State(), Strategy: c.Strategy().Kind()})
			}
		}
	}

	return TissueSnapshot{
		ID:          t.id,
		Name:        t.name,
		Width:       t.width,
		Height:      t.height,
		Tick:        t.tick,
		Cells:       cells,
		Energy:      t.energyGridLocked(),
		TotalEnergy: t.totalEnergyLocked(),
	}
}
