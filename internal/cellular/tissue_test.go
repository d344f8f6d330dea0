package cellular

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewTissue_InvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {MaxTissueSide + 1, 1}, {1 << 30, 1 << 30}} {
		_, err := NewTissue(nil, size[0], size[1])
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewTissue(%d,%d): expected ErrInvalidSize, got %v", size[0], size[1], err)
		}
	}
}

func TestTissue_EndToEnd(t *testing.T) {
	tissue, err := NewTissue(nil, 20, 20)
	if err != nil {
		t.Fatalf("NewTissue failed: %v", err)
	}
	tissue.SetSupply(UniformSupply{Input: NewReactionInput(true, true)})

	if _, err := tissue.Place(3, 4, Healthy); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	report := tissue.Step()
	if len(report.Yields) != 1 {
		t.Fatalf("Expected 1 yield, got %d", len(report.Yields))
	}
	if report.Yields[0].Yield != 36 {
		t.Errorf("Expected yield 36, got %d", report.Yields[0].Yield)
	}
	if got := tissue.Energy(3, 4); got != 36 {
		t.Errorf("Expected energy 36 at (3,4), got %d", got)
	}

	if err := tissue.SetCellState(3, 4, Cancerous); err != nil {
		t.Fatalf("SetCellState failed: %v", err)
	}

	report = tissue.Step()
	if report.Yields[0].Yield != 4 {
		t.Errorf("Expected yield 4 after turning cancerous, got %d", report.Yields[0].Yield)
	}
	if report.Yields[0].State != Cancerous {
		t.Errorf("Expected reported state Cancerous, got %s", report.Yields[0].State)
	}
	if got := tissue.Energy(3, 4); got != 40 {
		t.Errorf("Expected accumulated energy 40, got %d", got)
	}
	if tissue.Tick() != 2 {
		t.Errorf("Expected tick 2, got %d", tissue.Tick())
	}
}

func TestTissue_StepReport(t *testing.T) {
	tissue, _ := NewTissue(nil, 3, 2)
	tissue.Place(0, 0, Healthy)
	tissue.Place(2, 0, Cancerous)
	tissue.Place(1, 1, Healthy)
	tissue.SetSupply(SupplyFunc(func(x, y int) ReactionInput {
		// bottom row is hypoxic
		return NewReactionInput(y == 0, true)
	}))

	report := tissue.Step()

	want := []PositionYield{
		{X: 0, Y: 0, State: Healthy, Yield: 36},
		{X: 2, Y: 0, State: Cancerous, Yield: 4},
		{X: 1, Y: 1, State: Healthy, Yield: 2},
	}
	if len(report.Yields) != len(want) {
		t.Fatalf("Expected %d yields, got %d", len(want), len(report.Yields))
	}
	for i := range want {
		if report.Yields[i] != want[i] {
			t.Errorf("yield %d: expected %+v, got %+v", i, want[i], report.Yields[i])
		}
	}
	if report.Total != 42 {
		t.Errorf("Expected total 42, got %d", report.Total)
	}
	if report.ByState[Healthy] != 38 || report.ByState[Cancerous] != 4 {
		t.Errorf("unexpected per-state totals %v", report.ByState)
	}
	if report.TissueID != tissue.ID() {
		t.Errorf("Expected report tissue id %s, got %s", tissue.ID(), report.TissueID)
	}
}

func TestTissue_DefaultSupplyIsPerfused(t *testing.T) {
	tissue, _ := NewTissue(nil, 1, 1)
	tissue.Place(0, 0, Healthy)
	if got := tissue.Step().Total; got != 36 {
		t.Errorf("Expected 36 with default supply, got %d", got)
	}

	tissue.SetSupply(nil)
	if got := tissue.Step().Total; got != 0 {
		t.Errorf("Expected 0 with nil supply, got %d", got)
	}
}

func TestTissue_Bounds(t *testing.T) {
	tissue, _ := NewTissue(nil, 2, 2)

	if _, err := tissue.Place(2, 0, Healthy); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Place: expected ErrOutOfBounds, got %v", err)
	}
	if err := tissue.Remove(-1, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Remove: expected ErrOutOfBounds, got %v", err)
	}
	if err := tissue.SetCellState(0, 5, Healthy); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetCellState: expected ErrOutOfBounds, got %v", err)
	}
	if _, ok := tissue.CellAt(9, 9); ok {
		t.Error("Expected CellAt out of range to report no cell")
	}
	if tissue.Energy(9, 9) != 0 {
		t.Error("Expected Energy out of range to be 0")
	}
}

func TestTissue_SetCellStateErrors(t *testing.T) {
	tissue, _ := NewTissue(nil, 2, 2)

	if err := tissue.SetCellState(0, 0, Cancerous); !errors.Is(err, ErrNoCell) {
		t.Errorf("Expected ErrNoCell, got %v", err)
	}

	tissue.Place(0, 0, Healthy)
	if err := tissue.SetCellState(0, 0, "Unknown"); !errors.Is(err, ErrUnknownReactionKind) {
		t.Errorf("Expected ErrUnknownReactionKind, got %v", err)
	}
	c, _ := tissue.CellAt(0, 0)
	if c.State() != Healthy {
		t.Errorf("Expected cell to stay Healthy, got %s", c.State())
	}
}

func TestTissue_PlaceUnknownState(t *testing.T) {
	tissue, _ := NewTissue(nil, 2, 2)
	if _, err := tissue.Place(0, 0, "Unknown"); !errors.Is(err, ErrUnknownReactionKind) {
		t.Errorf("Expected ErrUnknownReactionKind, got %v", err)
	}
	if _, ok := tissue.CellAt(0, 0); ok {
		t.Error("Expected position to stay empty")
	}
}

func TestTissue_PlaceCellAndRemove(t *testing.T) {
	tissue, _ := NewTissue(nil, 2, 1)
	c, _ := NewCell(nil, Cancerous)

	if err := tissue.PlaceCell(1, 0, c); err != nil {
		t.Fatalf("PlaceCell failed: %v", err)
	}
	if err := tissue.PlaceCell(0, 0, nil); err == nil {
		t.Error("Expected error placing nil cell")
	}
	got, ok := tissue.CellAt(1, 0)
	if !ok || got != c {
		t.Fatal("Expected placed cell at (1,0)")
	}

	tissue.Step()
	if err := tissue.Remove(1, 0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := tissue.CellAt(1, 0); ok {
		t.Error("Expected position to be empty after Remove")
	}
	if tissue.Energy(1, 0) != 4 {
		t.Errorf("Expected accumulator to survive Remove, got %d", tissue.Energy(1, 0))
	}
	if tissue.Step().Total != 0 {
		t.Error("Expected empty tissue step to yield 0")
	}
}

func TestTissue_EnergyGridAndReset(t *testing.T) {
	tissue, _ := NewTissue(nil, 2, 2)
	tissue.Place(0, 0, Healthy)
	tissue.Place(1, 1, Cancerous)
	tissue.Step()
	tissue.Step()

	grid := tissue.EnergyGrid()
	if grid[0][0] != 72 || grid[1][1] != 8 || grid[0][1] != 0 {
		t.Errorf("unexpected energy grid %v", grid)
	}
	grid[0][0] = 999
	if tissue.Energy(0, 0) != 72 {
		t.Error("Expected EnergyGrid to return a copy")
	}
	if tissue.TotalEnergy() != 80 {
		t.Errorf("Expected total 80, got %d", tissue.TotalEnergy())
	}

	tissue.ResetEnergy()
	if tissue.TotalEnergy() != 0 {
		t.Errorf("Expected total 0 after reset, got %d", tissue.TotalEnergy())
	}
	if tissue.Tick() != 2 {
		t.Errorf("Expected tick to be kept after reset, got %d", tissue.Tick())
	}
}

func TestTissue_Snapshot(t *testing.T) {
	tissue, _ := NewTissue(nil, 3, 3)
	tissue.SetName("snap")
	tissue.Place(1, 1, Cancerous)
	tissue.Step()

	snap := tissue.Snapshot()
	if snap.Name != "snap" || snap.Width != 3 || snap.Height != 3 || snap.Tick != 1 {
		t.Errorf("unexpected snapshot header %+v", snap)
	}
	if len(snap.Cells) != 1 {
		t.Fatalf("Expected 1 cell, got %d", len(snap.Cells))
	}
	want := CellView{X: 1, Y: 1, State: Cancerous, Strategy: "CancerousReaction"}
	if snap.Cells[0] != want {
		t.Errorf("Expected %+v, got %+v", want, snap.Cells[0])
	}
	if snap.TotalEnergy != 4 || snap.Energy[1][1] != 4 {
		t.Errorf("unexpected snapshot energy %v", snap.Energy)
	}
}

func TestTissue_IDs(t *testing.T) {
	a, _ := NewTissue(nil, 1, 1)
	b, _ := NewTissue(nil, 1, 1)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("Expected distinct generated IDs, got %s and %s", a.ID(), b.ID())
	}
	a.SetID("custom")
	if a.ID() != "custom" {
		t.Errorf("Expected custom ID, got %s", a.ID())
	}
}

type unfinishedReaction struct {
	BaseReaction
}

func TestTissue_StepPanicReleasesLock(t *testing.T) {
	registry := DefaultRegistry().WithStrategy("Mitotic", unfinishedReaction{BaseReaction{Variant: "MitoticReaction"}})
	tissue, _ := NewTissue(registry, 2, 1)
	tissue.Place(0, 0, Healthy)
	tissue.Place(1, 0, "Mitotic")

	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, ErrNotImplemented) {
				t.Fatalf("Expected NotImplemented panic, got %v", r)
			}
		}()
		tissue.Step()
	}()

	done := make(chan TissueSnapshot, 1)
	go func() { done <- tissue.Snapshot() }()

	select {
	case snap := <-done:
		if len(snap.Cells) != 2 {
			t.Errorf("Expected 2 cells in snapshot, got %d", len(snap.Cells))
		}
	case <-time.After(time.Second):
		t.Fatal("Snapshot blocked after a panicking step")
	}

	if err := tissue.SetCellState(1, 0, Cancerous); err != nil {
		t.Fatalf("SetCellState failed: %v", err)
	}
	if got := tissue.Step().Yields[1].Yield; got != WarburgYield {
		t.Errorf("Expected tissue to keep stepping, got yield %d", got)
	}
}

func TestTissue_SetCellStateDuringStep(t *testing.T) {
	tissue, _ := NewTissue(nil, 8, 8)
	for y := range 8 {
		for x := range 8 {
			tissue.Place(x, y, Healthy)
		}
	}

	want := map[CellState]EnergyYield{Healthy: AerobicYield, Cancerous: WarburgYield}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			state := Healthy
			if i%2 == 0 {
				state = Cancerous
			}
			if err := tissue.SetCellState(i%8, (i/8)%8, state); err != nil {
				t.Errorf("SetCellState failed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			for _, py := range tissue.Step().Yields {
				if py.Yield != want[py.State] {
					t.Errorf("(%d,%d) reported %s with yield %d", py.X, py.Y, py.State, py.Yield)
					return
				}
			}
		}
	}()
	wg.Wait()

	if tissue.Tick() != 50 {
		t.Errorf("Expected tick 50, got %d", tissue.Tick())
	}
}
