package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/daniacca/metabocell/internal/cellular"
	"github.com/daniacca/metabocell/internal/render"
	"github.com/gdamore/tcell/v2"
)

func main() {
	var (
		configFile = flag.String("config", "", "path to tissue config JSON file (optional)")
		size       = flag.Int("size", 20, "tissue width and height when no config file is given")
		ticks      = flag.Int("ticks", 100, "number of ticks to run")
		chartFile  = flag.String("chart", "", "write a PNG energy chart to this path (optional)")
		view       = flag.Bool("view", false, "draw the tissue in the terminal while running")
		interval   = flag.Duration("interval", 200*time.Millisecond, "delay between ticks in view mode")
	)
	flag.Parse()

	tissue, err := loadTissue(*configFile, *size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	history := render.NewEnergyHistory()
	if *view {
		err = runInTerminal(tissue, *ticks, *interval, history)
	} else {
		for i := 0; i < *ticks; i++ {
			history.Record(tissue.Step())
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *chartFile != "" {
		if err := writeChart(history, *chartFile); err != nil {
			fmt.Fprintf(os.Stderr, "error writing chart: %v\n", err)
			os.Exit(1)
		}
	}

	printSummary(tissue)
}

// loadTissue builds the tissue from a config file, or a size x size tissue of
// healthy cells with one cancerous cell in the middle.
func loadTissue(path string, size int) (*cellular.Tissue, error) {
	if path != "" {
		return loadTissueFromFile(path)
	}

	tissue, err := cellular.NewTissue(cellular.DefaultRegistry(), size, size)
	if err != nil {
		return nil, err
	}
	tissue.SetName("default")
	for y := range size {
		for x := range size {
			if _, err := tissue.Place(x, y, cellular.Healthy); err != nil {
				return nil, err
			}
		}
	}
	if err := tissue.SetCellState(size/2, size/2, cellular.Cancerous); err != nil {
		return nil, err
	}
	return tissue, nil
}

func loadTissueFromFile(path string) (*cellular.Tissue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg cellular.TissueConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config JSON: %w", err)
	}

	tissue, err := cellular.BuildTissueFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building tissue: %w", err)
	}
	return tissue, nil
}

func runInTerminal(tissue *cellular.Tissue, ticks int, interval time.Duration, history *render.EnergyHistory) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	quit := make(chan struct{})
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
			}
		}
	}()

	view := render.NewTerminalView(screen)
	view.Draw(tissue.Snapshot())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 0; i < ticks; i++ {
		select {
		case <-quit:
			return nil
		case <-ticker.C:
			history.Record(tissue.Step())
			view.Draw(tissue.Snapshot())
		}
	}
	return nil
}

func writeChart(history *render.EnergyHistory, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return history.RenderPNG(f)
}

func printSummary(tissue *cellular.Tissue) {
	snap := tissue.Snapshot()

	counts := make(map[cellular.CellState]int)
	energy := make(map[cellular.CellState]int64)
	for _, c := range snap.Cells {
		counts[c.State]++
		energy[c.State] += snap.Energy[c.Y][c.X]
	}

	states := make([]cellular.CellState, 0, len(counts))
	for s := range counts {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	fmt.Printf("Simulation finished (tissue=%s, size=%dx%d, ticks=%d)\n", snap.Name, snap.Width, snap.Height, snap.Tick)
	fmt.Println("Cells by state:")
	for _, s := range states {
		fmt.Printf("  %s: %d cells, %d energy\n", s, counts[s], energy[s])
	}
	fmt.Printf("Total energy: %d\n", snap.TotalEnergy)
}
