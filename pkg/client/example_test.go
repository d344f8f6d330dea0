package client_test

import (
	"context"
	"fmt"

	"github.com/daniacca/metabocell/pkg/client"
)

func ExampleTissueBuilder() {
	tissue := client.NewTissue("tumour-margin", 10, 10).
		Strategy(client.Table("Hypoxic", 0).
			When(map[string]bool{"glucose": true}, 2).
			Describe("glycolysis only")).
		Cell(5, 5, "Cancerous").
		Cell(6, 5, "Hypoxic").
		Fill("Healthy").
		Supply(client.NewSupply(true, true).
			Region(4, 4, 6, 6, map[string]bool{"glucose": true}))

	cfg := tissue.Build()
	fmt.Printf("Tissue: %s (%dx%d)\n", cfg.Name, cfg.Width, cfg.Height)
	fmt.Printf("Strategies: %d\n", len(cfg.Strategies))
	fmt.Printf("Cells: %d\n", len(cfg.Cells))
	fmt.Printf("Regions: %d\n", len(cfg.Supply.Regions))
	// Output:
	// Tissue: tumour-margin (10x10)
	// Strategies: 1
	// Cells: 100
	// Regions: 1
}

func ExampleClient_Step() {
	ctx := context.Background()
	c := client.New("http://localhost:8080", nil)

	// Against a running cellsim-server:
	// reports, err := c.Step(ctx, "default", 10)
	// if err != nil {
	// 	log.Fatal(err)
	// }
	_ = ctx
	_ = c
}
