package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/daniacca/metabocell/internal/cellular"
)

// TissueBuilder provides a fluent API for building tissue configurations.
// Use it to declare the grid size, extra cell states, cell placements and
// substrate supply of a tissue.
type TissueBuilder struct {
	name       string
	width      int
	height     int
	strategies []*StrategyBuilder
	cells      []cellular.PlacementConfig
	supply     *SupplyBuilder
	notify     *cellular.NotificationConfig
}

// NewTissue creates a new tissue builder with the given name and size.
func NewTissue(name string, width, height int) *TissueBuilder {
	return &TissueBuilder{
		name:       name,
		width:      width,
		height:     height,
		strategies: make([]*StrategyBuilder, 0),
		cells:      make([]cellular.PlacementConfig, 0),
	}
}

// Strategy registers an additional cell state.
func (tb *TissueBuilder) Strategy(sb *StrategyBuilder) *TissueBuilder {
	tb.strategies = append(tb.strategies, sb)
	return tb
}

// Cell places a cell at (x, y). An empty state means the default state.
func (tb *TissueBuilder) Cell(x, y int, state string) *TissueBuilder {
	tb.cells = append(tb.cells, cellular.PlacementConfig{X: x, Y: y, State: state})
	return tb
}

// Fill places a cell in the given state at every position not already
// placed by Cell.
func (tb *TissueBuilder) Fill(state string) *TissueBuilder {
	taken := make(map[[2]int]bool, len(tb.cells))
	for _, c := range tb.cells {
		taken[[2]int{c.X, c.Y}] = true
	}
	for y := range tb.height {
		for x := range tb.width {
			if !taken[[2]int{x, y}] {
				tb.cells = append(tb.cells, cellular.PlacementConfig{X: x, Y: y, State: state})
			}
		}
	}
	return tb
}

// Supply sets the substrate supply.
func (tb *TissueBuilder) Supply(sb *SupplyBuilder) *TissueBuilder {
	tb.supply = sb
	return tb
}

// Notify sends step events to the given notifiers.
func (tb *TissueBuilder) Notify(notifierIDs ...string) *TissueBuilder {
	tb.notify = &cellular.NotificationConfig{Enabled: true, Notifiers: notifierIDs}
	return tb
}

// Build converts the builder to a TissueConfig.
func (tb *TissueBuilder) Build() cellular.TissueConfig {
	cfg := cellular.TissueConfig{
		Name:   tb.name,
		Width:  tb.width,
		Height: tb.height,
		Cells:  tb.cells,
	}
	for _, sb := range tb.strategies {
		cfg.Strategies = append(cfg.Strategies, sb.Build())
	}
	if tb.supply != nil {
		cfg.Supply = tb.supply.Build()
	}
	if tb.notify != nil {
		cfg.Notify = *tb.notify
	}
	return cfg
}

// StrategyBuilder declares the reaction strategy of an extra state.
type StrategyBuilder struct {
	cfg cellular.StrategyConfig
}

// Like binds state to one of the built-in strategies ("healthy" or "cancerous").
func Like(state, kind string) *StrategyBuilder {
	return &StrategyBuilder{cfg: cellular.StrategyConfig{State: state, Kind: kind}}
}

// Constant binds state to a strategy that always yields the same energy.
func Constant(state string, yield int) *StrategyBuilder {
	return &StrategyBuilder{cfg: cellular.StrategyConfig{State: state, Kind: cellular.KindConstant, Yield: &yield}}
}

// Table binds state to a rule table. Add rules with When.
func Table(state string, fallback int) *StrategyBuilder {
	return &StrategyBuilder{cfg: cellular.StrategyConfig{State: state, Kind: cellular.KindTable, Fallback: fallback}}
}

// When adds a rule yielding yield when the substrates match.
func (sb *StrategyBuilder) When(substrates map[string]bool, yield int) *StrategyBuilder {
	sb.cfg.Rules = append(sb.cfg.Rules, cellular.RuleConfig{When: substrates, Yield: yield})
	return sb
}

// Describe sets a human-readable description.
func (sb *StrategyBuilder) Describe(description string) *StrategyBuilder {
	sb.cfg.Description = description
	return sb
}

func (sb *StrategyBuilder) Build() cellular.StrategyConfig {
	return sb.cfg
}

// SupplyBuilder describes which substrates reach each position.
type SupplyBuilder struct {
	cfg cellular.SupplyConfig
}

// NewSupply starts a supply whose default input has the given substrates.
func NewSupply(oxygen, glucose bool) *SupplyBuilder {
	return &SupplyBuilder{cfg: cellular.SupplyConfig{
		Default: map[string]bool{
			string(cellular.Oxygen):  oxygen,
			string(cellular.Glucose): glucose,
		},
	}}
}

// Region overrides the supply inside the inclusive rectangle (x0,y0)-(x1,y1).
func (sb *SupplyBuilder) Region(x0, y0, x1, y1 int, substrates map[string]bool) *SupplyBuilder {
	sb.cfg.Regions = append(sb.cfg.Regions, cellular.RegionConfig{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		Substrates: substrates,
	})
	return sb
}

func (sb *SupplyBuilder) Build() cellular.SupplyConfig {
	return sb.cfg
}

// Client talks to a cellsim-server instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL. A nil httpClient means
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

func (c *Client) do(ctx context.Context, method string, body any, out any, query url.Values, path ...string) error {
	u, err := url.JoinPath(c.baseURL, path...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// ApplyTissue creates or replaces the tissue with the given ID.
func (c *Client) ApplyTissue(ctx context.Context, tissueID string, tissue *TissueBuilder) error {
	return c.do(ctx, http.MethodPost, tissue.Build(), nil, nil, "tissue", tissueID)
}

// Tissue fetches a snapshot of the tissue.
func (c *Client) Tissue(ctx context.Context, tissueID string) (cellular.TissueSnapshot, error) {
	var snap cellular.TissueSnapshot
	err := c.do(ctx, http.MethodGet, nil, &snap, nil, "tissue", tissueID)
	return snap, err
}

// ListTissues returns the IDs of every tissue on the server.
func (c *Client) ListTissues(ctx context.Context) ([]string, error) {
	var resp struct {
		Tissues []string `json:"tissues"`
	}
	err := c.do(ctx, http.MethodGet, nil, &resp, nil, "tissues")
	return resp.Tissues, err
}

// DeleteTissue removes the tissue.
func (c *Client) DeleteTissue(ctx context.Context, tissueID string) error {
	return c.do(ctx, http.MethodDelete, nil, nil, nil, "tissue", tissueID)
}

// Step runs n steps and returns their reports.
func (c *Client) Step(ctx context.Context, tissueID string, n int) ([]cellular.StepReport, error) {
	var resp struct {
		Reports []cellular.StepReport `json:"reports"`
	}
	query := url.Values{"n": []string{strconv.Itoa(n)}}
	err := c.do(ctx, http.MethodPost, nil, &resp, query, "tissue", tissueID, "step")
	return resp.Reports, err
}

// SetCell changes the state of the cell at (x, y), placing one if the
// position is empty.
func (c *Client) SetCell(ctx context.Context, tissueID string, x, y int, state string) (cellular.CellView, error) {
	var view cellular.CellView
	body := map[string]any{"x": x, "y": y, "state": state}
	err := c.do(ctx, http.MethodPost, body, &view, nil, "tissue", tissueID, "cell")
	return view, err
}
