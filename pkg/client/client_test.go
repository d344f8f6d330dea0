package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/daniacca/metabocell/internal/cellular"
)

func TestTissueBuilder(t *testing.T) {
	cfg := NewTissue("liver", 3, 2).
		Strategy(Constant("Quiescent", 1).Describe("resting cell")).
		Cell(1, 1, "Cancerous").
		Fill("Healthy").
		Build()

	if cfg.Name != "liver" || cfg.Width != 3 || cfg.Height != 2 {
		t.Errorf("unexpected header %+v", cfg)
	}
	if len(cfg.Cells) != 6 {
		t.Fatalf("Expected 6 cells, got %d", len(cfg.Cells))
	}
	if cfg.Cells[0] != (cellular.PlacementConfig{X: 1, Y: 1, State: "Cancerous"}) {
		t.Errorf("Expected explicit cell first, got %+v", cfg.Cells[0])
	}
	for _, c := range cfg.Cells[1:] {
		if c.State != "Healthy" || (c.X == 1 && c.Y == 1) {
			t.Errorf("unexpected filled cell %+v", c)
		}
	}

	if len(cfg.Strategies) != 1 {
		t.Fatalf("Expected 1 strategy, got %d", len(cfg.Strategies))
	}
	sc := cfg.Strategies[0]
	if sc.Kind != cellular.KindConstant || sc.Yield == nil || *sc.Yield != 1 || sc.Description != "resting cell" {
		t.Errorf("unexpected strategy %+v", sc)
	}

	if err := cellular.ValidateTissueConfig(cfg); err != nil {
		t.Errorf("Expected built config to be valid, got %v", err)
	}
}

func TestStrategyBuilders(t *testing.T) {
	table := Table("Hypoxic", 0).
		When(map[string]bool{"glucose": true}, 2).
		When(map[string]bool{"oxygen": true}, 1).
		Build()
	if table.Kind != cellular.KindTable || len(table.Rules) != 2 || table.Rules[0].Yield != 2 {
		t.Errorf("unexpected table strategy %+v", table)
	}

	like := Like("Metastatic", cellular.KindCancerous).Build()
	if like.State != "Metastatic" || like.Kind != cellular.KindCancerous {
		t.Errorf("unexpected strategy %+v", like)
	}
}

func TestSupplyBuilder(t *testing.T) {
	cfg := NewTissue("t", 4, 4).
		Supply(NewSupply(true, true).Region(0, 0, 1, 1, map[string]bool{"glucose": true})).
		Notify("ws", "hook").
		Build()

	if !cfg.Supply.Default["oxygen"] || !cfg.Supply.Default["glucose"] {
		t.Errorf("unexpected default supply %v", cfg.Supply.Default)
	}
	if len(cfg.Supply.Regions) != 1 || cfg.Supply.Regions[0].X1 != 1 {
		t.Errorf("unexpected regions %+v", cfg.Supply.Regions)
	}
	if !cfg.Notify.Enabled || len(cfg.Notify.Notifiers) != 2 {
		t.Errorf("unexpected notify config %+v", cfg.Notify)
	}

	tissue, err := cellular.BuildTissueFromConfig(NewTissue("t", 4, 4).
		Supply(NewSupply(false, true)).
		Fill("Healthy").
		Build())
	if err != nil {
		t.Fatalf("BuildTissueFromConfig failed: %v", err)
	}
	if got := tissue.Step().Total; got != 16*2 {
		t.Errorf("Expected fermentation everywhere, got total %d", got)
	}
}

type recordedRequest struct {
	method, path, query, body string
}

func newFakeServer(t *testing.T, status int, response string, got *recordedRequest) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*got = recordedRequest{r.Method, r.URL.Path, r.URL.RawQuery, string(body)}
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)
	return New(server.URL, server.Client())
}

func TestClient_ApplyTissue(t *testing.T) {
	var got recordedRequest
	c := newFakeServer(t, http.StatusOK, "tissue loaded", &got)

	err := c.ApplyTissue(context.Background(), "t1", NewTissue("liver", 2, 2).Cell(0, 0, "Healthy"))
	if err != nil {
		t.Fatalf("ApplyTissue failed: %v", err)
	}
	if got.method != http.MethodPost || got.path != "/tissue/t1" {
		t.Errorf("unexpected request %s %s", got.method, got.path)
	}
	var cfg cellular.TissueConfig
	if err := json.Unmarshal([]byte(got.body), &cfg); err != nil || cfg.Name != "liver" {
		t.Errorf("unexpected body %s", got.body)
	}
}

func TestClient_Step(t *testing.T) {
	var got recordedRequest
	c := newFakeServer(t, http.StatusOK, `{"reports": [{"tick": 1, "total": 36}, {"tick": 2, "total": 36}]}`, &got)

	reports, err := c.Step(context.Background(), "t1", 2)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if got.path != "/tissue/t1/step" || got.query != "n=2" {
		t.Errorf("unexpected request %s?%s", got.path, got.query)
	}
	if len(reports) != 2 || reports[1].Tick != 2 {
		t.Errorf("unexpected reports %+v", reports)
	}
}

func TestClient_SetCellAndTissue(t *testing.T) {
	var got recordedRequest
	c := newFakeServer(t, http.StatusOK, `{"x": 1, "y": 2, "state": "Cancerous", "strategy": "CancerousReaction"}`, &got)

	view, err := c.SetCell(context.Background(), "t1", 1, 2, "Cancerous")
	if err != nil {
		t.Fatalf("SetCell failed: %v", err)
	}
	if got.path != "/tissue/t1/cell" || !strings.Contains(got.body, `"state":"Cancerous"`) {
		t.Errorf("unexpected request %s %s", got.path, got.body)
	}
	if view.Strategy != "CancerousReaction" {
		t.Errorf("unexpected view %+v", view)
	}

	c = newFakeServer(t, http.StatusOK, `{"id": "t1", "name": "liver", "width": 2, "height": 2, "tick": 3}`, &got)
	snap, err := c.Tissue(context.Background(), "t1")
	if err != nil || snap.Tick != 3 || got.method != http.MethodGet {
		t.Errorf("unexpected snapshot %+v err=%v", snap, err)
	}
}

func TestClient_ListAndDelete(t *testing.T) {
	var got recordedRequest
	c := newFakeServer(t, http.StatusOK, `{"tissues": ["a", "b"]}`, &got)

	ids, err := c.ListTissues(context.Background())
	if err != nil || len(ids) != 2 || got.path != "/tissues" {
		t.Errorf("unexpected list %v err=%v path=%s", ids, err, got.path)
	}

	c = newFakeServer(t, http.StatusOK, "tissue deleted", &got)
	if err := c.DeleteTissue(context.Background(), "a"); err != nil {
		t.Errorf("DeleteTissue failed: %v", err)
	}
	if got.method != http.MethodDelete || got.path != "/tissue/a" {
		t.Errorf("unexpected request %s %s", got.method, got.path)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	var got recordedRequest
	c := newFakeServer(t, http.StatusBadRequest, "tissue name is required\n", &got)

	err := c.ApplyTissue(context.Background(), "t1", NewTissue("", 1, 1))
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "tissue name is required") {
		t.Errorf("unexpected error %v", err)
	}
}
