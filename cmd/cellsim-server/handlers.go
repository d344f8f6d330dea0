package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/daniacca/metabocell/internal/cellular"
	"github.com/daniacca/metabocell/internal/cellular/notifiers"
)

// extractTissueID extracts the tissue ID from a path like "/tissue/{id}/..."
// Returns the tissue ID and the remaining path, or empty string if not found
func extractTissueID(path string) (cellular.TissueID, string) {
	rest, ok := strings.CutPrefix(path, "/tissue/")
	if !ok {
		return "", ""
	}

	id, remaining, found := strings.Cut(rest, "/")
	if !found {
		return cellular.TissueID(rest), ""
	}
	return cellular.TissueID(id), "/" + remaining
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var validationErr *cellular.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, cellular.ErrUnknownReactionKind),
		errors.Is(err, cellular.ErrOutOfBounds),
		errors.Is(err, cellular.ErrInvalidSize):
		return http.StatusBadRequest
	case errors.Is(err, cellular.ErrNoCell):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GET /tissues
func (s *Server) handleListTissues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ids := s.manager.List()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tissues": out})
}

// handleTissueRoutes routes /tissue/{id}[/...] requests
func (s *Server) handleTissueRoutes(w http.ResponseWriter, r *http.Request) {
	id, remaining := extractTissueID(r.URL.Path)
	if id == "" {
		http.Error(w, "tissue ID is required in path: /tissue/{id}/...", http.StatusBadRequest)
		return
	}

	switch {
	case remaining == "" && r.Method == http.MethodPost:
		s.handleApplyConfig(w, r, id)
	case remaining == "" && r.Method == http.MethodGet:
		s.handleGetTissue(w, r, id)
	case remaining == "" && r.Method == http.MethodDelete:
		s.handleDeleteTissue(w, r, id)
	case remaining == "/step" && r.Method == http.MethodPost:
		s.handleStep(w, r, id)
	case remaining == "/cell" && r.Method == http.MethodPost:
		s.handleSetCell(w, r, id)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// POST /tissue/{id}
// Body: TissueConfig JSON. Creates the tissue or replaces an existing one.
func (s *Server) handleApplyConfig(w http.ResponseWriter, r *http.Request, id cellular.TissueID) {
	defer r.Body.Close()

	var cfg cellular.TissueConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid tissue config json: "+err.Error(), http.StatusBadRequest)
		return
	}

	replaced, err := s.ApplyConfig(id, cfg)
	if err != nil {
		s.logger.Warnf("Tissue config rejected: tissue_id=%s error=%v", id, err)
		http.Error(w, "cannot build tissue: "+err.Error(), statusFor(err))
		return
	}

	if replaced {
		s.logger.Infof("Tissue replaced: tissue_id=%s name=%s", id, cfg.Name)
	} else {
		s.logger.Infof("Tissue created: tissue_id=%s name=%s", id, cfg.Name)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("tissue loaded"))
}

// GET /tissue/{id}
func (s *Server) handleGetTissue(w http.ResponseWriter, _ *http.Request, id cellular.TissueID) {
	tissue, ok := s.manager.Get(id)
	if !ok {
		http.Error(w, "tissue not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tissue.Snapshot())
}

// DELETE /tissue/{id}
func (s *Server) handleDeleteTissue(w http.ResponseWriter, _ *http.Request, id cellular.TissueID) {
	if err := s.manager.Delete(id); err != nil {
		s.logger.Warnf("Failed to delete tissue: tissue_id=%s error=%v", id, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Infof("Tissue deleted: tissue_id=%s", id)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("tissue deleted"))
}

// POST /tissue/{id}/step?n=N
// Runs N steps (default 1) and returns their reports.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, id cellular.TissueID) {
	tissue, ok := s.manager.Get(id)
	if !ok {
		http.Error(w, "tissue not found", http.StatusNotFound)
		return
	}

	n := 1
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		v, err := strconv.Atoi(nStr)
		if err != nil || v <= 0 || v > s.maxSteps {
			http.Error(w, "invalid n: must be an integer between 1 and "+strconv.Itoa(s.maxSteps), http.StatusBadRequest)
			return
		}
		n = v
	}

	reports := make([]cellular.StepReport, 0, n)
	for range n {
		reports = append(reports, tissue.Step())
	}
	s.logger.Debugf("Tissue stepped: tissue_id=%s steps=%d tick=%d", id, n, tissue.Tick())

	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

// POST /tissue/{id}/cell
// Body: { "x": 0, "y": 0, "state": "Cancerous" }
// Changes the state of the cell at (x, y), placing a new one if the position is empty.
type setCellRequest struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	State string `json:"state"`
}

func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request, id cellular.TissueID) {
	defer r.Body.Close()

	tissue, ok := s.manager.Get(id)
	if !ok {
		http.Error(w, "tissue not found", http.StatusNotFound)
		return
	}

	var req setCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	state := cellular.CellState(req.State)
	err := tissue.SetCellState(req.X, req.Y, state)
	if errors.Is(err, cellular.ErrNoCell) {
		_, err = tissue.Place(req.X, req.Y, state)
	}
	if errors.Is(err, cellular.ErrUnknownReactionKind) {
		known := tissue.Registry().States()
		http.Error(w, fmt.Sprintf("%v (known states: %v)", err, known), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	c, _ := tissue.CellAt(req.X, req.Y)
	s.logger.Debugf("Cell updated: tissue_id=%s x=%d y=%d state=%s", id, req.X, req.Y, c.State())

	writeJSON(w, http.StatusOK, cellular.CellView{
		X:        req.X,
		Y:        req.Y,
		State:    c.State(),
		Strategy: c.Strategy().Kind(),
	})
}

// handleNotifiersRoutes handles notifier management endpoints
func (s *Server) handleNotifiersRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/notifiers" && r.Method == http.MethodGet:
		s.handleListNotifiers(w, r)
	case r.URL.Path == "/notifiers" && r.Method == http.MethodPost:
		s.handleRegisterNotifier(w, r)
	case strings.HasPrefix(r.URL.Path, "/notifiers/") && r.Method == http.MethodDelete:
		s.handleUnregisterNotifier(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	ids := s.notificationMgr.ListNotifiers()

	out := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		if notifier, exists := s.notificationMgr.GetNotifier(id); exists {
			out = append(out, map[string]string{
				"id":   id,
				"type": notifier.Type(),
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifiers": out})
}

// POST /notifiers
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	var notifier cellular.Notifier
	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		var opts []notifiers.WebhookOption
		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					opts = append(opts, notifiers.WithHeader(k, vStr))
				}
			}
		}
		if tissues, ok := req.Config["tissues"].([]any); ok {
			for _, v := range tissues {
				tid, ok := v.(string)
				if !ok || tid == "" {
					http.Error(w, "webhook tissues must be non-empty strings", http.StatusBadRequest)
					return
				}
				opts = append(opts, notifiers.WithTissues(cellular.TissueID(tid)))
			}
		}
		notifier = notifiers.NewWebhookNotifier(req.ID, url, opts...)
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.notificationMgr.RegisterNotifier(notifier); err != nil {
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Infof("Notifier registered: id=%s type=%s", req.ID, req.Type)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier registered"))
}

// DELETE /notifiers/{id}
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/notifiers/")
	if id == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}
	if id == streamNotifierID {
		http.Error(w, "the stream notifier cannot be removed", http.StatusBadRequest)
		return
	}

	if err := s.notificationMgr.UnregisterNotifier(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}
