package cellular

import (
	"fmt"
	"sort"
	"sync"
)

// TissueManager keeps named tissues, each isolated from the others.
type TissueManager struct {
	mu      sync.RWMutex
	tissues map[TissueID]*Tissue
	logger  Logger
}

// NewTissueManager creates a new tissue manager
func NewTissueManager() *TissueManager {
	return NewTissueManagerWithLogger(NewNoOpLogger())
}

// NewTissueManagerWithLogger creates a tissue manager that hands logger to
// the tissues it stores.
func NewTissueManagerWithLogger(logger Logger) *TissueManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &TissueManager{
		tissues: make(map[TissueID]*Tissue),
		logger:  logger,
	}
}

// Create stores tissue under id. It fails if id is taken.
func (tm *TissueManager) Create(id TissueID, tissue *Tissue) error {
	if id == "" {
		return fmt.Errorf("tissue id is required")
	}
	if tissue == nil {
		return fmt.Errorf("tissue cannot be nil")
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.tissues[id]; exists {
		return fmt.Errorf("tissue with id %s already exists", id)
	}
	tm.adopt(id, tissue)
	return nil
}

// Replace stores tissue under id whether or not it already exists.
// It reports whether an existing tissue was replaced.
func (tm *TissueManager) Replace(id TissueID, tissue *Tissue) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("tissue id is required")
	}
	if tissue == nil {
		return false, fmt.Errorf("tissue cannot be nil")
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	_, existed := tm.tissues[id]
	tm.adopt(id, tissue)
	return existed, nil
}

func (tm *TissueManager) adopt(id TissueID, tissue *Tissue) {
	tissue.SetID(id)
	tissue.SetLogger(tm.logger)
	tm.tissues[id] = tissue
}

// Get retrieves a tissue by ID
func (tm *TissueManager) Get(id TissueID) (*Tissue, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	t, exists := tm.tissues[id]
	return t, exists
}

// Delete removes a tissue by ID
func (tm *TissueManager) Delete(id TissueID) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.tissues[id]; !exists {
		return fmt.Errorf("tissue with id %s does not exist", id)
	}
	delete(tm.tissues, id)
	return nil
}

// List returns all tissue IDs in lexical order
func (tm *TissueManager) List() []TissueID {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	ids := make([]TissueID, 0, len(tm.tissues))
	for id := range tm.tissues {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
