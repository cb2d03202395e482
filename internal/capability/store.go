package capability

import (
	"fmt"
	"strings"
	"sync"
)

// Store defines the authoritative registry of capabilities. Abstracted
// for testability (DIP) — tools and planners depend on this, not on the
// in-memory implementation.
//
// All reads return defensive copies; callers never observe store
// mutation through an aliased reference. Iteration order is insertion
// order, which downstream conflict scanning relies on for determinism.
type Store interface {
	Register(cap Capability) error
	Get(id string) (Capability, error)
	List() []Capability
	Update(id string, upd Update) (Capability, error)
	Delete(id string) error
	SetMaturity(id string, level MaturityLevel) error
	AddTemplate(capabilityID string, tpl Template) error
	ReplaceTemplate(capabilityID, templateID string, tpl Template) error
	FindTemplate(templateID string) (Template, string, error)
}

// MemStore is the in-memory Store. A single RWMutex guards all state:
// the registry has one logical owner and mutating operations must not
// interleave (two callers resolving conflicts on the same template
// concurrently would otherwise lose updates). Reads copy under RLock.
type MemStore struct {
	mu    sync.RWMutex
	byID  map[string]*Capability
	order []string
}

// NewStore creates an empty in-memory registry.
func NewStore() *MemStore {
	return &MemStore{byID: make(map[string]*Capability)}
}

// Register adds a new capability. Fails with ErrDuplicateID if the id is
// already present and with ErrInvalidCapability/ErrInvalidTemplate on
// structural problems. Dependency ids are not resolved here — forward
// references are allowed during bulk load.
func (s *MemStore) Register(cap Capability) error {
	if err := cap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[cap.ID]; exists {
		return fmt.Errorf("%w: %q is already registered", ErrDuplicateID, cap.ID)
	}

	stored := cap.Clone()
	s.byID[cap.ID] = &stored
	s.order = append(s.order, cap.ID)
	return nil
}

// Get returns a copy of the capability with the given id.
func (s *MemStore) Get(id string) (Capability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cap, ok := s.byID[id]
	if !ok {
		return Capability{}, fmt.Errorf("%w: capability %q", ErrNotFound, id)
	}
	return cap.Clone(), nil
}

// List returns copies of all capabilities in insertion order.
func (s *MemStore) List() []Capability {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Capability, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// Update applies a partial mutation to an existing capability. The id is
// immutable — Update has no id field, so it cannot change. The updated
// copy is returned.
func (s *MemStore) Update(id string, upd Update) (Capability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cap, ok := s.byID[id]
	if !ok {
		return Capability{}, fmt.Errorf("%w: capability %q", ErrNotFound, id)
	}

	// All fields are applied to a scratch copy so that a rejected update
	// leaves the stored record untouched.
	next := cap.Clone()

	if upd.Name != nil {
		if *upd.Name == "" {
			return Capability{}, fmt.Errorf("%w: capability %q: name must not be empty", ErrInvalidCapability, id)
		}
		next.Name = *upd.Name
	}
	if upd.Description != nil {
		if *upd.Description == "" {
			return Capability{}, fmt.Errorf("%w: capability %q: description must not be empty", ErrInvalidCapability, id)
		}
		next.Description = *upd.Description
	}
	if upd.Phase != nil {
		if err := ValidatePhase(*upd.Phase); err != nil {
			return Capability{}, fmt.Errorf("%w: capability %q: %v", ErrInvalidCapability, id, err)
		}
		next.Phase = *upd.Phase
	}
	if upd.Dependencies != nil {
		deps := make([]string, len(*upd.Dependencies))
		copy(deps, *upd.Dependencies)
		next.Dependencies = deps
	}
	if upd.Maturity != nil {
		if err := s.progressMaturity(&next, *upd.Maturity); err != nil {
			return Capability{}, err
		}
	}

	*cap = next
	return next.Clone(), nil
}

// Delete removes a capability. Fails with ErrHasDependents, naming the
// dependent capabilities, if any other capability's dependency list
// includes the id.
func (s *MemStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: capability %q", ErrNotFound, id)
	}

	var dependents []string
	for _, otherID := range s.order {
		if otherID == id {
			continue
		}
		other := s.byID[otherID]
		for _, dep := range other.Dependencies {
			if dep == id {
				dependents = append(dependents, other.Name)
				break
			}
		}
	}
	if len(dependents) > 0 {
		return fmt.Errorf("%w: capability %q is required by: %s", ErrHasDependents, id, strings.Join(dependents, ", "))
	}

	delete(s.byID, id)
	for i, ordered := range s.order {
		if ordered == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetMaturity advances a capability's maturity level. The progression
// invariant: the new level must be at or above the current one, and may
// skip at most one level. Downgrades and multi-level jumps fail with
// ErrInvalidProgression.
func (s *MemStore) SetMaturity(id string, level MaturityLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cap, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: capability %q", ErrNotFound, id)
	}
	return s.progressMaturity(cap, level)
}

// progressMaturity enforces the progression invariant on an already
// locked capability.
func (s *MemStore) progressMaturity(cap *Capability, level MaturityLevel) error {
	if err := ValidateMaturity(level); err != nil {
		return fmt.Errorf("%w: capability %q: %v", ErrInvalidCapability, cap.ID, err)
	}
	jump := level.Rank() - cap.Maturity.Rank()
	if jump < 0 {
		return fmt.Errorf("%w: capability %q: cannot downgrade %s to %s", ErrInvalidProgression, cap.ID, cap.Maturity, level)
	}
	if jump > 2 {
		return fmt.Errorf("%w: capability %q: cannot jump from %s to %s (at most one level may be skipped)", ErrInvalidProgression, cap.ID, cap.Maturity, level)
	}
	cap.Maturity = level
	return nil
}

// AddTemplate appends a template to a capability's ordered template
// list. Fails with ErrDuplicateTemplateID if the template id already
// exists under that capability. A duplicate display name under the same
// capability is deliberately not rejected here — it surfaces as a name
// conflict in detection instead, so an operator can override.
func (s *MemStore) AddTemplate(capabilityID string, tpl Template) error {
	if err := tpl.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cap, ok := s.byID[capabilityID]
	if !ok {
		return fmt.Errorf("%w: capability %q", ErrNotFound, capabilityID)
	}
	for _, existing := range cap.Templates {
		if existing.ID == tpl.ID {
			return fmt.Errorf("%w: template %q already exists under capability %q", ErrDuplicateTemplateID, tpl.ID, capabilityID)
		}
	}
	cap.Templates = append(cap.Templates, tpl)
	return nil
}

// ReplaceTemplate swaps the capability's template whose id is templateID
// for tpl, preserving its position in the ordered list. Used by
// resolution execution to re-persist a mutated template over the prior
// entry — templateID is the id before mutation, which a rename changes.
func (s *MemStore) ReplaceTemplate(capabilityID, templateID string, tpl Template) error {
	if err := tpl.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cap, ok := s.byID[capabilityID]
	if !ok {
		return fmt.Errorf("%w: capability %q", ErrNotFound, capabilityID)
	}
	for i, existing := range cap.Templates {
		if existing.ID == templateID {
			cap.Templates[i] = tpl
			return nil
		}
	}
	return fmt.Errorf("%w: template %q under capability %q", ErrNotFound, templateID, capabilityID)
}

// FindTemplate resolves a template id anywhere in the registry and
// returns a copy plus the owning capability's id. Capabilities are
// scanned in insertion order; the first match wins.
func (s *MemStore) FindTemplate(templateID string) (Template, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		for _, tpl := range s.byID[id].Templates {
			if tpl.ID == templateID {
				return tpl, id, nil
			}
		}
	}
	return Template{}, "", fmt.Errorf("%w: template %q", ErrNotFound, templateID)
}
