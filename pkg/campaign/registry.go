package campaign

import (
	"maps"
	"sync"
)

// Registry is the in-memory table of live send units.
// It lives for the process lifetime and is safe for concurrent use.
// A unit id is never reused: ids of removed units stay retired, so a late
// outcome of a removed unit cannot land on a newer unit.
type Registry struct {
	units   map[string]Unit
	retired map[string]struct{}
	mu      sync.Mutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		units:   make(map[string]Unit),
		retired: make(map[string]struct{}),
	}
}

// Insert adds units atomically: if any id is already present, was used by a
// removed unit or is repeated in units, nothing is inserted and
// ErrDuplicateUnit is returned.
func (r *Registry) Insert(units ...Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(units))
	for _, u := range units {
		if _, ok := r.units[u.ID]; ok {
			return ErrDuplicateUnit
		}
		if _, ok := r.retired[u.ID]; ok {
			return ErrDuplicateUnit
		}
		if _, ok := seen[u.ID]; ok {
			return ErrDuplicateUnit
		}
		seen[u.ID] = struct{}{}
	}

	for _, u := range units {
		r.units[u.ID] = u
	}
	return nil
}

// Get returns a copy of the unit with the given id.
func (r *Registry) Get(id string) (Unit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	return u, ok
}

// SetStatus moves a unit to next. Only forward transitions are accepted.
// Returns the updated unit.
func (r *Registry) SetStatus(id string, next Status) (Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.units[id]
	if !ok {
		return Unit{}, ErrUnitNotFound
	}
	if !u.Status.canMoveTo(next) {
		return u, ErrInvalidTransition
	}

	u.Status = next
	r.units[id] = u
	return u, nil
}

// RemoveFunc removes every unit matching pred and returns the removed units.
// Removing nothing is not an error.
func (r *Registry) RemoveFunc(pred func(Unit) bool) []Unit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(pred)
}

// SweepCampaign removes all units of a campaign if every one of them is terminal.
// Returns the number of units removed; zero when some unit is still live.
func (r *Registry) SweepCampaign(campaignID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.units {
		if u.CampaignID == campaignID && !u.Status.Terminal() {
			return 0
		}
	}
	return len(r.removeLocked(func(u Unit) bool { return u.CampaignID == campaignID }))
}

// Snapshot returns a copy of all registered units keyed by id.
func (r *Registry) Snapshot() map[string]Unit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.units)
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.units)
}

// removeLocked deletes matching units and retires their ids.
// Caller must hold the mutex.
func (r *Registry) removeLocked(pred func(Unit) bool) []Unit {
	var removed []Unit
	for id, u := range r.units {
		if pred(u) {
			removed = append(removed, u)
			delete(r.units, id)
			r.retired[id] = struct{}{}
		}
	}
	return removed
}
