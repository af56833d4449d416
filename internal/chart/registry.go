package chart

import (
	"sort"
	"sync"

	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/logger"
)

// Instance is one drawn chart bound to a slot.
type Instance struct {
	mu        sync.Mutex
	id        string
	seq       uint64
	spec      Spec
	width     int
	height    int
	destroyed bool
}

// ID returns the slot the instance is bound to.
func (i *Instance) ID() string { return i.id }

// Seq is the registry-wide creation number of the instance.
func (i *Instance) Seq() uint64 { return i.seq }

// Spec returns what the instance draws.
func (i *Instance) Spec() Spec { return i.spec }

// Size returns the last size delivered by Resize.
func (i *Instance) Size() (width, height int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.width, i.height
}

// Destroyed reports whether the instance has been released.
func (i *Instance) Destroyed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.destroyed
}

func (i *Instance) resize(w, h int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return
	}
	i.width, i.height = w, h
}

// destroy returns false when the instance was already destroyed.
func (i *Instance) destroy() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return false
	}
	i.destroyed = true
	return true
}

// Registry maps slot ids to their live instance.
type Registry struct {
	mu        sync.Mutex
	live      map[string]*Instance
	seq       uint64
	created   uint64
	destroyed uint64
	width     int
	height    int
	log       logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log logger.Logger) *Registry {
	if log == nil {
		log = logger.Noop()
	}
	return &Registry{
		live: make(map[string]*Instance),
		log:  log,
	}
}

// Replace destroys whatever is bound to id, then creates a new instance from
// spec. A slot never holds two live instances. On an invalid spec the slot is
// left empty.
func (r *Registry) Replace(id string, spec Spec) (*Instance, error) {
	if id == "" {
		return nil, errors.New(errors.ErrUI, "Chart slot id is empty", "")
	}
	if spec == nil {
		return nil, errors.New(errors.ErrUI, "Chart spec is nil for slot "+id, "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.destroyLocked(id)

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	r.seq++
	r.created++
	inst := &Instance{id: id, seq: r.seq, spec: spec, width: r.width, height: r.height}
	r.live[id] = inst
	r.log.Debug("chart %s created (%s #%d)", id, spec.Kind(), inst.seq)
	return inst, nil
}

// Get returns the live instance bound to id.
func (r *Registry) Get(id string) (*Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.live[id]
	return inst, ok
}

// Destroy releases the instance bound to id. Destroying an empty slot is a no-op.
func (r *Registry) Destroy(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyLocked(id)
}

// DestroyAll releases every listed slot, or all slots when none are given.
func (r *Registry) DestroyAll(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(ids) == 0 {
		for id := range r.live {
			r.destroyLocked(id)
		}
		return
	}
	for _, id := range ids {
		r.destroyLocked(id)
	}
}

func (r *Registry) destroyLocked(id string) bool {
	inst, ok := r.live[id]
	if !ok {
		return false
	}
	delete(r.live, id)
	if inst.destroy() {
		r.destroyed++
		r.log.Debug("chart %s destroyed (#%d)", id, inst.seq)
	}
	return true
}

// Resize delivers a new size to every live instance.
func (r *Registry) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	for _, inst := range r.live {
		inst.resize(width, height)
	}
}

// Live returns the number of live instances.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// IDs returns the occupied slots in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.live))
	for id := range r.live {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Counters returns how many instances were created and destroyed so far.
func (r *Registry) Counters() (created, destroyed uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created, r.destroyed
}
