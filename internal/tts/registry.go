package tts

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// Registry maps engine ids to adapters and their descriptors.
// It is filled once at start-up and only read afterwards.
type Registry struct {
	mu          sync.RWMutex
	engines     map[EngineID]Engine
	descriptors map[EngineID]EngineDescriptor
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{
		engines:     make(map[EngineID]Engine),
		descriptors: make(map[EngineID]EngineDescriptor),
	}
}

// Register adds an engine with its descriptor.
func (r *Registry) Register(engine Engine, desc EngineDescriptor) error {
	if engine == nil {
		return errors.New("cannot register a nil engine")
	}
	if desc.ID == "" {
		desc.ID = engine.ID()
	}
	if desc.ID != engine.ID() {
		return fmt.Errorf("descriptor id %q does not match engine id %q", desc.ID, engine.ID())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[desc.ID]; exists {
		return fmt.Errorf("%w: %s", ErrEngineExists, desc.ID)
	}
	r.engines[desc.ID] = engine
	r.descriptors[desc.ID] = desc
	return nil
}

// RegisterProbed registers an adapter that describes itself. When the
// adapter implements Prober the probe runs here, once, and its outcome
// is stored in the descriptor.
func (r *Registry) RegisterProbed(ctx context.Context, engine Engine) error {
	var desc EngineDescriptor
	if d, ok := engine.(Describer); ok {
		desc = d.Descriptor()
	}
	desc.ID = engine.ID()
	if rt, ok := engine.(FileRoundTripper); ok {
		desc.RequiresFileRoundTrip = rt.RequiresFileRoundTrip()
	}

	desc.Available = true
	if p, ok := engine.(Prober); ok {
		if err := p.Probe(ctx); err != nil {
			desc.Available = false
			desc.Guidance = guidanceFrom(err)
			log.Debug("Engine probe failed", "engine", desc.ID, "error", err)
		}
	}
	log.Debug("Engine registered", "engine", desc.ID, "available", desc.Available)
	return r.Register(engine, desc)
}

// guidanceFrom extracts remediation text from a probe error.
func guidanceFrom(err error) string {
	var te *TTSError
	if errors.As(err, &te) && te.Guidance != "" {
		return te.Guidance
	}
	return err.Error()
}

// Resolve returns the adapter registered under id.
func (r *Registry) Resolve(id EngineID) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[id]
	if !ok {
		return nil, r.unknownLocked(string(id))
	}
	return engine, nil
}

// Describe returns the descriptor registered under id.
func (r *Registry) Describe(id EngineID) (EngineDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.descriptors[id]
	if !ok {
		return EngineDescriptor{}, r.unknownLocked(string(id))
	}
	return desc, nil
}

// List returns all descriptors in AllEngines order, followed by any
// ids registered outside the known set.
func (r *Registry) List() []EngineDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]EngineDescriptor, 0, len(r.descriptors))
	for _, id := range r.idsLocked() {
		out = append(out, r.descriptors[id])
	}
	return out
}

// ListAvailable returns the descriptors of usable engines.
func (r *Registry) ListAvailable() []EngineDescriptor {
	var out []EngineDescriptor
	for _, desc := range r.List() {
		if desc.Available {
			out = append(out, desc)
		}
	}
	return out
}

// IDs returns the registered engine ids.
func (r *Registry) IDs() []EngineID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idsLocked()
}

func (r *Registry) idsLocked() []EngineID {
	ids := make([]EngineID, 0, len(r.engines))
	seen := make(map[EngineID]bool, len(r.engines))
	for _, id := range AllEngines() {
		if _, ok := r.engines[id]; ok {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	var extra []EngineID
	for id := range r.engines {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	return append(ids, extra...)
}

func (r *Registry) unknownLocked(name string) error {
	names := make([]string, 0, len(r.engines))
	for _, id := range r.idsLocked() {
		names = append(names, string(id))
	}
	return unknownEngineError(name, names)
}
