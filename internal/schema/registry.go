package schema

import (
	"fmt"
	"log/slog"
	"sync"
)

// UnknownSchemaError is returned by Resolve for ids with no registration.
type UnknownSchemaError struct {
	ID string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("unknown schema id %q", e.ID)
}

// Factory constructs a Definition. Factories run at most once per id; the
// resolved definition is cached for the process lifetime.
type Factory func() (*Definition, error)

// Registry maps schema ids to definitions. Registration happens at process
// start; resolution is lazy, cached, and safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	cache     map[string]*Definition
	logger    *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		factories: make(map[string]Factory),
		cache:     make(map[string]*Definition),
		logger:    logger,
	}
}

// Register adds a factory under id, replacing any previous registration and
// invalidating its cached definition.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = f
	delete(r.cache, id)
}

// IDs returns the registered schema ids (unordered).
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	return ids
}

// Resolve returns the definition for id, building and validating it on first
// use. A malformed registration (nil factory result, id mismatch, invalid
// definition) fails loudly rather than being skipped.
func (r *Registry) Resolve(id string) (*Definition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if def, ok := r.cache[id]; ok {
		return def, nil
	}
	f, ok := r.factories[id]
	if !ok {
		return nil, &UnknownSchemaError{ID: id}
	}

	def, err := f()
	if err != nil {
		return nil, fmt.Errorf("schema %q: construct: %w", id, err)
	}
	if def == nil {
		return nil, fmt.Errorf("schema %q: factory returned nil definition", id)
	}
	if def.ID != id {
		return nil, fmt.Errorf("schema %q: factory returned definition with id %q", id, def.ID)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("schema %q: invalid definition: %w", id, err)
	}

	r.cache[id] = def
	r.logger.Debug("schema.resolve.loaded", "schema_id", id, "fields", len(def.Fields))
	return def, nil
}

// Builtin returns a registry with all built-in document classes registered.
func Builtin(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register("cv", CV)
	r.Register("invoice", Invoice)
	r.Register("bank_statement", BankStatement)
	r.Register("utility_bill", UtilityBill)
	return r
}
