package schema

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/danmuck/ewsctl/internal/protocol"
)

var (
	ErrPropertyExists = errors.New("schema: property already registered")
	ErrPropertyNil    = errors.New("schema: property is nil")
	ErrInvalidKey     = errors.New("schema: invalid property key")
	ErrRegistryFrozen = errors.New("schema: registry already initialized")
)

type entry struct {
	key      string
	def      Definition
	internal bool
}

// Registry is the schema of one object type. It maps display names to
// definitions and, once initialized, binds every definition's display name to
// the key it was registered under. After Initialize the registry is read only.
//
// A definition may belong to several registries (an appointment schema
// inherits the item schema) as long as it is registered under the same key
// everywhere.
type Registry struct {
	objectName string

	mu         sync.RWMutex
	entries    []entry
	byKey      map[string]Definition
	keyOf      map[Definition]string
	byElement  map[string]Definition
	associated []Definition

	once    sync.Once
	initErr error
	frozen  atomic.Bool
}

// NewRegistry creates an empty schema for objects serialized as objectName
// elements, e.g. "Item" or "CalendarItem".
func NewRegistry(objectName string) *Registry {
	return &Registry{
		objectName: objectName,
		byKey:      make(map[string]Definition),
		keyOf:      make(map[Definition]string),
		byElement:  make(map[string]Definition),
	}
}

func (r *Registry) ObjectName() string {
	return r.objectName
}

// Register adds a visible definition under key.
func (r *Registry) Register(key string, d Definition) error {
	return r.register(key, d, false)
}

// RegisterInternal adds a definition that is loadable from the wire but not
// listed by Definitions.
func (r *Registry) RegisterInternal(key string, d Definition) error {
	return r.register(key, d, true)
}

// Inherit registers every definition of parent, preserving order and
// visibility.
func (r *Registry) Inherit(parent *Registry) error {
	if parent == nil {
		return ErrPropertyNil
	}
	for _, e := range parent.snapshot() {
		if err := r.register(e.key, e.def, e.internal); err != nil {
			return fmt.Errorf("inherit %s: %w", parent.objectName, err)
		}
	}
	return nil
}

func (r *Registry) register(key string, d Definition, internal bool) error {
	if d == nil {
		return ErrPropertyNil
	}
	if !isValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return ErrRegistryFrozen
	}
	if _, ok := r.byKey[key]; ok {
		return fmt.Errorf("%w: key %s", ErrPropertyExists, key)
	}
	if prev, ok := r.keyOf[d]; ok {
		return fmt.Errorf("%w: %s already registered as %s", ErrPropertyExists, key, prev)
	}
	if other, ok := r.byElement[d.XMLElement()]; ok {
		return fmt.Errorf(
			"%w: element %s used by %s",
			ErrPropertyExists,
			d.XMLElement(),
			r.keyOf[other],
		)
	}

	r.entries = append(r.entries, entry{key: key, def: d, internal: internal})
	r.byKey[key] = d
	r.keyOf[d] = key
	r.byElement[d.XMLElement()] = d
	r.associated = append(r.associated, AssociatedInternalProperties(d)...)
	return nil
}

// Initialize binds display names. It runs once; concurrent and later calls
// wait for and return the first run's result. Static schemas initialize
// during package init, before logging is configured, so Initialize does not
// log.
func (r *Registry) Initialize() error {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.initErr = r.bindNames()
		r.frozen.Store(true)
	})
	return r.initErr
}

// MustInitialize is Initialize for static schemas; a failure is a declaration
// defect.
func (r *Registry) MustInitialize() *Registry {
	if err := r.Initialize(); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) bindNames() error {
	for _, e := range r.entries {
		if err := e.def.base().setName(e.key); err != nil {
			return err
		}
	}
	for _, d := range r.associated {
		if _, ok := r.keyOf[d]; !ok {
			return protocol.SchemaLogicError{
				Property: d.XMLElement(),
				Reason:   "associated internal property was never registered",
			}
		}
	}
	return nil
}

func (r *Registry) Initialized() bool {
	return r.frozen.Load()
}

// Lookup returns the definition registered under key.
func (r *Registry) Lookup(key string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byKey[key]
	return d, ok
}

// KeyOf returns the key d was registered under.
func (r *Registry) KeyOf(d Definition) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.keyOf[d]
	return key, ok
}

// ByXMLElement resolves a wire element local name, internal definitions
// included.
func (r *Registry) ByXMLElement(local string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byElement[local]
	return d, ok
}

// Definitions returns the visible definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.entries))
	for _, e := range r.entries {
		if !e.internal {
			out = append(out, e.def)
		}
	}
	return out
}

// All returns every definition in registration order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.def
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Contains reports whether d belongs to this schema.
func (r *Registry) Contains(d Definition) bool {
	_, ok := r.KeyOf(d)
	return ok
}

func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// isValidKey accepts Go style identifiers: a letter followed by letters and
// digits.
func isValidKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if !(isLetter || isDigit) {
			return false
		}
	}
	return true
}
