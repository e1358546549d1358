package schema

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoSchema  = errors.New("schema: bag has no schema")
	ErrNewObject = errors.New("schema: object has not been saved")
)

// Bag stores the property values of one object instance and tracks which of
// them changed since the object was loaded or committed. A Bag is not safe
// for concurrent use.
type Bag struct {
	schema  *Registry
	version protocol.Version

	values   map[Definition]any
	modified map[Definition]struct{}
	order    []Definition

	loaded          bool
	omitUnsupported bool
}

type BagOption func(*Bag)

// Aliased is implemented by legacy definitions that stand in for another
// definition on older servers. While the alias applies both definitions share
// one value slot, keyed by the definition returned.
type Aliased interface {
	AliasOf(v protocol.Version) (Definition, bool)
}

// WithVersionOmission makes Load skip elements for properties the bag's
// version does not know instead of failing with a VersionError.
func WithVersionOmission() BagOption {
	return func(b *Bag) {
		b.omitUnsupported = true
	}
}

// NewBag creates the bag of a new object of the given schema, owned by an
// object speaking version v. A nil schema is allowed for single property use;
// object level Load and Write calls then fail with ErrNoSchema.
func NewBag(schema *Registry, v protocol.Version, opts ...BagOption) *Bag {
	b := &Bag{
		schema:   schema,
		version:  v,
		values:   make(map[Definition]any),
		modified: make(map[Definition]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bag) Schema() *Registry { return b.schema }

// Version is the protocol version of the owning object.
func (b *Bag) Version() protocol.Version { return b.version }

// IsNew reports whether the object was never loaded from or committed to the
// server.
func (b *Bag) IsNew() bool { return !b.loaded }

// Get returns the stored value. A stored nil means the property was
// explicitly cleared.
func (b *Bag) Get(d Definition) (any, bool) {
	v, ok := b.values[b.slot(d)]
	return v, ok
}

func (b *Bag) Contains(d Definition) bool {
	_, ok := b.values[b.slot(d)]
	return ok
}

// slot is the definition d's value is stored under for the bag's version.
func (b *Bag) slot(d Definition) Definition {
	if a, ok := d.(Aliased); ok {
		if target, ok := a.AliasOf(b.version); ok && target != nil {
			return target
		}
	}
	return d
}

// Set stores value for d on behalf of the object model and marks d modified.
// New objects accept properties writable on create, saved objects those
// writable on update.
func (b *Bag) Set(d Definition, value any) error {
	if err := b.admit(d); err != nil {
		return err
	}
	flag := CanWriteOnCreate
	if b.loaded {
		flag = CanWriteOnUpdate
	}
	if !d.HasFlag(flag, b.version) {
		return protocol.ValidationError{
			Property: DisplayName(d),
			Reason:   fmt.Sprintf("property is read-only (%s not set)", flag),
		}
	}
	d = b.slot(d)
	b.values[d] = value
	b.markModified(d)
	return nil
}

// SetLoaded stores a value decoded from the wire. It does not mark d
// modified.
func (b *Bag) SetLoaded(d Definition, value any) error {
	if err := b.admit(d); err != nil {
		return err
	}
	b.values[b.slot(d)] = value
	return nil
}

// Delete clears d. On a saved object this becomes a delete change
// description and requires CanDelete.
func (b *Bag) Delete(d Definition) error {
	if err := b.admit(d); err != nil {
		return err
	}
	slot := b.slot(d)
	if !b.loaded {
		delete(b.values, slot)
		b.unmarkModified(slot)
		return nil
	}
	if !d.HasFlag(CanDelete, b.version) {
		return protocol.ValidationError{Property: DisplayName(d), Reason: "property cannot be deleted"}
	}
	d = slot
	b.values[d] = nil
	b.markModified(d)
	return nil
}

func (b *Bag) admit(d Definition) error {
	if d == nil {
		return ErrPropertyNil
	}
	if err := CheckVersion(d, b.version); err != nil {
		return err
	}
	if b.schema != nil && !b.schema.Contains(d) {
		return protocol.ValidationError{
			Property: DisplayName(d),
			Reason:   "not part of the " + b.schema.ObjectName() + " schema",
		}
	}
	return nil
}

func (b *Bag) IsModified(d Definition) bool {
	_, ok := b.modified[b.slot(d)]
	return ok
}

// Modified returns changed definitions in the order they were first changed.
func (b *Bag) Modified() []Definition {
	out := make([]Definition, len(b.order))
	copy(out, b.order)
	return out
}

func (b *Bag) IsDirty() bool {
	return len(b.order) != 0
}

// ClearChanges forgets modifications after a successful commit. The object
// counts as saved from then on.
func (b *Bag) ClearChanges() {
	b.modified = make(map[Definition]struct{})
	b.order = nil
	b.loaded = true
}

// Reset drops every value and modification ahead of a reload.
func (b *Bag) Reset() {
	b.values = make(map[Definition]any)
	b.modified = make(map[Definition]struct{})
	b.order = nil
}

func (b *Bag) markModified(d Definition) {
	if _, ok := b.modified[d]; ok {
		return
	}
	b.modified[d] = struct{}{}
	b.order = append(b.order, d)
}

func (b *Bag) unmarkModified(d Definition) {
	if _, ok := b.modified[d]; !ok {
		return
	}
	delete(b.modified, d)
	for i, m := range b.order {
		if m == d {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Load replaces the bag's content with the object element the reader is
// positioned on. Unknown child elements are skipped. If decoding fails the
// bag keeps its previous content and modifications.
func (b *Bag) Load(r *xmlwire.Reader) error {
	if b.schema == nil {
		return ErrNoSchema
	}
	start, err := r.Current()
	if err != nil {
		return err
	}
	if start.Name.Local != b.schema.ObjectName() {
		return protocol.DeserializationError{
			Property: b.schema.ObjectName(),
			Element:  start.Name.Local,
			Err:      fmt.Errorf("expected %s element", b.schema.ObjectName()),
		}
	}

	prev := b.stash()
	b.Reset()
	if err := b.loadChildren(r); err != nil {
		b.restore(prev)
		return err
	}
	b.ClearChanges()
	log.Debug().Str("schema", b.schema.ObjectName()).Int("properties", len(b.values)).Msg("bag loaded")
	return nil
}

func (b *Bag) loadChildren(r *xmlwire.Reader) error {
	depth := r.Depth()
	for {
		ok, err := r.NextChild(depth)
		if err != nil {
			return protocol.DeserializationError{Property: b.schema.ObjectName(), Err: err}
		}
		if !ok {
			return nil
		}
		local := r.LocalName()
		d, found := b.schema.ByXMLElement(local)
		if !found {
			log.Debug().Str("schema", b.schema.ObjectName()).Str("element", local).Msg("skipping unknown element")
			continue
		}
		if err := b.LoadProperty(d, r); err != nil {
			if b.omitUnsupported && protocol.KindOf(err) == protocol.KindVersion {
				log.Debug().Str("property", DisplayName(d)).Str("version", b.version.String()).Msg("omitting unsupported property")
				continue
			}
			return err
		}
	}
}

type bagState struct {
	values   map[Definition]any
	modified map[Definition]struct{}
	order    []Definition
	loaded   bool
}

func (b *Bag) stash() bagState {
	return bagState{values: b.values, modified: b.modified, order: b.order, loaded: b.loaded}
}

func (b *Bag) restore(s bagState) {
	b.values = s.values
	b.modified = s.modified
	b.order = s.order
	b.loaded = s.loaded
}

// LoadProperty decodes a single property from the element the reader is
// positioned on.
func (b *Bag) LoadProperty(d Definition, r *xmlwire.Reader) error {
	if d == nil {
		return ErrPropertyNil
	}
	return d.LoadFromXML(r, b)
}

// Validate checks that every required property writable on create has a
// value.
func (b *Bag) Validate() error {
	if b.schema == nil {
		return ErrNoSchema
	}
	for _, d := range b.schema.Definitions() {
		if !b.version.Supports(d.Version()) {
			continue
		}
		if !d.HasFlag(Required, b.version) {
			continue
		}
		if v, ok := b.values[d]; !ok || v == nil {
			return protocol.ValidationError{Property: DisplayName(d), Reason: "required property has no value"}
		}
	}
	return nil
}

// WriteToXML writes the object element for a create request: every visible
// property writable on create that holds a value. Properties newer than the
// bag's version are omitted.
func (b *Bag) WriteToXML(w *xmlwire.Writer, attrs ...xml.Attr) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := w.StartElement(b.schema.ObjectName(), attrs...); err != nil {
		return protocol.SerializationError{Property: b.schema.ObjectName(), Err: err}
	}
	for _, d := range b.schema.Definitions() {
		if !b.version.Supports(d.Version()) {
			if b.Contains(d) {
				log.Debug().Str("property", DisplayName(d)).Str("version", b.version.String()).Msg("omitting unsupported property")
			}
			continue
		}
		if !d.HasFlag(CanWriteOnCreate, b.version) {
			continue
		}
		if err := d.WriteToXML(w, b, false); err != nil {
			return err
		}
	}
	if err := w.EndElement(); err != nil {
		return protocol.SerializationError{Property: b.schema.ObjectName(), Err: err}
	}
	return nil
}

// WriteUpdatesToXML writes one change description per modified property:
// SetItemField for values, DeleteItemField for cleared properties.
func (b *Bag) WriteUpdatesToXML(w *xmlwire.Writer) error {
	if b.schema == nil {
		return ErrNoSchema
	}
	if !b.loaded {
		return ErrNewObject
	}
	for _, d := range b.order {
		value := b.values[d]
		var err error
		if value == nil {
			err = b.writeDeleteField(w, d)
		} else {
			err = b.writeSetField(w, d)
		}
		if err != nil {
			return err
		}
	}
	log.Debug().Str("schema", b.schema.ObjectName()).Int("changes", len(b.order)).Msg("updates written")
	return nil
}

func (b *Bag) writeSetField(w *xmlwire.Writer, d Definition) error {
	if !d.HasFlag(CanWriteOnUpdate, b.version) {
		return protocol.ValidationError{Property: DisplayName(d), Reason: "property cannot be updated"}
	}
	return wrapElement(w, d, "SetItemField", func() error {
		if err := WriteFieldURI(w, d, b.version); err != nil {
			return err
		}
		return wrapElement(w, d, b.schema.ObjectName(), func() error {
			return d.WriteToXML(w, b, true)
		})
	})
}

func (b *Bag) writeDeleteField(w *xmlwire.Writer, d Definition) error {
	if !d.HasFlag(CanDelete, b.version) {
		return protocol.ValidationError{Property: DisplayName(d), Reason: "property cannot be deleted"}
	}
	return wrapElement(w, d, "DeleteItemField", func() error {
		return WriteFieldURI(w, d, b.version)
	})
}
