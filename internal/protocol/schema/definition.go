package schema

import (
	"sync/atomic"

	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
)

// Definition describes one wire level field of an object.
//
// Concrete definitions embed *Base, which supplies everything except the two
// marshalling operations. Definitions are compared by identity: use them
// through the pointer returned by their constructor.
type Definition interface {
	XMLElement() string
	URI() string
	Version() protocol.Version
	Flags() FlagSet

	// HasFlag reports whether flag applies to a server speaking v.
	HasFlag(flag Flag, v protocol.Version) bool
	IsNullable() bool

	// Name is the display name bound by a Registry, "" until then.
	Name() string
	PrintableName() string

	// LoadFromXML decodes the element the reader is positioned on into b.
	LoadFromXML(r *xmlwire.Reader, b *Bag) error
	// WriteToXML emits at most one element holding b's value for this
	// definition.
	WriteToXML(w *xmlwire.Writer, b *Bag, isUpdate bool) error

	base() *Base
}

// InternalPropertyRegistrar is implemented by composite definitions that carry
// shadow definitions along with them.
type InternalPropertyRegistrar interface {
	// RegisterAssociatedInternalProperties appends to into. It must not
	// reorder or drop what is already there.
	RegisterAssociatedInternalProperties(into *[]Definition)
}

// TextCodec is implemented by definitions whose values have a plain text form.
type TextCodec interface {
	ParseText(text string) (any, error)
	FormatText(value any) (string, error)
}

// Base holds the state shared by every definition.
type Base struct {
	xmlElement string
	uri        string
	flags      FlagSet
	version    protocol.Version
	name       atomic.Pointer[string]
}

type BaseOption func(*Base)

// WithURI sets the field URI used to address the property in property sets
// and update change descriptions, e.g. "item:Subject".
func WithURI(uri string) BaseOption {
	return func(b *Base) {
		b.uri = uri
	}
}

func WithFlags(flags ...Flag) BaseOption {
	return func(b *Base) {
		b.flags = NewFlagSet(flags...)
	}
}

// NewBase builds the shared part of a definition. With no WithFlags option the
// flag set holds only None. Definitions are declared statically, so an empty
// element name or unknown version panics.
func NewBase(xmlElement string, v protocol.Version, opts ...BaseOption) *Base {
	if xmlElement == "" {
		panic("schema: definition without xml element name")
	}
	if !v.Valid() {
		panic("schema: definition " + xmlElement + " has invalid version " + v.String())
	}
	b := &Base{xmlElement: xmlElement, version: v}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Base) base() *Base { return b }

func (b *Base) XMLElement() string { return b.xmlElement }

func (b *Base) URI() string { return b.uri }

// Version is the first protocol version that recognizes the property.
func (b *Base) Version() protocol.Version { return b.version }

func (b *Base) Flags() FlagSet { return b.flags }

// HasFlag answers from the flag set alone; definitions whose flags depend on
// the server version override it.
func (b *Base) HasFlag(flag Flag, _ protocol.Version) bool {
	return b.flags.Has(flag)
}

func (b *Base) IsNullable() bool { return true }

func (b *Base) Name() string {
	if p := b.name.Load(); p != nil {
		return *p
	}
	return ""
}

func (b *Base) PrintableName() string { return b.Name() }

// setName binds the display name once. Rebinding to the same name is a no-op.
func (b *Base) setName(name string) error {
	if name == "" {
		return protocol.SchemaLogicError{Property: b.xmlElement, Reason: "empty display name"}
	}
	if b.name.CompareAndSwap(nil, &name) {
		return nil
	}
	if current := b.Name(); current != name {
		return protocol.SchemaLogicError{
			Property: current,
			Reason:   "display name already bound, refusing " + name,
		}
	}
	return nil
}

// AssociatedInternalProperties returns the shadow definitions d carries. The
// list is rebuilt on every call.
func AssociatedInternalProperties(d Definition) []Definition {
	out := make([]Definition, 0)
	if reg, ok := d.(InternalPropertyRegistrar); ok {
		reg.RegisterAssociatedInternalProperties(&out)
	}
	return out
}

// CheckVersion returns a VersionError when d is newer than v.
func CheckVersion(d Definition, v protocol.Version) error {
	if v.Supports(d.Version()) {
		return nil
	}
	return protocol.VersionError{Property: DisplayName(d), Required: d.Version(), Actual: v}
}

// DisplayName prefers the bound name and falls back to the element name for
// definitions that were never registered.
func DisplayName(d Definition) string {
	if name := d.PrintableName(); name != "" {
		return name
	}
	return d.XMLElement()
}

// EffectiveFlags is the set of flags d reports against a server speaking v.
func EffectiveFlags(d Definition, v protocol.Version) FlagSet {
	var flags []Flag
	for f := CanRead; f < flagCount; f++ {
		if d.HasFlag(f, v) {
			flags = append(flags, f)
		}
	}
	return NewFlagSet(flags...)
}
