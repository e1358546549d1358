package schema

import (
	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
)

// ValueToWrite applies the write preconditions every definition shares. A
// false result with a nil error means nothing is emitted: the bag holds no
// value, or this is an update and d cannot be written on update, or the value
// is an explicit nil on a nullable definition.
func ValueToWrite(d Definition, b *Bag, isUpdate bool) (any, bool, error) {
	value, found := b.Get(d)
	if !found {
		return nil, false, nil
	}
	if err := CheckVersion(d, b.Version()); err != nil {
		return nil, false, err
	}
	if isUpdate && !d.HasFlag(CanWriteOnUpdate, b.Version()) {
		return nil, false, nil
	}
	if value == nil {
		if !d.IsNullable() {
			return nil, false, protocol.ValidationError{
				Property: DisplayName(d),
				Reason:   "non-nullable property has no value",
			}
		}
		return nil, false, nil
	}
	return value, true, nil
}

// VersionedURI is implemented by definitions addressed differently on older
// servers.
type VersionedURI interface {
	URIFor(v protocol.Version) string
}

// FieldURI returns the field URI addressing d on a server speaking v.
func FieldURI(d Definition, v protocol.Version) string {
	if vu, ok := d.(VersionedURI); ok {
		return vu.URIFor(v)
	}
	return d.URI()
}

// WriteFieldURI emits the FieldURI element addressing d.
func WriteFieldURI(w *xmlwire.Writer, d Definition, v protocol.Version) error {
	uri := FieldURI(d, v)
	if uri == "" {
		return protocol.ValidationError{Property: DisplayName(d), Reason: "property has no field uri"}
	}
	if err := w.WriteEmptyElement("FieldURI", xmlwire.Attr("FieldURI", uri)); err != nil {
		return protocol.SerializationError{Property: DisplayName(d), Err: err}
	}
	return nil
}

// WriteElementValue emits d's element holding text.
func WriteElementValue(w *xmlwire.Writer, d Definition, text string) error {
	if err := w.WriteElementValue(d.XMLElement(), text); err != nil {
		return protocol.SerializationError{Property: DisplayName(d), Err: err}
	}
	return nil
}

// DecodeError wraps a read failure of d as a DeserializationError.
func DecodeError(d Definition, element string, err error) error {
	return protocol.DeserializationError{Property: DisplayName(d), Element: element, Err: err}
}

// EncodeError wraps a write failure of d as a SerializationError.
func EncodeError(d Definition, err error) error {
	return protocol.SerializationError{Property: DisplayName(d), Err: err}
}

func wrapElement(w *xmlwire.Writer, d Definition, name string, body func() error) error {
	if err := w.StartElement(name); err != nil {
		return EncodeError(d, err)
	}
	if err := body(); err != nil {
		return err
	}
	if err := w.EndElement(); err != nil {
		return EncodeError(d, err)
	}
	return nil
}
