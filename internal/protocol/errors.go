package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedVersion = errors.New("protocol: unsupported version")
	ErrMalformedElement   = errors.New("protocol: malformed element")
	ErrUnencodableValue   = errors.New("protocol: value cannot be encoded")
	ErrConstraint         = errors.New("protocol: constraint violated")
	ErrSchemaLogic        = errors.New("protocol: schema logic error")
)

// ErrorKind classifies the failures surfaced by property marshalling.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindDeserialization
	KindSerialization
	KindVersion
	KindValidation
	KindSchemaLogic
)

func (k ErrorKind) String() string {
	switch k {
	case KindDeserialization:
		return "deserialization"
	case KindSerialization:
		return "serialization"
	case KindVersion:
		return "version"
	case KindValidation:
		return "validation"
	case KindSchemaLogic:
		return "schema_logic"
	default:
		return "unknown"
	}
}

// KindOf reports the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	var (
		de DeserializationError
		se SerializationError
		ve VersionError
		va ValidationError
		sl SchemaLogicError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &ve):
		return KindVersion
	case errors.As(err, &de):
		return KindDeserialization
	case errors.As(err, &se):
		return KindSerialization
	case errors.As(err, &va):
		return KindValidation
	case errors.As(err, &sl):
		return KindSchemaLogic
	default:
		return KindUnknown
	}
}

// DeserializationError means XML content was present but could not be decoded
// into the property's value type.
type DeserializationError struct {
	Property string
	Element  string
	Err      error
}

func (e DeserializationError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("protocol: decode property=%s: %v", e.Property, e.Err)
	}
	return fmt.Sprintf("protocol: decode property=%s element=%s: %v", e.Property, e.Element, e.Err)
}

func (e DeserializationError) Unwrap() []error { return []error{ErrMalformedElement, e.Err} }

// SerializationError means a stored value could not be written.
type SerializationError struct {
	Property string
	Err      error
}

func (e SerializationError) Error() string {
	return fmt.Sprintf("protocol: encode property=%s: %v", e.Property, e.Err)
}

func (e SerializationError) Unwrap() []error { return []error{ErrUnencodableValue, e.Err} }

// VersionError means a property was used against a protocol version older than
// the one that introduced it. Callers commonly omit the property instead of
// failing.
type VersionError struct {
	Property string
	Required Version
	Actual   Version
}

func (e VersionError) Error() string {
	return fmt.Sprintf(
		"protocol: property=%s requires %s, have %s",
		e.Property,
		e.Required,
		e.Actual,
	)
}

func (e VersionError) Unwrap() error { return ErrUnsupportedVersion }

// ValidationError means a value violates a definition level constraint.
type ValidationError struct {
	Property string
	Reason   string
}

func (e ValidationError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("protocol: validation: %s", e.Reason)
	}
	return fmt.Sprintf("protocol: validation property=%s: %s", e.Property, e.Reason)
}

func (e ValidationError) Unwrap() error { return ErrConstraint }

// SchemaLogicError is a programming defect in a schema declaration.
type SchemaLogicError struct {
	Property string
	Reason   string
}

func (e SchemaLogicError) Error() string {
	return fmt.Sprintf("protocol: schema property=%s: %s", e.Property, e.Reason)
}

func (e SchemaLogicError) Unwrap() error { return ErrSchemaLogic }
