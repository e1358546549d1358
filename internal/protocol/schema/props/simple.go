package props

import (
	"fmt"

	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
)

// Simple is a definition whose value is carried as the text of its element.
type Simple[T comparable] struct {
	*schema.Base
	nullable bool
	parse    func(string) (T, error)
	format   func(T) (string, error)
}

func newSimple[T comparable](
	base *schema.Base,
	nullable bool,
	parse func(string) (T, error),
	format func(T) (string, error),
) *Simple[T] {
	return &Simple[T]{Base: base, nullable: nullable, parse: parse, format: format}
}

func (p *Simple[T]) IsNullable() bool { return p.nullable }

func (p *Simple[T]) LoadFromXML(r *xmlwire.Reader, b *schema.Bag) error {
	if err := schema.CheckVersion(p, b.Version()); err != nil {
		return err
	}
	element := r.LocalName()
	text, err := r.ReadElementText()
	if err != nil {
		return schema.DecodeError(p, element, err)
	}
	value, err := p.parse(text)
	if err != nil {
		return schema.DecodeError(p, element, err)
	}
	return b.SetLoaded(p, value)
}

func (p *Simple[T]) WriteToXML(w *xmlwire.Writer, b *schema.Bag, isUpdate bool) error {
	value, ok, err := schema.ValueToWrite(p, b, isUpdate)
	if err != nil || !ok {
		return err
	}
	text, err := p.FormatText(value)
	if err != nil {
		return err
	}
	return schema.WriteElementValue(w, p, text)
}

func (p *Simple[T]) ParseText(text string) (any, error) {
	value, err := p.parse(text)
	if err != nil {
		return nil, protocol.ValidationError{Property: schema.DisplayName(p), Reason: err.Error()}
	}
	return value, nil
}

func (p *Simple[T]) FormatText(value any) (string, error) {
	typed, ok := value.(T)
	if !ok {
		var zero T
		return "", schema.EncodeError(p, fmt.Errorf("value of type %T, want %T", value, zero))
	}
	text, err := p.format(typed)
	if err != nil {
		return "", schema.EncodeError(p, err)
	}
	return text, nil
}
