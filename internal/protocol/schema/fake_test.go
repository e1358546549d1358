package schema

import (
	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
)

// fakeDef is a text valued definition for tests inside the package.
type fakeDef struct {
	*Base
	shadows []Definition
}

func newFake(xmlElement string, v protocol.Version, opts ...BaseOption) *fakeDef {
	return &fakeDef{Base: NewBase(xmlElement, v, opts...)}
}

func (f *fakeDef) RegisterAssociatedInternalProperties(into *[]Definition) {
	*into = append(*into, f.shadows...)
}

func (f *fakeDef) LoadFromXML(r *xmlwire.Reader, b *Bag) error {
	if err := CheckVersion(f, b.Version()); err != nil {
		return err
	}
	element := r.LocalName()
	text, err := r.ReadElementText()
	if err != nil {
		return DecodeError(f, element, err)
	}
	return b.SetLoaded(f, text)
}

func (f *fakeDef) WriteToXML(w *xmlwire.Writer, b *Bag, isUpdate bool) error {
	value, ok, err := ValueToWrite(f, b, isUpdate)
	if err != nil || !ok {
		return err
	}
	return WriteElementValue(w, f, value.(string))
}
