package xmlwire

import (
	"encoding/xml"
	"errors"
	"io"
)

var ErrNoOpenElement = errors.New("xmlwire: no open element")

// TypesNamespace is the namespace of the object model's type elements.
const TypesNamespace = "http://schemas.microsoft.com/exchange/services/2006/types"

// Writer is the write port. Element names are given unprefixed; the writer
// applies its configured prefix.
type Writer struct {
	enc    *xml.Encoder
	prefix string
	open   []xml.Name
}

type WriterOption func(*Writer)

// WithPrefix qualifies every element the writer emits, e.g. "t" for
// <t:Subject>. The default is no prefix.
func WithPrefix(prefix string) WriterOption {
	return func(w *Writer) {
		w.prefix = prefix
	}
}

func WithIndent(prefix, indent string) WriterOption {
	return func(w *Writer) {
		w.enc.Indent(prefix, indent)
	}
}

func NewWriter(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{enc: xml.NewEncoder(out)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Prefix returns the configured element prefix.
func (w *Writer) Prefix() string {
	return w.prefix
}

// Attr builds an unqualified attribute.
func Attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// NamespaceDecl declares the writer prefix for ns. It is meant for the
// outermost element the writer emits.
func (w *Writer) NamespaceDecl(ns string) xml.Attr {
	if w.prefix == "" {
		return Attr("xmlns", ns)
	}
	return Attr("xmlns:"+w.prefix, ns)
}

func (w *Writer) StartElement(name string, attrs ...xml.Attr) error {
	qn := w.qualify(name)
	if err := w.enc.EncodeToken(xml.StartElement{Name: qn, Attr: attrs}); err != nil {
		return err
	}
	w.open = append(w.open, qn)
	return nil
}

func (w *Writer) EndElement() error {
	if len(w.open) == 0 {
		return ErrNoOpenElement
	}
	qn := w.open[len(w.open)-1]
	w.open = w.open[:len(w.open)-1]
	return w.enc.EncodeToken(xml.EndElement{Name: qn})
}

// WriteElementValue emits <name>value</name> with value escaped.
func (w *Writer) WriteElementValue(name, value string, attrs ...xml.Attr) error {
	if err := w.StartElement(name, attrs...); err != nil {
		return err
	}
	if value != "" {
		if err := w.enc.EncodeToken(xml.CharData(value)); err != nil {
			return err
		}
	}
	return w.EndElement()
}

// WriteEmptyElement emits an element that carries only attributes.
func (w *Writer) WriteEmptyElement(name string, attrs ...xml.Attr) error {
	return w.WriteElementValue(name, "", attrs...)
}

// Flush writes buffered output. Every element opened must have been closed.
func (w *Writer) Flush() error {
	if len(w.open) != 0 {
		return ErrUnbalancedElement
	}
	return w.enc.Flush()
}

func (w *Writer) qualify(name string) xml.Name {
	if w.prefix == "" {
		return xml.Name{Local: name}
	}
	return xml.Name{Local: w.prefix + ":" + name}
}
