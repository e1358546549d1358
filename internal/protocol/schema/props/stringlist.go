package props

import (
	"fmt"
	"strings"

	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
)

// StringList is a nullable collection of strings, each written as an item
// element inside the property element:
//
//	<Categories><String>red</String><String>blue</String></Categories>
type StringList struct {
	*schema.Base
	itemElement string
}

func NewStringList(xmlElement, itemElement string, v protocol.Version, opts ...schema.BaseOption) *StringList {
	return &StringList{Base: schema.NewBase(xmlElement, v, opts...), itemElement: itemElement}
}

func (p *StringList) ItemElement() string { return p.itemElement }

func (p *StringList) LoadFromXML(r *xmlwire.Reader, b *schema.Bag) error {
	if err := schema.CheckVersion(p, b.Version()); err != nil {
		return err
	}
	element := r.LocalName()
	depth := r.Depth()
	values := make([]string, 0)
	for {
		ok, err := r.NextChild(depth)
		if err != nil {
			return schema.DecodeError(p, element, err)
		}
		if !ok {
			break
		}
		if r.LocalName() != p.itemElement {
			return schema.DecodeError(p, element, fmt.Errorf("unexpected item element %s", r.LocalName()))
		}
		text, err := r.ReadElementText()
		if err != nil {
			return schema.DecodeError(p, element, err)
		}
		values = append(values, text)
	}
	return b.SetLoaded(p, values)
}

func (p *StringList) WriteToXML(w *xmlwire.Writer, b *schema.Bag, isUpdate bool) error {
	value, ok, err := schema.ValueToWrite(p, b, isUpdate)
	if err != nil || !ok {
		return err
	}
	values, ok := value.([]string)
	if !ok {
		return schema.EncodeError(p, fmt.Errorf("value of type %T, want []string", value))
	}
	if err := w.StartElement(p.XMLElement()); err != nil {
		return schema.EncodeError(p, err)
	}
	for _, v := range values {
		if err := w.WriteElementValue(p.itemElement, v); err != nil {
			return schema.EncodeError(p, err)
		}
	}
	if err := w.EndElement(); err != nil {
		return schema.EncodeError(p, err)
	}
	return nil
}

// ParseText splits a comma separated list, trimming blanks.
func (p *StringList) ParseText(text string) (any, error) {
	values := make([]string, 0)
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values, nil
}

func (p *StringList) FormatText(value any) (string, error) {
	values, ok := value.([]string)
	if !ok {
		return "", schema.EncodeError(p, fmt.Errorf("value of type %T, want []string", value))
	}
	return strings.Join(values, ", "), nil
}
