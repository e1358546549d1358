package props

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
)

var errMissingID = errors.New("missing Id attribute")

// ItemID identifies one server object version.
type ItemID struct {
	ID        string
	ChangeKey string
}

func (id ItemID) String() string {
	if id.ChangeKey == "" {
		return id.ID
	}
	return id.ID + "/" + id.ChangeKey
}

// ItemIDProperty carries an ItemID in the Id and ChangeKey attributes of an
// empty element.
type ItemIDProperty struct {
	*schema.Base
}

func NewItemID(xmlElement string, v protocol.Version, opts ...schema.BaseOption) *ItemIDProperty {
	return &ItemIDProperty{Base: schema.NewBase(xmlElement, v, opts...)}
}

func (p *ItemIDProperty) LoadFromXML(r *xmlwire.Reader, b *schema.Bag) error {
	if err := schema.CheckVersion(p, b.Version()); err != nil {
		return err
	}
	element := r.LocalName()
	id, ok := r.Attr("Id")
	if !ok || id == "" {
		return schema.DecodeError(p, element, errMissingID)
	}
	changeKey, _ := r.Attr("ChangeKey")
	if err := r.Skip(); err != nil {
		return schema.DecodeError(p, element, err)
	}
	return b.SetLoaded(p, ItemID{ID: id, ChangeKey: changeKey})
}

func (p *ItemIDProperty) WriteToXML(w *xmlwire.Writer, b *schema.Bag, isUpdate bool) error {
	value, ok, err := schema.ValueToWrite(p, b, isUpdate)
	if err != nil || !ok {
		return err
	}
	id, ok := value.(ItemID)
	if !ok {
		return schema.EncodeError(p, fmt.Errorf("value of type %T, want ItemID", value))
	}
	if id.ID == "" {
		return protocol.ValidationError{Property: schema.DisplayName(p), Reason: "item id is empty"}
	}
	attrs := []xml.Attr{xmlwire.Attr("Id", id.ID)}
	if id.ChangeKey != "" {
		attrs = append(attrs, xmlwire.Attr("ChangeKey", id.ChangeKey))
	}
	if err := w.WriteEmptyElement(p.XMLElement(), attrs...); err != nil {
		return schema.EncodeError(p, err)
	}
	return nil
}

// ParseText accepts "id" or "id/changekey".
func (p *ItemIDProperty) ParseText(text string) (any, error) {
	id, changeKey, _ := strings.Cut(strings.TrimSpace(text), "/")
	if id == "" {
		return nil, protocol.ValidationError{Property: schema.DisplayName(p), Reason: "item id is empty"}
	}
	return ItemID{ID: id, ChangeKey: changeKey}, nil
}

func (p *ItemIDProperty) FormatText(value any) (string, error) {
	id, ok := value.(ItemID)
	if !ok {
		return "", schema.EncodeError(p, fmt.Errorf("value of type %T, want ItemID", value))
	}
	return id.String(), nil
}
