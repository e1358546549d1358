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

var errMissingZone = errors.New("missing time zone id")

// TimeZone is a Windows time zone identifier with an optional display name.
type TimeZone struct {
	ID   string
	Name string
}

// TimeZoneProperty carries a TimeZone in attributes of an empty element. The
// current form uses Id and Name; the legacy form, still sent to older
// servers, uses TimeZoneName only.
//
// A current form property can be backed by a legacy one for servers older
// than a cutoff version. Against those servers its flags are the legacy
// property's flags and it is written in the legacy form. The legacy property
// is reported as an associated internal property so schemas registering the
// current one also learn to load the legacy element. Against older servers
// the two share one value in a bag.
type TimeZoneProperty struct {
	*schema.Base
	idAttr   string
	nameAttr string

	legacy       *TimeZoneProperty
	legacyBefore protocol.Version

	// current is set on a legacy property backing a current one.
	current *TimeZoneProperty
}

// NewTimeZone defines a time zone property in the current Id/Name form.
func NewTimeZone(xmlElement string, v protocol.Version, opts ...schema.BaseOption) *TimeZoneProperty {
	return &TimeZoneProperty{Base: schema.NewBase(xmlElement, v, opts...), idAttr: "Id", nameAttr: "Name"}
}

// NewLegacyTimeZone defines a time zone property in the TimeZoneName form.
func NewLegacyTimeZone(xmlElement string, v protocol.Version, opts ...schema.BaseOption) *TimeZoneProperty {
	return &TimeZoneProperty{Base: schema.NewBase(xmlElement, v, opts...), idAttr: "TimeZoneName"}
}

// WithLegacy backs p by legacy for servers older than before.
func (p *TimeZoneProperty) WithLegacy(legacy *TimeZoneProperty, before protocol.Version) *TimeZoneProperty {
	p.legacy = legacy
	p.legacyBefore = before
	legacy.current = p
	return p
}

// Legacy returns the backing legacy property, nil if none.
func (p *TimeZoneProperty) Legacy() *TimeZoneProperty {
	return p.legacy
}

func (p *TimeZoneProperty) RegisterAssociatedInternalProperties(into *[]schema.Definition) {
	if p.legacy != nil {
		*into = append(*into, p.legacy)
	}
}

// AliasOf reports the current property p stands in for against v.
func (p *TimeZoneProperty) AliasOf(v protocol.Version) (schema.Definition, bool) {
	if p.current == nil || !p.current.usesLegacy(v) {
		return nil, false
	}
	return p.current, true
}

func (p *TimeZoneProperty) usesLegacy(v protocol.Version) bool {
	return p.legacy != nil && !v.Supports(p.legacyBefore)
}

func (p *TimeZoneProperty) URIFor(v protocol.Version) string {
	if p.usesLegacy(v) {
		return p.legacy.URI()
	}
	return p.URI()
}

func (p *TimeZoneProperty) HasFlag(flag schema.Flag, v protocol.Version) bool {
	if p.usesLegacy(v) {
		return p.legacy.HasFlag(flag, v)
	}
	return p.Base.HasFlag(flag, v)
}

func (p *TimeZoneProperty) LoadFromXML(r *xmlwire.Reader, b *schema.Bag) error {
	if err := schema.CheckVersion(p, b.Version()); err != nil {
		return err
	}
	element := r.LocalName()
	id, ok := r.Attr(p.idAttr)
	if !ok || strings.TrimSpace(id) == "" {
		return schema.DecodeError(p, element, errMissingZone)
	}
	tz := TimeZone{ID: id}
	if p.nameAttr != "" {
		tz.Name, _ = r.Attr(p.nameAttr)
	}
	if err := r.Skip(); err != nil {
		return schema.DecodeError(p, element, err)
	}
	return b.SetLoaded(p, tz)
}

func (p *TimeZoneProperty) WriteToXML(w *xmlwire.Writer, b *schema.Bag, isUpdate bool) error {
	value, ok, err := schema.ValueToWrite(p, b, isUpdate)
	if err != nil || !ok {
		return err
	}
	tz, ok := value.(TimeZone)
	if !ok {
		return schema.EncodeError(p, fmt.Errorf("value of type %T, want TimeZone", value))
	}
	if strings.TrimSpace(tz.ID) == "" {
		return protocol.ValidationError{Property: schema.DisplayName(p), Reason: "time zone id is empty"}
	}
	form := p
	if p.usesLegacy(b.Version()) {
		form = p.legacy
	}
	attrs := []xml.Attr{xmlwire.Attr(form.idAttr, tz.ID)}
	if form.nameAttr != "" && tz.Name != "" {
		attrs = append(attrs, xmlwire.Attr(form.nameAttr, tz.Name))
	}
	if err := w.WriteEmptyElement(form.XMLElement(), attrs...); err != nil {
		return schema.EncodeError(p, err)
	}
	return nil
}

func (p *TimeZoneProperty) ParseText(text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, protocol.ValidationError{Property: schema.DisplayName(p), Reason: errMissingZone.Error()}
	}
	return TimeZone{ID: text}, nil
}

func (p *TimeZoneProperty) FormatText(value any) (string, error) {
	tz, ok := value.(TimeZone)
	if !ok {
		return "", schema.EncodeError(p, fmt.Errorf("value of type %T, want TimeZone", value))
	}
	return tz.ID, nil
}
