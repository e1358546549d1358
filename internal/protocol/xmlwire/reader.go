package xmlwire

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

var (
	ErrNoElement         = errors.New("xmlwire: no element")
	ErrNotPositioned     = errors.New("xmlwire: reader not positioned on an element")
	ErrUnexpectedChild   = errors.New("xmlwire: unexpected child element")
	ErrUnbalancedElement = errors.New("xmlwire: unbalanced element")
)

// Reader is the read port. It is positioned on one start element at a time and
// tracks the open element stack so callers can iterate children without
// caring whether a previous child was fully consumed.
type Reader struct {
	dec   *xml.Decoder
	stack []xml.StartElement
	cur   xml.StartElement
	valid bool
}

// NewReader wraps r. Documents declaring a non UTF-8 encoding in their prolog
// are transcoded.
func NewReader(r io.Reader) *Reader {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return &Reader{dec: dec}
}

// Depth is the number of open elements, counting the current one.
func (r *Reader) Depth() int {
	return len(r.stack)
}

// Current returns the element the reader is positioned on.
func (r *Reader) Current() (xml.StartElement, error) {
	if !r.valid {
		return xml.StartElement{}, ErrNotPositioned
	}
	return r.cur, nil
}

// LocalName is the local part of the current element name, or "" when the
// reader is not positioned.
func (r *Reader) LocalName() string {
	if !r.valid {
		return ""
	}
	return r.cur.Name.Local
}

// Attr returns the value of the current element's attribute with the given
// local name.
func (r *Reader) Attr(local string) (string, bool) {
	if !r.valid {
		return "", false
	}
	for _, a := range r.cur.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// ReadStartElement advances to the next start element at any depth and
// positions the reader on it.
func (r *Reader) ReadStartElement() (xml.StartElement, error) {
	for {
		tok, err := r.token()
		if err == io.EOF {
			return xml.StartElement{}, ErrNoElement
		}
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// ReadElement advances to the next start element and checks its local name.
func (r *Reader) ReadElement(local string) (xml.StartElement, error) {
	start, err := r.ReadStartElement()
	if err != nil {
		return start, err
	}
	if start.Name.Local != local {
		return start, fmt.Errorf("xmlwire: expected element %s, got %s", local, start.Name.Local)
	}
	return start, nil
}

// NextChild advances to the next child of the element that was open at
// depth. Unconsumed content of a previous child is skipped. It returns false
// once the parent's end element has been consumed.
func (r *Reader) NextChild(depth int) (bool, error) {
	if depth <= 0 || depth > len(r.stack) {
		return false, ErrNotPositioned
	}
	for {
		tok, err := r.token()
		if err == io.EOF {
			return false, io.ErrUnexpectedEOF
		}
		if err != nil {
			return false, err
		}
		switch tok.(type) {
		case xml.StartElement:
			if len(r.stack) == depth+1 {
				return true, nil
			}
			if err := r.Skip(); err != nil {
				return false, err
			}
		case xml.EndElement:
			if len(r.stack) < depth {
				return false, nil
			}
		}
	}
}

// ReadElementText consumes the current element and returns its character
// data. Child elements are an error.
func (r *Reader) ReadElementText() (string, error) {
	if !r.valid {
		return "", ErrNotPositioned
	}
	depth := len(r.stack)
	var sb strings.Builder
	for {
		tok, err := r.token()
		if err == io.EOF {
			return "", io.ErrUnexpectedEOF
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			return "", fmt.Errorf("%w: %s", ErrUnexpectedChild, t.Name.Local)
		case xml.EndElement:
			if len(r.stack) < depth {
				return sb.String(), nil
			}
		}
	}
}

// Skip consumes the remainder of the current element, including its end.
func (r *Reader) Skip() error {
	if !r.valid || len(r.stack) == 0 {
		return ErrNotPositioned
	}
	if err := r.dec.Skip(); err != nil {
		return err
	}
	r.stack = r.stack[:len(r.stack)-1]
	r.valid = false
	return nil
}

func (r *Reader) token() (xml.Token, error) {
	tok, err := r.dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case xml.StartElement:
		r.stack = append(r.stack, t.Copy())
		r.cur = r.stack[len(r.stack)-1]
		r.valid = true
	case xml.EndElement:
		if len(r.stack) == 0 {
			return nil, ErrUnbalancedElement
		}
		r.stack = r.stack[:len(r.stack)-1]
		r.valid = false
	}
	return tok, nil
}
