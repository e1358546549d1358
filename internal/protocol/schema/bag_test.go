package schema_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/danmuck/ewsctl/internal/protocol/schema/props"
	"github.com/danmuck/ewsctl/internal/protocol/xmlwire"
	"github.com/danmuck/ewsctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteSchema struct {
	reg      *schema.Registry
	subject  *props.Simple[string]
	size     *props.Simple[int]
	pinned   *props.Simple[bool]
	reminder *props.Simple[string]
	tags     *props.StringList
}

// newNoteSchema builds a small schema with fresh definitions; names bind once
// per definition so tests never share them.
func newNoteSchema(t *testing.T) noteSchema {
	t.Helper()
	s := noteSchema{
		subject: props.NewString("Subject", protocol.Exchange2007SP1,
			schema.WithURI("item:Subject"),
			schema.WithFlags(schema.CanRead, schema.CanWriteOnCreate, schema.CanWriteOnUpdate, schema.CanDelete)),
		size: props.NewInt("Size", protocol.Exchange2007SP1,
			schema.WithURI("item:Size"),
			schema.WithFlags(schema.CanRead)),
		pinned: props.NewBool("Pinned", protocol.Exchange2007SP1,
			schema.WithURI("note:Pinned"),
			schema.WithFlags(schema.CanWriteOnCreate, schema.Required)),
		reminder: props.NewString("Reminder", protocol.Exchange2010,
			schema.WithURI("note:Reminder"),
			schema.WithFlags(schema.CanWriteOnCreate, schema.CanWriteOnUpdate)),
		tags: props.NewStringList("Tags", "String", protocol.Exchange2007SP1,
			schema.WithFlags(schema.CanWriteOnCreate, schema.CanWriteOnUpdate)),
	}
	s.reg = schema.NewRegistry("Note")
	require.NoError(t, s.reg.Register("Subject", s.subject))
	require.NoError(t, s.reg.Register("Size", s.size))
	require.NoError(t, s.reg.Register("Pinned", s.pinned))
	require.NoError(t, s.reg.Register("Reminder", s.reminder))
	require.NoError(t, s.reg.Register("Tags", s.tags))
	require.NoError(t, s.reg.Initialize())
	return s
}

func render(t *testing.T, fn func(w *xmlwire.Writer) error) string {
	t.Helper()
	var buf bytes.Buffer
	w := xmlwire.NewWriter(&buf)
	require.NoError(t, fn(w))
	require.NoError(t, w.Flush())
	return buf.String()
}

func positioned(t *testing.T, doc string) *xmlwire.Reader {
	t.Helper()
	r := xmlwire.NewReader(strings.NewReader(doc))
	_, err := r.ReadStartElement()
	require.NoError(t, err)
	return r
}

func TestSubjectExampleRoundTrip(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)

	bag := schema.NewBag(s.reg, protocol.Exchange2007SP1)
	require.NoError(t, bag.Set(s.subject, "Hello"))
	assert.True(t, bag.IsModified(s.subject))

	out := render(t, func(w *xmlwire.Writer) error { return s.subject.WriteToXML(w, bag, false) })
	assert.Equal(t, "<Subject>Hello</Subject>", out)

	fresh := schema.NewBag(s.reg, protocol.Exchange2007SP1)
	require.NoError(t, s.subject.LoadFromXML(positioned(t, out), fresh))
	got, ok := fresh.Get(s.subject)
	require.True(t, ok)
	assert.Equal(t, "Hello", got)
	assert.False(t, fresh.IsModified(s.subject), "values read from the wire are not changes")
}

func TestWriteEmitsNothingWithoutValue(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	out := render(t, func(w *xmlwire.Writer) error { return s.subject.WriteToXML(w, bag, false) })
	assert.Empty(t, out)
}

func TestUpdateSuppressedWithoutUpdateFlag(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	require.NoError(t, bag.SetLoaded(s.size, 42))
	require.NoError(t, bag.Set(s.pinned, true))

	for _, d := range []schema.Definition{s.size, s.pinned} {
		out := render(t, func(w *xmlwire.Writer) error { return d.WriteToXML(w, bag, true) })
		assert.Empty(t, out, "%s must not be written on update", d.Name())
	}
	out := render(t, func(w *xmlwire.Writer) error { return s.size.WriteToXML(w, bag, false) })
	assert.Equal(t, "<Size>42</Size>", out)
}

func TestVersionGatingNeverDecodes(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	old := schema.NewBag(s.reg, protocol.Exchange2007SP1)

	r := positioned(t, "<Reminder>soon</Reminder>")
	err := s.reminder.LoadFromXML(r, old)
	assert.Equal(t, protocol.KindVersion, protocol.KindOf(err))
	assert.ErrorIs(t, err, protocol.ErrUnsupportedVersion)
	assert.False(t, old.Contains(s.reminder))
	assert.Equal(t, "Reminder", r.LocalName(), "element left unconsumed")

	assert.Equal(t, protocol.KindVersion, protocol.KindOf(old.Set(s.reminder, "soon")))
}

func TestSetRespectsLifecycleFlags(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)

	assert.Equal(t, protocol.KindValidation, protocol.KindOf(bag.Set(s.size, 1)), "read-only on create")
	require.NoError(t, bag.Set(s.pinned, true))

	bag.ClearChanges()
	assert.False(t, bag.IsNew())
	assert.Equal(t, protocol.KindValidation, protocol.KindOf(bag.Set(s.pinned, false)), "create-only on update")
	require.NoError(t, bag.Set(s.subject, "changed"))
	assert.Equal(t, []schema.Definition{s.subject}, bag.Modified())
}

func TestSetRejectsForeignDefinition(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	foreign := props.NewString("Foreign", protocol.Exchange2007SP1, schema.WithFlags(schema.CanWriteOnCreate))
	assert.Equal(t, protocol.KindValidation, protocol.KindOf(bag.Set(foreign, "x")))
	assert.ErrorIs(t, bag.Set(nil, "x"), schema.ErrPropertyNil)
}

func TestNonNullableNilFailsValidationOnWrite(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	require.NoError(t, bag.Set(s.pinned, nil))
	err := s.pinned.WriteToXML(xmlwire.NewWriter(&bytes.Buffer{}), bag, false)
	assert.Equal(t, protocol.KindValidation, protocol.KindOf(err))

	require.NoError(t, bag.Set(s.subject, nil))
	out := render(t, func(w *xmlwire.Writer) error { return s.subject.WriteToXML(w, bag, false) })
	assert.Empty(t, out, "nil on a nullable definition writes nothing")
}

func TestWrongValueTypeIsSerializationError(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	require.NoError(t, bag.Set(s.subject, 12))
	err := s.subject.WriteToXML(xmlwire.NewWriter(&bytes.Buffer{}), bag, false)
	assert.Equal(t, protocol.KindSerialization, protocol.KindOf(err))
	assert.ErrorIs(t, err, protocol.ErrUnencodableValue)
}

func TestBagLoadReplacesContent(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	require.NoError(t, bag.Set(s.subject, "stale"))

	doc := `<t:Note xmlns:t="` + xmlwire.TypesNamespace + `">
		<t:Subject>Fresh</t:Subject>
		<t:Unknown><t:Deep>x</t:Deep></t:Unknown>
		<t:Size>2048</t:Size>
		<t:Tags><t:String>a</t:String><t:String>b</t:String></t:Tags>
		<t:Reminder>later</t:Reminder>
	</t:Note>`
	require.NoError(t, bag.Load(positioned(t, doc)))

	assert.False(t, bag.IsNew())
	assert.False(t, bag.IsDirty())
	v, _ := bag.Get(s.subject)
	assert.Equal(t, "Fresh", v)
	v, _ = bag.Get(s.size)
	assert.Equal(t, 2048, v)
	v, _ = bag.Get(s.tags)
	assert.Equal(t, []string{"a", "b"}, v)
	v, _ = bag.Get(s.reminder)
	assert.Equal(t, "later", v)
	assert.False(t, bag.Contains(s.pinned))
}

func TestBagLoadVersionPolicy(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	doc := `<Note><Reminder>later</Reminder><Subject>kept</Subject></Note>`

	strict := schema.NewBag(s.reg, protocol.Exchange2007SP1)
	err := strict.Load(positioned(t, doc))
	assert.Equal(t, protocol.KindVersion, protocol.KindOf(err))

	lenient := schema.NewBag(s.reg, protocol.Exchange2007SP1, schema.WithVersionOmission())
	require.NoError(t, lenient.Load(positioned(t, doc)))
	assert.False(t, lenient.Contains(s.reminder))
	v, _ := lenient.Get(s.subject)
	assert.Equal(t, "kept", v)
}

func TestBagLoadRejectsWrongObjectAndBadContent(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	assert.Equal(t, protocol.KindDeserialization, protocol.KindOf(bag.Load(positioned(t, "<Item/>"))))

	err := bag.Load(positioned(t, "<Note><Size>big</Size></Note>"))
	var de protocol.DeserializationError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Size", de.Property)
	assert.Equal(t, "Size", de.Element)

	assert.ErrorIs(t, schema.NewBag(nil, protocol.Exchange2013).Load(positioned(t, "<Note/>")), schema.ErrNoSchema)
}

func TestBagFailedLoadKeepsPreviousState(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	require.NoError(t, bag.Load(positioned(t, "<Note><Subject>saved</Subject><Size>10</Size></Note>")))
	require.NoError(t, bag.Set(s.subject, "keep me"))

	err := bag.Load(positioned(t, "<Note><Subject>new</Subject><Size>abc</Size></Note>"))
	assert.Equal(t, protocol.KindDeserialization, protocol.KindOf(err))

	v, _ := bag.Get(s.subject)
	assert.Equal(t, "keep me", v)
	v, _ = bag.Get(s.size)
	assert.Equal(t, 10, v)
	assert.True(t, bag.IsModified(s.subject))
	assert.Equal(t, []schema.Definition{s.subject}, bag.Modified())
	assert.True(t, bag.IsDirty())
	assert.False(t, bag.IsNew())

	fresh := schema.NewBag(s.reg, protocol.Exchange2013)
	require.NoError(t, fresh.Set(s.subject, "draft"))
	require.Error(t, fresh.Load(positioned(t, "<Note><Size>abc</Size></Note>")))
	assert.True(t, fresh.IsNew())
	v, _ = fresh.Get(s.subject)
	assert.Equal(t, "draft", v)
}

func TestBagWriteToXMLForCreate(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2007SP1)

	err := bag.WriteToXML(xmlwire.NewWriter(&bytes.Buffer{}))
	var ve protocol.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Pinned", ve.Property)

	require.NoError(t, bag.Set(s.subject, "Groceries"))
	require.NoError(t, bag.Set(s.pinned, true))
	require.NoError(t, bag.Set(s.tags, []string{"home"}))
	require.NoError(t, bag.SetLoaded(s.size, 10))

	out := render(t, func(w *xmlwire.Writer) error { return bag.WriteToXML(w) })
	assert.Equal(t,
		"<Note><Subject>Groceries</Subject><Pinned>true</Pinned><Tags><String>home</String></Tags></Note>",
		out,
		"read-only Size is never written on create",
	)
}

func TestBagWriteUpdatesToXML(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	assert.ErrorIs(t, bag.WriteUpdatesToXML(xmlwire.NewWriter(&bytes.Buffer{})), schema.ErrNewObject)

	require.NoError(t, bag.Load(positioned(t, "<Note><Subject>Old</Subject><Reminder>r</Reminder></Note>")))
	require.NoError(t, bag.Set(s.reminder, "tomorrow"))
	require.NoError(t, bag.Delete(s.subject))
	assert.Equal(t, []schema.Definition{s.reminder, s.subject}, bag.Modified())

	out := render(t, func(w *xmlwire.Writer) error { return bag.WriteUpdatesToXML(w) })
	assert.Equal(t,
		`<SetItemField><FieldURI FieldURI="note:Reminder"></FieldURI><Note><Reminder>tomorrow</Reminder></Note></SetItemField>`+
			`<DeleteItemField><FieldURI FieldURI="item:Subject"></FieldURI></DeleteItemField>`,
		out,
	)

	bag.ClearChanges()
	assert.False(t, bag.IsDirty())
	assert.Equal(t, protocol.KindValidation, protocol.KindOf(bag.Delete(s.reminder)), "Reminder lacks CanDelete")
}

func TestBagUpdateNeedsFieldURI(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	bag.ClearChanges()
	require.NoError(t, bag.Set(s.tags, []string{"x"}))
	err := bag.WriteUpdatesToXML(xmlwire.NewWriter(&bytes.Buffer{}))
	assert.Equal(t, protocol.KindValidation, protocol.KindOf(err))
}

func TestDeleteOnNewObjectDropsValue(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	require.NoError(t, bag.Set(s.subject, "draft"))
	require.NoError(t, bag.Delete(s.subject))
	assert.False(t, bag.Contains(s.subject))
	assert.False(t, bag.IsDirty())
}

func TestResetClearsValuesAndChanges(t *testing.T) {
	testlog.Start(t)
	s := newNoteSchema(t)
	bag := schema.NewBag(s.reg, protocol.Exchange2013)
	require.NoError(t, bag.Set(s.subject, "draft"))
	bag.Reset()
	assert.False(t, bag.Contains(s.subject))
	assert.False(t, bag.IsModified(s.subject))
	assert.True(t, bag.IsNew())
}
