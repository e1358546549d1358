package itemschema

import (
	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/danmuck/ewsctl/internal/protocol/schema/props"
)

var (
	ItemID = props.NewItemID(
		"ItemId",
		protocol.Exchange2007SP1,
		schema.WithURI("item:ItemId"),
		schema.WithFlags(schema.CanRead, schema.CanFind),
	)

	Subject = props.NewString(
		"Subject",
		protocol.Exchange2007SP1,
		schema.WithURI("item:Subject"),
		schema.WithFlags(
			schema.CanRead,
			schema.CanWriteOnCreate,
			schema.CanWriteOnUpdate,
			schema.CanDelete,
			schema.CanFind,
		),
	)

	Sensitivity = props.NewEnum(
		"Sensitivity",
		protocol.Exchange2007SP1,
		sensitivityNames,
		schema.WithURI("item:Sensitivity"),
		schema.WithFlags(schema.CanRead, schema.CanWriteOnCreate, schema.CanWriteOnUpdate, schema.CanFind),
	)

	Categories = props.NewStringList(
		"Categories",
		"String",
		protocol.Exchange2007SP1,
		schema.WithURI("item:Categories"),
		schema.WithFlags(
			schema.CanRead,
			schema.CanWriteOnCreate,
			schema.CanWriteOnUpdate,
			schema.CanDelete,
			schema.CanFind,
			schema.AutoInstantiate,
		),
	)

	Importance = props.NewEnum(
		"Importance",
		protocol.Exchange2007SP1,
		importanceNames,
		schema.WithURI("item:Importance"),
		schema.WithFlags(schema.CanRead, schema.CanWriteOnCreate, schema.CanWriteOnUpdate, schema.CanFind),
	)

	DateTimeReceived = props.NewDateTime(
		"DateTimeReceived",
		protocol.Exchange2007SP1,
		schema.WithURI("item:DateTimeReceived"),
		schema.WithFlags(schema.CanRead, schema.CanFind),
	)

	Size = props.NewInt(
		"Size",
		protocol.Exchange2007SP1,
		schema.WithURI("item:Size"),
		schema.WithFlags(schema.CanRead, schema.CanFind),
	)

	DateTimeCreated = props.NewDateTime(
		"DateTimeCreated",
		protocol.Exchange2007SP1,
		schema.WithURI("item:DateTimeCreated"),
		schema.WithFlags(schema.CanRead, schema.CanFind),
	)

	IsAssociated = props.NewBool(
		"IsAssociated",
		protocol.Exchange2010,
		schema.WithURI("item:IsAssociated"),
		schema.WithFlags(schema.CanRead, schema.CanWriteOnCreate, schema.CanFind),
	)
)

// Item is the schema of generic items.
var Item = newItemSchema()

func newItemSchema() *schema.Registry {
	r := schema.NewRegistry("Item")
	registerItemProperties(r)
	return r.MustInitialize()
}

func registerItemProperties(r *schema.Registry) {
	mustRegister(r, "ItemID", ItemID)
	mustRegister(r, "Subject", Subject)
	mustRegister(r, "Sensitivity", Sensitivity)
	mustRegister(r, "Categories", Categories)
	mustRegister(r, "Importance", Importance)
	mustRegister(r, "DateTimeReceived", DateTimeReceived)
	mustRegister(r, "Size", Size)
	mustRegister(r, "DateTimeCreated", DateTimeCreated)
	mustRegister(r, "IsAssociated", IsAssociated)
}

func mustRegister(r *schema.Registry, key string, d schema.Definition) {
	if err := r.Register(key, d); err != nil {
		panic(err)
	}
}

func mustRegisterInternal(r *schema.Registry, key string, d schema.Definition) {
	if err := r.RegisterInternal(key, d); err != nil {
		panic(err)
	}
}
