package itemschema

import (
	"github.com/danmuck/ewsctl/internal/protocol"
	"github.com/danmuck/ewsctl/internal/protocol/schema"
	"github.com/danmuck/ewsctl/internal/protocol/schema/props"
)

var (
	Start = props.NewDateTime(
		"Start",
		protocol.Exchange2007SP1,
		schema.WithURI("calendar:Start"),
		schema.WithFlags(
			schema.CanRead,
			schema.CanWriteOnCreate,
			schema.CanWriteOnUpdate,
			schema.CanFind,
			schema.Required,
		),
	)

	End = props.NewDateTime(
		"End",
		protocol.Exchange2007SP1,
		schema.WithURI("calendar:End"),
		schema.WithFlags(
			schema.CanRead,
			schema.CanWriteOnCreate,
			schema.CanWriteOnUpdate,
			schema.CanFind,
			schema.Required,
		),
	)

	IsAllDayEvent = props.NewBool(
		"IsAllDayEvent",
		protocol.Exchange2007SP1,
		schema.WithURI("calendar:IsAllDayEvent"),
		schema.WithFlags(schema.CanRead, schema.CanWriteOnCreate, schema.CanWriteOnUpdate, schema.CanFind),
	)

	Location = props.NewString(
		"Location",
		protocol.Exchange2007SP1,
		schema.WithURI("calendar:Location"),
		schema.WithFlags(
			schema.CanRead,
			schema.CanWriteOnCreate,
			schema.CanWriteOnUpdate,
			schema.CanDelete,
			schema.CanFind,
		),
	)

	// MeetingTimeZone is only sent to and received from Exchange 2007 SP1
	// servers, on behalf of StartTimeZone.
	MeetingTimeZone = props.NewLegacyTimeZone(
		"MeetingTimeZone",
		protocol.Exchange2007SP1,
		schema.WithURI("calendar:MeetingTimeZone"),
		schema.WithFlags(schema.CanRead, schema.CanWriteOnCreate, schema.CanWriteOnUpdate),
	)

	StartTimeZone = props.NewTimeZone(
		"StartTimeZone",
		protocol.Exchange2007SP1,
		schema.WithURI("calendar:StartTimeZone"),
		schema.WithFlags(schema.CanRead, schema.CanWriteOnCreate, schema.CanWriteOnUpdate, schema.CanFind),
	).WithLegacy(MeetingTimeZone, protocol.Exchange2010)

	EndTimeZone = props.NewTimeZone(
		"EndTimeZone",
		protocol.Exchange2010,
		schema.WithURI("calendar:EndTimeZone"),
		schema.WithFlags(schema.CanRead, schema.CanWriteOnCreate, schema.CanWriteOnUpdate),
	)
)

// Appointment is the schema of calendar items.
var Appointment = newAppointmentSchema()

func newAppointmentSchema() *schema.Registry {
	r := schema.NewRegistry("CalendarItem")
	if err := r.Inherit(Item); err != nil {
		panic(err)
	}
	mustRegister(r, "Start", Start)
	mustRegister(r, "End", End)
	mustRegister(r, "IsAllDayEvent", IsAllDayEvent)
	mustRegister(r, "Location", Location)
	mustRegister(r, "StartTimeZone", StartTimeZone)
	mustRegister(r, "EndTimeZone", EndTimeZone)
	mustRegisterInternal(r, "MeetingTimeZone", MeetingTimeZone)
	return r.MustInitialize()
}
