package model

import (
	"fmt"

	"github.com/crocme10/tartare-tools/pkg/collection"
)

// StopTimeKey addresses one stop time of a vehicle journey in side tables.
type StopTimeKey struct {
	VehicleJourney collection.Idx[VehicleJourney]
	Sequence       uint32
}

// Collections is a snapshot of a whole dataset.
type Collections struct {
	FeedInfos map[string]string

	Contributors     *collection.CollectionWithID[Contributor]
	Datasets         *collection.CollectionWithID[Dataset]
	Networks         *collection.CollectionWithID[Network]
	CommercialModes  *collection.CollectionWithID[CommercialMode]
	PhysicalModes    *collection.CollectionWithID[PhysicalMode]
	Lines            *collection.CollectionWithID[Line]
	Routes           *collection.CollectionWithID[Route]
	VehicleJourneys  *collection.CollectionWithID[VehicleJourney]
	StopPoints       *collection.CollectionWithID[StopPoint]
	StopAreas        *collection.CollectionWithID[StopArea]
	Comments         *collection.CollectionWithID[Comment]
	Calendars        *collection.CollectionWithID[Calendar]
	Companies        *collection.CollectionWithID[Company]
	Equipments       *collection.CollectionWithID[Equipment]
	TripProperties   *collection.CollectionWithID[TripProperty]
	Geometries       *collection.CollectionWithID[Geometry]
	Tickets          *collection.CollectionWithID[Ticket]
	TicketUses       *collection.CollectionWithID[TicketUse]
	GridCalendars    *collection.CollectionWithID[GridCalendar]

	Frequencies           *collection.Collection[Frequency]
	Transfers             *collection.Collection[Transfer]
	Pathways              *collection.Collection[Pathway]
	Levels                *collection.Collection[Level]
	AdminStations         *collection.Collection[AdminStation]
	PricesV1              *collection.Collection[PriceV1]
	ODFaresV1             *collection.Collection[ODFareV1]
	FaresV1               *collection.Collection[FareV1]
	TicketPrices          *collection.Collection[TicketPrice]
	TicketUsePerimeters   *collection.Collection[TicketUsePerimeter]
	TicketUseRestrictions *collection.Collection[TicketUseRestriction]
	GridExceptionDates    *collection.Collection[GridExceptionDate]
	GridPeriods           *collection.Collection[GridPeriod]
	GridRelCalendarLine   *collection.Collection[GridRelCalendarLine]

	StopTimeHeadsigns map[StopTimeKey]string
	StopTimeIDs       map[StopTimeKey]string
	StopTimeComments  map[StopTimeKey]collection.Idx[Comment]
}

func newWithID[T collection.Identifier](name string) *collection.CollectionWithID[T] {
	// an empty collection cannot hold duplicates
	c, _ := collection.NewCollectionWithID[T](name)
	return c
}

// New returns an empty snapshot.
func New() *Collections {
	return &Collections{
		FeedInfos: map[string]string{},

		Contributors:    newWithID[Contributor]("contributors"),
		Datasets:        newWithID[Dataset]("datasets"),
		Networks:        newWithID[Network]("networks"),
		CommercialModes: newWithID[CommercialMode]("commercial_modes"),
		PhysicalModes:   newWithID[PhysicalMode]("physical_modes"),
		Lines:           newWithID[Line]("lines"),
		Routes:          newWithID[Route]("routes"),
		VehicleJourneys: newWithID[VehicleJourney]("trips"),
		StopPoints:      newWithID[StopPoint]("stop_points"),
		StopAreas:       newWithID[StopArea]("stop_areas"),
		Comments:        newWithID[Comment]("comments"),
		Calendars:       newWithID[Calendar]("calendars"),
		Companies:       newWithID[Company]("companies"),
		Equipments:      newWithID[Equipment]("equipments"),
		TripProperties:  newWithID[TripProperty]("trip_properties"),
		Geometries:      newWithID[Geometry]("geometries"),
		Tickets:         newWithID[Ticket]("tickets"),
		TicketUses:      newWithID[TicketUse]("ticket_uses"),
		GridCalendars:   newWithID[GridCalendar]("grid_calendars"),

		Frequencies:           collection.NewCollection[Frequency](nil),
		Transfers:             collection.NewCollection[Transfer](nil),
		Pathways:              collection.NewCollection[Pathway](nil),
		Levels:                collection.NewCollection[Level](nil),
		AdminStations:         collection.NewCollection[AdminStation](nil),
		PricesV1:              collection.NewCollection[PriceV1](nil),
		ODFaresV1:             collection.NewCollection[ODFareV1](nil),
		FaresV1:               collection.NewCollection[FareV1](nil),
		TicketPrices:          collection.NewCollection[TicketPrice](nil),
		TicketUsePerimeters:   collection.NewCollection[TicketUsePerimeter](nil),
		TicketUseRestrictions: collection.NewCollection[TicketUseRestriction](nil),
		GridExceptionDates:    collection.NewCollection[GridExceptionDate](nil),
		GridPeriods:           collection.NewCollection[GridPeriod](nil),
		GridRelCalendarLine:   collection.NewCollection[GridRelCalendarLine](nil),

		StopTimeHeadsigns: map[StopTimeKey]string{},
		StopTimeIDs:       map[StopTimeKey]string{},
		StopTimeComments:  map[StopTimeKey]collection.Idx[Comment]{},
	}
}

func cloneInto[T collection.Identifier](dst **collection.CollectionWithID[T], src *collection.CollectionWithID[T], err *error) {
	if *err != nil {
		return
	}
	*dst, *err = src.Clone()
}

func clonePlain[T any](dst **collection.Collection[T], src *collection.Collection[T], err *error) {
	if *err != nil {
		return
	}
	*dst, *err = src.Clone()
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	clone := make(map[K]V, len(m))
	for key, value := range m {
		clone[key] = value
	}
	return clone
}

// Clone deep copies the snapshot. Handles stay valid against the clone.
func (c *Collections) Clone() (*Collections, error) {
	clone := &Collections{
		FeedInfos:         cloneMap(c.FeedInfos),
		StopTimeHeadsigns: cloneMap(c.StopTimeHeadsigns),
		StopTimeIDs:       cloneMap(c.StopTimeIDs),
		StopTimeComments:  cloneMap(c.StopTimeComments),
	}

	var err error
	cloneInto(&clone.Contributors, c.Contributors, &err)
	cloneInto(&clone.Datasets, c.Datasets, &err)
	cloneInto(&clone.Networks, c.Networks, &err)
	cloneInto(&clone.CommercialModes, c.CommercialModes, &err)
	cloneInto(&clone.PhysicalModes, c.PhysicalModes, &err)
	cloneInto(&clone.Lines, c.Lines, &err)
	cloneInto(&clone.Routes, c.Routes, &err)
	cloneInto(&clone.VehicleJourneys, c.VehicleJourneys, &err)
	cloneInto(&clone.StopPoints, c.StopPoints, &err)
	cloneInto(&clone.StopAreas, c.StopAreas, &err)
	cloneInto(&clone.Comments, c.Comments, &err)
	cloneInto(&clone.Calendars, c.Calendars, &err)
	cloneInto(&clone.Companies, c.Companies, &err)
	cloneInto(&clone.Equipments, c.Equipments, &err)
	cloneInto(&clone.TripProperties, c.TripProperties, &err)
	cloneInto(&clone.Geometries, c.Geometries, &err)
	cloneInto(&clone.Tickets, c.Tickets, &err)
	cloneInto(&clone.TicketUses, c.TicketUses, &err)
	cloneInto(&clone.GridCalendars, c.GridCalendars, &err)

	clonePlain(&clone.Frequencies, c.Frequencies, &err)
	clonePlain(&clone.Transfers, c.Transfers, &err)
	clonePlain(&clone.Pathways, c.Pathways, &err)
	clonePlain(&clone.Levels, c.Levels, &err)
	clonePlain(&clone.AdminStations, c.AdminStations, &err)
	clonePlain(&clone.PricesV1, c.PricesV1, &err)
	clonePlain(&clone.ODFaresV1, c.ODFaresV1, &err)
	clonePlain(&clone.FaresV1, c.FaresV1, &err)
	clonePlain(&clone.TicketPrices, c.TicketPrices, &err)
	clonePlain(&clone.TicketUsePerimeters, c.TicketUsePerimeters, &err)
	clonePlain(&clone.TicketUseRestrictions, c.TicketUseRestrictions, &err)
	clonePlain(&clone.GridExceptionDates, c.GridExceptionDates, &err)
	clonePlain(&clone.GridPeriods, c.GridPeriods, &err)
	clonePlain(&clone.GridRelCalendarLine, c.GridRelCalendarLine, &err)

	if err != nil {
		return nil, fmt.Errorf("cloning collections: %w", err)
	}

	return clone, nil
}

// HandleError reports a handle that does not belong to its collection.
type HandleError struct {
	Collection string
	Owner      string
	Idx        int
}

func (e *HandleError) Error() string {
	return fmt.Sprintf("%s references unknown position %d in %s", e.Owner, e.Idx, e.Collection)
}

func checkLinks(links CommentLinks, owner string, comments int) error {
	for _, idx := range links {
		if int(idx) < 0 || int(idx) >= comments {
			return &HandleError{Collection: "comments", Owner: owner, Idx: int(idx)}
		}
	}
	return nil
}

// CheckHandles verifies every positional reference of the snapshot points
// inside its target collection.
func (c *Collections) CheckHandles() error {
	comments := c.Comments.Len()
	stopPoints := c.StopPoints.Len()
	vehicleJourneys := c.VehicleJourneys.Len()

	for _, line := range c.Lines.Values() {
		if err := checkLinks(line.CommentLinks, "line "+line.ID, comments); err != nil {
			return err
		}
	}
	for _, route := range c.Routes.Values() {
		if err := checkLinks(route.CommentLinks, "route "+route.ID, comments); err != nil {
			return err
		}
	}
	for _, stopPoint := range c.StopPoints.Values() {
		if err := checkLinks(stopPoint.CommentLinks, "stop point "+stopPoint.ID, comments); err != nil {
			return err
		}
	}
	for _, stopArea := range c.StopAreas.Values() {
		if err := checkLinks(stopArea.CommentLinks, "stop area "+stopArea.ID, comments); err != nil {
			return err
		}
	}
	for _, vj := range c.VehicleJourneys.Values() {
		if err := checkLinks(vj.CommentLinks, "trip "+vj.ID, comments); err != nil {
			return err
		}
		for _, stopTime := range vj.StopTimes {
			if int(stopTime.StopPointIdx) < 0 || int(stopTime.StopPointIdx) >= stopPoints {
				return &HandleError{Collection: "stop_points", Owner: "trip " + vj.ID, Idx: int(stopTime.StopPointIdx)}
			}
		}
	}

	checkKey := func(key StopTimeKey, table string) error {
		if int(key.VehicleJourney) < 0 || int(key.VehicleJourney) >= vehicleJourneys {
			return &HandleError{Collection: "trips", Owner: table, Idx: int(key.VehicleJourney)}
		}
		return nil
	}
	for key := range c.StopTimeHeadsigns {
		if err := checkKey(key, "stop_time_headsigns"); err != nil {
			return err
		}
	}
	for key := range c.StopTimeIDs {
		if err := checkKey(key, "stop_time_ids"); err != nil {
			return err
		}
	}
	for key, comment := range c.StopTimeComments {
		if err := checkKey(key, "stop_time_comments"); err != nil {
			return err
		}
		if int(comment) < 0 || int(comment) >= comments {
			return &HandleError{Collection: "comments", Owner: "stop_time_comments", Idx: int(comment)}
		}
	}

	return nil
}
