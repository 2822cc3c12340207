// Package snapshot reads and writes whole datasets as a single JSON document.
// Positional references are written as identifiers, in tables laid out like
// their NTFS files, and resolved back to handles when reading.
package snapshot

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crocme10/tartare-tools/pkg/collection"
	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type stopTimeRow struct {
	VehicleJourneyID string `json:"trip_id"`
	StopPointID      string `json:"stop_id"`
	model.StopTime
}

type commentLinkRow struct {
	ObjectType model.ObjectType `json:"object_type"`
	ObjectID   string           `json:"object_id"`
	CommentID  string           `json:"comment_id"`
}

type stopTimeValueRow struct {
	VehicleJourneyID string `json:"trip_id"`
	Sequence         uint32 `json:"stop_sequence"`
	Value            string `json:"value"`
}

type document struct {
	FeedInfos map[string]string `json:"feed_infos,omitempty"`

	Contributors    []model.Contributor    `json:"contributors,omitempty"`
	Datasets        []model.Dataset        `json:"datasets,omitempty"`
	Networks        []model.Network        `json:"networks,omitempty"`
	CommercialModes []model.CommercialMode `json:"commercial_modes,omitempty"`
	PhysicalModes   []model.PhysicalMode   `json:"physical_modes,omitempty"`
	Lines           []model.Line           `json:"lines,omitempty"`
	Routes          []model.Route          `json:"routes,omitempty"`
	VehicleJourneys []model.VehicleJourney `json:"trips,omitempty"`
	StopPoints      []model.StopPoint      `json:"stop_points,omitempty"`
	StopAreas       []model.StopArea       `json:"stop_areas,omitempty"`
	Comments        []model.Comment        `json:"comments,omitempty"`
	Calendars       []model.Calendar       `json:"calendars,omitempty"`
	Companies       []model.Company        `json:"companies,omitempty"`
	Equipments      []model.Equipment      `json:"equipments,omitempty"`
	TripProperties  []model.TripProperty   `json:"trip_properties,omitempty"`
	Geometries      []model.Geometry       `json:"geometries,omitempty"`
	Tickets         []model.Ticket         `json:"tickets,omitempty"`
	TicketUses      []model.TicketUse      `json:"ticket_uses,omitempty"`
	GridCalendars   []model.GridCalendar   `json:"grid_calendars,omitempty"`

	Frequencies           []model.Frequency            `json:"frequencies,omitempty"`
	Transfers             []model.Transfer             `json:"transfers,omitempty"`
	Pathways              []model.Pathway              `json:"pathways,omitempty"`
	Levels                []model.Level                `json:"levels,omitempty"`
	AdminStations         []model.AdminStation         `json:"admin_stations,omitempty"`
	PricesV1              []model.PriceV1              `json:"prices,omitempty"`
	ODFaresV1             []model.ODFareV1             `json:"od_fares,omitempty"`
	FaresV1               []model.FareV1               `json:"fares,omitempty"`
	TicketPrices          []model.TicketPrice          `json:"ticket_prices,omitempty"`
	TicketUsePerimeters   []model.TicketUsePerimeter   `json:"ticket_use_perimeters,omitempty"`
	TicketUseRestrictions []model.TicketUseRestriction `json:"ticket_use_restrictions,omitempty"`
	GridExceptionDates    []model.GridExceptionDate    `json:"grid_exception_dates,omitempty"`
	GridPeriods           []model.GridPeriod           `json:"grid_periods,omitempty"`
	GridRelCalendarLine   []model.GridRelCalendarLine  `json:"grid_rel_calendar_line,omitempty"`

	StopTimes         []stopTimeRow      `json:"stop_times,omitempty"`
	CommentLinks      []commentLinkRow   `json:"comment_links,omitempty"`
	StopTimeHeadsigns []stopTimeValueRow `json:"stop_time_headsigns,omitempty"`
	StopTimeIDs       []stopTimeValueRow `json:"stop_time_ids,omitempty"`
	StopTimeComments  []stopTimeValueRow `json:"stop_time_comments,omitempty"`
}

func Encode(writer io.Writer, c *model.Collections) error {
	doc := document{
		FeedInfos: c.FeedInfos,

		Contributors:    c.Contributors.Values(),
		Datasets:        c.Datasets.Values(),
		Networks:        c.Networks.Values(),
		CommercialModes: c.CommercialModes.Values(),
		PhysicalModes:   c.PhysicalModes.Values(),
		Lines:           c.Lines.Values(),
		Routes:          c.Routes.Values(),
		VehicleJourneys: c.VehicleJourneys.Values(),
		StopPoints:      c.StopPoints.Values(),
		StopAreas:       c.StopAreas.Values(),
		Comments:        c.Comments.Values(),
		Calendars:       c.Calendars.Values(),
		Companies:       c.Companies.Values(),
		Equipments:      c.Equipments.Values(),
		TripProperties:  c.TripProperties.Values(),
		Geometries:      c.Geometries.Values(),
		Tickets:         c.Tickets.Values(),
		TicketUses:      c.TicketUses.Values(),
		GridCalendars:   c.GridCalendars.Values(),

		Frequencies:           c.Frequencies.Values(),
		Transfers:             c.Transfers.Values(),
		Pathways:              c.Pathways.Values(),
		Levels:                c.Levels.Values(),
		AdminStations:         c.AdminStations.Values(),
		PricesV1:              c.PricesV1.Values(),
		ODFaresV1:             c.ODFaresV1.Values(),
		FaresV1:               c.FaresV1.Values(),
		TicketPrices:          c.TicketPrices.Values(),
		TicketUsePerimeters:   c.TicketUsePerimeters.Values(),
		TicketUseRestrictions: c.TicketUseRestrictions.Values(),
		GridExceptionDates:    c.GridExceptionDates.Values(),
		GridPeriods:           c.GridPeriods.Values(),
		GridRelCalendarLine:   c.GridRelCalendarLine.Values(),
	}

	commentID := func(idx collection.Idx[model.Comment]) string {
		return c.Comments.Index(idx).ID
	}
	links := func(objectType model.ObjectType, objectID string, commentLinks model.CommentLinks) {
		for _, idx := range commentLinks {
			doc.CommentLinks = append(doc.CommentLinks, commentLinkRow{ObjectType: objectType, ObjectID: objectID, CommentID: commentID(idx)})
		}
	}

	for _, line := range c.Lines.Values() {
		links(model.ObjectTypeLine, line.ID, line.CommentLinks)
	}
	for _, route := range c.Routes.Values() {
		links(model.ObjectTypeRoute, route.ID, route.CommentLinks)
	}
	for _, stopPoint := range c.StopPoints.Values() {
		links(model.ObjectTypeStopPoint, stopPoint.ID, stopPoint.CommentLinks)
	}
	for _, stopArea := range c.StopAreas.Values() {
		links(model.ObjectTypeStopArea, stopArea.ID, stopArea.CommentLinks)
	}
	for _, vj := range c.VehicleJourneys.Values() {
		links(model.ObjectTypeVehicleJourney, vj.ID, vj.CommentLinks)
		for _, stopTime := range vj.StopTimes {
			doc.StopTimes = append(doc.StopTimes, stopTimeRow{
				VehicleJourneyID: vj.ID,
				StopPointID:      c.StopPoints.Index(stopTime.StopPointIdx).ID,
				StopTime:         stopTime,
			})
		}
	}

	doc.StopTimeHeadsigns = valueRows(c, c.StopTimeHeadsigns, func(value string) string { return value })
	doc.StopTimeIDs = valueRows(c, c.StopTimeIDs, func(value string) string { return value })
	doc.StopTimeComments = valueRows(c, c.StopTimeComments, commentID)

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(doc)
}

func valueRows[V any](c *model.Collections, table map[model.StopTimeKey]V, value func(V) string) []stopTimeValueRow {
	rows := make([]stopTimeValueRow, 0, len(table))
	for key, v := range table {
		rows = append(rows, stopTimeValueRow{
			VehicleJourneyID: c.VehicleJourneys.Index(key.VehicleJourney).ID,
			Sequence:         key.Sequence,
			Value:            value(v),
		})
	}

	slices.SortFunc(rows, func(a, b stopTimeValueRow) int {
		if order := cmp.Compare(a.VehicleJourneyID, b.VehicleJourneyID); order != 0 {
			return order
		}
		return cmp.Compare(a.Sequence, b.Sequence)
	})

	return rows
}

func pushAll[T collection.Identifier](dst *collection.CollectionWithID[T], items []T) error {
	for _, item := range items {
		if _, err := dst.Push(item); err != nil {
			return err
		}
	}
	return nil
}

func appendAll[T any](dst *collection.Collection[T], items []T) {
	for _, item := range items {
		dst.Push(item)
	}
}

func Decode(reader io.Reader) (*model.Collections, error) {
	var doc document
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	c := model.New()
	for key, value := range doc.FeedInfos {
		c.FeedInfos[key] = value
	}

	steps := []func() error{
		func() error { return pushAll(c.Contributors, doc.Contributors) },
		func() error { return pushAll(c.Datasets, doc.Datasets) },
		func() error { return pushAll(c.Networks, doc.Networks) },
		func() error { return pushAll(c.CommercialModes, doc.CommercialModes) },
		func() error { return pushAll(c.PhysicalModes, doc.PhysicalModes) },
		func() error { return pushAll(c.Lines, doc.Lines) },
		func() error { return pushAll(c.Routes, doc.Routes) },
		func() error { return pushAll(c.VehicleJourneys, doc.VehicleJourneys) },
		func() error { return pushAll(c.StopPoints, doc.StopPoints) },
		func() error { return pushAll(c.StopAreas, doc.StopAreas) },
		func() error { return pushAll(c.Comments, doc.Comments) },
		func() error { return pushAll(c.Calendars, doc.Calendars) },
		func() error { return pushAll(c.Companies, doc.Companies) },
		func() error { return pushAll(c.Equipments, doc.Equipments) },
		func() error { return pushAll(c.TripProperties, doc.TripProperties) },
		func() error { return pushAll(c.Geometries, doc.Geometries) },
		func() error { return pushAll(c.Tickets, doc.Tickets) },
		func() error { return pushAll(c.TicketUses, doc.TicketUses) },
		func() error { return pushAll(c.GridCalendars, doc.GridCalendars) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	appendAll(c.Frequencies, doc.Frequencies)
	appendAll(c.Transfers, doc.Transfers)
	appendAll(c.Pathways, doc.Pathways)
	appendAll(c.Levels, doc.Levels)
	appendAll(c.AdminStations, doc.AdminStations)
	appendAll(c.PricesV1, doc.PricesV1)
	appendAll(c.ODFaresV1, doc.ODFaresV1)
	appendAll(c.FaresV1, doc.FaresV1)
	appendAll(c.TicketPrices, doc.TicketPrices)
	appendAll(c.TicketUsePerimeters, doc.TicketUsePerimeters)
	appendAll(c.TicketUseRestrictions, doc.TicketUseRestrictions)
	appendAll(c.GridExceptionDates, doc.GridExceptionDates)
	appendAll(c.GridPeriods, doc.GridPeriods)
	appendAll(c.GridRelCalendarLine, doc.GridRelCalendarLine)

	if err := resolveCommentLinks(c, doc.CommentLinks); err != nil {
		return nil, err
	}
	if err := resolveStopTimes(c, doc.StopTimes); err != nil {
		return nil, err
	}
	if err := resolveStopTimeTables(c, &doc); err != nil {
		return nil, err
	}

	return c, nil
}

func resolveCommentLinks(c *model.Collections, rows []commentLinkRow) error {
	for _, row := range rows {
		comment, ok := c.Comments.GetIdx(row.CommentID)
		if !ok {
			return fmt.Errorf("comment %q of %s %q not found", row.CommentID, row.ObjectType, row.ObjectID)
		}

		var links *model.CommentLinks
		switch row.ObjectType {
		case model.ObjectTypeLine:
			if line := c.Lines.Get(row.ObjectID); line != nil {
				links = &line.CommentLinks
			}
		case model.ObjectTypeRoute:
			if route := c.Routes.Get(row.ObjectID); route != nil {
				links = &route.CommentLinks
			}
		case model.ObjectTypeStopPoint:
			if stopPoint := c.StopPoints.Get(row.ObjectID); stopPoint != nil {
				links = &stopPoint.CommentLinks
			}
		case model.ObjectTypeStopArea:
			if stopArea := c.StopAreas.Get(row.ObjectID); stopArea != nil {
				links = &stopArea.CommentLinks
			}
		case model.ObjectTypeVehicleJourney:
			if vj := c.VehicleJourneys.Get(row.ObjectID); vj != nil {
				links = &vj.CommentLinks
			}
		default:
			return fmt.Errorf("unsupported comment link object_type %q", row.ObjectType)
		}

		if links == nil {
			log.Warn().Str("object_type", string(row.ObjectType)).Str("object_id", row.ObjectID).Msg("Comment link to unknown object ignored")
			continue
		}
		links.Insert(comment)
	}

	return nil
}

func resolveStopTimes(c *model.Collections, rows []stopTimeRow) error {
	for _, row := range rows {
		vj := c.VehicleJourneys.Get(row.VehicleJourneyID)
		if vj == nil {
			return fmt.Errorf("stop time references unknown trip %q", row.VehicleJourneyID)
		}
		stopPoint, ok := c.StopPoints.GetIdx(row.StopPointID)
		if !ok {
			return fmt.Errorf("stop time of trip %q references unknown stop %q", row.VehicleJourneyID, row.StopPointID)
		}

		stopTime := row.StopTime
		stopTime.StopPointIdx = stopPoint
		vj.StopTimes = append(vj.StopTimes, stopTime)
	}

	for _, vj := range c.VehicleJourneys.All() {
		slices.SortStableFunc(vj.StopTimes, func(a, b model.StopTime) int {
			return cmp.Compare(a.Sequence, b.Sequence)
		})
	}

	return nil
}

func resolveStopTimeTables(c *model.Collections, doc *document) error {
	key := func(row stopTimeValueRow) (model.StopTimeKey, error) {
		vj, ok := c.VehicleJourneys.GetIdx(row.VehicleJourneyID)
		if !ok {
			return model.StopTimeKey{}, fmt.Errorf("stop time attribute references unknown trip %q", row.VehicleJourneyID)
		}
		return model.StopTimeKey{VehicleJourney: vj, Sequence: row.Sequence}, nil
	}

	for _, row := range doc.StopTimeHeadsigns {
		k, err := key(row)
		if err != nil {
			return err
		}
		c.StopTimeHeadsigns[k] = row.Value
	}
	for _, row := range doc.StopTimeIDs {
		k, err := key(row)
		if err != nil {
			return err
		}
		c.StopTimeIDs[k] = row.Value
	}
	for _, row := range doc.StopTimeComments {
		k, err := key(row)
		if err != nil {
			return err
		}
		comment, ok := c.Comments.GetIdx(row.Value)
		if !ok {
			return fmt.Errorf("stop time comment %q not found", row.Value)
		}
		c.StopTimeComments[k] = comment
	}

	return nil
}

func Load(path string) (*model.Collections, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	collections, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Info().Str("path", path).Int("trips", collections.VehicleJourneys.Len()).Msg("Loaded dataset")

	return collections, nil
}

func Save(path string, collections *model.Collections) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(file, collections); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return file.Close()
}
