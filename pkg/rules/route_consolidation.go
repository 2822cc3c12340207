package rules

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/crocme10/tartare-tools/pkg/collection"
	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/crocme10/tartare-tools/pkg/report"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// RouteConsolidation merges the routes of a line, or of every line of a
// network, into one route per direction.
type RouteConsolidation struct {
	ObjectType model.ObjectType `csv:"object_type"`
	ObjectID   string           `csv:"object_id"`
}

func (r RouteConsolidation) String() string {
	return fmt.Sprintf("%s:%s", r.ObjectType, r.ObjectID)
}

func newCSVReader(reader io.Reader) gocsv.CSVReader {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	return csvReader
}

func ReadRouteConsolidations(reader io.Reader, name string, sink report.Sink) ([]RouteConsolidation, error) {
	log.Info().Str("file", name).Msg("Reading route consolidation rules")

	var rows []*RouteConsolidation
	if err := gocsv.UnmarshalCSV(newCSVReader(reader), &rows); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	var consolidations []RouteConsolidation
	for i, row := range rows {
		row.ObjectType = model.ObjectType(strings.TrimSpace(string(row.ObjectType)))
		row.ObjectID = strings.TrimSpace(row.ObjectID)

		switch {
		case row.ObjectType != model.ObjectTypeLine && row.ObjectType != model.ObjectTypeNetwork:
			sink.AddWarning(fmt.Sprintf("Error reading %s: line %d: unknown object_type %q", name, i+2, row.ObjectType), report.InvalidFile)
		case row.ObjectID == "":
			sink.AddWarning(fmt.Sprintf("Error reading %s: line %d: missing object_id", name, i+2), report.InvalidFile)
		default:
			consolidations = append(consolidations, *row)
		}
	}

	return consolidations, nil
}

func canonicalRouteID(lineID, directionType string) string {
	return fmt.Sprintf("%s-%s", lineID, directionType)
}

// routesByDirection lists, per direction, the routes of a line other than
// the canonical route of that direction.
func routesByDirection(routes *collection.CollectionWithID[model.Route], lineID string) map[string][]string {
	byDirection := map[string][]string{}

	for _, route := range routes.All() {
		if route.LineID != lineID || route.DirectionType == nil {
			continue
		}
		direction := *route.DirectionType
		if route.ID == canonicalRouteID(lineID, direction) {
			continue
		}
		byDirection[direction] = append(byDirection[direction], route.ID)
	}

	return byDirection
}

func targetRoute(routes *collection.CollectionWithID[model.Route], lineID, direction string) (string, error) {
	id := canonicalRouteID(lineID, direction)

	existing := routes.Get(id)
	if existing == nil {
		directionType := direction
		if _, err := routes.Push(model.Route{ID: id, LineID: lineID, DirectionType: &directionType}); err != nil {
			return "", err
		}
		return id, nil
	}

	if existing.LineID != lineID {
		return "", &RouteMismatchError{RouteID: id, Field: "line", Expected: lineID, Actual: existing.LineID}
	}
	if existing.DirectionType != nil && *existing.DirectionType != direction {
		return "", &RouteMismatchError{RouteID: id, Field: "direction", Expected: direction, Actual: *existing.DirectionType}
	}

	return id, nil
}

type routeConsolidator struct {
	collections *model.Collections
	vjsByRoute  map[string][]collection.Idx[model.VehicleJourney]
	sink        report.Sink
}

func newRouteConsolidator(collections *model.Collections, sink report.Sink) *routeConsolidator {
	vjsByRoute := map[string][]collection.Idx[model.VehicleJourney]{}
	for idx, vj := range collections.VehicleJourneys.All() {
		vjsByRoute[vj.RouteID] = append(vjsByRoute[vj.RouteID], idx)
	}

	return &routeConsolidator{
		collections: collections,
		vjsByRoute:  vjsByRoute,
		sink:        sink,
	}
}

func (c *routeConsolidator) reattachVehicleJourneys(absorbed []string, targetID string) {
	for _, routeID := range absorbed {
		move(c.vjsByRoute, routeID, targetID, func(idx collection.Idx[model.VehicleJourney]) {
			c.collections.VehicleJourneys.Index(idx).RouteID = targetID
		})
	}
}

func (c *routeConsolidator) reattachMetadata(absorbed []string, targetID string) {
	routes := c.collections.Routes
	target := routes.Get(targetID)

	for _, routeID := range absorbed {
		route := routes.Get(routeID)
		if route == nil {
			continue
		}

		for _, conflict := range model.RoutePolicy(target, *route) {
			c.sink.AddWarning(
				fmt.Sprintf("Route %q already has an object property for %q; object property '%s:%s' will be ignored", targetID, conflict.Key, conflict.Key, conflict.Value),
				report.MultipleValue,
			)
		}
		traceCodes(&target.Codes, route.ID)
	}
}

func (c *routeConsolidator) consolidateLines(lineIDs []string, rule RouteConsolidation) {
	for _, lineID := range lineIDs {
		byDirection := routesByDirection(c.collections.Routes, lineID)
		if len(byDirection) == 0 {
			c.sink.AddWarning(
				fmt.Sprintf("No route consolidation needed on line id %q for rule %q", lineID, rule),
				report.ConsolidationNotApplied,
			)
			continue
		}

		directions := make([]string, 0, len(byDirection))
		for direction := range byDirection {
			directions = append(directions, direction)
		}
		slices.Sort(directions)

		for _, direction := range directions {
			absorbed := byDirection[direction]

			targetID, err := targetRoute(c.collections.Routes, lineID, direction)
			if err != nil {
				var mismatch *RouteMismatchError
				if !errors.As(err, &mismatch) {
					log.Error().Err(err).Str("line_id", lineID).Msg("Failed to create consolidated route")
				}
				c.sink.AddError(
					fmt.Sprintf("Route consolidation impossible for rule %q. %s", rule, err),
					report.ConsolidationNotApplied,
				)
				continue
			}

			c.reattachVehicleJourneys(absorbed, targetID)
			c.reattachMetadata(absorbed, targetID)
			c.collections.Routes.Retain(func(route *model.Route) bool {
				return !slices.Contains(absorbed, route.ID)
			})

			log.Info().Str("route_id", targetID).Strs("absorbed", absorbed).Msg("Routes consolidated")
		}
	}
}

// ApplyRouteConsolidations runs each consolidation in order. Unknown lines
// and networks are reported and skipped.
func ApplyRouteConsolidations(collections *model.Collections, consolidations []RouteConsolidation, sink report.Sink) {
	consolidator := newRouteConsolidator(collections, sink)

	for _, rule := range consolidations {
		switch rule.ObjectType {
		case model.ObjectTypeLine:
			if !collections.Lines.ContainsID(rule.ObjectID) {
				sink.AddError(fmt.Sprintf("The line %q doesn't exist", rule.ObjectID), report.ObjectNotFound)
				continue
			}
			consolidator.consolidateLines([]string{rule.ObjectID}, rule)
		case model.ObjectTypeNetwork:
			if !collections.Networks.ContainsID(rule.ObjectID) {
				sink.AddError(fmt.Sprintf("The network %q doesn't exist", rule.ObjectID), report.ObjectNotFound)
				continue
			}

			var lineIDs []string
			for _, line := range collections.Lines.All() {
				if line.NetworkID == rule.ObjectID {
					lineIDs = append(lineIDs, line.ID)
				}
			}
			consolidator.consolidateLines(lineIDs, rule)
		default:
			sink.AddWarning(fmt.Sprintf("Unsupported object_type %q for rule %q", rule.ObjectType, rule), report.InvalidFile)
		}
	}
}
