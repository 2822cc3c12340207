// Package filter keeps or drops vehicle journeys of a dataset according to a
// boolean expression.
package filter

import (
	"errors"
	"fmt"

	"github.com/crocme10/tartare-tools/pkg/collection"
	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/crocme10/tartare-tools/pkg/util"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
)

type Action string

const (
	Extract Action = "extract"
	Remove  Action = "remove"
)

var ErrEmptyResult = errors.New("no vehicle journey left after filtering")

type Filter struct {
	Action     Action
	Expression string
}

// Env is what an expression sees for one vehicle journey.
type Env struct {
	TripID           string `expr:"trip_id"`
	RouteID          string `expr:"route_id"`
	LineID           string `expr:"line_id"`
	LineCode         string `expr:"line_code"`
	NetworkID        string `expr:"network_id"`
	CommercialModeID string `expr:"commercial_mode_id"`
	PhysicalModeID   string `expr:"physical_mode_id"`
	CompanyID        string `expr:"company_id"`
	DatasetID        string `expr:"dataset_id"`
}

func newEnv(c *model.Collections, vj *model.VehicleJourney) Env {
	env := Env{
		TripID:         vj.ID,
		RouteID:        vj.RouteID,
		PhysicalModeID: vj.PhysicalModeID,
		CompanyID:      vj.CompanyID,
		DatasetID:      vj.DatasetID,
	}

	route := c.Routes.Get(vj.RouteID)
	if route == nil {
		return env
	}
	env.LineID = route.LineID

	line := c.Lines.Get(route.LineID)
	if line == nil {
		return env
	}
	env.NetworkID = line.NetworkID
	env.CommercialModeID = line.CommercialModeID
	if line.Code != nil {
		env.LineCode = *line.Code
	}

	return env
}

// references collects the string literals an expression compares
// network_id and line_id against.
type references map[string][]string

func (r references) Visit(node *ast.Node) {
	binary, ok := (*node).(*ast.BinaryNode)
	if !ok {
		return
	}
	switch binary.Operator {
	case "==", "!=", "in":
	default:
		return
	}

	field, literal := binary.Left, binary.Right
	if _, ok := field.(*ast.IdentifierNode); !ok {
		field, literal = literal, field
	}
	identifier, ok := field.(*ast.IdentifierNode)
	if !ok || (identifier.Value != "network_id" && identifier.Value != "line_id") {
		return
	}

	switch literal := literal.(type) {
	case *ast.StringNode:
		r[identifier.Value] = append(r[identifier.Value], literal.Value)
	case *ast.ArrayNode:
		for _, element := range literal.Nodes {
			if value, ok := element.(*ast.StringNode); ok {
				r[identifier.Value] = append(r[identifier.Value], value.Value)
			}
		}
	}
}

func (r references) check(c *model.Collections) error {
	for _, id := range r["network_id"] {
		if !c.Networks.ContainsID(id) {
			return fmt.Errorf("network %q not found", id)
		}
	}
	for _, id := range r["line_id"] {
		if !c.Lines.ContainsID(id) {
			return fmt.Errorf("line %q not found", id)
		}
	}
	return nil
}

func (f Filter) compile() (*vm.Program, references, error) {
	switch f.Action {
	case Extract, Remove:
	default:
		return nil, nil, fmt.Errorf("unknown filter action %q", f.Action)
	}

	refs := references{}
	program, err := expr.Compile(f.Expression, expr.Env(Env{}), expr.AsBool(), expr.Patch(refs))
	if err != nil {
		return nil, nil, fmt.Errorf("compiling filter %q: %w", f.Expression, err)
	}

	return program, refs, nil
}

// Apply filters the vehicle journeys of collections in place. Stop time side
// tables follow the surviving journeys and frequencies of dropped journeys
// are removed. Networks and lines named in the expression must exist.
func Apply(c *model.Collections, f Filter) error {
	program, refs, err := f.compile()
	if err != nil {
		return err
	}
	if err := refs.check(c); err != nil {
		return err
	}

	matches := map[string]bool{}
	for _, vj := range c.VehicleJourneys.All() {
		output, err := expr.Run(program, newEnv(c, vj))
		if err != nil {
			return fmt.Errorf("evaluating filter on trip %q: %w", vj.ID, err)
		}
		matches[vj.ID] = output.(bool)
	}

	before := c.VehicleJourneys.Len()
	translation := c.VehicleJourneys.Retain(func(vj *model.VehicleJourney) bool {
		return matches[vj.ID] == (f.Action == Extract)
	})

	c.StopTimeHeadsigns = translateKeys(c.StopTimeHeadsigns, translation)
	c.StopTimeIDs = translateKeys(c.StopTimeIDs, translation)
	c.StopTimeComments = translateKeys(c.StopTimeComments, translation)

	frequencies := c.Frequencies.Take()
	droppedFrequencies := util.InPlaceFilter(&frequencies, func(frequency model.Frequency) bool {
		return c.VehicleJourneys.ContainsID(frequency.VehicleJourneyID)
	})
	c.Frequencies = collection.NewCollection(frequencies)

	log.Info().
		Str("action", string(f.Action)).
		Str("expression", f.Expression).
		Int("before", before).
		Int("after", c.VehicleJourneys.Len()).
		Int("dropped_frequencies", droppedFrequencies).
		Msg("Filtered trips")

	if c.VehicleJourneys.Len() == 0 {
		return ErrEmptyResult
	}

	return nil
}

func translateKeys[V any](table map[model.StopTimeKey]V, translation collection.Translation[model.VehicleJourney]) map[model.StopTimeKey]V {
	translated := make(map[model.StopTimeKey]V, len(table))
	for key, value := range table {
		idx, ok := translation.Apply(key.VehicleJourney)
		if !ok {
			continue
		}
		translated[model.StopTimeKey{VehicleJourney: idx, Sequence: key.Sequence}] = value
	}
	return translated
}
