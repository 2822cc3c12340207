package rules

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/crocme10/tartare-tools/pkg/collection"
	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/crocme10/tartare-tools/pkg/report"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
)

const (
	networkIDKey        = "network_id"
	commercialModeIDKey = "commercial_mode_id"
	physicalModeIDKey   = "physical_mode_id"

	// TraceabilitySystem is the code system recording absorbed identifiers.
	TraceabilitySystem = "ntfs_source"
)

// ObjectRule absorbs the objects listed in GroupedFrom into the object
// described by Properties.
type ObjectRule struct {
	Properties  map[string]json.RawMessage
	GroupedFrom []string
}

func (r *ObjectRule) UnmarshalJSON(data []byte) error {
	var properties map[string]json.RawMessage
	if err := json.Unmarshal(data, &properties); err != nil {
		return err
	}

	if groupedFrom, exists := properties["grouped_from"]; exists {
		if err := json.Unmarshal(groupedFrom, &r.GroupedFrom); err != nil {
			return fmt.Errorf("grouped_from: %w", err)
		}
		delete(properties, "grouped_from")
	}
	r.Properties = properties

	return nil
}

func (r ObjectRule) ID(idKey string) (string, error) {
	raw, exists := r.Properties[idKey]
	if !exists {
		return "", &ConfigValidationError{Key: idKey, Reason: fmt.Sprintf("key %q is required", idKey)}
	}

	var id string
	if err := json.Unmarshal(raw, &id); err != nil || id == "" {
		return "", &ConfigValidationError{Key: idKey, Reason: fmt.Sprintf("value for %q must be filled in", idKey)}
	}

	return id, nil
}

type ObjectRuleConfiguration struct {
	Networks        []ObjectRule `json:"networks"`
	CommercialModes []ObjectRule `json:"commercial_modes"`
	PhysicalModes   []ObjectRule `json:"physical_modes"`
}

func ReadObjectRules(reader io.Reader) (*ObjectRuleConfiguration, error) {
	log.Info().Msg("Reading object rules")

	var configuration ObjectRuleConfiguration
	if err := json.NewDecoder(reader).Decode(&configuration); err != nil {
		return nil, fmt.Errorf("reading object rules: %w", err)
	}
	if event := log.Debug(); event.Enabled() {
		event.Msg(pretty.Sprint(configuration))
	}

	return &configuration, nil
}

func validateRules(rules []ObjectRule, idKey string) error {
	used := map[string]bool{}
	use := func(id string) error {
		if used[id] {
			return &ConfigValidationError{Key: idKey, ID: id, Reason: "is present multiple times in the configuration file which is invalid"}
		}
		used[id] = true
		return nil
	}

	for _, rule := range rules {
		id, err := rule.ID(idKey)
		if err != nil {
			return err
		}
		if err := use(id); err != nil {
			return err
		}

		for _, groupedID := range rule.GroupedFrom {
			if groupedID == id {
				return &ConfigValidationError{Key: idKey, ID: id, Reason: "cannot be regrouped into itself"}
			}
			if err := use(groupedID); err != nil {
				return err
			}
		}
	}

	return nil
}

// Validate checks every category before any rule is applied.
func (c *ObjectRuleConfiguration) Validate() error {
	if err := validateRules(c.Networks, networkIDKey); err != nil {
		return err
	}
	if err := validateRules(c.CommercialModes, commercialModeIDKey); err != nil {
		return err
	}
	return validateRules(c.PhysicalModes, physicalModeIDKey)
}

// objectIndex holds the records referencing networks and modes, keyed by
// the referenced identifier. Handles stay valid as referencing collections
// are never rebuilt while object rules run.
type objectIndex struct {
	linesByNetwork        map[string][]collection.Idx[model.Line]
	perimetersByNetwork   map[string][]collection.Idx[model.TicketUsePerimeter]
	linesByCommercialMode map[string][]collection.Idx[model.Line]
	vjsByPhysicalMode     map[string][]collection.Idx[model.VehicleJourney]
}

func newObjectIndex(collections *model.Collections) *objectIndex {
	index := &objectIndex{
		linesByNetwork:        map[string][]collection.Idx[model.Line]{},
		perimetersByNetwork:   map[string][]collection.Idx[model.TicketUsePerimeter]{},
		linesByCommercialMode: map[string][]collection.Idx[model.Line]{},
		vjsByPhysicalMode:     map[string][]collection.Idx[model.VehicleJourney]{},
	}

	for idx, line := range collections.Lines.All() {
		index.linesByNetwork[line.NetworkID] = append(index.linesByNetwork[line.NetworkID], idx)
		index.linesByCommercialMode[line.CommercialModeID] = append(index.linesByCommercialMode[line.CommercialModeID], idx)
	}
	for idx, perimeter := range collections.TicketUsePerimeters.All() {
		if perimeter.ObjectType == model.ObjectTypeNetwork {
			index.perimetersByNetwork[perimeter.ObjectID] = append(index.perimetersByNetwork[perimeter.ObjectID], idx)
		}
	}
	for idx, vj := range collections.VehicleJourneys.All() {
		index.vjsByPhysicalMode[vj.PhysicalModeID] = append(index.vjsByPhysicalMode[vj.PhysicalModeID], idx)
	}

	return index
}

// move repoints every handle indexed under from with set, and reindexes
// them under to.
func move[T any](index map[string][]collection.Idx[T], from, to string, set func(collection.Idx[T])) bool {
	handles := index[from]
	if len(handles) == 0 {
		return false
	}

	for _, idx := range handles {
		set(idx)
	}
	index[to] = append(index[to], handles...)
	delete(index, from)

	return true
}

func (i *objectIndex) repointNetwork(collections *model.Collections, targetID, absorbedID string) bool {
	lines := move(i.linesByNetwork, absorbedID, targetID, func(idx collection.Idx[model.Line]) {
		collections.Lines.Index(idx).NetworkID = targetID
	})
	perimeters := move(i.perimetersByNetwork, absorbedID, targetID, func(idx collection.Idx[model.TicketUsePerimeter]) {
		collections.TicketUsePerimeters.Index(idx).ObjectID = targetID
	})
	return lines || perimeters
}

func (i *objectIndex) repointCommercialMode(collections *model.Collections, targetID, absorbedID string) bool {
	return move(i.linesByCommercialMode, absorbedID, targetID, func(idx collection.Idx[model.Line]) {
		collections.Lines.Index(idx).CommercialModeID = targetID
	})
}

func (i *objectIndex) repointPhysicalMode(collections *model.Collections, targetID, absorbedID string) bool {
	return move(i.vjsByPhysicalMode, absorbedID, targetID, func(idx collection.Idx[model.VehicleJourney]) {
		collections.VehicleJourneys.Index(idx).PhysicalModeID = targetID
	})
}

// regroup describes how one category of objects is regrouped.
type regroup[T collection.Identifier] struct {
	idKey   string
	objects *collection.CollectionWithID[T]
	repoint func(targetID, absorbedID string) bool
	policy  model.MergePolicy[T]
	// trace records the absorbed identifier on the target, nil when the
	// object carries no codes.
	trace func(target *T, absorbedID string)
}

func (g regroup[T]) apply(rule ObjectRule, sink report.Sink) error {
	id, err := rule.ID(g.idKey)
	if err != nil {
		return err
	}

	created := false
	if !g.objects.ContainsID(id) {
		var target T
		data, err := json.Marshal(rule.Properties)
		if err != nil {
			return fmt.Errorf("rule on %s %q: %w", g.idKey, id, err)
		}
		if err := json.Unmarshal(data, &target); err != nil {
			return &ConfigValidationError{Key: g.idKey, ID: id, Reason: fmt.Sprintf("has invalid properties: %s", err)}
		}
		if _, err := g.objects.Push(target); err != nil {
			return err
		}
		created = true
		log.Debug().Str(g.idKey, id).Msg("Created regrouping target")
	}

	target := g.objects.Get(id)
	absorbed := map[string]bool{}
	repointed := false

	for _, groupedID := range rule.GroupedFrom {
		object := g.objects.Get(groupedID)
		if object == nil {
			sink.AddError(
				fmt.Sprintf("The identifier %q doesn't exist, and therefore cannot be regrouped in %q", groupedID, id),
				report.ObjectNotFound,
			)
			continue
		}

		repointed = g.repoint(id, groupedID) || repointed
		for _, conflict := range g.policy(target, *object) {
			sink.AddWarning(
				fmt.Sprintf("%s %q already has an object property for %q; object property '%s:%s' will be ignored", g.idKey, id, conflict.Key, conflict.Key, conflict.Value),
				report.MultipleValue,
			)
		}
		if g.trace != nil {
			g.trace(target, groupedID)
		}
		absorbed[groupedID] = true
	}

	if len(absorbed) > 0 {
		g.objects.Retain(func(object *T) bool {
			return !absorbed[(*object).GetID()]
		})
	}

	switch {
	case repointed:
		log.Info().Str(g.idKey, id).Int("absorbed", len(absorbed)).Msg("Regrouping rule applied")
	case created:
		sink.AddWarning(
			fmt.Sprintf("Object with %s %q was created but must be used (through properties_rules) or else it will be deleted", g.idKey, id),
			report.UnknownPropertyValue,
		)
	default:
		sink.AddError(fmt.Sprintf("The rule on %s %q was not applied", g.idKey, id), report.ObjectNotFound)
	}

	return nil
}

func traceCodes(codes *model.Codes, absorbedID string) {
	codes.Insert(model.Code{System: TraceabilitySystem, Value: absorbedID})
}

// ApplyObjectRules regroups networks, commercial modes and physical modes,
// in that order. Rules of a category are applied sequentially.
func ApplyObjectRules(collections *model.Collections, configuration *ObjectRuleConfiguration, sink report.Sink) error {
	if err := configuration.Validate(); err != nil {
		return err
	}

	index := newObjectIndex(collections)

	networks := regroup[model.Network]{
		idKey:   networkIDKey,
		objects: collections.Networks,
		repoint: func(targetID, absorbedID string) bool {
			return index.repointNetwork(collections, targetID, absorbedID)
		},
		policy: model.NetworkPolicy,
		trace: func(target *model.Network, absorbedID string) {
			traceCodes(&target.Codes, absorbedID)
		},
	}
	if len(configuration.Networks) > 0 {
		log.Info().Msg("Checking networks rules")
	}
	for _, rule := range configuration.Networks {
		if err := networks.apply(rule, sink); err != nil {
			return err
		}
	}

	commercialModes := regroup[model.CommercialMode]{
		idKey:   commercialModeIDKey,
		objects: collections.CommercialModes,
		repoint: func(targetID, absorbedID string) bool {
			return index.repointCommercialMode(collections, targetID, absorbedID)
		},
		policy: model.CommercialModePolicy,
	}
	if len(configuration.CommercialModes) > 0 {
		log.Info().Msg("Checking commercial modes rules")
	}
	for _, rule := range configuration.CommercialModes {
		if err := commercialModes.apply(rule, sink); err != nil {
			return err
		}
	}

	physicalModes := regroup[model.PhysicalMode]{
		idKey:   physicalModeIDKey,
		objects: collections.PhysicalModes,
		repoint: func(targetID, absorbedID string) bool {
			return index.repointPhysicalMode(collections, targetID, absorbedID)
		},
		policy: model.PhysicalModePolicy,
	}
	if len(configuration.PhysicalModes) > 0 {
		log.Info().Msg("Checking physical modes rules")
	}
	for _, rule := range configuration.PhysicalModes {
		if err := physicalModes.apply(rule, sink); err != nil {
			return err
		}
	}

	return nil
}
