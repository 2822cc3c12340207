package merger

import (
	"fmt"

	"github.com/crocme10/tartare-tools/pkg/collection"
	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/rs/zerolog/log"
)

func collision[T collection.Identifier](acc, incoming *collection.CollectionWithID[T]) error {
	if ids := acc.Collisions(incoming); len(ids) > 0 {
		return &collection.DuplicateIDError{Collection: acc.Name(), ID: ids[0]}
	}
	return nil
}

// preflight finds the error Merge would stop on, without touching either side.
func preflight(acc, incoming *model.Collections) error {
	if err := incoming.CheckHandles(); err != nil {
		return fmt.Errorf("invalid incoming dataset: %w", err)
	}

	checks := []func() error{
		func() error { return collision(acc.Contributors, incoming.Contributors) },
		func() error { return collision(acc.Datasets, incoming.Datasets) },
		func() error { return collision(acc.Lines, incoming.Lines) },
		func() error { return collision(acc.Routes, incoming.Routes) },
		func() error { return collision(acc.Companies, incoming.Companies) },
		func() error { return collision(acc.Calendars, incoming.Calendars) },
		func() error { return collision(acc.Tickets, incoming.Tickets) },
		func() error { return collision(acc.TicketUses, incoming.TicketUses) },
		func() error { return collision(acc.TripProperties, incoming.TripProperties) },
		func() error { return collision(acc.Geometries, incoming.Geometries) },
		func() error { return collision(acc.Equipments, incoming.Equipments) },
		func() error { return collision(acc.GridCalendars, incoming.GridCalendars) },
		func() error { return collision(acc.Comments, incoming.Comments) },
		func() error { return collision(acc.VehicleJourneys, incoming.VehicleJourneys) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}

	return nil
}

func tryMergeAll(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Merge moves incoming into acc and returns the merged snapshot.
//
// Strict collections fail on the first shared identifier, networks, modes
// and stops are fused, identity-less collections are concatenated. Every
// positional handle of incoming is translated to the merged collections.
// Feed infos of incoming are ignored. On error acc is left unchanged.
func Merge(acc, incoming *model.Collections) (*model.Collections, error) {
	if err := preflight(acc, incoming); err != nil {
		return nil, err
	}

	stopPointIDs := incoming.StopPoints.IDTable()
	vehicleJourneyIDs := incoming.VehicleJourneys.IDTable()
	commentIDs := incoming.Comments.IDTable()

	// Comments first, lines and routes carry links to them.
	if err := acc.Comments.TryMerge(incoming.Comments); err != nil {
		return nil, err
	}
	remapCommentLinks(incoming, commentIDs, acc.Comments)

	err := tryMergeAll(
		func() error { return acc.Contributors.TryMerge(incoming.Contributors) },
		func() error { return acc.Datasets.TryMerge(incoming.Datasets) },
		func() error { return acc.Lines.TryMerge(incoming.Lines) },
		func() error { return acc.Routes.TryMerge(incoming.Routes) },
		func() error { return acc.Companies.TryMerge(incoming.Companies) },
		func() error { return acc.Calendars.TryMerge(incoming.Calendars) },
		func() error { return acc.Tickets.TryMerge(incoming.Tickets) },
		func() error { return acc.TicketUses.TryMerge(incoming.TicketUses) },
		func() error { return acc.TripProperties.TryMerge(incoming.TripProperties) },
		func() error { return acc.Geometries.TryMerge(incoming.Geometries) },
		func() error { return acc.Equipments.TryMerge(incoming.Equipments) },
		func() error { return acc.GridCalendars.TryMerge(incoming.GridCalendars) },
	)
	if err != nil {
		return nil, err
	}

	acc.Networks.Unify(incoming.Networks, model.Silent(model.NetworkPolicy))
	acc.CommercialModes.Unify(incoming.CommercialModes, model.Silent(model.CommercialModePolicy))
	acc.PhysicalModes.Unify(incoming.PhysicalModes, model.Silent(model.PhysicalModePolicy))

	acc.StopPoints.Unify(incoming.StopPoints, model.Silent(model.StopPointPolicy))
	acc.StopAreas.Unify(incoming.StopAreas, model.Silent(model.StopAreaPolicy))

	for _, vj := range incoming.VehicleJourneys.All() {
		for i := range vj.StopTimes {
			if idx, ok := stopPointIDs.Resolve(vj.StopTimes[i].StopPointIdx, acc.StopPoints); ok {
				vj.StopTimes[i].StopPointIdx = idx
			}
		}
	}
	if err := acc.VehicleJourneys.TryMerge(incoming.VehicleJourneys); err != nil {
		return nil, err
	}

	remapStopTimeTable(acc.StopTimeHeadsigns, incoming.StopTimeHeadsigns, vehicleJourneyIDs, acc.VehicleJourneys)
	remapStopTimeTable(acc.StopTimeIDs, incoming.StopTimeIDs, vehicleJourneyIDs, acc.VehicleJourneys)
	for key, comment := range incoming.StopTimeComments {
		vj, ok := vehicleJourneyIDs.Resolve(key.VehicleJourney, acc.VehicleJourneys)
		if !ok {
			continue
		}
		newComment, ok := commentIDs.Resolve(comment, acc.Comments)
		if !ok {
			continue
		}
		acc.StopTimeComments[model.StopTimeKey{VehicleJourney: vj, Sequence: key.Sequence}] = newComment
	}

	acc.Frequencies.Merge(incoming.Frequencies)
	acc.Transfers.Merge(incoming.Transfers)
	acc.Pathways.Merge(incoming.Pathways)
	acc.Levels.Merge(incoming.Levels)
	acc.AdminStations.Merge(incoming.AdminStations)
	acc.PricesV1.Merge(incoming.PricesV1)
	acc.ODFaresV1.Merge(incoming.ODFaresV1)
	acc.FaresV1.Merge(incoming.FaresV1)
	acc.TicketPrices.Merge(incoming.TicketPrices)
	acc.TicketUsePerimeters.Merge(incoming.TicketUsePerimeters)
	acc.TicketUseRestrictions.Merge(incoming.TicketUseRestrictions)
	acc.GridExceptionDates.Merge(incoming.GridExceptionDates)
	acc.GridPeriods.Merge(incoming.GridPeriods)
	acc.GridRelCalendarLine.Merge(incoming.GridRelCalendarLine)

	log.Debug().
		Int("lines", acc.Lines.Len()).
		Int("stop_points", acc.StopPoints.Len()).
		Int("trips", acc.VehicleJourneys.Len()).
		Msg("Merged dataset")

	return acc, nil
}

func remapLinks(links model.CommentLinks, ids collection.IDTable[model.Comment], comments *collection.CollectionWithID[model.Comment]) model.CommentLinks {
	if len(links) == 0 {
		return links
	}

	remapped := make(model.CommentLinks, 0, len(links))
	for _, old := range links {
		if idx, ok := ids.Resolve(old, comments); ok {
			remapped.Insert(idx)
		}
	}
	return remapped
}

func remapCommentLinks(incoming *model.Collections, ids collection.IDTable[model.Comment], comments *collection.CollectionWithID[model.Comment]) {
	for _, line := range incoming.Lines.All() {
		line.CommentLinks = remapLinks(line.CommentLinks, ids, comments)
	}
	for _, route := range incoming.Routes.All() {
		route.CommentLinks = remapLinks(route.CommentLinks, ids, comments)
	}
	for _, vj := range incoming.VehicleJourneys.All() {
		vj.CommentLinks = remapLinks(vj.CommentLinks, ids, comments)
	}
	for _, stopPoint := range incoming.StopPoints.All() {
		stopPoint.CommentLinks = remapLinks(stopPoint.CommentLinks, ids, comments)
	}
	for _, stopArea := range incoming.StopAreas.All() {
		stopArea.CommentLinks = remapLinks(stopArea.CommentLinks, ids, comments)
	}
}

func remapStopTimeTable[V any](
	acc map[model.StopTimeKey]V,
	incoming map[model.StopTimeKey]V,
	ids collection.IDTable[model.VehicleJourney],
	vehicleJourneys *collection.CollectionWithID[model.VehicleJourney],
) {
	for key, value := range incoming {
		vj, ok := ids.Resolve(key.VehicleJourney, vehicleJourneys)
		if !ok {
			continue
		}
		acc[model.StopTimeKey{VehicleJourney: vj, Sequence: key.Sequence}] = value
	}
}

// MergeAll folds snapshots, in order, into an empty snapshot.
func MergeAll(snapshots []*model.Collections) (*model.Collections, error) {
	acc := model.New()

	for i, snapshot := range snapshots {
		merged, err := Merge(acc, snapshot)
		if err != nil {
			return nil, fmt.Errorf("merging dataset %d: %w", i+1, err)
		}
		acc = merged

		log.Info().Int("dataset", i+1).Int("of", len(snapshots)).Msg("Dataset merged")
	}

	return acc, nil
}
