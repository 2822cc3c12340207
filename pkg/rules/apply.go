package rules

import (
	"fmt"

	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/crocme10/tartare-tools/pkg/report"
	"github.com/rs/zerolog/log"
)

type Options struct {
	ObjectRules         *ObjectRuleConfiguration
	RouteConsolidations []RouteConsolidation
	ComplementaryCodes  []ComplementaryCode
}

// Apply runs object rules, route consolidations and complementary codes on a
// copy of collections. collections is never modified. Non fatal findings go
// to sink; on error no snapshot is returned.
func Apply(collections *model.Collections, options Options, sink report.Sink) (*model.Collections, error) {
	if options.ObjectRules != nil {
		if err := options.ObjectRules.Validate(); err != nil {
			return nil, err
		}
	}

	result, err := collections.Clone()
	if err != nil {
		return nil, fmt.Errorf("copying dataset: %w", err)
	}

	if options.ObjectRules != nil {
		log.Info().Msg("Applying object rules")
		if err := ApplyObjectRules(result, options.ObjectRules, sink); err != nil {
			return nil, err
		}
	}

	if len(options.RouteConsolidations) > 0 {
		log.Info().Msg("Applying route consolidation rules")
		ApplyRouteConsolidations(result, options.RouteConsolidations, sink)
	}

	if len(options.ComplementaryCodes) > 0 {
		log.Info().Msg("Applying complementary code rules")
		ApplyComplementaryCodes(result, options.ComplementaryCodes, sink)
	}

	return result, nil
}
