package rules

import (
	"testing"

	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/crocme10/tartare-tools/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyChainsRules(t *testing.T) {
	c := newRouteCollections(t)
	_, err := c.Networks.Push(model.Network{ID: "N2"})
	require.NoError(t, err)
	_, err = c.Routes.Push(model.Route{ID: "R5", LineID: "L3", DirectionType: strPtr("forward")})
	require.NoError(t, err)
	r := report.New()

	result, err := Apply(c, Options{
		ObjectRules:         readRules(t, `{"networks": [{"network_id": "N1", "grouped_from": ["N2"]}]}`),
		RouteConsolidations: []RouteConsolidation{{ObjectType: model.ObjectTypeNetwork, ObjectID: "N1"}},
		ComplementaryCodes: []ComplementaryCode{
			{ObjectType: model.ObjectTypeRoute, ObjectID: "L3-forward", ObjectSystem: "source", ObjectCode: "l3"},
		},
	}, r)
	require.NoError(t, err)

	assert.Equal(t, "N1", result.Lines.Get("L3").NetworkID)
	assert.False(t, result.Routes.ContainsID("R5"))
	consolidated := result.Routes.Get("L3-forward")
	require.NotNil(t, consolidated)
	assert.True(t, consolidated.Codes.Contains(model.Code{System: "source", Value: "l3"}))
	assert.Empty(t, r.Errors)

	assert.True(t, c.Networks.ContainsID("N2"))
	assert.Equal(t, "N2", c.Lines.Get("L3").NetworkID)
	assert.True(t, c.Routes.ContainsID("R5"))
	assert.Equal(t, "R1", c.VehicleJourneys.Get("VJ1").RouteID)
}

func TestApplyRejectsInvalidConfiguration(t *testing.T) {
	c := newRouteCollections(t)
	r := report.New()

	result, err := Apply(c, Options{
		ObjectRules:         readRules(t, `{"networks": [{"network_id": "N1", "grouped_from": ["N1"]}]}`),
		RouteConsolidations: []RouteConsolidation{{ObjectType: model.ObjectTypeLine, ObjectID: "L1"}},
	}, r)

	assert.Nil(t, result)
	var validation *ConfigValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "N1", validation.ID)
	assert.True(t, c.Routes.ContainsID("R1"))
	assert.Empty(t, r.Warnings)
}

func TestApplyWithoutRules(t *testing.T) {
	c := newRouteCollections(t)

	result, err := Apply(c, Options{}, report.New())
	require.NoError(t, err)

	assert.Equal(t, c.Routes.IDs(), result.Routes.IDs())
	assert.NotSame(t, c.Routes, result.Routes)
}
