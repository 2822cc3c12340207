package filter

import (
	"testing"

	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func newCollections(t *testing.T) *model.Collections {
	t.Helper()

	c := model.New()
	push := func(_ any, err error) {
		require.NoError(t, err)
	}

	push(c.Networks.Push(model.Network{ID: "N1"}))
	push(c.Networks.Push(model.Network{ID: "N2"}))
	push(c.Lines.Push(model.Line{ID: "L1", Code: strPtr("1"), NetworkID: "N1", CommercialModeID: "Bus"}))
	push(c.Lines.Push(model.Line{ID: "L2", Code: strPtr("2"), NetworkID: "N2", CommercialModeID: "Tram"}))
	push(c.Routes.Push(model.Route{ID: "R1", LineID: "L1"}))
	push(c.Routes.Push(model.Route{ID: "R2", LineID: "L2"}))
	push(c.VehicleJourneys.Push(model.VehicleJourney{ID: "VJ1", RouteID: "R1", PhysicalModeID: "Bus"}))
	push(c.VehicleJourneys.Push(model.VehicleJourney{ID: "VJ2", RouteID: "R2", PhysicalModeID: "Tramway"}))
	push(c.VehicleJourneys.Push(model.VehicleJourney{ID: "VJ3", RouteID: "R1", PhysicalModeID: "Bus"}))

	vj3, _ := c.VehicleJourneys.GetIdx("VJ3")
	vj2, _ := c.VehicleJourneys.GetIdx("VJ2")
	c.StopTimeHeadsigns[model.StopTimeKey{VehicleJourney: vj3, Sequence: 4}] = "Centre"
	c.StopTimeIDs[model.StopTimeKey{VehicleJourney: vj2, Sequence: 0}] = "st-0"
	c.Frequencies.Push(model.Frequency{VehicleJourneyID: "VJ2", HeadwaySecs: 300})
	c.Frequencies.Push(model.Frequency{VehicleJourneyID: "VJ3", HeadwaySecs: 600})

	return c
}

func TestExtract(t *testing.T) {
	c := newCollections(t)

	require.NoError(t, Apply(c, Filter{Action: Extract, Expression: `network_id == "N1"`}))

	assert.Equal(t, []string{"VJ1", "VJ3"}, c.VehicleJourneys.IDs())

	vj3, ok := c.VehicleJourneys.GetIdx("VJ3")
	require.True(t, ok)
	assert.Equal(t, map[model.StopTimeKey]string{{VehicleJourney: vj3, Sequence: 4}: "Centre"}, c.StopTimeHeadsigns)
	assert.Empty(t, c.StopTimeIDs)
	assert.Equal(t, []model.Frequency{{VehicleJourneyID: "VJ3", HeadwaySecs: 600}}, c.Frequencies.Values())
}

func TestRemove(t *testing.T) {
	c := newCollections(t)

	require.NoError(t, Apply(c, Filter{Action: Remove, Expression: `line_code in ["1"] && trip_id != "VJ3"`}))

	assert.Equal(t, []string{"VJ2", "VJ3"}, c.VehicleJourneys.IDs())
	assert.Len(t, c.Frequencies.Values(), 2)
}

func TestFilterErrors(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
	}{
		{"unknown field", Filter{Action: Extract, Expression: `operator == "x"`}},
		{"not a boolean", Filter{Action: Extract, Expression: `trip_id`}},
		{"unknown action", Filter{Action: "keep", Expression: `true`}},
		{"unknown network", Filter{Action: Remove, Expression: `network_id == "N9"`}},
		{"unknown network on the right", Filter{Action: Extract, Expression: `"N9" != network_id`}},
		{"unknown line in list", Filter{Action: Remove, Expression: `line_id in ["L1", "L9"]`}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newCollections(t)

			assert.Error(t, Apply(c, test.filter))
			assert.Equal(t, 3, c.VehicleJourneys.Len())
		})
	}
}

func TestUnknownNetworkMessage(t *testing.T) {
	c := newCollections(t)

	err := Apply(c, Filter{Action: Remove, Expression: `network_id == "X"`})

	assert.EqualError(t, err, `network "X" not found`)
}

func TestEmptyResult(t *testing.T) {
	c := newCollections(t)

	err := Apply(c, Filter{Action: Remove, Expression: `true`})

	assert.ErrorIs(t, err, ErrEmptyResult)
}
