package model

import (
	"testing"

	"github.com/crocme10/tartare-tools/pkg/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float32Ptr(f float32) *float32 {
	return &f
}

func TestPhysicalModePolicy(t *testing.T) {
	tests := []struct {
		name     string
		existing *float32
		incoming *float32
		expected *float32
	}{
		{"both present", float32Ptr(21), float32Ptr(42), float32Ptr(42)},
		{"existing higher", float32Ptr(42), float32Ptr(21), float32Ptr(42)},
		{"existing missing", nil, float32Ptr(42), float32Ptr(42)},
		{"incoming missing", float32Ptr(21), nil, float32Ptr(21)},
		{"both missing", nil, nil, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			existing := PhysicalMode{ID: "Bus", Name: "Bus", CO2Emission: test.existing}
			conflicts := PhysicalModePolicy(&existing, PhysicalMode{ID: "Bus", Name: "Autobus", CO2Emission: test.incoming})

			assert.Empty(t, conflicts)
			assert.Equal(t, "Bus", existing.Name)
			if test.expected == nil {
				assert.Nil(t, existing.CO2Emission)
			} else {
				require.NotNil(t, existing.CO2Emission)
				assert.InDelta(t, *test.expected, *existing.CO2Emission, 0.0001)
			}
		})
	}
}

func TestLinePolicyUnion(t *testing.T) {
	existing := Line{
		ID:   "L1",
		Name: "Line 1",
		Annotations: Annotations{
			Codes:            Codes{{System: "source", Value: "1"}},
			ObjectProperties: ObjectProperties{"colour": "red"},
			CommentLinks:     CommentLinks{0},
		},
	}
	incoming := Line{
		ID:   "L1",
		Name: "Other name",
		Annotations: Annotations{
			Codes:            Codes{{System: "source", Value: "1"}, {System: "gtfs", Value: "12"}},
			ObjectProperties: ObjectProperties{"colour": "blue", "night": "yes"},
			CommentLinks:     CommentLinks{0, 3},
		},
	}

	conflicts := LinePolicy(&existing, incoming)

	assert.Equal(t, []PropertyConflict{{Key: "colour", Value: "blue"}}, conflicts)
	assert.Equal(t, "Line 1", existing.Name)
	assert.Equal(t, Codes{{System: "source", Value: "1"}, {System: "gtfs", Value: "12"}}, existing.Codes)
	assert.Equal(t, ObjectProperties{"colour": "red", "night": "yes"}, existing.ObjectProperties)
	assert.Equal(t, CommentLinks{0, 3}, existing.CommentLinks)
}

func TestUnionIdempotence(t *testing.T) {
	record := StopPoint{
		ID: "SP1",
		Annotations: Annotations{
			Codes:            Codes{{System: "a", Value: "1"}, {System: "b", Value: "2"}},
			ObjectProperties: ObjectProperties{"k1": "v1", "k2": "v2"},
			CommentLinks:     CommentLinks{collection.Idx[Comment](2), collection.Idx[Comment](5)},
		},
	}
	clone := record
	clone.Codes = append(Codes{}, record.Codes...)
	clone.CommentLinks = append(CommentLinks{}, record.CommentLinks...)
	clone.ObjectProperties = ObjectProperties{"k1": "v1", "k2": "v2"}

	StopPointPolicy(&clone, record)

	assert.Equal(t, record.Codes, clone.Codes)
	assert.Equal(t, record.CommentLinks, clone.CommentLinks)
	assert.Equal(t, record.ObjectProperties, clone.ObjectProperties)
}

func TestNetworkPolicyKeepsScalars(t *testing.T) {
	existing := Network{ID: "N1", Name: "First"}

	NetworkPolicy(&existing, Network{ID: "N1", Name: "Second", Codes: Codes{{System: "x", Value: "y"}}})

	assert.Equal(t, "First", existing.Name)
	assert.True(t, existing.Codes.Contains(Code{System: "x", Value: "y"}))
}

func TestPropertiesUnionOnNil(t *testing.T) {
	var properties ObjectProperties

	conflicts := properties.Union(ObjectProperties{"k": "v"})

	assert.Empty(t, conflicts)
	assert.Equal(t, ObjectProperties{"k": "v"}, properties)
}

func TestPropertiesUnionReportsEqualValues(t *testing.T) {
	properties := ObjectProperties{"k": "v", "night": "no"}

	conflicts := properties.Union(ObjectProperties{"k": "v", "night": "yes", "wifi": "yes"})

	assert.Equal(t, []PropertyConflict{{Key: "k", Value: "v"}, {Key: "night", Value: "yes"}}, conflicts)
	assert.Equal(t, ObjectProperties{"k": "v", "night": "no", "wifi": "yes"}, properties)
}

func TestCloneCollections(t *testing.T) {
	c := New()
	_, err := c.Networks.Push(Network{ID: "N1", Codes: Codes{{System: "a", Value: "b"}}})
	require.NoError(t, err)
	c.StopTimeHeadsigns[StopTimeKey{VehicleJourney: 0, Sequence: 1}] = "Centre"

	clone, err := c.Clone()
	require.NoError(t, err)

	clone.Networks.Get("N1").Codes.Insert(Code{System: "c", Value: "d"})
	clone.StopTimeHeadsigns[StopTimeKey{VehicleJourney: 0, Sequence: 1}] = "Gare"

	assert.Len(t, c.Networks.Get("N1").Codes, 1)
	assert.Equal(t, "Centre", c.StopTimeHeadsigns[StopTimeKey{VehicleJourney: 0, Sequence: 1}])
	assert.Equal(t, "networks", clone.Networks.Name())
}

func TestCheckHandles(t *testing.T) {
	c := New()
	_, err := c.VehicleJourneys.Push(VehicleJourney{ID: "VJ1", StopTimes: []StopTime{{StopPointIdx: 0, Sequence: 0}}})
	require.NoError(t, err)

	var handleErr *HandleError
	require.ErrorAs(t, c.CheckHandles(), &handleErr)
	assert.Equal(t, "stop_points", handleErr.Collection)

	_, err = c.StopPoints.Push(StopPoint{ID: "SP1"})
	require.NoError(t, err)
	assert.NoError(t, c.CheckHandles())
}
