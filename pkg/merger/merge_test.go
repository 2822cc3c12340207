package merger

import (
	"strings"
	"testing"

	"github.com/crocme10/tartare-tools/pkg/collection"
	"github.com/crocme10/tartare-tools/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float32Ptr(f float32) *float32 {
	return &f
}

// newDataset builds a small snapshot whose identifiers are prefixed, sharing
// the network "N", the commercial mode "Bus" and the physical mode "Bus".
func newDataset(t *testing.T, prefix string, co2 float32) *model.Collections {
	t.Helper()

	c := model.New()
	push := func(_ any, err error) {
		require.NoError(t, err)
	}

	push(c.Contributors.Push(model.Contributor{ID: prefix + "contributor"}))
	push(c.Datasets.Push(model.Dataset{ID: prefix + "dataset", ContributorID: prefix + "contributor"}))
	push(c.Networks.Push(model.Network{ID: "N", Codes: model.Codes{{System: "source", Value: prefix}}}))
	push(c.CommercialModes.Push(model.CommercialMode{ID: "Bus", Name: "Bus"}))
	push(c.PhysicalModes.Push(model.PhysicalMode{ID: "Bus", Name: "Bus", CO2Emission: float32Ptr(co2)}))

	push(c.Comments.Push(model.Comment{ID: prefix + "comment_a"}))
	push(c.Comments.Push(model.Comment{ID: prefix + "comment_b"}))

	push(c.Lines.Push(model.Line{
		ID:          prefix + "line",
		NetworkID:   "N",
		Annotations: model.Annotations{CommentLinks: model.CommentLinks{1}},
	}))
	push(c.Routes.Push(model.Route{ID: prefix + "route", LineID: prefix + "line"}))

	push(c.StopAreas.Push(model.StopArea{ID: "SA", Annotations: model.Annotations{CommentLinks: model.CommentLinks{0}}}))
	push(c.StopPoints.Push(model.StopPoint{ID: prefix + "stop_1", StopAreaID: "SA"}))
	push(c.StopPoints.Push(model.StopPoint{
		ID:          "shared_stop",
		StopAreaID:  "SA",
		Annotations: model.Annotations{CommentLinks: model.CommentLinks{1}, ObjectProperties: model.ObjectProperties{"origin": prefix}},
	}))

	push(c.VehicleJourneys.Push(model.VehicleJourney{
		ID:             prefix + "vj",
		RouteID:        prefix + "route",
		PhysicalModeID: "Bus",
		StopTimes: []model.StopTime{
			{StopPointIdx: 1, Sequence: 0},
			{StopPointIdx: 0, Sequence: 1},
		},
	}))

	c.Frequencies.Push(model.Frequency{VehicleJourneyID: prefix + "vj", HeadwaySecs: 600})
	c.StopTimeHeadsigns[model.StopTimeKey{VehicleJourney: 0, Sequence: 1}] = prefix + "headsign"
	c.StopTimeIDs[model.StopTimeKey{VehicleJourney: 0, Sequence: 0}] = prefix + "st_0"
	c.StopTimeComments[model.StopTimeKey{VehicleJourney: 0, Sequence: 0}] = collection.Idx[model.Comment](0)
	c.FeedInfos["feed_publisher_name"] = prefix

	return c
}

func TestMergeDisjoint(t *testing.T) {
	first := newDataset(t, "a_", 21)
	second := newDataset(t, "b_", 42)

	merged, err := Merge(first, second)
	require.NoError(t, err)

	assert.Equal(t, 2, merged.Contributors.Len())
	assert.Equal(t, 2, merged.Lines.Len())
	assert.Equal(t, 2, merged.VehicleJourneys.Len())
	assert.Equal(t, 4, merged.Comments.Len())
	assert.Equal(t, 2, merged.Frequencies.Len())

	assert.Equal(t, 1, merged.Networks.Len())
	assert.Equal(t, model.Codes{{System: "source", Value: "a_"}, {System: "source", Value: "b_"}}, merged.Networks.Get("N").Codes)
	assert.Equal(t, 1, merged.CommercialModes.Len())

	bus := merged.PhysicalModes.Get("Bus")
	require.NotNil(t, bus)
	assert.InDelta(t, 42, *bus.CO2Emission, 0.0001)

	assert.Equal(t, 3, merged.StopPoints.Len())
	shared := merged.StopPoints.Get("shared_stop")
	assert.Equal(t, model.ObjectProperties{"origin": "a_"}, shared.ObjectProperties)

	assert.Empty(t, merged.FeedInfos)
}

func TestMergeRemapsHandles(t *testing.T) {
	first := newDataset(t, "a_", 21)
	second := newDataset(t, "b_", 42)

	merged, err := Merge(first, second)
	require.NoError(t, err)
	require.NoError(t, merged.CheckHandles())

	vjIdx, ok := merged.VehicleJourneys.GetIdx("b_vj")
	require.True(t, ok)
	vj := merged.VehicleJourneys.Index(vjIdx)
	assert.Equal(t, "shared_stop", merged.StopPoints.Index(vj.StopTimes[0].StopPointIdx).ID)
	assert.Equal(t, "b_stop_1", merged.StopPoints.Index(vj.StopTimes[1].StopPointIdx).ID)

	line := merged.Lines.Get("b_line")
	require.Len(t, line.CommentLinks, 1)
	assert.Equal(t, "b_comment_b", merged.Comments.Index(line.CommentLinks[0]).ID)

	var commentIDs []string
	for _, idx := range merged.StopPoints.Get("shared_stop").CommentLinks {
		commentIDs = append(commentIDs, merged.Comments.Index(idx).ID)
	}
	assert.Equal(t, []string{"a_comment_b", "b_comment_b"}, commentIDs)

	commentIDs = nil
	for _, idx := range merged.StopAreas.Get("SA").CommentLinks {
		commentIDs = append(commentIDs, merged.Comments.Index(idx).ID)
	}
	assert.Equal(t, []string{"a_comment_a", "b_comment_a"}, commentIDs)

	assert.Equal(t, "b_headsign", merged.StopTimeHeadsigns[model.StopTimeKey{VehicleJourney: vjIdx, Sequence: 1}])
	assert.Equal(t, "b_st_0", merged.StopTimeIDs[model.StopTimeKey{VehicleJourney: vjIdx, Sequence: 0}])
	comment := merged.StopTimeComments[model.StopTimeKey{VehicleJourney: vjIdx, Sequence: 0}]
	assert.Equal(t, "b_comment_a", merged.Comments.Index(comment).ID)

	firstIdx, _ := merged.VehicleJourneys.GetIdx("a_vj")
	assert.Equal(t, "a_headsign", merged.StopTimeHeadsigns[model.StopTimeKey{VehicleJourney: firstIdx, Sequence: 1}])
}

func TestMergeCollisionLeavesAccumulator(t *testing.T) {
	first := newDataset(t, "a_", 21)
	second := newDataset(t, "b_", 42)
	_, err := second.Lines.Push(model.Line{ID: "a_line"})
	require.NoError(t, err)

	merged, err := Merge(first, second)

	require.Nil(t, merged)
	var duplicate *collection.DuplicateIDError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "a_line", duplicate.ID)
	assert.Equal(t, "lines", duplicate.Collection)

	assert.Equal(t, 1, first.Contributors.Len())
	assert.Equal(t, 2, first.Comments.Len())
	assert.Equal(t, 2, first.StopPoints.Len())
	assert.InDelta(t, 21, *first.PhysicalModes.Get("Bus").CO2Emission, 0.0001)
}

func TestMergeCollisionDeterminism(t *testing.T) {
	for range 3 {
		first := newDataset(t, "a_", 21)
		second := newDataset(t, "a_", 21)

		_, err := Merge(first, second)

		var duplicate *collection.DuplicateIDError
		require.ErrorAs(t, err, &duplicate)
		assert.Equal(t, "contributors", duplicate.Collection)
		assert.Equal(t, "a_contributor", duplicate.ID)
	}
}

func TestMergeRejectsDanglingHandle(t *testing.T) {
	first := newDataset(t, "a_", 21)
	second := newDataset(t, "b_", 42)
	second.StopTimeHeadsigns[model.StopTimeKey{VehicleJourney: 7, Sequence: 0}] = "ghost"

	_, err := Merge(first, second)

	var handleErr *model.HandleError
	require.ErrorAs(t, err, &handleErr)
	assert.Equal(t, "trips", handleErr.Collection)
}

func TestMergeAll(t *testing.T) {
	merged, err := MergeAll([]*model.Collections{
		newDataset(t, "a_", 21),
		newDataset(t, "b_", 42),
		newDataset(t, "c_", 10),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, merged.Datasets.Len())
	assert.Equal(t, 3, merged.VehicleJourneys.Len())
	assert.InDelta(t, 42, *merged.PhysicalModes.Get("Bus").CO2Emission, 0.0001)
	require.NoError(t, merged.CheckHandles())
}

func TestMergeAllStopsOnFirstFailure(t *testing.T) {
	merged, err := MergeAll([]*model.Collections{
		newDataset(t, "a_", 21),
		newDataset(t, "a_", 21),
	})

	assert.Nil(t, merged)
	assert.ErrorContains(t, err, "merging dataset 2")
}

func TestFeedInfos(t *testing.T) {
	feedInfos, err := ReadFeedInfos(strings.NewReader(`{"feed_publisher_name": "tartare", "feed_license": "ODbL"}`))
	require.NoError(t, err)

	c := newDataset(t, "a_", 21)
	AppendFeedInfos(c, feedInfos)

	assert.Equal(t, "tartare", c.FeedInfos["feed_publisher_name"])
	assert.Equal(t, "ODbL", c.FeedInfos["feed_license"])

	_, err = ReadFeedInfos(strings.NewReader(`[1, 2]`))
	assert.Error(t, err)
}
