package rules

import (
	"cmp"
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

type ComplementaryCode struct {
	ObjectType   model.ObjectType `csv:"object_type"`
	ObjectID     string           `csv:"object_id"`
	ObjectSystem string           `csv:"object_system"`
	ObjectCode   string           `csv:"object_code"`
}

// complementaryCodeTypes ranks the object types codes can be added to.
var complementaryCodeTypes = map[model.ObjectType]int{
	model.ObjectTypeLine:      1,
	model.ObjectTypeRoute:     2,
	model.ObjectTypeStopPoint: 3,
	model.ObjectTypeStopArea:  4,
}

func compareCodes(a, b ComplementaryCode) int {
	if c := cmp.Compare(complementaryCodeTypes[a.ObjectType], complementaryCodeTypes[b.ObjectType]); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ObjectID, b.ObjectID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ObjectSystem, b.ObjectSystem); c != 0 {
		return c
	}
	return cmp.Compare(a.ObjectCode, b.ObjectCode)
}

// ReadComplementaryCodes reads one rule file. Invalid rows are reported and
// skipped.
func ReadComplementaryCodes(reader io.Reader, name string, sink report.Sink) ([]ComplementaryCode, error) {
	log.Info().Str("file", name).Msg("Reading complementary code rules")

	var rows []*ComplementaryCode
	if err := gocsv.UnmarshalCSV(newCSVReader(reader), &rows); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	var codes []ComplementaryCode
	for i, row := range rows {
		code := ComplementaryCode{
			ObjectType:   model.ObjectType(strings.TrimSpace(string(row.ObjectType))),
			ObjectID:     strings.TrimSpace(row.ObjectID),
			ObjectSystem: strings.TrimSpace(row.ObjectSystem),
			ObjectCode:   strings.TrimSpace(row.ObjectCode),
		}

		switch {
		case complementaryCodeTypes[code.ObjectType] == 0:
			sink.AddWarning(fmt.Sprintf("Error reading %s: line %d: unknown object_type %q", name, i+2, code.ObjectType), report.InvalidFile)
		case code.ObjectID == "" || code.ObjectSystem == "" || code.ObjectCode == "":
			sink.AddWarning(fmt.Sprintf("Error reading %s: line %d: object_id, object_system and object_code are required", name, i+2), report.InvalidFile)
		default:
			codes = append(codes, code)
		}
	}

	return codes, nil
}

// dedupeCodes sorts codes and drops repeated rows.
func dedupeCodes(codes []ComplementaryCode) []ComplementaryCode {
	sorted := make([]ComplementaryCode, len(codes))
	copy(sorted, codes)
	slices.SortFunc(sorted, compareCodes)

	unique := make([]ComplementaryCode, 0, len(sorted))
	for i, code := range sorted {
		if i > 0 && code == sorted[i-1] {
			continue
		}
		unique = append(unique, code)
	}

	return unique
}

func insertCode[T collection.Identifier](objects *collection.CollectionWithID[T], code ComplementaryCode, codes func(*T) *model.Codes, sink report.Sink) {
	object := objects.Get(code.ObjectID)
	if object == nil {
		sink.AddWarning(
			fmt.Sprintf("Error inserting code: object_codes.txt: object=%s, object_id=%s not found", code.ObjectType, code.ObjectID),
			report.ObjectNotFound,
		)
		return
	}

	codes(object).Insert(model.Code{System: code.ObjectSystem, Value: code.ObjectCode})
}

func ApplyComplementaryCodes(collections *model.Collections, codes []ComplementaryCode, sink report.Sink) {
	for _, code := range dedupeCodes(codes) {
		switch code.ObjectType {
		case model.ObjectTypeLine:
			insertCode(collections.Lines, code, func(l *model.Line) *model.Codes { return &l.Codes }, sink)
		case model.ObjectTypeRoute:
			insertCode(collections.Routes, code, func(r *model.Route) *model.Codes { return &r.Codes }, sink)
		case model.ObjectTypeStopPoint:
			insertCode(collections.StopPoints, code, func(s *model.StopPoint) *model.Codes { return &s.Codes }, sink)
		case model.ObjectTypeStopArea:
			insertCode(collections.StopAreas, code, func(s *model.StopArea) *model.Codes { return &s.Codes }, sink)
		default:
			sink.AddWarning(fmt.Sprintf("Unsupported object_type %q for complementary code", code.ObjectType), report.InvalidFile)
		}
	}
}
