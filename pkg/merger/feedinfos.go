package merger

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/crocme10/tartare-tools/pkg/model"
)

// ReadFeedInfos decodes a flat JSON object of feed infos.
func ReadFeedInfos(reader io.Reader) (map[string]string, error) {
	feedInfos := map[string]string{}
	if err := json.NewDecoder(reader).Decode(&feedInfos); err != nil {
		return nil, fmt.Errorf("reading feed infos: %w", err)
	}

	return feedInfos, nil
}

// AppendFeedInfos overrides the feed infos of collections with feedInfos.
func AppendFeedInfos(collections *model.Collections, feedInfos map[string]string) {
	if collections.FeedInfos == nil {
		collections.FeedInfos = map[string]string{}
	}
	for key, value := range feedInfos {
		collections.FeedInfos[key] = value
	}
}
