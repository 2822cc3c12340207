package model

import (
	"github.com/crocme10/tartare-tools/pkg/collection"
	"golang.org/x/exp/slices"
)

// Code is an identifier of an object in an external system.
type Code struct {
	System string `json:"object_system"`
	Value  string `json:"object_code"`
}

// Codes is a set of codes kept in insertion order.
type Codes []Code

func (c Codes) Contains(code Code) bool {
	return slices.Contains(c, code)
}

func (c *Codes) Insert(code Code) {
	if !c.Contains(code) {
		*c = append(*c, code)
	}
}

func (c *Codes) Union(other Codes) {
	for _, code := range other {
		c.Insert(code)
	}
}

// CommentLinks is an ordered set of handles into the comments collection.
type CommentLinks []collection.Idx[Comment]

func (l *CommentLinks) Insert(idx collection.Idx[Comment]) {
	if !slices.Contains(*l, idx) {
		*l = append(*l, idx)
	}
}

func (l *CommentLinks) Union(other CommentLinks) {
	for _, idx := range other {
		l.Insert(idx)
	}
}

type ObjectProperties map[string]string

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return keys
}

// PropertyConflict is an incoming object property dropped because the
// merge target already holds its key.
type PropertyConflict struct {
	Key   string
	Value string
}

// Union adds the keys of other missing from p. Every colliding entry of
// other is returned and not applied, whatever its value.
func (p *ObjectProperties) Union(other ObjectProperties) []PropertyConflict {
	if len(other) == 0 {
		return nil
	}
	if *p == nil {
		*p = ObjectProperties{}
	}

	var conflicts []PropertyConflict
	for _, key := range sortedKeys(other) {
		if _, exists := (*p)[key]; exists {
			conflicts = append(conflicts, PropertyConflict{Key: key, Value: other[key]})
			continue
		}
		(*p)[key] = other[key]
	}

	return conflicts
}

// Annotations groups the metadata shared by lines, routes, vehicle journeys
// and stops.
type Annotations struct {
	Codes            Codes            `json:"codes,omitempty"`
	ObjectProperties ObjectProperties `json:"object_properties,omitempty"`
	CommentLinks     CommentLinks     `json:"-"`
}

func (a *Annotations) fuse(other Annotations) []PropertyConflict {
	a.Codes.Union(other.Codes)
	a.CommentLinks.Union(other.CommentLinks)
	return a.ObjectProperties.Union(other.ObjectProperties)
}

type ObjectType string

const (
	ObjectTypeLine           ObjectType = "line"
	ObjectTypeRoute          ObjectType = "route"
	ObjectTypeNetwork        ObjectType = "network"
	ObjectTypeStopPoint      ObjectType = "stop_point"
	ObjectTypeStopArea       ObjectType = "stop_area"
	ObjectTypeVehicleJourney ObjectType = "trip"
)
