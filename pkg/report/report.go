package report

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type Category string

const (
	ObjectNotFound          Category = "ObjectNotFound"
	InvalidFile             Category = "InvalidFile"
	UnknownPropertyValue    Category = "UnknownPropertyValue"
	MultipleValue           Category = "MultipleValue"
	ConsolidationNotApplied Category = "ConsolidationNotApplied"
)

// Sink receives the non fatal findings of a run.
type Sink interface {
	AddWarning(message string, category Category)
	AddError(message string, category Category)
}

type Row struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Report records each (category, message) pair once per level.
type Report struct {
	Errors   []Row `json:"errors"`
	Warnings []Row `json:"warnings"`
}

func New() *Report {
	return &Report{
		Errors:   []Row{},
		Warnings: []Row{},
	}
}

func (r *Report) AddWarning(message string, category Category) {
	row := Row{Category: category, Message: message}
	if slices.Contains(r.Warnings, row) {
		return
	}

	log.Warn().Str("category", string(category)).Msg(message)
	r.Warnings = append(r.Warnings, row)
}

func (r *Report) AddError(message string, category Category) {
	row := Row{Category: category, Message: message}
	if slices.Contains(r.Errors, row) {
		return
	}

	log.Error().Str("category", string(category)).Msg(message)
	r.Errors = append(r.Errors, row)
}

func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
