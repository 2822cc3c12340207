package model

type Ticket struct {
	ID      string  `json:"ticket_id"`
	Name    string  `json:"ticket_name"`
	Comment *string `json:"ticket_comment,omitempty"`
}

func (t Ticket) GetID() string { return t.ID }

type TicketUse struct {
	ID                 string  `json:"ticket_use_id"`
	TicketID           string  `json:"ticket_id"`
	MaxTransfers       *uint32 `json:"max_transfers,omitempty"`
	BoardingTimeLimit  *uint32 `json:"boarding_time_limit,omitempty"`
	AlightingTimeLimit *uint32 `json:"alighting_time_limit,omitempty"`
}

func (t TicketUse) GetID() string { return t.ID }

type TicketPrice struct {
	TicketID      string `json:"ticket_id"`
	Price         string `json:"ticket_price"`
	Currency      string `json:"ticket_currency"`
	ValidityStart string `json:"ticket_validity_start"`
	ValidityEnd   string `json:"ticket_validity_end"`
}

// PerimeterAction is 1 for an included object and 2 for an excluded one.
type PerimeterAction uint8

type TicketUsePerimeter struct {
	TicketUseID     string          `json:"ticket_use_id"`
	ObjectType      ObjectType      `json:"object_type"`
	ObjectID        string          `json:"object_id"`
	PerimeterAction PerimeterAction `json:"perimeter_action"`
}

type TicketUseRestriction struct {
	TicketUseID     string `json:"ticket_use_id"`
	RestrictionType string `json:"restriction_type"`
	UseOrigin       string `json:"use_origin"`
	UseDestination  string `json:"use_destination"`
}

type PriceV1 struct {
	ID        string `json:"clef_tarif"`
	StartDate string `json:"date_debut"`
	EndDate   string `json:"date_fin"`
	Price     uint32 `json:"prix"`
	Name      string `json:"libelle"`
	Ignored   string `json:"ignored"`
	Comment   string `json:"commentaire"`
	Currency  string `json:"devise"`
}

type ODFareV1 struct {
	OriginStopAreaID      string `json:"origin_stop_area_id"`
	OriginName            string `json:"origin_name"`
	OriginMode            string `json:"origin_mode"`
	DestinationStopAreaID string `json:"destination_stop_area_id"`
	DestinationName       string `json:"destination_name"`
	DestinationMode       string `json:"destination_mode"`
	TicketID              string `json:"ticket_id"`
}

type FareV1 struct {
	BeforeChange    string `json:"avant_changement"`
	AfterChange     string `json:"apres_changement"`
	StartTrip       string `json:"debut_trajet"`
	EndTrip         string `json:"fin_trajet"`
	GlobalCondition string `json:"condition_globale"`
	TicketID        string `json:"clef_ticket"`
}
