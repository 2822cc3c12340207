package model

import "github.com/crocme10/tartare-tools/pkg/collection"

type Contributor struct {
	ID      string  `json:"contributor_id"`
	Name    string  `json:"contributor_name"`
	License *string `json:"contributor_license,omitempty"`
	Website *string `json:"contributor_website,omitempty"`
}

func (c Contributor) GetID() string { return c.ID }

type Dataset struct {
	ID            string  `json:"dataset_id"`
	ContributorID string  `json:"contributor_id"`
	StartDate     string  `json:"dataset_start_date"`
	EndDate       string  `json:"dataset_end_date"`
	Description   *string `json:"dataset_desc,omitempty"`
	SystemType    *string `json:"dataset_system,omitempty"`
}

func (d Dataset) GetID() string { return d.ID }

type Network struct {
	ID        string  `json:"network_id"`
	Name      string  `json:"network_name"`
	URL       *string `json:"network_url,omitempty"`
	Timezone  *string `json:"network_timezone,omitempty"`
	Lang      *string `json:"network_lang,omitempty"`
	Phone     *string `json:"network_phone,omitempty"`
	Address   *string `json:"network_address,omitempty"`
	SortOrder *uint32 `json:"network_sort_order,omitempty"`
	Codes     Codes   `json:"codes,omitempty"`
}

func (n Network) GetID() string { return n.ID }

type CommercialMode struct {
	ID   string `json:"commercial_mode_id"`
	Name string `json:"commercial_mode_name"`
}

func (m CommercialMode) GetID() string { return m.ID }

type PhysicalMode struct {
	ID          string   `json:"physical_mode_id"`
	Name        string   `json:"physical_mode_name"`
	CO2Emission *float32 `json:"co2_emission,omitempty"`
}

func (m PhysicalMode) GetID() string { return m.ID }

type Line struct {
	ID               string  `json:"line_id"`
	Code             *string `json:"line_code,omitempty"`
	Name             string  `json:"line_name"`
	ForwardName      *string `json:"forward_line_name,omitempty"`
	BackwardName     *string `json:"backward_line_name,omitempty"`
	Color            *string `json:"line_color,omitempty"`
	TextColor        *string `json:"line_text_color,omitempty"`
	SortOrder        *uint32 `json:"line_sort_order,omitempty"`
	NetworkID        string  `json:"network_id"`
	CommercialModeID string  `json:"commercial_mode_id"`
	GeometryID       *string `json:"geometry_id,omitempty"`
	OpeningTime      *string `json:"line_opening_time,omitempty"`
	ClosingTime      *string `json:"line_closing_time,omitempty"`
	Annotations
}

func (l Line) GetID() string { return l.ID }

type Route struct {
	ID            string  `json:"route_id"`
	Name          string  `json:"route_name"`
	DirectionType *string `json:"direction_type,omitempty"`
	LineID        string  `json:"line_id"`
	GeometryID    *string `json:"geometry_id,omitempty"`
	DestinationID *string `json:"destination_id,omitempty"`
	Annotations
}

func (r Route) GetID() string { return r.ID }

type StopTime struct {
	StopPointIdx      collection.Idx[StopPoint] `json:"-"`
	Sequence          uint32                    `json:"stop_sequence"`
	ArrivalTime       uint32                    `json:"arrival_time"`
	DepartureTime     uint32                    `json:"departure_time"`
	BoardingDuration  uint16                    `json:"boarding_duration"`
	AlightingDuration uint16                    `json:"alighting_duration"`
	PickupType        uint8                     `json:"pickup_type"`
	DropOffType       uint8                     `json:"drop_off_type"`
	LocalZoneID       *uint16                   `json:"local_zone_id,omitempty"`
	Precision         *uint8                    `json:"stop_time_precision,omitempty"`
}

type VehicleJourney struct {
	ID             string     `json:"trip_id"`
	RouteID        string     `json:"route_id"`
	PhysicalModeID string     `json:"physical_mode_id"`
	DatasetID      string     `json:"dataset_id"`
	ServiceID      string     `json:"service_id"`
	CompanyID      string     `json:"company_id"`
	Headsign       *string    `json:"trip_headsign,omitempty"`
	ShortName      *string    `json:"trip_short_name,omitempty"`
	BlockID        *string    `json:"block_id,omitempty"`
	TripPropertyID *string    `json:"trip_property_id,omitempty"`
	GeometryID     *string    `json:"geometry_id,omitempty"`
	StopTimes      []StopTime `json:"-"`
	Annotations
}

func (v VehicleJourney) GetID() string { return v.ID }

type Company struct {
	ID      string  `json:"company_id"`
	Name    string  `json:"company_name"`
	Address *string `json:"company_address,omitempty"`
	URL     *string `json:"company_url,omitempty"`
	Mail    *string `json:"company_mail,omitempty"`
	Phone   *string `json:"company_phone,omitempty"`
	Codes   Codes   `json:"codes,omitempty"`
}

func (c Company) GetID() string { return c.ID }

type Comment struct {
	ID          string  `json:"comment_id"`
	CommentType string  `json:"comment_type"`
	Label       *string `json:"comment_label,omitempty"`
	Name        string  `json:"comment_name"`
	URL         *string `json:"comment_url,omitempty"`
}

func (c Comment) GetID() string { return c.ID }

type Calendar struct {
	ID    string   `json:"service_id"`
	Dates []string `json:"dates"`
}

func (c Calendar) GetID() string { return c.ID }

type TripProperty struct {
	ID                   string `json:"trip_property_id"`
	WheelchairAccessible uint8  `json:"wheelchair_accessible"`
	BikeAccepted         uint8  `json:"bike_accepted"`
	AirConditioned       uint8  `json:"air_conditioned"`
	VisualAnnouncement   uint8  `json:"visual_announcement"`
	AudibleAnnouncement  uint8  `json:"audible_announcement"`
	SchoolVehicleType    uint8  `json:"school_vehicle_type"`
}

func (t TripProperty) GetID() string { return t.ID }

type Geometry struct {
	ID  string `json:"geometry_id"`
	WKT string `json:"geometry_wkt"`
}

func (g Geometry) GetID() string { return g.ID }

type Equipment struct {
	ID                  string `json:"equipment_id"`
	WheelchairBoarding  uint8  `json:"wheelchair_boarding"`
	Sheltered           uint8  `json:"sheltered"`
	Elevator            uint8  `json:"elevator"`
	Escalator           uint8  `json:"escalator"`
	BikeAccepted        uint8  `json:"bike_accepted"`
	BikeDepot           uint8  `json:"bike_depot"`
	VisualAnnouncement  uint8  `json:"visual_announcement"`
	AudibleAnnouncement uint8  `json:"audible_announcement"`
}

func (e Equipment) GetID() string { return e.ID }

type Frequency struct {
	VehicleJourneyID string `json:"trip_id"`
	StartTime        uint32 `json:"start_time"`
	EndTime          uint32 `json:"end_time"`
	HeadwaySecs      uint32 `json:"headway_secs"`
}
