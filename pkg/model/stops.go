package model

type StopPoint struct {
	ID           string  `json:"stop_id"`
	Name         string  `json:"stop_name"`
	Lon          float64 `json:"stop_lon"`
	Lat          float64 `json:"stop_lat"`
	StopAreaID   string  `json:"parent_station"`
	Timezone     *string `json:"stop_timezone,omitempty"`
	Visible      bool    `json:"visible"`
	EquipmentID  *string `json:"equipment_id,omitempty"`
	LevelID      *string `json:"level_id,omitempty"`
	PlatformCode *string `json:"platform_code,omitempty"`
	FareZoneID   *string `json:"fare_zone_id,omitempty"`
	Annotations
}

func (s StopPoint) GetID() string { return s.ID }

type StopArea struct {
	ID          string  `json:"stop_id"`
	Name        string  `json:"stop_name"`
	Lon         float64 `json:"stop_lon"`
	Lat         float64 `json:"stop_lat"`
	Timezone    *string `json:"stop_timezone,omitempty"`
	Visible     bool    `json:"visible"`
	EquipmentID *string `json:"equipment_id,omitempty"`
	LevelID     *string `json:"level_id,omitempty"`
	Annotations
}

func (s StopArea) GetID() string { return s.ID }

type Transfer struct {
	FromStopID          string  `json:"from_stop_id"`
	ToStopID            string  `json:"to_stop_id"`
	MinTransferTime     *uint32 `json:"min_transfer_time,omitempty"`
	RealMinTransferTime *uint32 `json:"real_min_transfer_time,omitempty"`
	EquipmentID         *string `json:"equipment_id,omitempty"`
}

type Pathway struct {
	ID              string   `json:"pathway_id"`
	FromStopID      string   `json:"from_stop_id"`
	ToStopID        string   `json:"to_stop_id"`
	PathwayMode     uint8    `json:"pathway_mode"`
	IsBidirectional bool     `json:"is_bidirectional"`
	Length          *float64 `json:"length,omitempty"`
	TraversalTime   *uint32  `json:"traversal_time,omitempty"`
	StairCount      *int32   `json:"stair_count,omitempty"`
	SignpostedAs    *string  `json:"signposted_as,omitempty"`
}

type Level struct {
	ID         string  `json:"level_id"`
	LevelIndex float64 `json:"level_index"`
	Name       *string `json:"level_name,omitempty"`
}

type AdminStation struct {
	AdminID   string `json:"admin_id"`
	AdminName string `json:"admin_name"`
	StopID    string `json:"stop_id"`
}
