package model

type GridCalendar struct {
	ID        string `json:"grid_calendar_id"`
	Name      string `json:"name"`
	Monday    bool   `json:"monday"`
	Tuesday   bool   `json:"tuesday"`
	Wednesday bool   `json:"wednesday"`
	Thursday  bool   `json:"thursday"`
	Friday    bool   `json:"friday"`
	Saturday  bool   `json:"saturday"`
	Sunday    bool   `json:"sunday"`
}

func (g GridCalendar) GetID() string { return g.ID }

type GridExceptionDate struct {
	GridCalendarID string `json:"grid_calendar_id"`
	Date           string `json:"date"`
	Type           bool   `json:"type"`
}

type GridPeriod struct {
	GridCalendarID string `json:"grid_calendar_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

type GridRelCalendarLine struct {
	GridCalendarID   string  `json:"grid_calendar_id"`
	LineID           string  `json:"line_id"`
	LineExternalCode *string `json:"line_external_code,omitempty"`
}
