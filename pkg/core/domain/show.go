package domain

// Show is a live event.
type Show struct {
	ID            int64   `json:"id"`
	Venue         string  `json:"venue"`
	City          string  `json:"city"`
	StateProvince string  `json:"state_province"`
	Country       string  `json:"country"`
	TicketLink    *string `json:"ticket_link"`
	ShowDate      Date    `json:"show_date"`
}

// UpcomingShows is the public summary of shows on or after today.
type UpcomingShows struct {
	Shows            []Show `json:"shows"`
	Count            int    `json:"count"`
	HasUpcomingShows bool   `json:"hasUpcomingShows"`
}
