package dto

type SignupRequest struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	AdminEmail      string `json:"admin_email"`
	Password        string `json:"password"`
	SMSContactPhone string `json:"sms_contact_phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateSettingsRequest struct {
	SMSContactPhone string `json:"sms_contact_phone"`
}

type CreateEventsRequest struct {
	Title           string   `json:"title"`
	Dates           []string `json:"dates"`
	Capacity        int      `json:"capacity"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	IntervalMinutes int      `json:"interval_minutes"`
}

type UpdateEventRequest struct {
	Title           string `json:"title"`
	PickupDate      string `json:"pickup_date"`
	Capacity        int    `json:"capacity"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	IntervalMinutes int    `json:"interval_minutes"`
}

type ToggleBookingsRequest struct {
	Open bool `json:"open"`
}

type BookingRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PickupTime string `json:"pickup_time"`
	PartySize  int    `json:"party_size"`
}

type FindBookingsRequest struct {
	OrganisationID string `json:"organisation_id"`
	PickupDate     string `json:"pickup_date"`
	Phone          string `json:"phone"`
}
