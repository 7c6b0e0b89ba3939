package snaps

const defaultBaseURL = "https://pl.snapsbooking.com/api"

// Business is the public booking profile of a tenant business.
type Business struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Category groups services on the booking page (e.g. "Hair", "Nails").
type Category struct {
	ID        int64     `json:"id"`
	Business  int64     `json:"business"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	ColorCode string    `json:"color_code,omitempty"`
	Services  []Service `json:"services"`
}

// Service is a bookable catalog entry within a category.
type Service struct {
	ID              int64  `json:"id"`
	Category        int64  `json:"category"`
	CategoryName    string `json:"category_name,omitempty"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           string `json:"price"`
	IsActive        bool   `json:"is_active"`
	RequiresStaff   bool   `json:"requires_staff"`
	ColorCode       string `json:"color_code,omitempty"`
	SortOrder       int    `json:"sort_order"`
}

// Staff is a technician who can be requested for an appointment.
type Staff struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	RoleName  string `json:"role_name,omitempty"`
	IsActive  bool   `json:"is_active"`
}

// TimeSlot is one availability candidate returned by the platform.
// Start and end are ISO-8601 datetimes with an explicit offset; StaffID is
// the technician the platform would assign for this slot.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	StaffID   int64  `json:"staff_id"`
}

// TimeSlotsQuery are the inputs to the availability endpoint. A zero StaffID
// means "anyone" and is omitted from the request.
type TimeSlotsQuery struct {
	BusinessID int64
	Date       string // "2006-01-02"
	ServiceIDs []int64
	Duration   int // aggregate minutes
	StaffID    int64
}

// ClientRecord is a returning or newly captured customer. BusinessID is set
// on create requests and echoed back by the platform.
type ClientRecord struct {
	ID         int64  `json:"id,omitempty"`
	BusinessID int64  `json:"business_id,omitempty"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone"`
	IsActive   bool   `json:"is_active"`
	Notes      string `json:"notes,omitempty"`
}

// AppointmentServiceLine is one composed service line inside a created
// appointment. Field names follow the platform wire contract.
type AppointmentServiceLine struct {
	ID               string `json:"id"`
	Service          int64  `json:"service"`
	ServiceName      string `json:"service_name"`
	ServiceDuration  int    `json:"service_duration"`
	ServicePrice     string `json:"service_price"`
	ServiceColorCode string `json:"service_color_code,omitempty"`
	Staff            int64  `json:"staff,omitempty"`
	StaffName        string `json:"staff_name,omitempty"`
	IsStaffRequest   bool   `json:"is_staff_request"`
	CustomPrice      string `json:"custom_price,omitempty"`
	CustomDuration   int    `json:"custom_duration,omitempty"`
	StartAt          string `json:"start_at"`
	EndAt            string `json:"end_at"`
	IsActive         bool   `json:"is_active"`
}

// CreateAppointmentRequest is the appointment-creation payload.
type CreateAppointmentRequest struct {
	BusinessID          int64                    `json:"business_id"`
	ClientID            int64                    `json:"client_id,omitempty"`
	AppointmentDate     string                   `json:"appointment_date"` // "2006-01-02"
	StartAt             string                   `json:"start_at"`
	EndAt               string                   `json:"end_at"`
	AppointmentServices []AppointmentServiceLine `json:"appointment_services"`
	Notes               string                   `json:"notes,omitempty"`
	Metadata            map[string]any           `json:"metadata,omitempty"`
}

// Appointment is the record the platform returns after creation.
type Appointment struct {
	ID              int64          `json:"id"`
	Business        int64          `json:"business"`
	Client          int64          `json:"client,omitempty"`
	ClientName      string         `json:"client_name,omitempty"`
	AppointmentDate string         `json:"appointment_date"`
	Status          string         `json:"status"`
	StartAt         string         `json:"start_at"`
	EndAt           string         `json:"end_at"`
	Notes           string         `json:"notes,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// envelope is the platform's standard response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Results T      `json:"results"`
}
