package booking

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the unified record spanning all four booking modes. Common
// fields are always meaningful; mode-specific fields are populated only for
// the record's mode and stay empty otherwise. Text dates use the
// "2006-01-02" layout and times the "15:04" layout.
type Booking struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Reference   string    `json:"reference" gorm:"uniqueIndex;size:32;not null"`
	BookingMode Mode      `json:"booking_mode" gorm:"size:10;not null;index"`
	Status      Status    `json:"status" gorm:"size:20;not null;index"`

	BookingDate string  `json:"booking_date,omitempty" gorm:"size:10"`
	ClientName  string  `json:"client_name,omitempty" gorm:"size:120"`
	CompanyName string  `json:"company_name,omitempty" gorm:"size:120"`
	Email       string  `json:"email,omitempty" gorm:"size:120"`
	Phone       string  `json:"phone,omitempty" gorm:"size:30"`
	Vendor      string  `json:"vendor,omitempty" gorm:"size:120"`
	TotalCost   float64 `json:"total_cost" gorm:"not null;default:0"`
	Currency    string  `json:"currency,omitempty" gorm:"size:3"`
	Notes       string  `json:"notes,omitempty" gorm:"size:500"`

	// Travel legs (flight, train, bus).
	PassengerName  string `json:"passenger_name,omitempty" gorm:"size:120"`
	PassengerCount int    `json:"passenger_count,omitempty"`
	DepartureDate  string `json:"departure_date,omitempty" gorm:"size:10"`
	DepartureTime  string `json:"departure_time,omitempty" gorm:"size:20"`
	ArrivalDate    string `json:"arrival_date,omitempty" gorm:"size:10"`
	ArrivalTime    string `json:"arrival_time,omitempty" gorm:"size:20"`
	SeatNumber     string `json:"seat_number,omitempty" gorm:"size:60"`
	TravelClass    string `json:"travel_class,omitempty" gorm:"size:60"`

	// Flight.
	Airline      string `json:"airline,omitempty" gorm:"size:120"`
	FlightNumber string `json:"flight_number,omitempty" gorm:"size:60"`
	PNR          string `json:"pnr,omitempty" gorm:"size:120"`
	TripType     string `json:"trip_type,omitempty" gorm:"size:40"`
	FromAirport  string `json:"from_airport,omitempty" gorm:"size:120"`
	ToAirport    string `json:"to_airport,omitempty" gorm:"size:120"`

	// Hotel.
	HotelName          string `json:"hotel_name,omitempty" gorm:"size:120"`
	City               string `json:"city,omitempty" gorm:"size:120"`
	CheckInDate        string `json:"check_in_date,omitempty" gorm:"size:10"`
	CheckOutDate       string `json:"check_out_date,omitempty" gorm:"size:10"`
	Nights             int    `json:"nights,omitempty"`
	RoomType           string `json:"room_type,omitempty" gorm:"size:120"`
	Rooms              int    `json:"rooms,omitempty"`
	GuestName          string `json:"guest_name,omitempty" gorm:"size:120"`
	GuestCount         int    `json:"guest_count,omitempty"`
	ConfirmationNumber string `json:"confirmation_number,omitempty" gorm:"size:120"`

	// Train.
	TrainName   string `json:"train_name,omitempty" gorm:"size:120"`
	TrainNumber string `json:"train_number,omitempty" gorm:"size:60"`
	FromStation string `json:"from_station,omitempty" gorm:"size:120"`
	ToStation   string `json:"to_station,omitempty" gorm:"size:120"`
	Coach       string `json:"coach,omitempty" gorm:"size:60"`

	// Bus.
	BusCompany string `json:"bus_company,omitempty" gorm:"size:120"`
	BusPNR     string `json:"bus_pnr,omitempty" gorm:"size:120"`
	FromCity   string `json:"from_city,omitempty" gorm:"size:120"`
	ToCity     string `json:"to_city,omitempty" gorm:"size:120"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// TableName returns the table name for the row-oriented backend.
func (Booking) TableName() string {
	return "bookings"
}

// SearchColumns lists the database columns covered by substring search, in
// the same order as SearchText.
var SearchColumns = []string{
	"reference",
	"client_name",
	"company_name",
	"passenger_name",
	"guest_name",
	"email",
	"vendor",
	"pnr",
	"bus_pnr",
	"confirmation_number",
	"hotel_name",
	"city",
	"from_airport",
	"to_airport",
	"from_station",
	"to_station",
	"from_city",
	"to_city",
}

// SearchText returns the field values covered by case-insensitive substring
// search, in the same order as SearchColumns.
func (b *Booking) SearchText() []string {
	return []string{
		b.Reference,
		b.ClientName,
		b.CompanyName,
		b.PassengerName,
		b.GuestName,
		b.Email,
		b.Vendor,
		b.PNR,
		b.BusPNR,
		b.ConfirmationNumber,
		b.HotelName,
		b.City,
		b.FromAirport,
		b.ToAirport,
		b.FromStation,
		b.ToStation,
		b.FromCity,
		b.ToCity,
	}
}
