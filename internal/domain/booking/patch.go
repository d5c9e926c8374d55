package booking

import (
	"time"

	"github.com/wanderdesk/service-bookings/internal/domain"
)

// Patch is a partial update of a booking record. A nil field leaves the
// stored value untouched; a non-nil field replaces it, including with the
// zero value. The id, reference, booking_mode, and timestamps cannot be
// patched.
type Patch struct {
	Status *Status `json:"status,omitempty"`

	BookingDate *string  `json:"booking_date,omitempty"`
	ClientName  *string  `json:"client_name,omitempty"`
	CompanyName *string  `json:"company_name,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Vendor      *string  `json:"vendor,omitempty"`
	TotalCost   *float64 `json:"total_cost,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
	Notes       *string  `json:"notes,omitempty"`

	PassengerName  *string `json:"passenger_name,omitempty"`
	PassengerCount *int    `json:"passenger_count,omitempty"`
	DepartureDate  *string `json:"departure_date,omitempty"`
	DepartureTime  *string `json:"departure_time,omitempty"`
	ArrivalDate    *string `json:"arrival_date,omitempty"`
	ArrivalTime    *string `json:"arrival_time,omitempty"`
	SeatNumber     *string `json:"seat_number,omitempty"`
	TravelClass    *string `json:"travel_class,omitempty"`

	Airline      *string `json:"airline,omitempty"`
	FlightNumber *string `json:"flight_number,omitempty"`
	PNR          *string `json:"pnr,omitempty"`
	TripType     *string `json:"trip_type,omitempty"`
	FromAirport  *string `json:"from_airport,omitempty"`
	ToAirport    *string `json:"to_airport,omitempty"`

	HotelName          *string `json:"hotel_name,omitempty"`
	City               *string `json:"city,omitempty"`
	CheckInDate        *string `json:"check_in_date,omitempty"`
	CheckOutDate       *string `json:"check_out_date,omitempty"`
	Nights             *int    `json:"nights,omitempty"`
	RoomType           *string `json:"room_type,omitempty"`
	Rooms              *int    `json:"rooms,omitempty"`
	GuestName          *string `json:"guest_name,omitempty"`
	GuestCount         *int    `json:"guest_count,omitempty"`
	ConfirmationNumber *string `json:"confirmation_number,omitempty"`

	TrainName   *string `json:"train_name,omitempty"`
	TrainNumber *string `json:"train_number,omitempty"`
	FromStation *string `json:"from_station,omitempty"`
	ToStation   *string `json:"to_station,omitempty"`
	Coach       *string `json:"coach,omitempty"`

	BusCompany *string `json:"bus_company,omitempty"`
	BusPNR     *string `json:"bus_pnr,omitempty"`
	FromCity   *string `json:"from_city,omitempty"`
	ToCity     *string `json:"to_city,omitempty"`
}

// IsEmpty reports whether no field is set.
func (p *Patch) IsEmpty() bool {
	return *p == (Patch{})
}

// Validate checks the provided fields against the record schema before they
// reach a backend.
func (p *Patch) Validate() error {
	if p.IsEmpty() {
		return domain.NewValidationError("no fields to update")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return domain.NewValidationError("invalid status: " + string(*p.Status))
	}
	if p.TotalCost != nil && *p.TotalCost < 0 {
		return domain.NewValidationError("total_cost must not be negative")
	}
	if p.Email != nil {
		if err := checkEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Phone != nil {
		if err := checkPhone(*p.Phone); err != nil {
			return err
		}
	}
	for _, d := range []struct {
		field string
		value *string
	}{
		{"booking_date", p.BookingDate},
		{"departure_date", p.DepartureDate},
		{"arrival_date", p.ArrivalDate},
		{"check_in_date", p.CheckInDate},
		{"check_out_date", p.CheckOutDate},
	} {
		if d.value == nil {
			continue
		}
		if err := checkDate(d.field, *d.value); err != nil {
			return err
		}
	}
	for _, n := range []struct {
		field string
		value *int
	}{
		{"passenger_count", p.PassengerCount},
		{"guest_count", p.GuestCount},
		{"nights", p.Nights},
		{"rooms", p.Rooms},
	} {
		if n.value != nil && *n.value < 0 {
			return domain.NewValidationError(n.field + " must not be negative")
		}
	}
	return nil
}

// Apply copies the provided fields onto b, refreshes updated_at, and
// re-checks the cross-field date rules on the merged record.
func (p *Patch) Apply(b *Booking) error {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.TotalCost != nil {
		b.TotalCost = *p.TotalCost
	}
	setString(&b.BookingDate, p.BookingDate)
	setString(&b.ClientName, p.ClientName)
	setString(&b.CompanyName, p.CompanyName)
	setString(&b.Email, p.Email)
	setString(&b.Phone, p.Phone)
	setString(&b.Vendor, p.Vendor)
	setString(&b.Currency, p.Currency)
	setString(&b.Notes, p.Notes)

	setString(&b.PassengerName, p.PassengerName)
	setInt(&b.PassengerCount, p.PassengerCount)
	setString(&b.DepartureDate, p.DepartureDate)
	setString(&b.DepartureTime, p.DepartureTime)
	setString(&b.ArrivalDate, p.ArrivalDate)
	setString(&b.ArrivalTime, p.ArrivalTime)
	setString(&b.SeatNumber, p.SeatNumber)
	setString(&b.TravelClass, p.TravelClass)

	setString(&b.Airline, p.Airline)
	setString(&b.FlightNumber, p.FlightNumber)
	setString(&b.PNR, p.PNR)
	setString(&b.TripType, p.TripType)
	setString(&b.FromAirport, p.FromAirport)
	setString(&b.ToAirport, p.ToAirport)

	setString(&b.HotelName, p.HotelName)
	setString(&b.City, p.City)
	setString(&b.CheckInDate, p.CheckInDate)
	setString(&b.CheckOutDate, p.CheckOutDate)
	setInt(&b.Nights, p.Nights)
	setString(&b.RoomType, p.RoomType)
	setInt(&b.Rooms, p.Rooms)
	setString(&b.GuestName, p.GuestName)
	setInt(&b.GuestCount, p.GuestCount)
	setString(&b.ConfirmationNumber, p.ConfirmationNumber)

	setString(&b.TrainName, p.TrainName)
	setString(&b.TrainNumber, p.TrainNumber)
	setString(&b.FromStation, p.FromStation)
	setString(&b.ToStation, p.ToStation)
	setString(&b.Coach, p.Coach)

	setString(&b.BusCompany, p.BusCompany)
	setString(&b.BusPNR, p.BusPNR)
	setString(&b.FromCity, p.FromCity)
	setString(&b.ToCity, p.ToCity)

	if err := checkDateOrder("check_in_date", b.CheckInDate, "check_out_date", b.CheckOutDate); err != nil {
		return err
	}
	if err := checkDateOrder("departure_date", b.DepartureDate, "arrival_date", b.ArrivalDate); err != nil {
		return err
	}

	b.UpdatedAt = time.Now().UTC()
	return nil
}
