package booking

import (
	"fmt"
	"regexp"
	"time"

	"github.com/wanderdesk/service-bookings/internal/domain"
)

const (
	// DateLayout is the wire format for calendar dates on booking records.
	DateLayout = "2006-01-02"

	minPhoneDigits = 7
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateNew checks a record about to be created. System-assigned fields
// (id, reference, timestamps) are ignored; everything else must satisfy the
// schema for the record's mode. Returns a ValidationError naming the first
// offending field.
func ValidateNew(b *Booking) error {
	if !b.BookingMode.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking_mode: %q", b.BookingMode))
	}
	if b.Status != "" && !b.Status.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid status: %q", b.Status))
	}
	if err := validateCommon(b); err != nil {
		return err
	}
	return validateModeFields(b)
}

func validateCommon(b *Booking) error {
	if b.TotalCost < 0 {
		return domain.NewValidationError("total_cost must not be negative")
	}
	if err := checkEmail(b.Email); err != nil {
		return err
	}
	if err := checkPhone(b.Phone); err != nil {
		return err
	}
	for _, d := range []struct{ field, value string }{
		{"booking_date", b.BookingDate},
		{"departure_date", b.DepartureDate},
		{"arrival_date", b.ArrivalDate},
		{"check_in_date", b.CheckInDate},
		{"check_out_date", b.CheckOutDate},
	} {
		if err := checkDate(d.field, d.value); err != nil {
			return err
		}
	}
	if err := checkDateOrder("check_in_date", b.CheckInDate, "check_out_date", b.CheckOutDate); err != nil {
		return err
	}
	if err := checkDateOrder("departure_date", b.DepartureDate, "arrival_date", b.ArrivalDate); err != nil {
		return err
	}
	if b.Nights < 0 {
		return domain.NewValidationError("nights must not be negative")
	}
	if b.Rooms < 0 {
		return domain.NewValidationError("rooms must not be negative")
	}
	if b.PassengerCount < 0 {
		return domain.NewValidationError("passenger_count must not be negative")
	}
	if b.GuestCount < 0 {
		return domain.NewValidationError("guest_count must not be negative")
	}
	return nil
}

// validateModeFields enforces the presence rules of the record's mode.
// Fields belonging to other modes are tolerated but never required.
func validateModeFields(b *Booking) error {
	switch b.BookingMode {
	case ModeHotel:
		if b.GuestName == "" && b.CompanyName == "" {
			return domain.NewValidationError("hotel booking requires guest_name or company_name")
		}
	case ModeFlight, ModeTrain, ModeBus:
		if b.PassengerName == "" && b.CompanyName == "" {
			return domain.NewValidationError(fmt.Sprintf("%s booking requires passenger_name or company_name", b.BookingMode))
		}
	}
	return nil
}

func checkEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailPattern.MatchString(email) {
		return domain.NewValidationError(fmt.Sprintf("invalid email: %q", email))
	}
	return nil
}

func checkPhone(phone string) error {
	if phone == "" {
		return nil
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minPhoneDigits {
		return domain.NewValidationError(fmt.Sprintf("phone must contain at least %d digits", minPhoneDigits))
	}
	return nil
}

func checkDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return domain.NewValidationError(fmt.Sprintf("%s must be a YYYY-MM-DD date", field))
	}
	return nil
}

func checkDateOrder(startField, start, endField, end string) error {
	if start == "" || end == "" {
		return nil
	}
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil // caught by checkDate
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil
	}
	if from.After(to) {
		return domain.NewValidationError(fmt.Sprintf("%s must be on or before %s", startField, endField))
	}
	return nil
}
