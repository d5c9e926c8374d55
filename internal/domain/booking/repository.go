package booking

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a listing. Zero values match everything.
type ListFilter struct {
	// Search is a case-insensitive substring matched against the fields in
	// SearchColumns.
	Search string

	// Mode filters on booking_mode when non-nil.
	Mode *Mode

	// Status filters on status when non-nil.
	Status *Status
}

// Stats is the aggregate view over the full current record set. It is
// recomputed from the source of truth on every call and never cached.
type Stats struct {
	TotalBookings int64
	TotalRevenue  float64
	ByStatus      map[Status]int64
	ByMode        map[Mode]int64
}

// Repository defines the persistence contract for booking records. Both the
// row-oriented and the whole-document backend satisfy it.
type Repository interface {
	// Create persists a new record. The caller has already assigned the ID,
	// reference, and timestamps.
	Create(ctx context.Context, b *Booking) error

	// FindByID retrieves a record by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// List retrieves the filtered record set ordered by created_at descending
	// (id as tie-break), sliced to the given page, plus the total count of
	// the filtered set before slicing.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]Booking, int64, error)

	// Update applies a partial update to an existing record and returns the
	// merged record.
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Booking, error)

	// Delete permanently removes a record. Deleting an absent ID is a
	// NotFoundError, every time.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats computes the aggregate view from the full unfiltered record set.
	Stats(ctx context.Context) (*Stats, error)

	// ReferenceExists reports whether a booking reference is already taken.
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}
