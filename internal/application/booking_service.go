package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderdesk/service-bookings/internal/domain"
	"github.com/wanderdesk/service-bookings/internal/domain/booking"
)

// maxReferenceAttempts bounds the generate-and-check loop for booking
// references before giving up.
const maxReferenceAttempts = 5

// Notifier receives a fire-and-forget signal after every committed mutation.
type Notifier interface {
	Broadcast()
}

// ListQuery is the raw listing request before validation. Mode and Status
// are the unparsed query values; empty means no filter.
type ListQuery struct {
	Search   string
	Mode     string
	Status   string
	Page     int
	PageSize int
}

// Summary is the derived KPI view over the full current record set. Every
// canonical status and mode is present, zero when unused.
type Summary struct {
	TotalBookings int64                    `json:"total_bookings"`
	TotalRevenue  float64                  `json:"total_revenue"`
	ByStatus      map[booking.Status]int64 `json:"by_status"`
	ByMode        map[booking.Mode]int64   `json:"by_mode"`
}

// BookingService orchestrates booking use cases over the active persistence
// backend and signals subscribers after each mutation.
type BookingService struct {
	repo        booking.Repository
	notifier    Notifier
	logger      *zap.Logger
	maxPageSize int
}

// NewBookingService creates a new BookingService.
func NewBookingService(repo booking.Repository, notifier Notifier, logger *zap.Logger, maxPageSize int) *BookingService {
	return &BookingService{
		repo:        repo,
		notifier:    notifier,
		logger:      logger,
		maxPageSize: maxPageSize,
	}
}

// CreateBooking validates the record, assigns system fields, persists it,
// and signals subscribers.
func (s *BookingService) CreateBooking(ctx context.Context, rec *booking.Booking) (*booking.Booking, error) {
	if err := booking.ValidateNew(rec); err != nil {
		return nil, err
	}

	if rec.Status == "" {
		rec.Status = booking.StatusPending
	}

	rec.ID = uuid.New()
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if rec.Reference == "" {
		ref, err := s.assignReference(ctx, rec.BookingMode)
		if err != nil {
			return nil, err
		}
		rec.Reference = ref
	} else {
		taken, err := s.repo.ReferenceExists(ctx, rec.Reference)
		if err != nil {
			return nil, s.logStorage("check reference", err)
		}
		if taken {
			return nil, domain.NewConflictError(fmt.Sprintf("booking reference %s already exists", rec.Reference))
		}
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, s.logStorage("create booking", err)
	}

	s.logger.Info("booking created",
		zap.String("id", rec.ID.String()),
		zap.String("reference", rec.Reference),
		zap.String("booking_mode", rec.BookingMode.String()),
	)
	s.notifier.Broadcast()
	return rec, nil
}

// assignReference generates a reference and verifies it is unused, retrying
// on the unlikely collision.
func (s *BookingService) assignReference(ctx context.Context, mode booking.Mode) (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref, err := booking.GenerateReference(mode)
		if err != nil {
			return "", err
		}
		taken, err := s.repo.ReferenceExists(ctx, ref)
		if err != nil {
			return "", s.logStorage("check reference", err)
		}
		if !taken {
			return ref, nil
		}
	}
	return "", domain.NewConflictError("could not allocate a unique booking reference")
}

// GetBooking retrieves a single record by ID.
func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return s.repo.FindByID(ctx, id)
}

// ListBookings validates the query, delegates search and filtering to the
// backend, and pages the ordered result. A page beyond the last one yields
// an empty slice, not an error.
func (s *BookingService) ListBookings(ctx context.Context, q ListQuery) (*domain.PaginatedResult[booking.Booking], error) {
	if q.Page <= 0 {
		return nil, domain.NewValidationError("page must be a positive integer")
	}
	if q.PageSize <= 0 {
		return nil, domain.NewValidationError("page_size must be a positive integer")
	}
	if q.PageSize > s.maxPageSize {
		q.PageSize = s.maxPageSize
	}

	filter := booking.ListFilter{Search: q.Search}
	if q.Mode != "" {
		mode, err := booking.ParseMode(q.Mode)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		filter.Mode = &mode
	}
	if q.Status != "" {
		status, err := booking.ParseStatus(q.Status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		filter.Status = &status
	}

	records, total, err := s.repo.List(ctx, filter, q.Page, q.PageSize)
	if err != nil {
		return nil, s.logStorage("list bookings", err)
	}

	result := domain.NewPaginatedResult(records, total, q.Page, q.PageSize)
	return &result, nil
}

// UpdateBooking applies a partial update and signals subscribers.
func (s *BookingService) UpdateBooking(ctx context.Context, id uuid.UUID, patch booking.Patch) (*booking.Booking, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.logStorage("update booking", err)
	}

	s.logger.Info("booking updated", zap.String("id", id.String()))
	s.notifier.Broadcast()
	return updated, nil
}

// DeleteBooking removes a record permanently and signals subscribers.
// Deleting an absent ID fails with NotFound, every time.
func (s *BookingService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.logStorage("delete booking", err)
	}

	s.logger.Info("booking deleted", zap.String("id", id.String()))
	s.notifier.Broadcast()
	return nil
}

// GetSummary recomputes the KPI view from the source of truth. It is never
// cached, so it always reflects the latest committed mutation.
func (s *BookingService) GetSummary(ctx context.Context) (*Summary, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, s.logStorage("compute summary", err)
	}

	summary := &Summary{
		TotalBookings: stats.TotalBookings,
		TotalRevenue:  stats.TotalRevenue,
		ByStatus:      make(map[booking.Status]int64, len(booking.Statuses)),
		ByMode:        make(map[booking.Mode]int64, len(booking.Modes)),
	}
	for _, status := range booking.Statuses {
		summary.ByStatus[status] = stats.ByStatus[status]
	}
	for _, mode := range booking.Modes {
		summary.ByMode[mode] = stats.ByMode[mode]
	}
	return summary, nil
}

// Ready reports whether the active backend is reachable.
func (s *BookingService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// logStorage logs backend failures so they are never silently swallowed,
// then passes the error through unchanged.
func (s *BookingService) logStorage(op string, err error) error {
	var storageErr *domain.StorageError
	if errors.As(err, &storageErr) {
		s.logger.Error("storage failure",
			zap.String("op", op),
			zap.Error(err),
		)
	}
	return err
}
