package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wanderdesk/service-bookings/internal/domain"
	"github.com/wanderdesk/service-bookings/internal/domain/booking"
)

// GormBookingRepository is the row-oriented implementation of
// booking.Repository backed by PostgreSQL. Each record is one row; mutations
// touch single rows and never rewrite unrelated data.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Create persists a new booking row.
func (r *GormBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(fmt.Sprintf("booking %s already exists", b.ID))
		}
		return domain.NewStorageError("create booking", err)
	}
	return nil
}

// FindByID retrieves a booking row by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, domain.NewStorageError("find booking by ID", err)
	}
	return &b, nil
}

// List retrieves the filtered record set ordered by created_at descending
// with deterministic pagination.
func (r *GormBookingRepository) List(ctx context.Context, filter booking.ListFilter, page, limit int) ([]booking.Booking, int64, error) {
	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&booking.Booking{}), filter).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("count bookings", err)
	}

	var records []booking.Booking
	offset := (page - 1) * limit
	if err := applyFilter(r.db.WithContext(ctx), filter).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, 0, domain.NewStorageError("list bookings", err)
	}

	return records, total, nil
}

// Update applies a partial update to a single row inside a transaction. The
// row is locked for the read-merge-write so concurrent patches to the same
// record serialize.
func (r *GormBookingRepository) Update(ctx context.Context, id uuid.UUID, patch booking.Patch) (*booking.Booking, error) {
	var updated booking.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b booking.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Booking", id.String())
			}
			return domain.NewStorageError("find booking for update", err)
		}

		if err := patch.Apply(&b); err != nil {
			return err
		}

		if err := tx.Save(&b).Error; err != nil {
			return domain.NewStorageError("update booking", err)
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete permanently removes a booking row.
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&booking.Booking{})
	if result.Error != nil {
		return domain.NewStorageError("delete booking", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", id.String())
	}
	return nil
}

// Stats computes the aggregate view with SQL over the full table.
func (r *GormBookingRepository) Stats(ctx context.Context) (*booking.Stats, error) {
	stats := &booking.Stats{
		ByStatus: make(map[booking.Status]int64),
		ByMode:   make(map[booking.Mode]int64),
	}

	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, domain.NewStorageError("count bookings", err)
	}

	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Select("coalesce(sum(total_cost), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, domain.NewStorageError("sum booking revenue", err)
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Select("status as key, count(*) as count").
		Group("status").
		Find(&byStatus).Error; err != nil {
		return nil, domain.NewStorageError("count by status", err)
	}
	for _, b := range byStatus {
		stats.ByStatus[booking.Status(b.Key)] = b.Count
	}

	var byMode []bucket
	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Select("booking_mode as key, count(*) as count").
		Group("booking_mode").
		Find(&byMode).Error; err != nil {
		return nil, domain.NewStorageError("count by mode", err)
	}
	for _, b := range byMode {
		stats.ByMode[booking.Mode(b.Key)] = b.Count
	}

	return stats, nil
}

// ReferenceExists reports whether a booking reference is already taken.
func (r *GormBookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Where("reference = ?", reference).
		Count(&count).Error; err != nil {
		return false, domain.NewStorageError("check booking reference", err)
	}
	return count > 0, nil
}

// Ping verifies the database connection is alive.
func (r *GormBookingRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return domain.NewStorageError("acquire database handle", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return domain.NewStorageError("ping database", err)
	}
	return nil
}

// applyFilter translates a ListFilter into WHERE clauses.
func applyFilter(q *gorm.DB, filter booking.ListFilter) *gorm.DB {
	if filter.Mode != nil {
		q = q.Where("booking_mode = ?", *filter.Mode)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		clauses := make([]string, len(booking.SearchColumns))
		args := make([]interface{}, len(booking.SearchColumns))
		for i, col := range booking.SearchColumns {
			clauses[i] = fmt.Sprintf("lower(coalesce(%s, '')) LIKE ?", col)
			args[i] = pattern
		}
		q = q.Where(strings.Join(clauses, " OR "), args...)
	}
	return q
}
