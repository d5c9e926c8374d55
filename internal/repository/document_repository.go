package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wanderdesk/service-bookings/internal/domain"
	"github.com/wanderdesk/service-bookings/internal/domain/booking"
)

// document is the on-disk shape of the whole-document backend: every record
// of every mode in one JSON file.
type document struct {
	Bookings []booking.Booking `json:"bookings"`
}

// DocumentBookingRepository is the whole-document implementation of
// booking.Repository. Every mutation loads the full document, applies the
// change in memory, and atomically replaces the file (write to a temp file
// in the same directory, then rename). A single writer lock serializes the
// whole read-modify-write cycle; a failed write leaves the previous document
// untouched. Reads run concurrently with each other.
type DocumentBookingRepository struct {
	path string
	mu   sync.RWMutex
}

// NewDocumentBookingRepository creates a repository persisting to the given
// file path. A missing file is an empty store; it is created on the first
// mutation.
func NewDocumentBookingRepository(path string) *DocumentBookingRepository {
	return &DocumentBookingRepository{path: path}
}

func (r *DocumentBookingRepository) load() (*document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{}, nil
		}
		return nil, domain.NewStorageError("read document", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewStorageError("decode document", err)
	}
	return &doc, nil
}

// store replaces the document atomically. Readers never observe a
// half-written file: they see either the previous document or the new one.
func (r *DocumentBookingRepository) store(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return domain.NewStorageError("encode document", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewStorageError("create document directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return domain.NewStorageError("create temp document", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.NewStorageError("write temp document", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.NewStorageError("sync temp document", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.NewStorageError("close temp document", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return domain.NewStorageError("replace document", err)
	}
	return nil
}

// Create appends a record and rewrites the document.
func (r *DocumentBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	for i := range doc.Bookings {
		if doc.Bookings[i].ID == b.ID {
			return domain.NewConflictError(fmt.Sprintf("booking %s already exists", b.ID))
		}
		if doc.Bookings[i].Reference == b.Reference {
			return domain.NewConflictError(fmt.Sprintf("booking reference %s already exists", b.Reference))
		}
	}

	doc.Bookings = append(doc.Bookings, *b)
	return r.store(doc)
}

// FindByID retrieves a record by its unique identifier.
func (r *DocumentBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Bookings {
		if doc.Bookings[i].ID == id {
			b := doc.Bookings[i]
			return &b, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", id.String())
}

// List filters, orders, and pages the materialized record set.
func (r *DocumentBookingRepository) List(ctx context.Context, filter booking.ListFilter, page, limit int) ([]booking.Booking, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.load()
	if err != nil {
		return nil, 0, err
	}

	matched := make([]booking.Booking, 0, len(doc.Bookings))
	for i := range doc.Bookings {
		if matchesFilter(&doc.Bookings[i], filter) {
			matched = append(matched, doc.Bookings[i])
		}
	}
	sortBookings(matched)

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []booking.Booking{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Update applies a partial update and rewrites the document.
func (r *DocumentBookingRepository) Update(ctx context.Context, id uuid.UUID, patch booking.Patch) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Bookings {
		if doc.Bookings[i].ID != id {
			continue
		}
		merged := doc.Bookings[i]
		if err := patch.Apply(&merged); err != nil {
			return nil, err
		}
		doc.Bookings[i] = merged
		if err := r.store(doc); err != nil {
			return nil, err
		}
		return &merged, nil
	}
	return nil, domain.NewNotFoundError("Booking", id.String())
}

// Delete removes a record and rewrites the document.
func (r *DocumentBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	for i := range doc.Bookings {
		if doc.Bookings[i].ID == id {
			doc.Bookings = append(doc.Bookings[:i], doc.Bookings[i+1:]...)
			return r.store(doc)
		}
	}
	return domain.NewNotFoundError("Booking", id.String())
}

// Stats computes the aggregate view by scanning the full document.
func (r *DocumentBookingRepository) Stats(ctx context.Context) (*booking.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}

	stats := &booking.Stats{
		TotalBookings: int64(len(doc.Bookings)),
		ByStatus:      make(map[booking.Status]int64),
		ByMode:        make(map[booking.Mode]int64),
	}
	for i := range doc.Bookings {
		stats.TotalRevenue += doc.Bookings[i].TotalCost
		stats.ByStatus[doc.Bookings[i].Status]++
		stats.ByMode[doc.Bookings[i].BookingMode]++
	}
	return stats, nil
}

// ReferenceExists reports whether a booking reference is already taken.
func (r *DocumentBookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, err := r.load()
	if err != nil {
		return false, err
	}
	for i := range doc.Bookings {
		if doc.Bookings[i].Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

// Ping verifies the document location is usable.
func (r *DocumentBookingRepository) Ping(ctx context.Context) error {
	if _, err := os.Stat(r.path); err != nil && !os.IsNotExist(err) {
		return domain.NewStorageError("stat document", err)
	}
	return nil
}

// matchesFilter applies mode/status equality and case-insensitive substring
// search over the record's searchable fields.
func matchesFilter(b *booking.Booking, filter booking.ListFilter) bool {
	if filter.Mode != nil && b.BookingMode != *filter.Mode {
		return false
	}
	if filter.Status != nil && b.Status != *filter.Status {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	if search == "" {
		return true
	}
	for _, text := range b.SearchText() {
		if strings.Contains(strings.ToLower(text), search) {
			return true
		}
	}
	return false
}

// sortBookings orders newest first, ID as tie-break, so pagination is
// deterministic across calls.
func sortBookings(records []booking.Booking) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID.String() > records[j].ID.String()
	})
}
