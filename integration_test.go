//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wanderdesk/service-bookings/internal/application"
	"github.com/wanderdesk/service-bookings/internal/domain"
	"github.com/wanderdesk/service-bookings/internal/domain/booking"
	"github.com/wanderdesk/service-bookings/internal/events"
	"github.com/wanderdesk/service-bookings/internal/notifier"
	"github.com/wanderdesk/service-bookings/internal/repository"
)

// TestPostgresBackend_BookingLifecycle runs the full booking lifecycle
// against the row-oriented backend: create, list with filters, patch,
// summary, and hard delete.
func TestPostgresBackend_BookingLifecycle(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	log := zap.NewNop()
	repo := repository.NewGormBookingRepository(db)
	hub := notifier.NewHub(log)
	service := application.NewBookingService(repo, hub, log, 100)

	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	// Create one booking per mode.
	hotel, err := service.CreateBooking(ctx, &booking.Booking{
		BookingMode:  booking.ModeHotel,
		GuestName:    "Amira Hassan",
		HotelName:    "Grand Meridian",
		City:         "Lisbon",
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-09-14",
		TotalCost:    780.50,
	})
	require.NoError(t, err)
	waitForSignal(t, ch, 2*time.Second, "no change signal after create")

	flight, err := service.CreateBooking(ctx, &booking.Booking{
		BookingMode:   booking.ModeFlight,
		PassengerName: "Jonas Weber",
		Airline:       "Atlantic Air",
		FlightNumber:  "AA412",
		FromAirport:   "FRA",
		ToAirport:     "JFK",
		TotalCost:     540,
	})
	require.NoError(t, err)

	_, err = service.CreateBooking(ctx, &booking.Booking{
		BookingMode:   booking.ModeTrain,
		PassengerName: "Lena Fischer",
		TrainNumber:   "ICE 571",
		FromStation:   "Berlin Hbf",
		ToStation:     "München Hbf",
		TotalCost:     120,
	})
	require.NoError(t, err)

	t.Run("find by id", func(t *testing.T) {
		found, err := service.GetBooking(ctx, hotel.ID)
		require.NoError(t, err)
		assert.Equal(t, hotel.Reference, found.Reference)
		assert.Equal(t, booking.ModeHotel, found.BookingMode)
	})

	t.Run("list newest first", func(t *testing.T) {
		result, err := service.ListBookings(ctx, application.ListQuery{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
		assert.Equal(t, 1, result.TotalPages)
		require.Len(t, result.Items, 3)
	})

	t.Run("filter by mode and search", func(t *testing.T) {
		result, err := service.ListBookings(ctx, application.ListQuery{Page: 1, PageSize: 10, Mode: "flight"})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, flight.ID, result.Items[0].ID)

		result, err = service.ListBookings(ctx, application.ListQuery{Page: 1, PageSize: 10, Search: "münchen"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)

		result, err = service.ListBookings(ctx, application.ListQuery{Page: 1, PageSize: 10, Search: "zanzibar"})
		require.NoError(t, err)
		assert.Zero(t, result.Total)
		assert.Empty(t, result.Items)
	})

	t.Run("pagination beyond the last page", func(t *testing.T) {
		result, err := service.ListBookings(ctx, application.ListQuery{Page: 5, PageSize: 2})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Equal(t, int64(3), result.Total)
		assert.Equal(t, 2, result.TotalPages)
	})

	t.Run("patch a row", func(t *testing.T) {
		drainSignals(ch)

		status := booking.StatusConfirmed
		cost := 812.00
		updated, err := service.UpdateBooking(ctx, hotel.ID, booking.Patch{Status: &status, TotalCost: &cost})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, updated.Status)
		assert.Equal(t, 812.00, updated.TotalCost)
		assert.Equal(t, "Grand Meridian", updated.HotelName)
		waitForSignal(t, ch, 2*time.Second, "no change signal after update")
	})

	t.Run("summary reflects committed rows", func(t *testing.T) {
		summary, err := service.GetSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.TotalBookings)
		assert.InDelta(t, 1472.00, summary.TotalRevenue, 0.001)
		assert.Equal(t, int64(1), summary.ByStatus[booking.StatusConfirmed])
		assert.Equal(t, int64(2), summary.ByStatus[booking.StatusPending])
		assert.Equal(t, int64(0), summary.ByStatus[booking.StatusCancelled])
		assert.Equal(t, int64(1), summary.ByMode[booking.ModeHotel])
		assert.Equal(t, int64(0), summary.ByMode[booking.ModeBus])
	})

	t.Run("hard delete fails the second time", func(t *testing.T) {
		require.NoError(t, service.DeleteBooking(ctx, flight.ID))

		err := service.DeleteBooking(ctx, flight.ID)
		var notFoundErr *domain.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)

		summary, err := service.GetSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.TotalBookings)
	})

	t.Run("duplicate reference rejected by the unique index", func(t *testing.T) {
		_, err := service.CreateBooking(ctx, &booking.Booking{
			BookingMode: booking.ModeHotel,
			GuestName:   "Someone Else",
			Reference:   hotel.Reference,
		})
		var conflictErr *domain.ConflictError
		require.ErrorAs(t, err, &conflictErr)
	})
}

// TestChangeRelay_CrossInstance verifies that a mutation on one instance
// reaches subscribers connected to another via the Kafka relay, while the
// originating instance skips its own relayed events.
func TestChangeRelay_CrossInstance(t *testing.T) {
	brokers := setupKafka(t, events.DefaultTopic)
	log := zap.NewNop()

	originA := uuid.NewString()
	originB := uuid.NewString()

	hubA := notifier.NewHub(log)
	hubB := notifier.NewHub(log)

	producerA := events.NewProducer(brokers, events.DefaultTopic, originA, log)
	defer func() { _ = producerA.Close() }()
	notifierA := events.NewRelayNotifier(hubA, producerA)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumerA := events.NewChangeConsumer(brokers, "test-relay-"+originA, events.DefaultTopic, originA, hubA, log)
	defer func() { _ = consumerA.Close() }()
	go func() { _ = consumerA.Start(ctx) }()

	consumerB := events.NewChangeConsumer(brokers, "test-relay-"+originB, events.DefaultTopic, originB, hubB, log)
	defer func() { _ = consumerB.Close() }()
	go func() { _ = consumerB.Start(ctx) }()

	time.Sleep(3 * time.Second) // Wait for consumer group join.

	subA := hubA.Subscribe()
	defer hubA.Unsubscribe(subA)
	subB := hubB.Subscribe()
	defer hubB.Unsubscribe(subB)

	// A mutation on instance A signals its local subscriber immediately and
	// instance B's subscriber through the relay.
	notifierA.Broadcast()

	waitForSignal(t, subA, 2*time.Second, "local subscriber on A not signalled")
	waitForSignal(t, subB, 15*time.Second, "subscriber on B not signalled via relay")

	// A's consumer sees its own relayed event but must not re-broadcast it:
	// subA stays quiet once the local signal is drained.
	time.Sleep(2 * time.Second)
	select {
	case <-subA:
		t.Fatal("instance A re-broadcast its own relayed event")
	default:
	}
}
