package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
)

func seedInventory(t *testing.T, total, available uint32) *MemoryInventory {
	t.Helper()
	inv := NewMemoryInventory()
	inv.Add(model.Movie{
		ID:       1,
		Title:    "Interstellar",
		IsActive: true,
		ShowTimes: []model.Showtime{{
			ID:             10,
			ShowDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			ShowTime:       "19:00",
			Hall:           "Hall 1",
			TotalSeats:     total,
			AvailableSeats: available,
			PriceCents:     12999,
		}},
	})
	return inv
}

func TestMemoryInventory_ReserveAndRelease(t *testing.T) {
	inv := seedInventory(t, 100, 100)
	ctx := context.Background()

	require.NoError(t, inv.Reserve(ctx, 10, 4))
	st, err := inv.GetShowtime(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(96), st.AvailableSeats)

	// Round trip restores the pre-reservation value.
	require.NoError(t, inv.Release(ctx, 10, 4))
	st, err = inv.GetShowtime(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), st.AvailableSeats)
}

func TestMemoryInventory_ReserveInsufficient(t *testing.T) {
	inv := seedInventory(t, 100, 3)
	ctx := context.Background()

	err := inv.Reserve(ctx, 10, 4)
	assert.ErrorIs(t, err, ErrInsufficientSeats)

	// A failed reservation leaves the pool untouched.
	st, err := inv.GetShowtime(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), st.AvailableSeats)
}

func TestMemoryInventory_ReserveNotFound(t *testing.T) {
	inv := seedInventory(t, 100, 100)
	assert.ErrorIs(t, inv.Reserve(context.Background(), 999, 1), ErrShowtimeNotFound)
}

func TestMemoryInventory_GetShowtimeMovieMismatch(t *testing.T) {
	inv := seedInventory(t, 100, 100)
	_, err := inv.GetShowtime(context.Background(), 2, 10)
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestMemoryInventory_ReleaseCeiling(t *testing.T) {
	inv := seedInventory(t, 100, 98)
	ctx := context.Background()

	assert.ErrorIs(t, inv.Release(ctx, 10, 3), ErrReleaseExceedsCapacity)

	st, err := inv.GetShowtime(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(98), st.AvailableSeats)
}

func TestMemoryInventory_ConcurrentReservations(t *testing.T) {
	// 8 callers race for the full pool of 5 seats each; exactly one
	// wins, the rest see insufficient seats.
	inv := seedInventory(t, 5, 5)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, rejections := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := inv.Reserve(ctx, 10, 5)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if err == ErrInsufficientSeats {
				rejections++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 7, rejections)

	st, err := inv.GetShowtime(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), st.AvailableSeats)
}

func TestMemoryInventory_ConcurrentReserveRelease(t *testing.T) {
	// Interleave reserves and matching releases; the pool must end
	// where it started and never go negative or above total (both would
	// surface as errors from the guarded operations).
	inv := seedInventory(t, 50, 50)
	ctx := context.Background()

	var wg sync.WaitGroup
	releaseErrs := make(chan error, 25)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := inv.Reserve(ctx, 10, 2); err != nil {
				return
			}
			if err := inv.Release(ctx, 10, 2); err != nil {
				releaseErrs <- err
			}
		}()
	}
	wg.Wait()
	close(releaseErrs)
	for err := range releaseErrs {
		require.NoError(t, err)
	}

	st, err := inv.GetShowtime(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(50), st.AvailableSeats)
	assert.LessOrEqual(t, st.AvailableSeats, st.TotalSeats)
}
