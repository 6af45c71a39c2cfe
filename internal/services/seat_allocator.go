package services

import (
	"math"
	"math/rand"
	"sort"
)

// frontShare is the fraction of requested seats taken deterministically from
// the front of the bus, nearest the driver. Front rows sell best and board
// fastest, so they always go on sale first; the remainder is spread at
// random across the rest of the bus.
const frontShare = 0.7

// SeatAllocator turns a requested seat count and a bus capacity into the
// ordered set of seat numbers to put on sale.
type SeatAllocator struct {
	rng *rand.Rand
}

// NewSeatAllocator creates an allocator backed by the shared math/rand
// source, which is safe for concurrent request handlers.
func NewSeatAllocator() *SeatAllocator {
	return &SeatAllocator{}
}

// NewSeatAllocatorWithSource creates an allocator with a caller-provided
// random source so the shuffled portion is reproducible in tests.
func NewSeatAllocatorWithSource(rng *rand.Rand) *SeatAllocator {
	return &SeatAllocator{rng: rng}
}

// Generate returns desiredCount distinct seat numbers in [1, totalSeats],
// sorted ascending. The first ceil(0.7*desiredCount) seats come from the
// front block 1..n; the rest are drawn from an unbiased shuffle of the
// remaining pool. When desiredCount >= totalSeats every seat is returned and
// no randomness is involved.
func (a *SeatAllocator) Generate(totalSeats, desiredCount int) ([]int, error) {
	if totalSeats <= 0 {
		return nil, NewValidationError("total_seats", "must be positive, got %d", totalSeats)
	}
	if desiredCount <= 0 {
		return nil, NewValidationError("desired_seat_count", "must be positive, got %d", desiredCount)
	}

	if desiredCount >= totalSeats {
		seats := make([]int, totalSeats)
		for i := range seats {
			seats[i] = i + 1
		}
		return seats, nil
	}

	frontCount := int(math.Ceil(float64(desiredCount) * frontShare))
	remaining := desiredCount - frontCount

	seats := make([]int, 0, desiredCount)
	for n := 1; n <= frontCount; n++ {
		seats = append(seats, n)
	}

	pool := make([]int, 0, totalSeats-frontCount)
	for n := frontCount + 1; n <= totalSeats; n++ {
		pool = append(pool, n)
	}
	a.shuffle(pool)
	seats = append(seats, pool[:remaining]...)

	sort.Ints(seats)
	return seats, nil
}

// shuffle applies a Fisher-Yates permutation using the injected source when
// present, otherwise the locked package-level source.
func (a *SeatAllocator) shuffle(pool []int) {
	swap := func(i, j int) { pool[i], pool[j] = pool[j], pool[i] }
	if a.rng != nil {
		a.rng.Shuffle(len(pool), swap)
		return
	}
	rand.Shuffle(len(pool), swap)
}
