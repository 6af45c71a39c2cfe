package services

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatAllocatorGenerate(t *testing.T) {
	t.Run("Returns Exact Count Distinct Sorted In Range", func(t *testing.T) {
		allocator := NewSeatAllocatorWithSource(rand.New(rand.NewSource(1)))

		for totalSeats := 1; totalSeats <= 60; totalSeats += 7 {
			for desired := 1; desired <= totalSeats; desired++ {
				seats, err := allocator.Generate(totalSeats, desired)
				require.NoError(t, err)
				require.Len(t, seats, desired, "totalSeats=%d desired=%d", totalSeats, desired)

				assert.True(t, sort.IntsAreSorted(seats))

				seen := make(map[int]bool, len(seats))
				for _, n := range seats {
					assert.GreaterOrEqual(t, n, 1)
					assert.LessOrEqual(t, n, totalSeats)
					assert.False(t, seen[n], "duplicate seat %d", n)
					seen[n] = true
				}
			}
		}
	})

	t.Run("Front Block Always Included", func(t *testing.T) {
		allocator := NewSeatAllocatorWithSource(rand.New(rand.NewSource(2)))

		for run := 0; run < 50; run++ {
			seats, err := allocator.Generate(40, 10)
			require.NoError(t, err)

			// ceil(0.7 * 10) = 7 front seats, deterministic
			for n := 1; n <= 7; n++ {
				assert.Contains(t, seats, n)
			}

			randomized := 0
			for _, n := range seats {
				if n >= 8 {
					assert.LessOrEqual(t, n, 40)
					randomized++
				}
			}
			assert.Equal(t, 3, randomized)
		}
	})

	t.Run("Saturation Returns All Seats", func(t *testing.T) {
		allocator := NewSeatAllocator()

		for _, desired := range []int{40, 41, 100} {
			seats, err := allocator.Generate(40, desired)
			require.NoError(t, err)
			require.Len(t, seats, 40)
			for i, n := range seats {
				assert.Equal(t, i+1, n)
			}
		}
	})

	t.Run("Single Seat", func(t *testing.T) {
		allocator := NewSeatAllocator()

		seats, err := allocator.Generate(40, 1)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, seats)
	})

	t.Run("Rejects Non Positive Desired Count", func(t *testing.T) {
		allocator := NewSeatAllocator()

		_, err := allocator.Generate(40, 0)
		require.Error(t, err)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)

		_, err = allocator.Generate(40, -3)
		assert.Error(t, err)
	})

	t.Run("Rejects Non Positive Capacity", func(t *testing.T) {
		allocator := NewSeatAllocator()

		_, err := allocator.Generate(0, 5)
		require.Error(t, err)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Randomized Tail Varies Across Seeds", func(t *testing.T) {
		distinct := make(map[string]bool)
		for seed := int64(0); seed < 20; seed++ {
			seats, err := NewSeatAllocatorWithSource(rand.New(rand.NewSource(seed))).Generate(40, 10)
			require.NoError(t, err)
			key := ""
			for _, n := range seats {
				key += string(rune('A' + n))
			}
			distinct[key] = true
		}
		assert.Greater(t, len(distinct), 1, "20 seeds produced identical allocations")
	})
}
