package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntArrayScan(t *testing.T) {
	t.Run("Scans Postgres Array Bytes", func(t *testing.T) {
		var a IntArray
		require.NoError(t, a.Scan([]byte(`{1,2,3,4,12}`)))
		assert.Equal(t, IntArray{1, 2, 3, 4, 12}, a)
	})

	t.Run("Scans Empty Array", func(t *testing.T) {
		var a IntArray
		require.NoError(t, a.Scan([]byte(`{}`)))
		assert.Empty(t, a)
	})

	t.Run("Nil Source Yields Nil", func(t *testing.T) {
		a := IntArray{1, 2}
		require.NoError(t, a.Scan(nil))
		assert.Nil(t, a)
	})
}

func TestIntArrayValue(t *testing.T) {
	t.Run("Encodes As Int64 Array", func(t *testing.T) {
		got, err := IntArray{1, 2, 12}.Value()
		require.NoError(t, err)

		want, err := pq.Int64Array{1, 2, 12}.Value()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Nil Encodes As NULL", func(t *testing.T) {
		got, err := IntArray(nil).Value()
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestIntArrayContains(t *testing.T) {
	a := IntArray{1, 2, 12}
	assert.True(t, a.Contains(12))
	assert.False(t, a.Contains(3))
}
