package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-08", MonthKey(time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)))

	// Non-UTC inputs normalize to UTC before keying.
	kyiv := time.FixedZone("EEST", 3*3600)
	assert.Equal(t, "2026-08", MonthKey(time.Date(2026, 9, 1, 1, 0, 0, 0, kyiv)))
}

func TestNextResetBoundary(t *testing.T) {
	mid := time.Date(2026, 8, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), NextResetBoundary(mid, 1))
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), NextResetBoundary(mid, 3))

	// December rolls into the next year.
	dec := time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), NextResetBoundary(dec, 1))
}
