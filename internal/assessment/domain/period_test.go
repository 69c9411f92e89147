package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2025-07")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2025, Month: time.July}, p)
	assert.Equal(t, "2025-07", p.String())
	assert.Equal(t, "07/2025", p.Competence())

	_, err = ParsePeriod("07/2025")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = ParsePeriod("2025-13")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPeriodPrevious(t *testing.T) {
	p := Period{Year: 2025, Month: time.January}
	assert.Equal(t, Period{Year: 2024, Month: time.December}, p.Previous())

	p = Period{Year: 2025, Month: time.July}
	assert.Equal(t, Period{Year: 2025, Month: time.June}, p.Previous())
}

func TestPeriodNext(t *testing.T) {
	p := Period{Year: 2024, Month: time.December}
	assert.Equal(t, Period{Year: 2025, Month: time.January}, p.Next())
}

func TestPeriodRange(t *testing.T) {
	p := Period{Year: 2025, Month: time.July}
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), p.End())
}

func TestPeriodQuarter(t *testing.T) {
	p := Period{Year: 2025, Month: time.August}
	assert.Equal(t, 3, p.Quarter())
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), p.QuarterStart())
	assert.Equal(t, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), p.QuarterEnd())
}

func TestPeriodPostingDate(t *testing.T) {
	p := Period{Year: 2025, Month: time.July}
	assert.Equal(t, time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC), p.PostingDate())

	// December posts on January 15th of the following year.
	p = Period{Year: 2025, Month: time.December}
	assert.Equal(t, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), p.PostingDate())
}
