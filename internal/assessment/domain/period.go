package domain

import (
	"fmt"
	"time"
)

// Period is a competence month. It is the unit the engine assesses and
// the third component of the snapshot key.
type Period struct {
	Year  int
	Month time.Month
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses the "YYYY-MM" competence format.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return PeriodOf(t), nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Competence renders the Brazilian MM/YYYY display form.
func (p Period) Competence() string {
	return fmt.Sprintf("%02d/%04d", int(p.Month), p.Year)
}

// Previous rolls back one month, handling the January to December of the
// previous year rollover.
func (p Period) Previous() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Start is the first instant of the period (UTC).
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following period; ranges are [Start, End).
func (p Period) End() time.Time {
	return p.Next().Start()
}

// Quarter returns the 1-based calendar quarter containing the period.
func (p Period) Quarter() int {
	return (int(p.Month)-1)/3 + 1
}

// QuarterStart is the first instant of the containing calendar quarter.
func (p Period) QuarterStart() time.Time {
	month := time.Month((p.Quarter()-1)*3 + 1)
	return time.Date(p.Year, month, 1, 0, 0, 0, 0, time.UTC)
}

// QuarterEnd is the first instant after the containing calendar quarter.
func (p Period) QuarterEnd() time.Time {
	return p.QuarterStart().AddDate(0, 3, 0)
}

// PostingDate is the 15th of the month following the competence, the
// statutory payment date used by the automatic tax posting.
func (p Period) PostingDate() time.Time {
	next := p.Next()
	return time.Date(next.Year, next.Month, 15, 0, 0, 0, 0, time.UTC)
}
