package ledger

import (
	"fmt"
	"time"

	"rental/internal/models"
)

// Period is a calendar month that a rent payment covers.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, Invalid("month", "must be between 1 and 12")
	}
	if year < 1900 || year > 9999 {
		return Period{}, Invalid("year", "must be between 1900 and 9999")
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

func PeriodOf(t time.Time) Period {
	y, m, _ := t.Date()
	return Period{Year: y, Month: m}
}

func PaymentPeriod(p models.Payment) Period {
	return Period{Year: p.PeriodYear, Month: time.Month(p.PeriodMonth)}
}

func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first day of the following month.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

func (p Period) Compare(o Period) int {
	switch {
	case p.Year != o.Year:
		if p.Year < o.Year {
			return -1
		}
		return 1
	case p.Month != o.Month:
		if p.Month < o.Month {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (p Period) Before(o Period) bool {
	return p.Compare(o) < 0
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// YearMonth is the compact YYYYMM form used in receipt numbers.
func (p Period) YearMonth() string {
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}

// Day truncates t to its calendar date, expressed at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(field, raw string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, Invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return parsed, nil
}

func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
