package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DefaultPaymentMethod = "cash"

// FormatReceiptNumber renders REC-YYYYMM-XXXX for the month of issuance.
func FormatReceiptNumber(p Period, seq int) string {
	return fmt.Sprintf("REC-%s-%04d", p.YearMonth(), seq)
}

// ParseReceiptNumber accepts only the exact form FormatReceiptNumber produces,
// so each (month, sequence) pair has a single spelling.
func ParseReceiptNumber(number string) (Period, int, error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != "REC" || len(parts[1]) != 6 || len(parts[2]) < 4 {
		return Period{}, 0, fmt.Errorf("invalid receipt number %q", number)
	}
	year, err := strconv.Atoi(parts[1][:4])
	if err != nil {
		return Period{}, 0, fmt.Errorf("invalid receipt number %q", number)
	}
	month, err := strconv.Atoi(parts[1][4:])
	if err != nil || month < 1 || month > 12 {
		return Period{}, 0, fmt.Errorf("invalid receipt number %q", number)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil || seq < 1 {
		return Period{}, 0, fmt.Errorf("invalid receipt number %q", number)
	}
	period := Period{Year: year, Month: time.Month(month)}
	if FormatReceiptNumber(period, seq) != number {
		return Period{}, 0, fmt.Errorf("receipt number %q is not canonical", number)
	}
	return period, seq, nil
}
