package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Disbursement is the part of a nómina or aguinaldo record the roll-up
// statistics need.
type Disbursement struct {
	ID          int64
	EmployeeID  int64
	NetAmount   decimal.Decimal
	Status      Status
	PaymentDate *time.Time
}

// Disbursable is implemented by payroll and aguinaldo records.
type Disbursable interface {
	Disbursement() Disbursement
}

// Disbursements projects any slice of records.
func Disbursements[T Disbursable](records []T) []Disbursement {
	out := make([]Disbursement, 0, len(records))
	for _, r := range records {
		out = append(out, r.Disbursement())
	}
	return out
}

// TotalPaid sums the net amount of PAID records.
func TotalPaid(records []Disbursement) decimal.Decimal {
	return TotalAcrossPeriod(records, StatusPaid)
}

// PendingCount counts PENDING records.
func PendingCount(records []Disbursement) int {
	n := 0
	for _, r := range records {
		if r.Status == StatusPending {
			n++
		}
	}
	return n
}

// MostRecentPayment returns the PAID record with the latest payment date.
// Equal dates resolve to the higher id. ok is false when nothing was paid.
func MostRecentPayment(records []Disbursement) (latest Disbursement, ok bool) {
	for _, r := range records {
		if r.Status != StatusPaid || r.PaymentDate == nil {
			continue
		}
		if !ok || r.PaymentDate.After(*latest.PaymentDate) ||
			(r.PaymentDate.Equal(*latest.PaymentDate) && r.ID > latest.ID) {
			latest, ok = r, true
		}
	}
	return latest, ok
}

// TotalAcrossPeriod sums net amounts, restricted to the given statuses when
// any are passed.
func TotalAcrossPeriod(records []Disbursement, statuses ...Status) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if len(statuses) > 0 && !hasStatus(statuses, r.Status) {
			continue
		}
		total = total.Add(r.NetAmount)
	}
	return total
}

// CountByStatus counts records per status.
func CountByStatus(records []Disbursement) map[Status]int {
	counts := make(map[Status]int, 3)
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}

func hasStatus(statuses []Status, s Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}
