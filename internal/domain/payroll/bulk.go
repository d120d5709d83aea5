package payroll

import (
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/batch"
)

// IneligibleErrors are reported for records a bulk operation refuses to touch.
type IneligibleErrors struct {
	NotFound   error
	Voided     error
	NotPending error
}

var PayrollIneligible = IneligibleErrors{
	NotFound:   ErrPayrollRecordNotFound,
	Voided:     ErrRecordVoided,
	NotPending: ErrRecordNotPending,
}

// SelectPending picks the records a bulk pay or void may send. Without ids
// every PENDING record is picked and the rest are skipped. With ids each id
// is either picked or returned as a failed outcome, so nothing is sent for a
// record that is not pending.
func SelectPending(records []Disbursement, ids []int64, errs IneligibleErrors) ([]Disbursement, []batch.Outcome) {
	if len(ids) == 0 {
		picked := make([]Disbursement, 0, len(records))
		for _, r := range records {
			if r.Status == StatusPending {
				picked = append(picked, r)
			}
		}
		return picked, nil
	}

	byID := make(map[int64]Disbursement, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	var (
		picked   []Disbursement
		rejected []batch.Outcome
		seen     = make(map[int64]bool, len(ids))
	)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		r, ok := byID[id]
		switch {
		case !ok:
			rejected = append(rejected, batch.Outcome{ItemID: id, Err: errs.NotFound})
		case r.Status == StatusVoided:
			rejected = append(rejected, batch.Outcome{ItemID: id, Err: errs.Voided})
		case r.Status != StatusPending:
			rejected = append(rejected, batch.Outcome{ItemID: id, Err: errs.NotPending})
		default:
			picked = append(picked, r)
		}
	}
	return picked, rejected
}
