package payroll

import (
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// DefaultSocialSecurityRate is the CCSS employee rate used when none is configured.
var DefaultSocialSecurityRate = decimal.RequireFromString("0.1667")

// Breakdown splits the deduction total of a record into an estimated social
// security withholding and the income tax remainder. The result is for display
// only: the server owns the real computation, which may include brackets, caps
// or other deductions.
//
// Neither part is ever negative and together they never exceed the deduction
// total. A record with no deductions shows both parts as zero.
func Breakdown(r payroll.Record, rate decimal.Decimal) (payroll.BreakdownResponse, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return payroll.BreakdownResponse{}, payroll.ErrInvalidRate
	}

	socialSecurity := decimal.Zero
	incomeTax := decimal.Zero
	if r.DeductionsTotal.IsPositive() {
		socialSecurity = r.GrossTotal.Mul(rate).Round(2)
		if socialSecurity.GreaterThan(r.DeductionsTotal) {
			socialSecurity = r.DeductionsTotal
		}
		if socialSecurity.IsNegative() {
			socialSecurity = decimal.Zero
		}
		incomeTax = r.DeductionsTotal.Sub(socialSecurity)
	}

	return payroll.BreakdownResponse{
		RecordID:                  r.ID,
		GrossTotal:                r.GrossTotal,
		DeductionsTotal:           r.DeductionsTotal,
		SocialSecurityRate:        rate,
		SocialSecurityWithholding: socialSecurity,
		IncomeTaxWithholding:      incomeTax,
		NetTotal:                  r.NetTotal,
		Approximate:               true,
		Caveat:                    payroll.BreakdownCaveat,
	}, nil
}
