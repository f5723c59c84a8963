package scoring

import "github.com/fairyhunter13/ats-screener/internal/domain"

// BuiltinCoefficients is the default career-level blend table, used when no
// coefficient artifact is configured. Junior levels lean on the calibrated
// logistic probability; senior levels weight the raw feature signal harder.
func BuiltinCoefficients() domain.CoefficientTable {
	return domain.CoefficientTable{
		domain.CareerLevelEntry:     {Alpha: 0.3, Beta: 0.5, Gamma: 0.2},
		domain.CareerLevelMid:       {Alpha: 0.4, Beta: 0.4, Gamma: 0.2},
		domain.CareerLevelSenior:    {Alpha: 0.5, Beta: 0.4, Gamma: 0.1},
		domain.CareerLevelExecutive: {Alpha: 0.6, Beta: 0.3, Gamma: 0.1},
	}
}
