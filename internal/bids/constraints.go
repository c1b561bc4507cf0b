package bids

import "strings"

// ConstraintViolation is a rule hit from scanning a bid's scope text
// against the project constraints. The scorer turns these into red flags.
type ConstraintViolation struct {
	Type     FlagType
	Severity Severity
	Evidence string
}

// DetectConstraintViolations scans the bid scope text against the
// requirement constraints. Checks are case-insensitive substring matches
// and each bid is scanned independently.
func DetectConstraintViolations(scopeText string, req *ProjectRequirements, scopeScore float64) []ConstraintViolation {
	if req == nil {
		return nil
	}

	var violations []ConstraintViolation

	constraints := strings.ToLower(strings.Join(req.Constraints, " "))
	scope := strings.ToLower(scopeText)

	subcontracted := strings.Contains(scope, "subcontract") || strings.Contains(scope, "subcontracted")

	if strings.Contains(constraints, "occupied") || strings.Contains(constraints, "operational") {
		if subcontracted && (strings.Contains(scope, "electrical") || strings.Contains(scope, "power")) {
			violations = append(violations, ConstraintViolation{
				Type:     FlagSubcontractorRisk,
				Severity: SeverityHigh,
				Evidence: "Critical electrical work is subcontracted, increasing operational disruption risk for occupied building",
			})
		}

		noPhasing := !strings.Contains(scope, "phasing") &&
			!strings.Contains(scope, "staged") &&
			!strings.Contains(scope, "phase")
		if noPhasing && strings.Contains(constraints, "occupied") {
			violations = append(violations, ConstraintViolation{
				Type:     FlagOperationalDisruption,
				Severity: SeverityMedium,
				Evidence: "No phasing plan mentioned for occupied building project",
			})
		}
	}

	if strings.Contains(constraints, "power shutdown") {
		if strings.Contains(scope, "electrical") &&
			(strings.Contains(scope, "subcontract") || strings.Contains(scope, "partner")) {
			violations = append(violations, ConstraintViolation{
				Type:     FlagConstraintViolationRisk,
				Severity: SeverityHigh,
				Evidence: "Electrical work subcontracted may violate 'no full-day power shutdowns' constraint",
			})
		}
	}

	if strings.Contains(constraints, "noise") && strings.Contains(constraints, "restricted") {
		if scopeScore < VaguePatternScopeBelow {
			violations = append(violations, ConstraintViolation{
				Type:     FlagConstraintViolationRisk,
				Severity: SeverityMedium,
				Evidence: "Vague scope may not address noise restriction requirements",
			})
		}
	}

	return violations
}
