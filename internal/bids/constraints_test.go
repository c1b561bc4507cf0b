package bids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectConstraintViolations(t *testing.T) {
	occupied := &ProjectRequirements{
		Constraints: []string{"Building remains occupied and operational during work"},
	}

	tests := []struct {
		name       string
		scope      string
		req        *ProjectRequirements
		scopeScore float64
		wantTypes  []FlagType
	}{
		{
			name:       "nil requirements",
			scope:      "subcontracted electrical work",
			req:        nil,
			scopeScore: 0.5,
			wantTypes:  nil,
		},
		{
			name:       "subcontracted electrical in occupied building",
			scope:      "Interior fit-out with electrical work subcontracted to a partner, phased delivery",
			req:        occupied,
			scopeScore: 0.8,
			wantTypes:  []FlagType{FlagSubcontractorRisk},
		},
		{
			name:       "no phasing plan for occupied building",
			scope:      "Complete interior renovation, all trades in-house",
			req:        occupied,
			scopeScore: 0.8,
			wantTypes:  []FlagType{FlagOperationalDisruption},
		},
		{
			name:       "phased plan suppresses disruption flag",
			scope:      "Renovation delivered in three phases to keep floors open",
			req:        occupied,
			scopeScore: 0.8,
			wantTypes:  nil,
		},
		{
			name:  "subcontracted electrical against power shutdown constraint",
			scope: "Electrical upgrades handled by subcontract crew",
			req: &ProjectRequirements{
				Constraints: []string{"No full-day power shutdowns permitted"},
			},
			scopeScore: 0.8,
			wantTypes:  []FlagType{FlagConstraintViolationRisk},
		},
		{
			name:  "vague scope with noise restriction",
			scope: "General renovation work",
			req: &ProjectRequirements{
				Constraints: []string{"Noise restricted to weekends"},
			},
			scopeScore: 0.5,
			wantTypes:  []FlagType{FlagConstraintViolationRisk},
		},
		{
			name:  "detailed scope clears noise restriction",
			scope: "Demolition on weekends only with acoustic screening",
			req: &ProjectRequirements{
				Constraints: []string{"Noise restricted to weekends"},
			},
			scopeScore: 0.85,
			wantTypes:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			violations := DetectConstraintViolations(tc.scope, tc.req, tc.scopeScore)

			var got []FlagType
			for _, v := range violations {
				got = append(got, v.Type)
				require.NotEmpty(t, v.Evidence)
			}
			require.Equal(t, tc.wantTypes, got)
		})
	}
}

func TestDetectConstraintViolationsStacks(t *testing.T) {
	req := &ProjectRequirements{
		Constraints: []string{"Occupied building, no full-day power shutdown allowed"},
	}
	scope := "Power distribution upgrade, electrical subcontracted"

	violations := DetectConstraintViolations(scope, req, 0.7)
	require.Len(t, violations, 3)
	require.Equal(t, FlagSubcontractorRisk, violations[0].Type)
	require.Equal(t, SeverityHigh, violations[0].Severity)
	require.Equal(t, FlagOperationalDisruption, violations[1].Type)
	require.Equal(t, SeverityMedium, violations[1].Severity)
	require.Equal(t, FlagConstraintViolationRisk, violations[2].Type)
	require.Equal(t, SeverityHigh, violations[2].Severity)
}
