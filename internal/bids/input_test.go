package bids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	payload, err := ParsePayload([]byte(`{
		"project": {"description": "Renovate the lobby"},
		"bids": [{"id": "b1", "contractor_name": "Acme Builders"}]
	}`))
	require.NoError(t, err)
	require.Equal(t, "Renovate the lobby", payload.Project.Description)
	require.Len(t, payload.Bids, 1)
}

func TestParsePayloadInvalidJSON(t *testing.T) {
	_, err := ParsePayload([]byte(`{"project":`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse evaluation payload")
}

func TestPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		wantErr error
	}{
		{
			name:    "missing description",
			payload: Payload{Bids: []any{map[string]any{"id": "b1"}}},
			wantErr: ErrMissingDescription,
		},
		{
			name:    "whitespace description",
			payload: Payload{Project: Project{Description: "   "}, Bids: []any{map[string]any{}}},
			wantErr: ErrMissingDescription,
		},
		{
			name:    "no bids",
			payload: Payload{Project: Project{Description: "Build a warehouse"}},
			wantErr: ErrMissingBids,
		},
		{
			name: "valid",
			payload: Payload{
				Project: Project{Description: "Build a warehouse"},
				Bids:    []any{map[string]any{"id": "b1"}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payload.Validate()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestContractorNames(t *testing.T) {
	payload := Payload{
		Project: Project{Description: "Roof replacement"},
		Bids: []any{
			map[string]any{"contractor_name": "Acme Builders"},
			map[string]any{"contractor_name": ""},
			map[string]any{"contractor_name": "Acme Builders"},
			"not a record",
			map[string]any{"contractor_name": "Delta Construction"},
			map[string]any{"id": "nameless"},
		},
	}

	require.Equal(t, []string{"Acme Builders", "Delta Construction"}, payload.ContractorNames())
}

func TestDecodeBid(t *testing.T) {
	record := map[string]any{
		"id":              "bid_acme",
		"contractor_name": "Acme Builders",
		"scope":           "Full interior demolition and rebuild",
		"cost":            float64(450000),
		"timeline":        "12 weeks",
	}

	bid, err := DecodeBid(record)
	require.NoError(t, err)
	require.Equal(t, "bid_acme", bid.ID)
	require.Equal(t, "Acme Builders", bid.ContractorName)
	require.Equal(t, "Full interior demolition and rebuild", bid.Scope)
	require.Equal(t, record, bid.Raw)
}

func TestDecodeBidNumericID(t *testing.T) {
	bid, err := DecodeBid(map[string]any{"id": float64(7), "contractor_name": "Acme Builders"})
	require.NoError(t, err)
	require.Equal(t, "7", bid.ID)
}

func TestDefaultProfile(t *testing.T) {
	profile := DefaultProfile("Acme Builders")
	require.Equal(t, "Acme Builders", profile.ContractorName)
	require.Equal(t, NeutralReputation, profile.ReputationScore)
	require.Empty(t, profile.RecentProjects)
	require.Empty(t, profile.RedFlagsFound)

	unknown := DefaultProfile("")
	require.Equal(t, "Unknown", unknown.ContractorName)
}
