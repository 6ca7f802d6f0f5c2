package query

import (
	"testing"

	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name         string
		filters      domain.Filters
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:         "single year only",
			filters:      domain.Filters{Years: domain.SingleYear(2020)},
			expectedSQL:  "SELECT *\nFROM flows\nWHERE Year = ?",
			expectedArgs: []any{2020},
		},
		{
			name:         "year range",
			filters:      domain.Filters{Years: domain.YearRange(2018, 2020)},
			expectedSQL:  "SELECT *\nFROM flows\nWHERE Year >= ? AND Year <= ?",
			expectedArgs: []any{2018, 2020},
		},
		{
			name: "single valued filters use equality",
			filters: domain.Filters{
				Years:      domain.SingleYear(2020),
				Categories: []string{"Adaptation"},
				DonorTypes: []string{domain.DonorTypeCountry},
			},
			expectedSQL: "SELECT *\nFROM flows\nWHERE Year = ?\n" +
				"  AND meta_category = ?\n" +
				"  AND DonorType = ?",
			expectedArgs: []any{2020, "Adaptation", domain.DonorTypeCountry},
		},
		{
			name: "multi valued filters use IN",
			filters: domain.Filters{
				Years:         domain.YearRange(2000, 2022),
				Categories:    []string{"Adaptation", "Mitigation"},
				Subcategories: []string{"Solar-energy", "Wind-energy"},
				FlowTypes:     []string{"ODA Grants", "ODA Loans"},
				DonorTypes:    []string{domain.DonorTypeCountry, domain.DonorTypePrivate},
			},
			expectedSQL: "SELECT *\nFROM flows\nWHERE Year >= ? AND Year <= ?\n" +
				"  AND meta_category IN (?, ?)\n" +
				"  AND climate_class IN (?, ?)\n" +
				"  AND FlowName IN (?, ?)\n" +
				"  AND DonorType IN (?, ?)",
			expectedArgs: []any{
				2000, 2022,
				"Adaptation", "Mitigation",
				"Solar-energy", "Wind-energy",
				"ODA Grants", "ODA Loans",
				domain.DonorTypeCountry, domain.DonorTypePrivate,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build(DefaultTable, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSQL, q.SQL)
			assert.Equal(t, tt.expectedArgs, q.Args)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		filters  domain.Filters
		expected error
	}{
		{
			name:  "unknown donor type",
			table: DefaultTable,
			filters: domain.Filters{
				Years:      domain.SingleYear(2020),
				DonorTypes: []string{domain.DonorTypeCountry, "Donor Country'; DROP TABLE flows; --"},
			},
			expected: domain.ErrInvalidFilter,
		},
		{
			name:     "table name is not an identifier",
			table:    "flows; DELETE FROM flows",
			filters:  domain.Filters{Years: domain.SingleYear(2020)},
			expected: domain.ErrInvalidFilter,
		},
		{
			name:     "reversed year range",
			table:    DefaultTable,
			filters:  domain.Filters{Years: domain.YearRange(2022, 2000)},
			expected: domain.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build(tt.table, tt.filters)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			assert.Empty(t, q.SQL)
		})
	}
}

func TestBuild_QualifiedTableName(t *testing.T) {
	q, err := Build("main.climate.flows", domain.Filters{Years: domain.SingleYear(2019)})
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "FROM main.climate.flows\n")
}

func TestBuildAggregated(t *testing.T) {
	q, err := BuildAggregated(DefaultTable, domain.Filters{
		Years:     domain.SingleYear(2018),
		FlowTypes: []string{"ODA Grants"},
	})
	require.NoError(t, err)

	assert.Contains(t, q.SQL, "SUM(USD_Disbursement) AS total_disbursement")
	assert.Contains(t, q.SQL, "WHERE Year = ?\n  AND FlowName = ?")
	assert.Contains(t, q.SQL, "GROUP BY Year, DonorName, DEDonorcode, RecipientName, DERecipientcode, FlowName, meta_category, climate_class")
	assert.Contains(t, q.SQL, "ORDER BY total_disbursement DESC")
	assert.Equal(t, []any{2018, "ODA Grants"}, q.Args)
}

func TestQuery_Inline(t *testing.T) {
	q, err := Build(DefaultTable, domain.Filters{
		Years:     domain.YearRange(2018, 2020),
		FlowTypes: []string{"Other Official Flows (non Export Credit)", "Donor's Choice"},
	})
	require.NoError(t, err)

	expected := "SELECT *\nFROM flows\nWHERE Year >= 2018 AND Year <= 2020\n" +
		"  AND FlowName IN ('Other Official Flows (non Export Credit)', 'Donor''s Choice')"
	assert.Equal(t, expected, q.Inline())
}
