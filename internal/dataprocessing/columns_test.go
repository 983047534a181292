package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "etfcli/internal/errors"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		want    ColumnMap
		missing []string
	}{
		{
			name:   "standard chinese header",
			header: []string{"證券代號", "證券名稱", "股數"},
			want:   ColumnMap{FieldIdentifier: 0, FieldLabel: 1, FieldQuantity: 2},
		},
		{
			name:   "reordered columns",
			header: []string{"持有股數", "證券名稱", "證券代號"},
			want:   ColumnMap{FieldIdentifier: 2, FieldLabel: 1, FieldQuantity: 0},
		},
		{
			name:   "whitespace inside header cells",
			header: []string{"證 券 代 號", "證 券 名 稱", "股  數"},
			want:   ColumnMap{FieldIdentifier: 0, FieldLabel: 1, FieldQuantity: 2},
		},
		{
			name:   "english header",
			header: []string{"Security Code", "Security Name", "Shares"},
			want:   ColumnMap{FieldIdentifier: 0, FieldLabel: 1, FieldQuantity: 2},
		},
		{
			name:   "canonical persisted header",
			header: []string{"identifier", "label", "quantity"},
			want:   ColumnMap{FieldIdentifier: 0, FieldLabel: 1, FieldQuantity: 2},
		},
		{
			name:   "label optional",
			header: []string{"代號", "股數"},
			want:   ColumnMap{FieldIdentifier: 0, FieldQuantity: 1},
		},
		{
			name:    "missing quantity",
			header:  []string{"證券代號", "證券名稱"},
			missing: []string{FieldQuantity},
		},
		{
			name:    "missing both mandatory fields",
			header:  []string{"備註", "市值"},
			missing: []string{FieldIdentifier, FieldQuantity},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveColumns(tt.header)
			if len(tt.missing) > 0 {
				require.Error(t, err)
				assert.True(t, apperrors.IsMissingColumn(err))
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.ElementsMatch(t, tt.missing, appErr.Context["missing_fields"])
				assert.Equal(t, tt.header, appErr.Context["header_cells"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColumnsCandidatePriority(t *testing.T) {
	// Two cells could bind the identifier: the generic "代號" at index 0
	// and the higher-priority "證券代號" at index 2. Candidate ordering
	// wins over cell position.
	header := []string{"代號", "股數", "證券代號"}

	columns, err := ResolveColumns(header)
	require.NoError(t, err)
	assert.Equal(t, 2, columns[FieldIdentifier])
	assert.Equal(t, 1, columns[FieldQuantity])
}

func TestResolveColumnsNeverBindsOneColumnTwice(t *testing.T) {
	// A single cell matching both identifier and quantity candidates is
	// taken by the identifier (resolved first); quantity must bind the
	// remaining cell.
	header := []string{"代號數量", "數量"}

	columns, err := ResolveColumns(header)
	require.NoError(t, err)
	assert.Equal(t, 0, columns[FieldIdentifier])
	assert.Equal(t, 1, columns[FieldQuantity])
}

func TestResolveColumnsDeterministic(t *testing.T) {
	header := []string{"證券代號", "證券名稱", "股數"}

	first, err := ResolveColumns(header)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ResolveColumns(header)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
