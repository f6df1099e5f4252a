package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grid = [][]string{
	{"A1", "B1", "C1"},
	{"A2", "B2"},
	{"A3", "B3", "C3", "D3"},
}

func TestStaticReaderRanges(t *testing.T) {
	r := StaticReader{"MATRIZ": grid}
	ctx := context.Background()

	tests := []struct {
		name string
		ref  string
		want [][]string
	}{
		{"whole sheet", "", grid},
		{"columns", "B:C", [][]string{{"B1", "C1"}, {"B2"}, {"B3", "C3"}}},
		{"cells", "A2:B3", [][]string{{"A2", "B2"}, {"A3", "B3"}}},
		{"single cell", "C3", [][]string{{"C3"}}},
		{"beyond data", "A10:B12", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ReadRange(ctx, "MATRIZ", tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticReaderErrors(t *testing.T) {
	r := StaticReader{"MATRIZ": grid}

	_, err := r.ReadRange(context.Background(), "OTRA", "")
	assert.Error(t, err)

	_, err = r.ReadRange(context.Background(), "MATRIZ", "1:2")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.ReadRange(ctx, "MATRIZ", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "MATRIZ", a1Range("MATRIZ", ""))
	assert.Equal(t, "MATRIZ!A:F", a1Range("MATRIZ", "A:F"))
	assert.Equal(t, "'Mis Modelos'!A1:B9", a1Range("Mis Modelos", "A1:B9"))
	assert.Equal(t, "'O''Brien'!A1", a1Range("O'Brien", "A1"))
}
