package importer_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sosi2gpkg/internal/importer"
	"sosi2gpkg/internal/services"
)

func intPtr(v int) *int { return &v }

func TestCRSOverrideArgs(t *testing.T) {
	assert.Equal(t, []string{"-a_srs", "EPSG:25832"}, importer.CRSOverride{Source: 25832}.Args())
	assert.Equal(t,
		[]string{"-s_srs", "EPSG:25833", "-t_srs", "EPSG:25832"},
		importer.CRSOverride{Source: 25833, Target: intPtr(25832)}.Args(),
	)
}

func TestParseEPSG(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "25832", want: 25832},
		{in: " EPSG:25833 ", want: 25833},
		{in: "epsg:3857", want: 3857},
		{in: "Epsg: 25835", want: 25835},
		{in: "", wantErr: true},
		{in: "utm32", wantErr: true},
		{in: "-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := importer.ParseEPSG(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, services.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTarget(t *testing.T) {
	for _, same := range []string{"", "same", "SAME", " Samme "} {
		got, err := importer.ParseTarget(same)
		require.NoError(t, err, same)
		assert.Nil(t, got, same)
	}
	got, err := importer.ParseTarget("EPSG:25834")
	require.NoError(t, err)
	assert.Equal(t, 25834, *got)

	_, err = importer.ParseTarget("sometimes")
	assert.Error(t, err)
}

func TestIsOffered(t *testing.T) {
	assert.True(t, importer.IsOffered(3857))
	assert.False(t, importer.IsOffered(4326))
}

func TestNormalizeOutput(t *testing.T) {
	tests := []struct{ in, want string }{
		{"out", "out.gpkg"},
		{"out.gpkg", "out.gpkg"},
		{"out.GPKG", "out.GPKG"},
		{"out.sqlite", "out.sqlite.gpkg"},
		{filepath.Join("a", ".", "b"), filepath.Join("a", "b.gpkg")},
		{" " + filepath.Join("d", "x") + " ", filepath.Join("d", "x.gpkg")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, importer.NormalizeOutput(tt.in), tt.in)
	}
}
