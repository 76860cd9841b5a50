package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"station-proximity/internal/proximity"
	"station-proximity/internal/station"
)

const abcCSV = "station_name,latitude,longitude,elevation\nA,0,0,0\nB,0,1,50\nC,0,90,500\n"

func TestRunOnceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.csv")
	require.NoError(t, os.WriteFile(path, []byte(abcCSV), 0o644))

	res, err := RunOnce(context.Background(), path, proximity.Params{Tolerance: 100, MaxDistanceKm: 120}, nil)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	require.Equal(t, "B", res.Records[0].RangeField())
}

func TestRunOnceFromHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stations.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(abcCSV))
	}))
	defer ts.Close()

	res, err := RunOnce(context.Background(), ts.URL+"/stations.csv", proximity.DefaultParams(), nil)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	_, err = RunOnce(context.Background(), ts.URL+"/missing.csv", proximity.DefaultParams(), nil)
	require.ErrorContains(t, err, "status 404")
}

func TestRunOnceInvalidInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.csv")
	require.NoError(t, os.WriteFile(path, []byte("station_name,latitude\nA,0\n"), 0o644))
	_, err := RunOnce(context.Background(), path, proximity.DefaultParams(), nil)
	require.True(t, errors.Is(err, station.ErrMissingColumns))

	_, err = RunOnce(context.Background(), filepath.Join(t.TempDir(), "none.csv"), proximity.DefaultParams(), nil)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNextRunAt(t *testing.T) {
	loc := time.FixedZone("EET", 2*3600)
	before := time.Date(2026, 10, 19, 1, 30, 0, 0, loc)
	require.Equal(t, time.Date(2026, 10, 19, 3, 0, 0, 0, loc), nextRunAt(before, loc, 3))

	exact := time.Date(2026, 10, 19, 3, 0, 0, 0, loc)
	require.Equal(t, time.Date(2026, 10, 20, 3, 0, 0, 0, loc), nextRunAt(exact, loc, 3))

	after := time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2027, 1, 1, 3, 0, 0, 0, loc), nextRunAt(after, loc, 3))
}
