package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"

	"station-proximity/internal/cache"
	"station-proximity/internal/proximity"
	"station-proximity/internal/station"
)

const abcCSV = "station_name,latitude,longitude,elevation\nA,0,0,0\nB,0,1,50\nC,0,90,500\n"

func newServer() *httptest.Server {
	return httptest.NewServer(BuildRoutes(Options{
		Cache:         cache.New(nil, 16, time.Minute),
		Defaults:      proximity.DefaultParams(),
		MaxUploadSize: 1 << 10,
	}))
}

func post(t *testing.T, url, body string) *http.Response {
	rsp, err := http.Post(url, "text/csv", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { rsp.Body.Close() })
	return rsp
}

func TestComputeJSON(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	rsp := post(t, ts.URL+"/proximity?max_distance=120", abcCSV)
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	require.Equal(t, "MISS", rsp.Header.Get("x-cache"))

	var out tableResponse
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&out))
	require.Equal(t, 3, out.Stations)
	require.Equal(t, 120.0, out.Params.MaxDistanceKm)
	require.Equal(t, 100.0, out.Params.Tolerance)
	require.Equal(t, []string{"B"}, out.Records[0].RangeMatches)
	require.Equal(t, []string{"B"}, out.Records[0].ElevationMatches)
	require.Equal(t, []string{}, out.Records[2].RangeMatches)
	require.Equal(t, station.Station{Name: "C", Latitude: 0, Longitude: 90, Elevation: 500}, out.Records[2].Station)

	again := post(t, ts.URL+"/proximity?max_distance=120", abcCSV)
	require.Equal(t, http.StatusOK, again.StatusCode)
	require.Equal(t, "HIT", again.Header.Get("x-cache"))
	var cached tableResponse
	require.NoError(t, json.NewDecoder(again.Body).Decode(&cached))
	require.Equal(t, out, cached)
}

func TestComputeCSV(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	rsp := post(t, ts.URL+"/proximity?format=csv&tolerance=10", abcCSV)
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	require.Equal(t, "text/csv; charset=utf-8", rsp.Header.Get("content-type"))
	b := new(bytes.Buffer)
	_, err := b.ReadFrom(rsp.Body)
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"station_name,latitude,longitude,elevation,Range,Elevation",
		"A,0,0,0,,",
		"B,0,1,50,,",
		"C,0,90,500,,",
		"",
	}, "\n"), b.String())
}

func TestComputeGeoJSON(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	rsp := post(t, ts.URL+"/proximity?format=geojson", abcCSV)
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&raw))
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)
	require.Equal(t, "A", fc.Features[0].Properties.MustString("station_name"))
}

func TestComputeValidationIssues(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	rsp := post(t, ts.URL+"/proximity", "station_name,latitude,longitude,elevation\nA,zero,0,0\n")
	require.Equal(t, http.StatusBadRequest, rsp.StatusCode)
	var e errorResponse
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&e))
	require.Equal(t, "invalid station data", e.Error)
	require.Equal(t, []station.Issue{{Line: 2, Column: "latitude", Value: "zero", Reason: "not a number"}}, e.Issues)
}

func TestComputeMissingColumns(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	rsp := post(t, ts.URL+"/proximity", "name,lat,lon\n")
	require.Equal(t, http.StatusBadRequest, rsp.StatusCode)
	var e errorResponse
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&e))
	require.Contains(t, e.Error, "station_name")
}

func TestComputeBadRequests(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	require.Equal(t, http.StatusBadRequest, post(t, ts.URL+"/proximity?tolerance=abc", abcCSV).StatusCode)
	require.Equal(t, http.StatusBadRequest, post(t, ts.URL+"/proximity?max_distance=Inf", abcCSV).StatusCode)
	require.Equal(t, http.StatusBadRequest, post(t, ts.URL+"/proximity?format=xlsx", abcCSV).StatusCode)

	big := "station_name,latitude,longitude,elevation\n" + strings.Repeat("Station,0,0,0\n", 200)
	require.Equal(t, http.StatusRequestEntityTooLarge, post(t, ts.URL+"/proximity", big).StatusCode)

	rsp, err := http.Get(ts.URL + "/proximity")
	require.NoError(t, err)
	rsp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, rsp.StatusCode)
	require.Equal(t, http.MethodPost, rsp.Header.Get("allow"))
}

func TestLatestWithoutStore(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	rsp, err := http.Get(ts.URL + "/proximity/latest")
	require.NoError(t, err)
	defer rsp.Body.Close()
	require.Equal(t, http.StatusNotFound, rsp.StatusCode)

	rsp2 := post(t, ts.URL+"/proximity/latest", "")
	require.Equal(t, http.StatusMethodNotAllowed, rsp2.StatusCode)
}

func TestLatestRejectsUnknownFormat(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	for _, f := range []string{"table", "xlsx"} {
		rsp, err := http.Get(ts.URL + "/proximity/latest?format=" + f)
		require.NoError(t, err)
		rsp.Body.Close()
		require.Equal(t, http.StatusBadRequest, rsp.StatusCode, f)
	}
}

func TestResponseFormat(t *testing.T) {
	for in, want := range map[string]string{"": "json", "JSON": "json", "csv": "csv", " GeoJSON ": "geojson"} {
		got, ok := responseFormat(in)
		require.True(t, ok, in)
		require.Equal(t, want, got)
	}
	_, ok := responseFormat("table")
	require.False(t, ok)
}

func TestParamsFromQuery(t *testing.T) {
	def := proximity.Params{Tolerance: 100, MaxDistanceKm: 100, Workers: 3}
	p, err := paramsFromQuery(def, "", "")
	require.NoError(t, err)
	require.Equal(t, def, p)

	p, err = paramsFromQuery(def, "12.5", "0")
	require.NoError(t, err)
	require.Equal(t, proximity.Params{Tolerance: 12.5, MaxDistanceKm: 0, Workers: 3}, p)

	_, err = paramsFromQuery(def, "NaN", "")
	require.Error(t, err)
}
