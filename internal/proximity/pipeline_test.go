package proximity_test

import (
	"testing"

	"station-proximity/internal/proximity"
	"station-proximity/internal/station"

	"github.com/stretchr/testify/require"
)

func fields(recs []station.Record) map[string][2]string {
	out := map[string][2]string{}
	for _, r := range recs {
		out[r.Name] = [2]string{r.RangeField(), r.ElevationField()}
	}
	return out
}

var abc = []station.Station{
	{Name: "A", Latitude: 0, Longitude: 0, Elevation: 0},
	{Name: "B", Latitude: 0, Longitude: 1, Elevation: 50},
	{Name: "C", Latitude: 0, Longitude: 90, Elevation: 500},
}

func TestRunThreeStations(t *testing.T) {
	// A and B are one degree of longitude apart on the equator (~111.19 km).
	res := proximity.Run(abc, proximity.Params{Tolerance: 100, MaxDistanceKm: 120})
	require.Len(t, res.Records, 3)
	require.Equal(t, 6, res.Pairs)
	got := fields(res.Records)
	require.Equal(t, [2]string{"B", "B"}, got["A"])
	require.Equal(t, [2]string{"A", "A"}, got["B"])
	require.Equal(t, [2]string{"", ""}, got["C"])

	res = proximity.Run(abc, proximity.DefaultParams())
	got = fields(res.Records)
	require.Equal(t, [2]string{"", "B"}, got["A"])
	require.Equal(t, [2]string{"", "A"}, got["B"])
	require.Equal(t, [2]string{"", ""}, got["C"])
}

func TestRunKeepsInputOrderAndAttributes(t *testing.T) {
	res := proximity.Run(coastal, proximity.DefaultParams())
	require.Len(t, res.Records, len(coastal))
	for i, r := range res.Records {
		require.Equal(t, coastal[i], r.Station)
		require.NotContains(t, r.RangeMatches, r.Name)
		require.NotContains(t, r.ElevationMatches, r.Name)
	}
}

func TestRunSingleStation(t *testing.T) {
	res := proximity.Run(abc[:1], proximity.DefaultParams())
	require.Len(t, res.Records, 1)
	require.Equal(t, "", res.Records[0].RangeField())
	require.Equal(t, "", res.Records[0].ElevationField())
	require.Equal(t, 0, res.Pairs)
}

func TestRunEmpty(t *testing.T) {
	res := proximity.Run(nil, proximity.DefaultParams())
	require.Empty(t, res.Records)
}

func TestRunIdenticalStations(t *testing.T) {
	ss := []station.Station{
		{Name: "north", Latitude: 61.5, Longitude: 23.75, Elevation: 110},
		{Name: "south", Latitude: 61.5, Longitude: 23.75, Elevation: 110},
	}
	m := proximity.BuildMatrix(ss)
	d, ok := m.Distance("north", "south")
	require.True(t, ok)
	require.Equal(t, 0.0, d)

	got := fields(proximity.Run(ss, proximity.DefaultParams()).Records)
	require.Equal(t, [2]string{"south", "south"}, got["north"])
	require.Equal(t, [2]string{"north", "north"}, got["south"])
}

func TestRunIdempotent(t *testing.T) {
	p := proximity.Params{Tolerance: 20, MaxDistanceKm: 150, Workers: 4}
	first := proximity.Run(coastal, p).Records
	second := proximity.Run(coastal, p).Records
	require.Equal(t, first, second)
	seq := proximity.Run(coastal, proximity.Params{Tolerance: 20, MaxDistanceKm: 150}).Records
	require.Equal(t, first, seq)
}

func TestAssembleRangeRespectsThreshold(t *testing.T) {
	m := proximity.BuildMatrix(coastal)
	em := proximity.MatchElevation(coastal, 100)
	recs := proximity.Assemble(coastal, m, em, 50)
	for _, r := range recs {
		for _, name := range r.RangeMatches {
			d, ok := m.Distance(r.Name, name)
			require.True(t, ok)
			require.LessOrEqual(t, d, 50.0)
		}
		require.Equal(t, em[r.Name], r.ElevationMatches)
	}
}

func TestAssembleDoesNotAliasMatches(t *testing.T) {
	m := proximity.BuildMatrix(abc)
	em := proximity.MatchElevation(abc, 100)
	recs := proximity.Assemble(abc, m, em, 100)
	recs[0].ElevationMatches[0] = "changed"
	require.Equal(t, []string{"B"}, em["A"])
}

func TestRunNeverListsOwnName(t *testing.T) {
	ss := []station.Station{
		{Name: "X", Latitude: 60, Longitude: 25, Elevation: 10},
		{Name: "Y", Latitude: 60.1, Longitude: 25, Elevation: 20},
		{Name: "X", Latitude: 60.2, Longitude: 25, Elevation: 30},
	}
	recs := proximity.Run(ss, proximity.Params{Tolerance: 100, MaxDistanceKm: 100}).Records
	require.Len(t, recs, 3)
	for _, r := range recs {
		require.NotContains(t, r.RangeMatches, r.Name)
		require.NotContains(t, r.ElevationMatches, r.Name)
	}
	require.Equal(t, []string{"Y"}, recs[0].RangeMatches)
	require.Equal(t, []string{"Y"}, recs[0].ElevationMatches)
	require.Equal(t, []string{"X", "X"}, recs[1].RangeMatches)
}
