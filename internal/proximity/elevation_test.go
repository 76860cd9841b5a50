package proximity_test

import (
	"math"
	"testing"

	"station-proximity/internal/proximity"
	"station-proximity/internal/station"

	"github.com/stretchr/testify/require"
)

func TestMatchElevationWithinTolerance(t *testing.T) {
	em := proximity.MatchElevation(coastal, 100)
	require.Len(t, em, len(coastal))
	byName := map[string]station.Station{}
	for _, s := range coastal {
		byName[s.Name] = s
	}
	for _, s := range coastal {
		for _, name := range em[s.Name] {
			require.NotEqual(t, s.Name, name)
			require.LessOrEqual(t, math.Abs(s.Elevation-byName[name].Elevation), 100.0)
		}
	}
	require.Empty(t, em["Tankar"])
	require.Equal(t, []string{"Emäsalo", "Harmaja", "Itätoukki", "Marjaniemi", "Utö", "Vuosaari"}, em["Kalbådagrund"])
}

func TestMatchElevationClosedInterval(t *testing.T) {
	ss := []station.Station{
		{Name: "low", Elevation: 0},
		{Name: "edge", Elevation: 100},
		{Name: "over", Elevation: 100.5},
	}
	em := proximity.MatchElevation(ss, 100)
	require.Equal(t, []string{"edge"}, em["low"])
	require.Equal(t, []string{"low", "over"}, em["edge"])
	require.Equal(t, []string{"edge"}, em["over"])
}

func TestMatchElevationEmptyIsNotNil(t *testing.T) {
	em := proximity.MatchElevation([]station.Station{{Name: "alone", Elevation: 10}}, 100)
	require.NotNil(t, em["alone"])
	require.Empty(t, em["alone"])
	require.Empty(t, proximity.MatchElevation(nil, 100))
}

func TestMatchElevationNegativeTolerance(t *testing.T) {
	ss := []station.Station{{Name: "a", Elevation: 5}, {Name: "b", Elevation: 5}}
	em := proximity.MatchElevation(ss, -1)
	require.Empty(t, em["a"])
	require.Empty(t, em["b"])
}

func TestMatchElevationSameElevationOtherName(t *testing.T) {
	ss := []station.Station{{Name: "twin-b", Elevation: 42}, {Name: "twin-a", Elevation: 42}}
	em := proximity.MatchElevation(ss, 0)
	require.Equal(t, []string{"twin-a"}, em["twin-b"])
	require.Equal(t, []string{"twin-b"}, em["twin-a"])
}
