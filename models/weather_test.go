package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherSeries_Validate(t *testing.T) {
	series := WeatherSeries{Days: []WeatherDay{
		{Date: date(t, "2026-01-01")},
		{Date: date(t, "2026-01-02")},
	}}
	require.NoError(t, series.Validate())

	empty := WeatherSeries{}
	assert.Error(t, empty.Validate())

	outOfOrder := WeatherSeries{Days: []WeatherDay{
		{Date: date(t, "2026-01-02")},
		{Date: date(t, "2026-01-01")},
	}}
	assert.Error(t, outOfOrder.Validate())

	duplicate := WeatherSeries{Days: []WeatherDay{
		{Date: date(t, "2026-01-01")},
		{Date: date(t, "2026-01-01")},
	}}
	assert.Error(t, duplicate.Validate())
}

func TestWeatherSeries_Covers(t *testing.T) {
	series := WeatherSeries{Days: []WeatherDay{
		{Date: date(t, "2026-01-01")},
		{Date: date(t, "2026-01-10")},
	}}
	assert.True(t, series.Covers(date(t, "2026-01-02"), date(t, "2026-01-05")))
	assert.False(t, series.Covers(date(t, "2025-12-31"), date(t, "2026-01-05")))
	assert.False(t, series.Covers(date(t, "2026-01-02"), date(t, "2026-01-11")))
	assert.False(t, WeatherSeries{}.Covers(date(t, "2026-01-01"), date(t, "2026-01-02")))
}

func TestWeatherSeries_DayAt(t *testing.T) {
	series := WeatherSeries{Days: []WeatherDay{
		{Date: date(t, "2026-01-01"), TempMean: 10},
	}}
	day, ok := series.DayAt(date(t, "2026-01-01"))
	require.True(t, ok)
	assert.Equal(t, 10.0, day.TempMean)

	_, ok = series.DayAt(date(t, "2026-01-02"))
	assert.False(t, ok)
}
