package postgres

import (
	"context"
	"fmt"

	"github.com/oleamind/cropplanner/models"
)

type weatherDayRow struct {
	Date          models.DateOnly `gorm:"primaryKey"`
	TempMean      float64
	TempMax       float64
	TempMin       float64
	Precipitation *float64
	SunshineHours *float64
	WindSpeed     *float64
}

func (r weatherDayRow) toModel() models.WeatherDay {
	return models.WeatherDay{
		Date: r.Date, TempMean: r.TempMean, TempMax: r.TempMax, TempMin: r.TempMin,
		Precipitation: r.Precipitation, SunshineHours: r.SunshineHours, WindSpeed: r.WindSpeed,
	}
}

func weatherDayRowFromModel(d models.WeatherDay) weatherDayRow {
	return weatherDayRow{
		Date: d.Date, TempMean: d.TempMean, TempMax: d.TempMax, TempMin: d.TempMin,
		Precipitation: d.Precipitation, SunshineHours: d.SunshineHours, WindSpeed: d.WindSpeed,
	}
}

// LoadWeather returns the full stored weather series, ordered by date.
func (s *Store) LoadWeather(ctx context.Context) (models.WeatherSeries, error) {
	var rows []weatherDayRow
	if err := s.DB.WithContext(ctx).Order("date asc").Find(&rows).Error; err != nil {
		return models.WeatherSeries{}, fmt.Errorf("postgres: load weather: %w", err)
	}
	days := make([]models.WeatherDay, len(rows))
	for i, r := range rows {
		days[i] = r.toModel()
	}
	return models.WeatherSeries{Days: days}, nil
}

// SaveWeather upserts every day in the series.
func (s *Store) SaveWeather(ctx context.Context, series models.WeatherSeries) error {
	for _, d := range series.Days {
		row := weatherDayRowFromModel(d)
		if err := s.DB.WithContext(ctx).Save(&row).Error; err != nil {
			return fmt.Errorf("postgres: save weather day %s: %w", d.Date, err)
		}
	}
	return nil
}

func (a WeatherAdapter) Get(ctx context.Context) (models.WeatherSeries, error) {
	return a.LoadWeather(ctx)
}
