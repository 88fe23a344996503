package models

import "fmt"

// Crop is a cultivable species/variety. Immutable once loaded by a
// CropProfileSource.
type Crop struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Variety          string   `json:"variety,omitempty"`
	AreaPerUnit      float64  `json:"area_per_unit"`                // m^2/plant, > 0
	RevenuePerArea   *float64 `json:"revenue_per_area,omitempty"`   // currency/m^2
	RevenueCapSeason *float64 `json:"revenue_cap_season,omitempty"` // currency, per season
	Groups           []string `json:"groups,omitempty"`             // e.g. "Solanaceae"
}

// HasGroup reports whether the crop carries the given group tag.
func (c Crop) HasGroup(group string) bool {
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Validate checks the Crop invariants.
func (c Crop) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("crop id must not be empty")
	}
	if c.AreaPerUnit <= 0 {
		return fmt.Errorf("crop %q area-per-unit must be > 0", c.ID)
	}
	if c.RevenuePerArea != nil && *c.RevenuePerArea < 0 {
		return fmt.Errorf("crop %q revenue-per-area must be >= 0", c.ID)
	}
	if c.RevenueCapSeason != nil && *c.RevenueCapSeason < 0 {
		return fmt.Errorf("crop %q revenue cap must be >= 0", c.ID)
	}
	return nil
}

// CapacityUnits returns how many units of this crop a field of the given
// area could in principle hold (area / area-per-unit).
func (c Crop) CapacityUnits(fieldArea float64) float64 {
	if c.AreaPerUnit <= 0 {
		return 0
	}
	return fieldArea / c.AreaPerUnit
}
