package profit

import (
	"strings"
	"time"
)

const clockLayout = "15:04"

// TimeModification overrides fare factors within [From, To) time of day interval.
// Interval with From > To wraps midnight
type TimeModification struct {
	From          string   `mapstructure:"from" validate:"required,datetime=15:04"`
	To            string   `mapstructure:"to" validate:"required,datetime=15:04"`
	BaseFare      *float64 `mapstructure:"base_fare" validate:"omitempty,gte=0"`
	RatePerKm     *float64 `mapstructure:"rate_per_km" validate:"omitempty,gte=0"`
	FuelCostPerKm *float64 `mapstructure:"fuel_cost_per_km" validate:"omitempty,gte=0"`
	MinFare       *float64 `mapstructure:"min_fare" validate:"omitempty,gte=0"`
}

// FareFactors is pricing model for one city and vehicle class
type FareFactors struct {
	BaseFare          float64            `mapstructure:"base_fare" validate:"gte=0"`
	RatePerKm         float64            `mapstructure:"rate_per_km" validate:"gte=0"`
	FuelCostPerKm     float64            `mapstructure:"fuel_cost_per_km" validate:"gte=0"`
	MinFare           float64            `mapstructure:"min_fare" validate:"gte=0"`
	TimeModifications []TimeModification `mapstructure:"time_modifications" validate:"dive"`
}

// FareTable is map[city]map[vehicleClass]FareFactors
type FareTable map[string]map[string]FareFactors

// Lookup returns fare factors for city and vehicle class. Keys are matched as is first, then in lower case
func (table FareTable) Lookup(city, vehicleClass string) (FareFactors, bool) {
	for _, cityKey := range []string{city, strings.ToLower(city)} {
		classes, ok := table[cityKey]
		if !ok {
			continue
		}
		for _, classKey := range []string{vehicleClass, strings.ToLower(vehicleClass)} {
			if factors, ok := classes[classKey]; ok {
				return factors, true
			}
		}
	}
	return FareFactors{}, false
}

// At returns factors effective at given moment: first time modification containing the time of day replaces
// corresponding base factors. Date is ignored. Zero time means "no schedule" and gives base factors
func (factors FareFactors) At(t time.Time) FareFactors {
	effective := factors
	effective.TimeModifications = nil
	if t.IsZero() {
		return effective
	}
	minute := t.Hour()*60 + t.Minute()
	for _, modification := range factors.TimeModifications {
		if !modification.contains(minute) {
			continue
		}
		if modification.BaseFare != nil {
			effective.BaseFare = *modification.BaseFare
		}
		if modification.RatePerKm != nil {
			effective.RatePerKm = *modification.RatePerKm
		}
		if modification.FuelCostPerKm != nil {
			effective.FuelCostPerKm = *modification.FuelCostPerKm
		}
		if modification.MinFare != nil {
			effective.MinFare = *modification.MinFare
		}
		break
	}
	return effective
}

// contains reports whether minute of day is inside the interval. Malformed intervals contain nothing
func (modification TimeModification) contains(minute int) bool {
	from, err := minuteOfDay(modification.From)
	if err != nil {
		return false
	}
	to, err := minuteOfDay(modification.To)
	if err != nil {
		return false
	}
	if from <= to {
		return minute >= from && minute < to
	}
	return minute >= from || minute < to
}

func minuteOfDay(clock string) (int, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
