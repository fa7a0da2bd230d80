// Package profit estimates how profitable an order is for a driver: distance of repositioning and trip legs
// over the routing graph combined with per-city fare factors.
package profit

import (
	"io"
	"math"
	"time"

	"github.com/LdDl/tripgraph"
	"golang.org/x/exp/slog"
)

// Order is candidate ride. Pickup or Dropoff could be unknown
type Order struct {
	ID          string
	City        string
	Pickup      *tripgraph.GeoPoint
	Dropoff     *tripgraph.GeoPoint
	ScheduledAt time.Time
}

// Vehicle is driver's vehicle. Class selects fare factors
type Vehicle struct {
	ID    string
	Class string
}

// Estimate is result of profit estimation. When Defined is false the rest of fields are meaningless
// and Reason tells why the estimate is unavailable
type Estimate struct {
	Defined          bool
	Profit           float64
	Rank             Rank
	Income           float64
	Cost             float64
	RepositionMeters float64
	TripMeters       float64
	Reason           string
}

const (
	REASON_NO_FARE         = "no fare factors for city and vehicle class"
	REASON_NO_COORDINATES  = "pickup or drop-off coordinates are missing"
	REASON_NO_CLOSEST_NODE = "no road node near driver, pickup or drop-off"
	REASON_UNREACHABLE     = "repositioning or trip leg is unreachable"
)

func undefined(reason string) Estimate {
	return Estimate{Reason: reason}
}

// Estimator computes profit estimates for orders
type Estimator struct {
	fares  FareTable
	ranks  RankTable
	radius float64
	logger *slog.Logger
}

// NewEstimator returns estimator for fare table. Empty rank table falls back to DefaultRankTable
func NewEstimator(fares FareTable, ranks RankTable, options ...func(*Estimator)) *Estimator {
	if len(ranks) == 0 {
		ranks = DefaultRankTable
	}
	estimator := &Estimator{
		fares:  fares,
		ranks:  ranks,
		radius: tripgraph.DefaultSearchRadius,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(estimator)
	}
	return estimator
}

// WithSearchRadius sets radius (meters) for snapping points to road nodes
func WithSearchRadius(radius float64) func(*Estimator) {
	return func(estimator *Estimator) {
		if radius > 0 {
			estimator.radius = radius
		}
	}
}

// WithLogger sets logger for estimation reports
func WithLogger(logger *slog.Logger) func(*Estimator) {
	return func(estimator *Estimator) {
		if logger != nil {
			estimator.logger = logger
		}
	}
}

// EstimateProfit estimates order profit with DefaultRankTable
func EstimateProfit(order Order, vehicle Vehicle, driver tripgraph.GeoPoint, g *tripgraph.RoutingGraph, fares FareTable) Estimate {
	return NewEstimator(fares, DefaultRankTable).Estimate(g, order, vehicle, driver)
}

// Estimate returns profit of the order for driver at given position.
//
// Missing fare factors or coordinates, points far from roads and unreachable legs give undefined estimate.
// Panics on nil graph
func (estimator *Estimator) Estimate(g *tripgraph.RoutingGraph, order Order, vehicle Vehicle, driver tripgraph.GeoPoint) Estimate {
	if g == nil {
		panic("profit: nil routing graph")
	}
	factors, ok := estimator.fares.Lookup(order.City, vehicle.Class)
	if !ok {
		return estimator.reject(order, REASON_NO_FARE)
	}
	if order.Pickup == nil || order.Dropoff == nil {
		return estimator.reject(order, REASON_NO_COORDINATES)
	}

	driverNode, _ := g.FindClosestNodeWithin(driver.Lat, driver.Lon, estimator.radius)
	pickupNode, _ := g.FindClosestNodeWithin(order.Pickup.Lat, order.Pickup.Lon, estimator.radius)
	dropoffNode, _ := g.FindClosestNodeWithin(order.Dropoff.Lat, order.Dropoff.Lon, estimator.radius)
	if driverNode == nil || pickupNode == nil || dropoffNode == nil {
		return estimator.reject(order, REASON_NO_CLOSEST_NODE)
	}

	reposition := g.FindShortestPath(driverNode.ID, pickupNode.ID)
	trip := g.FindShortestPath(pickupNode.ID, dropoffNode.ID)
	if math.IsInf(reposition.Distance, 1) || math.IsInf(trip.Distance, 1) {
		return estimator.reject(order, REASON_UNREACHABLE)
	}

	effective := factors.At(order.ScheduledAt)
	repositionKm := reposition.Distance / 1000.0
	tripKm := trip.Distance / 1000.0
	income := math.Max(effective.BaseFare+effective.RatePerKm*tripKm, effective.MinFare)
	cost := effective.FuelCostPerKm * (repositionKm + tripKm)
	profit := income - cost
	return Estimate{
		Defined:          true,
		Profit:           profit,
		Rank:             estimator.ranks.Rank(profit),
		Income:           income,
		Cost:             cost,
		RepositionMeters: reposition.Distance,
		TripMeters:       trip.Distance,
	}
}

func (estimator *Estimator) reject(order Order, reason string) Estimate {
	estimator.logger.Debug("profit is undefined", "order_id", order.ID, "reason", reason)
	return undefined(reason)
}
