package profit

import (
	"sort"
	"sync"

	"github.com/LdDl/tripgraph"
)

// RankedOrder is order with its estimate
type RankedOrder struct {
	Order    Order
	Estimate Estimate
}

type boardKey struct {
	orderID      string
	city         string
	hasPickup    bool
	pickup       tripgraph.GeoPoint
	hasDropoff   bool
	dropoff      tripgraph.GeoPoint
	scheduledAt  int64
	vehicleID    string
	vehicleClass string
	driver       tripgraph.GeoPoint
}

func newBoardKey(order Order, vehicle Vehicle, driver tripgraph.GeoPoint) boardKey {
	key := boardKey{
		orderID:      order.ID,
		city:         order.City,
		vehicleID:    vehicle.ID,
		vehicleClass: vehicle.Class,
		driver:       driver,
	}
	if !order.ScheduledAt.IsZero() {
		key.scheduledAt = order.ScheduledAt.UnixNano()
	}
	if order.Pickup != nil {
		key.hasPickup, key.pickup = true, *order.Pickup
	}
	if order.Dropoff != nil {
		key.hasDropoff, key.dropoff = true, *order.Dropoff
	}
	return key
}

// Board memoizes estimates of orders list.
//
// Cached estimates are dropped as soon as routing graph changes (another graph or new version), so estimates
// are recomputed only when the set of loaded areas actually changes. Safe for concurrent use
type Board struct {
	estimator *Estimator

	mu      sync.Mutex
	graph   *tripgraph.RoutingGraph
	version uint64
	cache   map[boardKey]Estimate
}

// NewBoard returns board backed by estimator
func NewBoard(estimator *Estimator) *Board {
	return &Board{
		estimator: estimator,
		cache:     make(map[boardKey]Estimate),
	}
}

// Estimate returns memoized estimate for the order
func (board *Board) Estimate(g *tripgraph.RoutingGraph, order Order, vehicle Vehicle, driver tripgraph.GeoPoint) Estimate {
	if g == nil {
		panic("profit: nil routing graph")
	}
	key := newBoardKey(order, vehicle, driver)
	version := g.Version()

	board.mu.Lock()
	board.syncVersion(g, version)
	cached, ok := board.cache[key]
	board.mu.Unlock()
	if ok {
		return cached
	}

	estimate := board.estimator.Estimate(g, order, vehicle, driver)

	board.mu.Lock()
	if board.graph == g && board.version == version {
		board.cache[key] = estimate
	}
	board.mu.Unlock()
	return estimate
}

// Ranked estimates every order and returns them sorted by SortByProfit
func (board *Board) Ranked(g *tripgraph.RoutingGraph, orders []Order, vehicle Vehicle, driver tripgraph.GeoPoint) []RankedOrder {
	ranked := make([]RankedOrder, len(orders))
	for i, order := range orders {
		ranked[i] = RankedOrder{
			Order:    order,
			Estimate: board.Estimate(g, order, vehicle, driver),
		}
	}
	SortByProfit(ranked)
	return ranked
}

// Size returns number of memoized estimates
func (board *Board) Size() int {
	board.mu.Lock()
	defer board.mu.Unlock()
	return len(board.cache)
}

// syncVersion drops cache when graph has changed. Must be called with mu held
func (board *Board) syncVersion(g *tripgraph.RoutingGraph, version uint64) {
	if board.graph == g && board.version == version {
		return
	}
	board.graph = g
	board.version = version
	board.cache = make(map[boardKey]Estimate)
}

// SortByProfit orders by profit in descending order. Orders with undefined estimates go last, keeping their relative order
func SortByProfit(ranked []RankedOrder) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Estimate, ranked[j].Estimate
		if a.Defined != b.Defined {
			return a.Defined
		}
		if !a.Defined {
			return false
		}
		return a.Profit > b.Profit
	})
}
