package tripgraph

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrAreaNotFound is returned by AreaProvider when there is no data for requested area
var ErrAreaNotFound = errors.New("area not found")

// maxParallelFetches limits number of concurrent FetchArea calls in LoadAreas
const maxParallelFetches = 4

// AreaProvider supplies map regions
type AreaProvider interface {
	// IDsBetween returns ids of areas relevant to given points
	IDsBetween(ctx context.Context, points ...GeoPoint) ([]int64, error)
	// FetchArea returns area by its id or ErrAreaNotFound
	FetchArea(ctx context.Context, id int64) (*Area, error)
}

// LoadAreas makes sure that every area relevant to given points is merged into the graph.
//
// Missing areas are fetched concurrently, then merged one by one in ascending id order: LoadAreas is the single
// writer of the graph while it runs. Areas reported as ErrAreaNotFound are skipped.
// First returned value is true when the graph has been extended
func LoadAreas(ctx context.Context, g *RoutingGraph, provider AreaProvider, points ...GeoPoint) (bool, error) {
	ids, err := provider.IDsBetween(ctx, points...)
	if err != nil {
		return false, errors.Wrap(err, "Can't get area ids")
	}
	missing := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if !g.HasArea(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}
	sort.Slice(missing, func(i, j int) bool {
		return missing[i] < missing[j]
	})

	areas := make([]*Area, len(missing))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallelFetches)
	for i, id := range missing {
		i, id := i, id
		group.Go(func() error {
			area, err := provider.FetchArea(groupCtx, id)
			if err != nil {
				if errors.Is(err, ErrAreaNotFound) {
					g.logger.Debug("area is not available, skip it", "area_id", id)
					return nil
				}
				return errors.Wrapf(err, "Can't fetch area %d", id)
			}
			areas[i] = area
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return false, err
	}

	extended := false
	for _, area := range areas {
		if area == nil {
			continue
		}
		if g.Extend(area) {
			extended = true
		}
	}
	return extended, nil
}
