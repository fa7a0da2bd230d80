package tripgraph

import (
	"github.com/tidwall/rtree"
)

// spatialIndex wraps tidwall/rtree for lookups of graph nodes by position
type spatialIndex struct {
	tree *rtree.RTreeG[int64]
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{
		tree: &rtree.RTreeG[int64]{},
	}
}

// insert adds node to the index. Node could be inserted several times (e.g. when it has been moved):
// callers must verify candidates against actual node position
func (idx *spatialIndex) insert(id int64, pt GeoPoint) {
	p := [2]float64{pt.Lon, pt.Lat}
	idx.tree.Insert(p, p, id)
}

// search returns ids of all nodes inside given bounding box (lon/lat order)
func (idx *spatialIndex) search(min, max [2]float64) []int64 {
	result := make([]int64, 0)
	idx.tree.Search(min, max, func(min, max [2]float64, id int64) bool {
		result = append(result, id)
		return true
	})
	return result
}

func (idx *spatialIndex) size() int {
	return idx.tree.Len()
}
