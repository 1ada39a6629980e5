package align

import "math"

// band restricts the interior DTW recurrence to a set of cells
// reachable in O((n+m)*r) time and memory: each row i keeps
// only the inclusive column range [lo[i], hi[i]] (1-indexed, matching
// the C table in dtwbd.go), and rows absent from the band have no
// interior cells at all — only their border cell is ever reachable.
type band struct {
	lo, hi map[int]int
}

func (b band) has(i int) bool {
	_, ok := b.lo[i]
	return ok
}

func (b band) range_(i int) (lo, hi int) {
	return b.lo[i], b.hi[i]
}

// FastDTWBD is the FastDTW-style multi-resolution accelerator around
// DTWBD: below min(n,m) <= r+2 it solves directly;
// otherwise it recurses on a halved-resolution pair of sequences,
// projects the coarse path back to the fine grid, dilates it by r
// cells, and solves the fine alignment restricted to that band.
func FastDTWBD(a, b Matrix, p float64, r int) (cost float64, path Path, err error) {
	n, m := a.Rows(), b.Rows()
	if min(n, m) <= r+2 {
		return DTWBD(a, b, p)
	}

	coarseA := a.downsample()
	coarseB := b.downsample()
	_, coarsePath, err := FastDTWBD(coarseA, coarseB, p, r)
	if err != nil {
		return 0, nil, err
	}
	if len(coarsePath) == 0 {
		// No match at the coarse resolution; a finer search confined
		// to a band around it cannot recover one either.
		return 0, nil, nil
	}

	bnd := projectAndDilate(coarsePath, n, m, r)
	return dtwbdBanded(a, b, p, bnd)
}

// projectAndDilate maps each coarse-grid path cell to its 2x2 block
// on the fine grid, then widens every fine row's column range by r
// cells on each side.
func projectAndDilate(coarsePath Path, n, m, r int) band {
	colRangeByCoarseRow := map[int][2]int{}
	for _, pt := range coarsePath {
		rng, ok := colRangeByCoarseRow[pt.I]
		if !ok {
			colRangeByCoarseRow[pt.I] = [2]int{pt.J, pt.J}
			continue
		}
		if pt.J < rng[0] {
			rng[0] = pt.J
		}
		if pt.J > rng[1] {
			rng[1] = pt.J
		}
		colRangeByCoarseRow[pt.I] = rng
	}

	bnd := band{lo: map[int]int{}, hi: map[int]int{}}
	for i := 1; i <= n; i++ {
		coarseRow := (i - 1) / 2
		rng, ok := colRangeByCoarseRow[coarseRow]
		if !ok {
			continue
		}
		loJ := 2*rng[0] + 1 - r
		hiJ := 2*rng[1] + 2 + r
		if loJ < 1 {
			loJ = 1
		}
		if hiJ > m {
			hiJ = m
		}
		if loJ > hiJ {
			continue
		}
		bnd.lo[i] = loJ
		bnd.hi[i] = hiJ
	}
	return bnd
}

// dtwbdBanded is DTWBD restricted to a band: the first row and first
// column still pay p per skipped frame exactly as in the unrestricted
// kernel, but interior cells outside the band are treated as
// unreachable.
func dtwbdBanded(a, b Matrix, p float64, bnd band) (cost float64, path Path, err error) {
	n, m := a.Rows(), b.Rows()
	const inf = math.MaxFloat64 / 2

	cost00 := make([]float64, n+1) // column 0, border
	for i := range cost00 {
		cost00[i] = float64(i) * p
	}

	rowCost := make(map[int][]float64, n+1) // rowCost[i][j-lo[i]] for j in [lo[i],hi[i]]
	back := make(map[int]map[int]predecessor, n+1)

	get := func(i, j int) float64 {
		if j == 0 {
			return cost00[i]
		}
		if i == 0 {
			return float64(j) * p
		}
		row, ok := rowCost[i]
		if !ok || !bnd.has(i) {
			return inf
		}
		lo, hi := bnd.range_(i)
		if j < lo || j > hi {
			return inf
		}
		return row[j-lo]
	}

	for i := 1; i <= n; i++ {
		if !bnd.has(i) {
			continue
		}
		lo, hi := bnd.range_(i)
		row := make([]float64, hi-lo+1)
		backRow := make(map[int]predecessor, hi-lo+1)
		ai := a.Row(i - 1)
		for j := lo; j <= hi; j++ {
			d := euclidean(ai, b.Row(j-1))
			diag, up, left := get(i-1, j-1), get(i-1, j), get(i, j-1)

			best, pr := diag, predDiag
			if up < best {
				best, pr = up, predUp
			}
			if left < best {
				best, pr = left, predLeft
			}
			row[j-lo] = d + best
			backRow[j] = pr
		}
		rowCost[i] = row
		back[i] = backRow
	}

	bestI, bestJ, bestCost := 0, m, get(0, m)+float64(n)*p
	for i := 0; i <= n; i++ {
		v := get(i, m) + float64(n-i)*p
		if v < bestCost {
			bestCost, bestI, bestJ = v, i, m
		}
	}
	for j := 0; j <= m; j++ {
		v := get(n, j) + float64(m-j)*p
		if v < bestCost {
			bestCost, bestI, bestJ = v, n, j
		}
	}

	var rpath Path
	i, j := bestI, bestJ
	for i >= 1 && j >= 1 {
		rpath = append(rpath, Point{I: i - 1, J: j - 1})
		backRow, ok := back[i]
		var pr predecessor
		if ok {
			pr = backRow[j]
		}
		switch pr {
		case predDiag:
			i, j = i-1, j-1
		case predUp:
			i, j = i-1, j
		case predLeft:
			i, j = i, j-1
		default:
			i, j = 0, 0
		}
	}
	if len(rpath) == 0 {
		return bestCost, nil, nil
	}
	path = make(Path, len(rpath))
	for k, pt := range rpath {
		path[len(rpath)-1-k] = pt
	}
	return bestCost, path, nil
}
