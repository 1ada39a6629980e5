package align

import "fmt"

// Point is one cell of a warping path: text-side frame I matched
// against audio-side frame J.
type Point struct {
	I, J int
}

// Path is a coordinate-monotone warping path, non-decreasing in both
// I and J, where every step is (+1,0), (0,+1) or (+1,+1) except at
// the boundary-skip regions. An empty Path means no match was found.
type Path []Point

type predecessor uint8

const (
	predNone predecessor = iota
	predDiag
	predUp   // (+1, 0): text frame consumed, audio frame held
	predLeft // (0, +1): audio frame consumed, text frame held
)

// DTWBD computes the boundary-tolerant warping path between a (length
// n) and b (length m) with per-frame skip penalty p. Local cost is
// Euclidean distance; unmatched prefix/suffix frames on either side
// cost p each instead of a local distance.
//
// DTWBD tolerates n == 0 or m == 0 by returning an empty path
// immediately. It returns ErrMalformedMatrix if a and b disagree on
// column count.
func DTWBD(a, b Matrix, p float64) (cost float64, path Path, err error) {
	if a.Cols() != b.Cols() && a.Rows() > 0 && b.Rows() > 0 {
		return 0, nil, fmt.Errorf("%w: %d columns vs %d columns", ErrMalformedMatrix, a.Cols(), b.Cols())
	}

	n, m := a.Rows(), b.Rows()
	if n == 0 || m == 0 {
		return 0, nil, nil
	}

	// C[i][j] is the minimum cost of matching A[0:i] against B[0:j]
	// (i frames of a, j frames of b consumed), with the border
	// C[i][0] = i*p and C[0][j] = j*p representing a free entry
	// charged only for the frames skipped so far.
	c := make([][]float64, n+1)
	back := make([][]predecessor, n+1)
	for i := range c {
		c[i] = make([]float64, m+1)
		back[i] = make([]predecessor, m+1)
	}
	for i := 1; i <= n; i++ {
		c[i][0] = float64(i) * p
		back[i][0] = predUp
	}
	for j := 1; j <= m; j++ {
		c[0][j] = float64(j) * p
		back[0][j] = predLeft
	}

	for i := 1; i <= n; i++ {
		ai := a.Row(i - 1)
		for j := 1; j <= m; j++ {
			d := euclidean(ai, b.Row(j-1))
			diag, up, left := c[i-1][j-1], c[i-1][j], c[i][j-1]

			best, pr := diag, predDiag
			if up < best {
				best, pr = up, predUp
			}
			if left < best {
				best, pr = left, predLeft
			}
			c[i][j] = d + best
			back[i][j] = pr
		}
	}

	bestI, bestJ, bestCost := 0, 0, c[0][m]+float64(n)*p
	for i := 0; i <= n; i++ {
		v := c[i][m] + float64(n-i)*p
		if v < bestCost {
			bestCost, bestI, bestJ = v, i, m
		}
	}
	for j := 0; j <= m; j++ {
		v := c[n][j] + float64(m-j)*p
		if v < bestCost {
			bestCost, bestI, bestJ = v, n, j
		}
	}

	var rpath Path
	i, j := bestI, bestJ
	for i >= 1 && j >= 1 {
		rpath = append(rpath, Point{I: i - 1, J: j - 1})
		switch back[i][j] {
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
