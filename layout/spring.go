// Package layout places graph nodes in 2D or 3D space for rendering.
package layout

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	iterations  = 50
	threshold   = 1e-4
	minDistance = 0.01
)

// Point is a node position with one coordinate per dimension.
type Point []float64

// Spring computes a force-directed (Fruchterman-Reingold) layout of the given
// nodes and undirected edges. Positions are centered on the origin and scaled
// into [-1, 1]. The same nodes, edges, dim and seed always give the same result.
func Spring(nodes []string, edges [][2]string, dim int, seed int64) (map[string]Point, error) {
	if dim != 2 && dim != 3 {
		return nil, fmt.Errorf("unsupported dimension %d (valid options: 2, 3)", dim)
	}

	n := len(nodes)
	positions := make(map[string]Point, n)
	if n == 0 {
		return positions, nil
	}
	if n == 1 {
		positions[nodes[0]] = make(Point, dim)
		return positions, nil
	}

	indexOf := make(map[string]int, n)
	for i, id := range nodes {
		indexOf[id] = i
	}
	adjacent := make([][]bool, n)
	for i := range adjacent {
		adjacent[i] = make([]bool, n)
	}
	for _, e := range edges {
		a, okA := indexOf[e[0]]
		b, okB := indexOf[e[1]]
		if !okA || !okB {
			return nil, fmt.Errorf("edge %s -- %s references an unknown node", e[0], e[1])
		}
		adjacent[a][b] = true
		adjacent[b][a] = true
	}

	rng := rand.New(rand.NewSource(seed))
	pos := make([][]float64, n)
	for i := range pos {
		pos[i] = make([]float64, dim)
		for d := range pos[i] {
			pos[i][d] = rng.Float64()
		}
	}

	k := math.Sqrt(1.0 / float64(n))
	temperature := 0.1 * span(pos, dim)
	cooling := temperature / float64(iterations+1)

	displacement := make([][]float64, n)
	for i := range displacement {
		displacement[i] = make([]float64, dim)
	}
	delta := make([]float64, dim)

	for iter := 0; iter < iterations; iter++ {
		for i := range displacement {
			for d := range displacement[i] {
				displacement[i][d] = 0
			}
		}

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				distance := 0.0
				for d := 0; d < dim; d++ {
					delta[d] = pos[i][d] - pos[j][d]
					distance += delta[d] * delta[d]
				}
				distance = math.Max(math.Sqrt(distance), minDistance)

				force := k * k / (distance * distance)
				if adjacent[i][j] {
					force -= distance / k
				}
				for d := 0; d < dim; d++ {
					displacement[i][d] += delta[d] * force
				}
			}
		}

		moved := 0.0
		for i := 0; i < n; i++ {
			length := math.Max(norm(displacement[i]), minDistance)
			step := 0.0
			for d := 0; d < dim; d++ {
				shift := displacement[i][d] * temperature / length
				pos[i][d] += shift
				step += shift * shift
			}
			moved += math.Sqrt(step)
		}

		temperature -= cooling
		if moved/float64(n) < threshold {
			break
		}
	}

	rescale(pos, dim)
	for i, id := range nodes {
		positions[id] = Point(pos[i])
	}
	return positions, nil
}

func span(pos [][]float64, dim int) float64 {
	widest := 0.0
	for d := 0; d < dim; d++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range pos {
			lo = math.Min(lo, p[d])
			hi = math.Max(hi, p[d])
		}
		widest = math.Max(widest, hi-lo)
	}
	return widest
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// rescale centers positions on the origin and scales the largest coordinate to 1.
func rescale(pos [][]float64, dim int) {
	for d := 0; d < dim; d++ {
		mean := 0.0
		for _, p := range pos {
			mean += p[d]
		}
		mean /= float64(len(pos))
		for _, p := range pos {
			p[d] -= mean
		}
	}

	limit := 0.0
	for _, p := range pos {
		for _, x := range p {
			limit = math.Max(limit, math.Abs(x))
		}
	}
	if limit == 0 {
		return
	}
	for _, p := range pos {
		for d := range p {
			p[d] /= limit
		}
	}
}
