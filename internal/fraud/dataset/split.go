package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	DefaultTestRatio = 0.2
	DefaultSeed      = 42
)

// Split shuffles row indexes with a seeded generator and cuts them into a
// train and a test partition. The test partition holds ceil(n*ratio) rows.
// The same n, ratio and seed always give the same partitions.
func Split(n int, testRatio float64, seed uint64) ([]int, []int, error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio must be in (0, 1), got %v", testRatio)
	}

	nTest := int(math.Ceil(float64(n) * testRatio))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, nil, fmt.Errorf("cannot split %d rows with test ratio %v", n, testRatio)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := rng.Perm(n)

	return perm[nTest:], perm[:nTest], nil
}
