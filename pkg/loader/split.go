package loader

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

// ErrSplit is returned for fold counts or ratios that cannot split n rows.
var ErrSplit = errors.New("invalid split")

// Fold holds the row indices of one train/validation split, both ascending.
type Fold struct {
	Train []int
	Test  []int
}

// KFoldSplit deals n row indices into k folds. Without shuffle the folds are
// contiguous blocks in row order; with shuffle the rows are permuted with
// seed first.
func KFoldSplit(n, k int, shuffle bool, seed int64) ([]Fold, error) {
	if err := checkFolds(n, k); err != nil {
		return nil, err
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if shuffle {
		indices = rand.New(rand.NewSource(seed)).Perm(n)
	}
	tests := make([][]int, k)
	start := 0
	for f := range k {
		size := n / k
		if f < n%k {
			size++
		}
		tests[f] = indices[start : start+size]
		start += size
	}
	return folds(n, tests), nil
}

// StratifiedKFoldSplit is KFoldSplit preserving the class proportions of y in
// every fold. Members of each class are dealt round-robin, continuing the
// rotation across classes so fold sizes differ by at most one.
func StratifiedKFoldSplit(y []float64, k int, shuffle bool, seed int64) ([]Fold, error) {
	n := len(y)
	if err := checkFolds(n, k); err != nil {
		return nil, err
	}
	byClass := map[float64][]int{}
	for i, v := range y {
		byClass[v] = append(byClass[v], i)
	}
	classes := make([]float64, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	slices.Sort(classes)

	rng := rand.New(rand.NewSource(seed))
	tests := make([][]int, k)
	f := 0
	for _, c := range classes {
		members := byClass[c]
		if shuffle {
			rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
		}
		for _, i := range members {
			tests[f] = append(tests[f], i)
			f = (f + 1) % k
		}
	}
	return folds(n, tests), nil
}

// TrainTestSplit splits n row indices by ratio using seed.
func TrainTestSplit(n int, testRatio float64, seed int64) (train, test []int, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("%w: test ratio %v", ErrSplit, testRatio)
	}
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(float64(n) * testRatio)
	test = slices.Clone(indices[:nTest])
	train = slices.Clone(indices[nTest:])
	slices.Sort(test)
	slices.Sort(train)
	return train, test, nil
}

func checkFolds(n, k int) error {
	if k < 2 {
		return fmt.Errorf("%w: %d folds, need at least 2", ErrSplit, k)
	}
	if k > n {
		return fmt.Errorf("%w: %d folds for %d rows", ErrSplit, k, n)
	}
	return nil
}

func folds(n int, tests [][]int) []Fold {
	out := make([]Fold, len(tests))
	for f, test := range tests {
		test = slices.Clone(test)
		slices.Sort(test)
		inTest := make([]bool, n)
		for _, i := range test {
			inTest[i] = true
		}
		train := make([]int, 0, n-len(test))
		for i := range n {
			if !inTest[i] {
				train = append(train, i)
			}
		}
		out[f] = Fold{Train: train, Test: test}
	}
	return out
}
