package loader

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKFoldSplit(t *testing.T) {
	folds, err := KFoldSplit(7, 3, false, 0)
	require.NoError(t, err)
	require.Equal(t, []Fold{
		{Train: []int{3, 4, 5, 6}, Test: []int{0, 1, 2}},
		{Train: []int{0, 1, 2, 5, 6}, Test: []int{3, 4}},
		{Train: []int{0, 1, 2, 3, 4}, Test: []int{5, 6}},
	}, folds)
}

func TestKFoldSplitShuffleCoversRows(t *testing.T) {
	folds, err := KFoldSplit(10, 4, true, 42)
	require.NoError(t, err)

	var all []int
	for _, f := range folds {
		require.Len(t, f.Train, 10-len(f.Test))
		all = append(all, f.Test...)
	}
	slices.Sort(all)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	again, err := KFoldSplit(10, 4, true, 42)
	require.NoError(t, err)
	require.Equal(t, folds, again)
}

func TestStratifiedKFoldSplit(t *testing.T) {
	y := []float64{0, 0, 0, 0, 0, 0, 1, 1, 1}
	folds, err := StratifiedKFoldSplit(y, 3, false, 0)
	require.NoError(t, err)

	for _, f := range folds {
		require.Len(t, f.Test, 3)
		pos := 0
		for _, i := range f.Test {
			if y[i] == 1 {
				pos++
			}
		}
		require.Equal(t, 1, pos)
	}
	require.Equal(t, []int{0, 3, 6}, folds[0].Test)
}

func TestSplitErrors(t *testing.T) {
	_, err := KFoldSplit(5, 1, false, 0)
	require.ErrorIs(t, err, ErrSplit)
	_, err = StratifiedKFoldSplit([]float64{1, 0}, 3, false, 0)
	require.ErrorIs(t, err, ErrSplit)
	_, _, err = TrainTestSplit(10, 1.5, 0)
	require.ErrorIs(t, err, ErrSplit)
}

func TestTrainTestSplit(t *testing.T) {
	train, test, err := TrainTestSplit(10, 0.3, 1)
	require.NoError(t, err)
	require.Len(t, test, 3)
	require.Len(t, train, 7)
	require.True(t, slices.IsSorted(train))
}
