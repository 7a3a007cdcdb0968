package ml

import "math/rand"

// TrainTestSplit partitions row indices into train and test sets. When both
// classes are present the split is stratified so each side preserves the
// label distribution; with a single class it degrades to a plain shuffle
// split. The seed makes the partition reproducible.
func TrainTestSplit(y []int, testFraction float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))

	classes := make(map[int][]int)
	for i, label := range y {
		classes[label] = append(classes[label], i)
	}

	if len(classes) < 2 {
		all := make([]int, len(y))
		for i := range all {
			all[i] = i
		}
		rng.Shuffle(len(all), func(a, b int) { all[a], all[b] = all[b], all[a] })
		cut := int(float64(len(all)) * testFraction)
		return all[cut:], all[:cut]
	}

	// Deterministic class order so the same seed always yields the same split.
	for _, label := range []int{0, 1} {
		idx := classes[label]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		cut := int(float64(len(idx)) * testFraction)
		test = append(test, idx[:cut]...)
		train = append(train, idx[cut:]...)
	}
	return train, test
}

// KFold yields k index folds for cross-validation, stratified by label when
// possible. Each fold is (trainIdx, validIdx) over the provided indices.
func KFold(y []int, k int, seed int64) [][2][]int {
	if k < 2 {
		k = 2
	}
	rng := rand.New(rand.NewSource(seed))

	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	folds := make([][]int, k)
	for _, label := range []int{0, 1} {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		for i, j := range idx {
			folds[i%k] = append(folds[i%k], j)
		}
	}

	out := make([][2][]int, 0, k)
	for f := 0; f < k; f++ {
		if len(folds[f]) == 0 {
			continue
		}
		var train []int
		for g := 0; g < k; g++ {
			if g != f {
				train = append(train, folds[g]...)
			}
		}
		out = append(out, [2][]int{train, folds[f]})
	}
	return out
}
