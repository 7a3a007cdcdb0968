package ml

import "sort"

// TreeNode is one node of a regression tree. Leaves carry the boosted leaf
// value; internal nodes route on Feature <= Threshold.
type TreeNode struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value,omitempty"`
}

const minSamplesLeaf = 2

// fitTree grows a regression tree on the pseudo-residuals using squared-error
// splits. hessians drive the Newton leaf values used by logloss boosting.
func fitTree(rows [][]float64, residuals, hessians []float64, maxDepth int) *TreeNode {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	return growNode(rows, residuals, hessians, idx, maxDepth)
}

func growNode(rows [][]float64, residuals, hessians []float64, idx []int, depth int) *TreeNode {
	if depth <= 0 || len(idx) < 2*minSamplesLeaf {
		return leafNode(residuals, hessians, idx)
	}

	feature, threshold, ok := bestSplit(rows, residuals, idx)
	if !ok {
		return leafNode(residuals, hessians, idx)
	}

	var left, right []int
	for _, i := range idx {
		if rows[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < minSamplesLeaf || len(right) < minSamplesLeaf {
		return leafNode(residuals, hessians, idx)
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growNode(rows, residuals, hessians, left, depth-1),
		Right:     growNode(rows, residuals, hessians, right, depth-1),
	}
}

// leafNode computes the Newton step value sum(residual)/sum(hessian),
// the standard logloss leaf estimate.
func leafNode(residuals, hessians []float64, idx []int) *TreeNode {
	num, den := 0.0, 0.0
	for _, i := range idx {
		num += residuals[i]
		den += hessians[i]
	}
	v := 0.0
	if den > 1e-12 {
		v = num / den
	}
	return &TreeNode{Leaf: true, Value: v}
}

// bestSplit scans every feature and candidate threshold for the split that
// minimizes residual variance. Thresholds are midpoints between consecutive
// distinct sorted values.
func bestSplit(rows [][]float64, residuals []float64, idx []int) (feature int, threshold float64, ok bool) {
	total := 0.0
	for _, i := range idx {
		total += residuals[i]
	}
	n := float64(len(idx))
	baseGain := total * total / n

	bestGain := baseGain
	numFeatures := len(rows[idx[0]])

	order := make([]int, len(idx))
	for f := 0; f < numFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return rows[order[a]][f] < rows[order[b]][f] })

		leftSum, leftN := 0.0, 0.0
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftSum += residuals[i]
			leftN++
			cur, next := rows[i][f], rows[order[k+1]][f]
			if cur == next {
				continue
			}
			if leftN < minSamplesLeaf || n-leftN < minSamplesLeaf {
				continue
			}
			rightSum := total - leftSum
			gain := leftSum*leftSum/leftN + rightSum*rightSum/(n-leftN)
			if gain > bestGain+1e-12 {
				bestGain = gain
				feature = f
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// Predict routes a row down the tree to its leaf value.
func (t *TreeNode) Predict(row []float64) float64 {
	node := t
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}
