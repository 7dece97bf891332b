// SPDX-License-Identifier: MIT

package sandwich

// CategoricalDiag returns the diagonal of Xᵀ·diag(d)·X for a one-hot block
// without multipliers. indices lists row numbers grouped by category and
// indptr[k]..indptr[k+1] delimits category k, so the kernel is a segment-sum
// of d over that permutation. Off-diagonal terms are zero: two one-hot columns
// never share a nonzero row.
//
// The same routine is the transpose-dot of a one-hot block (group sum of a row
// vector by category).
//
// Complexity: O(n) time, O(k) output.
func CategoricalDiag(indices, indptr []int, d []float64) []float64 {
	k := len(indptr) - 1
	out := make([]float64, k)
	var s int
	var acc float64
	for c := 0; c < k; c++ {
		acc = 0
		for s = indptr[c]; s < indptr[c+1]; s++ {
			acc += d[indices[s]]
		}
		out[c] = acc
	}

	return out
}

// CategoricalCross returns the nA×nB row-major table
// out[a,b] = Σ_{i: codesA[i]=a, codesB[i]=b} d[i], i.e. Aᵀ·diag(d)·B for two
// one-hot blocks without multipliers.
// Complexity: O(n + nA·nB).
func CategoricalCross(codesA []int, nA int, codesB []int, nB int, d []float64) []float64 {
	mustLen("codesB", len(codesB), len(codesA))
	mustLen("d", len(d), len(codesA))
	out := make([]float64, nA*nB)
	for i, a := range codesA {
		out[a*nB+codesB[i]] += d[i]
	}

	return out
}

// GroupRows groups row numbers by code with a stable counting sort, returning
// the (indices, indptr) pair consumed by CategoricalDiag. Rows inside a group
// keep their original order.
// Complexity: O(n + k).
func GroupRows(codes []int, k int) (indices, indptr []int) {
	indptr = make([]int, k+1)
	for _, c := range codes {
		indptr[c+1]++
	}
	for c := 0; c < k; c++ {
		indptr[c+1] += indptr[c]
	}
	next := make([]int, k)
	copy(next, indptr[:k])
	indices = make([]int, len(codes))
	for i, c := range codes {
		indices[next[c]] = i
		next[c]++
	}

	return indices, indptr
}
