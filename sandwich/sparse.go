// SPDX-License-Identifier: MIT

package sandwich

// Sparse computes Xᵀ·diag(d)·X for a CSC block, restricted to cols.
// t must be Transpose(x) (any cached copy of it).
//
// Implementation:
//   - Walk rows through the CSR view; every pair of stored entries (a, b) in
//     row i contributes d[i]·x[i,a]·x[i,b] to out[a,b].
//   - Rows with d[i] == 0 are skipped, which makes row masking free.
//
// Complexity: O(Σ_i nnz(row i)²) time, O(k²) output.
func Sparse(x CSC, t CSR, d []float64, cols []int) []float64 {
	mustLen("d", len(d), x.Rows)
	cols = resolveCols(cols, x.Cols)
	k := len(cols)
	out := make([]float64, k*k)
	if k == 0 {
		return out
	}
	pos := positions(cols, x.Cols)

	var i, s, r, pa, pb int
	var wa float64
	for i = 0; i < t.Rows; i++ {
		if d[i] == 0 {
			continue
		}
		lo, hi := t.Indptr[i], t.Indptr[i+1]
		for s = lo; s < hi; s++ {
			pa = pos[t.Indices[s]]
			if pa < 0 {
				continue
			}
			wa = d[i] * x.Data[t.Pos[s]]
			for r = lo; r < hi; r++ {
				pb = pos[t.Indices[r]]
				if pb < 0 {
					continue
				}
				out[pa*k+pb] += wa * x.Data[t.Pos[r]]
			}
		}
	}

	return out
}

// SparseCross computes Aᵀ·diag(d)·B for two different CSC blocks sharing rows.
// bt must be Transpose(b). The result is row-major len(colsA)×len(colsB).
//
// Implementation: column-outer over A (CSC), row-inner over B (CSR).
// Complexity: O(Σ_{(i,a) stored in A} nnz(row i of B)).
func SparseCross(a CSC, colsA []int, b CSC, bt CSR, colsB []int, d []float64) []float64 {
	mustLen("d", len(d), a.Rows)
	mustLen("rows", b.Rows, a.Rows)
	colsA = resolveCols(colsA, a.Cols)
	colsB = resolveCols(colsB, b.Cols)
	ka, kb := len(colsA), len(colsB)
	out := make([]float64, ka*kb)
	if ka == 0 || kb == 0 {
		return out
	}
	posB := positions(colsB, b.Cols)

	var s, r, i, q int
	var w float64
	for p, c := range colsA {
		for s = a.Indptr[c]; s < a.Indptr[c+1]; s++ {
			i = a.Indices[s]
			w = d[i] * a.Data[s]
			if w == 0 {
				continue
			}
			for r = bt.Indptr[i]; r < bt.Indptr[i+1]; r++ {
				q = posB[bt.Indices[r]]
				if q < 0 {
					continue
				}
				out[p*kb+q] += w * b.Data[bt.Pos[r]]
			}
		}
	}

	return out
}

// SparseDense computes Aᵀ·diag(d)·B for a CSC block A and a column-major
// block B. The result is row-major len(colsA)×len(colsB).
//
// Complexity: O(nnz(A[:, colsA]) · len(colsB)).
func SparseDense(a CSC, colsA []int, b ColMajor, colsB []int, d []float64) []float64 {
	mustLen("d", len(d), a.Rows)
	mustLen("rows", b.Rows, a.Rows)
	colsA = resolveCols(colsA, a.Cols)
	colsB = resolveCols(colsB, b.Cols)
	ka, kb := len(colsA), len(colsB)
	out := make([]float64, ka*kb)
	if ka == 0 || kb == 0 {
		return out
	}

	var s, i int
	var w float64
	for p, c := range colsA {
		row := out[p*kb : (p+1)*kb]
		for s = a.Indptr[c]; s < a.Indptr[c+1]; s++ {
			i = a.Indices[s]
			w = d[i] * a.Data[s]
			if w == 0 {
				continue
			}
			for q, cb := range colsB {
				row[q] += w * b.Data[cb*b.Rows+i]
			}
		}
	}

	return out
}
