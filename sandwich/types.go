// SPDX-License-Identifier: MIT

package sandwich

// ColMajor is a dense column-major buffer: element (i, j) lives at Data[j*Rows+i],
// so each column is one contiguous run of Rows values.
type ColMajor struct {
	Rows, Cols int
	Data       []float64
}

// Column returns column j as a sub-slice of Data (no copy).
// Complexity: O(1).
func (x ColMajor) Column(j int) []float64 {
	return x.Data[j*x.Rows : (j+1)*x.Rows]
}

// CSC is compressed-sparse-column storage. Row indices inside one column are
// strictly increasing.
type CSC struct {
	Rows, Cols int
	Indptr     []int // len Cols+1
	Indices    []int // row index per stored value
	Data       []float64
}

// CSR is a row-compressed view of a CSC matrix. It carries no values of its
// own: Pos[s] is the position in the CSC Data slice of row-major slot s.
// Because the view depends only on structure, rescaling the CSC values never
// invalidates it.
type CSR struct {
	Rows, Cols int
	Indptr     []int // len Rows+1
	Indices    []int // column index per slot
	Pos        []int // slot -> CSC Data position
}

// Transpose builds the CSR view of x with a counting sort over row indices.
// Within each row, slots are ordered by column.
// Complexity: O(nnz + rows + cols) time and O(nnz + rows) space.
func Transpose(x CSC) CSR {
	nnz := len(x.Indices)
	indptr := make([]int, x.Rows+1)
	for _, r := range x.Indices {
		indptr[r+1]++
	}
	for i := 0; i < x.Rows; i++ {
		indptr[i+1] += indptr[i]
	}

	next := make([]int, x.Rows)
	copy(next, indptr[:x.Rows])
	indices := make([]int, nnz)
	pos := make([]int, nnz)
	var j, s, slot int
	for j = 0; j < x.Cols; j++ { // column order keeps each row sorted by column
		for s = x.Indptr[j]; s < x.Indptr[j+1]; s++ {
			slot = next[x.Indices[s]]
			indices[slot] = j
			pos[slot] = s
			next[x.Indices[s]]++
		}
	}

	return CSR{Rows: x.Rows, Cols: x.Cols, Indptr: indptr, Indices: indices, Pos: pos}
}

// resolveCols expands a nil column list into 0..n-1.
func resolveCols(cols []int, n int) []int {
	if cols != nil {
		return cols
	}
	all := make([]int, n)
	for j := range all {
		all[j] = j
	}

	return all
}

// positions maps column j -> output position, -1 when j is not selected.
func positions(cols []int, n int) []int {
	pos := make([]int, n)
	for j := range pos {
		pos[j] = -1
	}
	for p, c := range cols {
		pos[c] = p
	}

	return pos
}

func mustLen(name string, got, want int) {
	if got != want {
		panic("sandwich: " + name + " length mismatch")
	}
}
