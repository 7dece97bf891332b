// SPDX-License-Identifier: MIT
// Package: matrix
//
// Density splitter: routes each column of a CSC matrix to a dense block when
// its fraction of stored nonzeros exceeds a threshold, and to a sparse block
// otherwise. Both groups keep the original column order.

package matrix

// SplitSparseDense partitions the columns of x by density = ColNNZ(j)/Rows().
// Columns with density > threshold form the dense block, the rest the sparse
// block; denseIdx and sparseIdx list their original column numbers in order.
// An empty group yields a zero-column block. Both blocks inherit x's options.
//
// Errors: ErrNilMatrix (also matching ErrInvalidInput) for nil x; ErrInvalidInput for threshold ∉ [0, 1].
// Complexity: O(rows·|dense| + nnz).
func SplitSparseDense(x *Sparse, threshold float64) (*Dense, *Sparse, []int, []int, error) {
	if x == nil {
		return nil, nil, nil, nil, nilInputErrorf(opSplitSparse)
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, nil, nil, nil, matrixErrorf(opSplitSparse, err)
	}

	denseIdx := make([]int, 0, x.cols)
	sparseIdx := make([]int, 0, x.cols)
	rows := float64(x.rows)
	for j := 0; j < x.cols; j++ {
		if float64(x.ColNNZ(j))/rows > threshold {
			denseIdx = append(denseIdx, j)
		} else {
			sparseIdx = append(sparseIdx, j)
		}
	}

	// dense part: scatter stored entries into column-major storage
	buf := make([]float64, x.rows*len(denseIdx))
	var s int
	for p, j := range denseIdx {
		col := buf[p*x.rows : (p+1)*x.rows]
		for s = x.indptr[j]; s < x.indptr[j+1]; s++ {
			col[x.indices[s]] = x.data[s]
		}
	}
	dense := &Dense{rows: x.rows, cols: len(denseIdx), data: buf, dtype: x.dtype, opts: x.opts}

	// sparse part: copy the selected column runs
	indptr := make([]int, len(sparseIdx)+1)
	for p, j := range sparseIdx {
		indptr[p+1] = indptr[p] + x.ColNNZ(j)
	}
	indices := make([]int, indptr[len(sparseIdx)])
	data := make([]float64, indptr[len(sparseIdx)])
	for p, j := range sparseIdx {
		copy(indices[indptr[p]:indptr[p+1]], x.indices[x.indptr[j]:x.indptr[j+1]])
		copy(data[indptr[p]:indptr[p+1]], x.data[x.indptr[j]:x.indptr[j+1]])
	}
	sparse := &Sparse{rows: x.rows, cols: len(sparseIdx), indptr: indptr, indices: indices, data: data, dtype: x.dtype, opts: x.opts}

	x.opts.logger.Debug().
		Float64("threshold", threshold).
		Int("dense", len(denseIdx)).
		Int("sparse", len(sparseIdx)).
		Msg("density split")

	return dense, sparse, denseIdx, sparseIdx, nil
}

// CSCToSplit density-splits x (threshold from WithThreshold, default
// DefaultThreshold) and assembles the two parts into a Split. The options are
// also applied to the composite.
//
// Errors: as SplitSparseDense and NewSplit.
func CSCToSplit(x *Sparse, opts ...Option) (*Split, error) {
	o := gatherOptions(opts...)
	dense, sparse, denseIdx, sparseIdx, err := SplitSparseDense(x, o.threshold)
	if err != nil {
		return nil, err
	}

	return NewSplit([]Matrix{dense, sparse}, [][]int{denseIdx, sparseIdx}, opts...)
}
