// SPDX-License-Identifier: MIT
package graph

import "math"

// Channel layouts assumed by the canonical matrices below, matching the
// channel-count set spec.md §4.3 enumerates (1, 2, 6, 8):
//
//	1: mono
//	2: L, R
//	6: L, R, C, LFE, RL, RR          (5.1)
//	8: L, R, C, LFE, RL, RR, SL, SR  (7.1)
const invSqrt2 = 1.0 / math.Sqrt2

// mixKey identifies one of the twelve channel-count pairs spec.md §4.3
// names as having a canonical mixing matrix.
type mixKey struct{ from, to int }

// canonicalMatrices maps each of the twelve named (from, to) channel-count
// pairs to a dst-channels x src-channels coefficient matrix: out[i] =
// sum_j matrix[i][j] * in[j]. Pairs not listed here (including same-count
// pairs, which are always the identity) fall back to truncate-or-zero-pad
// in resolveMixMatrix.
var canonicalMatrices = map[mixKey][][]float64{
	{1, 2}: {
		{invSqrt2},
		{invSqrt2},
	},
	{2, 1}: {
		{0.5, 0.5},
	},
	{1, 6}: {
		{0}, {0}, {1}, {0}, {0}, {0}, // mono feeds the center channel only
	},
	{6, 1}: {
		{invSqrt2, invSqrt2, 1.0, 0, invSqrt2, invSqrt2},
	},
	{1, 8}: {
		{0}, {0}, {1}, {0}, {0}, {0}, {0}, {0},
	},
	{8, 1}: {
		{invSqrt2, invSqrt2, 1.0, 0, invSqrt2, invSqrt2, invSqrt2, invSqrt2},
	},
	{2, 6}: {
		{1, 0},
		{0, 1},
		{0, 0},
		{0, 0},
		{0, 0},
		{0, 0},
	},
	{6, 2}: {
		{1, 0, invSqrt2, 0, invSqrt2, 0},
		{0, 1, invSqrt2, 0, 0, invSqrt2},
	},
	{2, 8}: {
		{1, 0},
		{0, 1},
		{0, 0},
		{0, 0},
		{0, 0},
		{0, 0},
		{0, 0},
		{0, 0},
	},
	{8, 2}: {
		{1, 0, invSqrt2, 0, 0.5, 0, 0.5, 0},
		{0, 1, invSqrt2, 0, 0, 0.5, 0, 0.5},
	},
	{6, 8}: {
		{1, 0, 0, 0, 0, 0},
		{0, 1, 0, 0, 0, 0},
		{0, 0, 1, 0, 0, 0},
		{0, 0, 0, 1, 0, 0},
		{0, 0, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	},
	{8, 6}: {
		{1, 0, 0, 0, 0, 0, 0, 0},
		{0, 1, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0, 0, 0, 0},
		{0, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 0.5, 0, 0.5, 0},
		{0, 0, 0, 0, 0, 0.5, 0, 0.5},
	},
}

// resolveMixMatrix returns the dst-channels x src-channels matrix to mix
// from source channel count into destination channel count. Matching
// counts always give the identity. When enableMixing is true and (from,
// to) is one of the twelve named pairs, it gives the canonical matrix
// above; otherwise — including every call with enableMixing false — it
// truncates extra source channels and leaves extra destination channels
// silent, per spec.md §4.2 step 8's "only mix when the consumer's
// channel-interpretation is SPEAKERS; otherwise straight copy/truncate/pad".
func resolveMixMatrix(from, to int, enableMixing bool) [][]float64 {
	if from == to {
		return identityMatrix(from)
	}
	if enableMixing {
		if mat, ok := canonicalMatrices[mixKey{from, to}]; ok {
			return mat
		}
	}
	return truncateMatrix(from, to)
}

func identityMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

func truncateMatrix(from, to int) [][]float64 {
	m := make([][]float64, to)
	for i := range m {
		m[i] = make([]float64, from)
		if i < from {
			m[i][i] = 1
		}
	}
	return m
}

// mixInto applies resolveMixMatrix(len(src), len(dst), enableMixing) and
// adds the result into dst (dst += matrix * src), implementing the
// channel-mixing half of Connection.pull.
func mixInto(dst, src [][]float32, blockSize int, enableMixing bool) {
	if len(src) == 0 || len(dst) == 0 {
		return
	}
	matrix := resolveMixMatrix(len(src), len(dst), enableMixing)
	for i := range dst {
		row := matrix[i]
		for j, coeff := range row {
			if coeff == 0 {
				continue
			}
			g := float32(coeff)
			srcCh := src[j]
			dstCh := dst[i]
			for k := 0; k < blockSize; k++ {
				dstCh[k] += srcCh[k] * g
			}
		}
	}
}
