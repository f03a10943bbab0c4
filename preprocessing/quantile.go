package preprocessing

import (
	"math"
	"slices"
)

// Quantile は線形補間による経験分位点を返す (numpy の "linear"、Hyndman-Fan の type 7)
//
// NaN は無視される。p は [0, 1] の範囲であること。
// NaN 以外の値が存在しない場合は ok=false を返す。
//
//	h = (n-1)·p
//	Q(p) = x[⌊h⌋] + (h-⌊h⌋)·(x[⌊h⌋+1] - x[⌊h⌋])
func Quantile(values []float64, p float64) (q float64, ok bool) {
	sorted := sortedNonNaN(values)
	if len(sorted) == 0 {
		return math.NaN(), false
	}
	return quantileSorted(sorted, p), true
}

// sortedNonNaN は NaN を除いた値を昇順に並べたコピーを返す。±Inf は残る。
func sortedNonNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func quantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	t := h - float64(lo)
	a, b := sorted[lo], sorted[lo+1]
	if t == 0 || a == b {
		return a
	}
	// 上側の近傍から補間すると t が 1 に近いときの丸め誤差が小さい
	if t >= 0.5 {
		return b - (b-a)*(1-t)
	}
	return a + (b-a)*t
}
