// Package analytics turns a flat list of job listings into the view models
// the dashboards chart. Every stage is a pure function: filter, group,
// reduce, normalize and rank. An empty input always yields an empty,
// non-nil result.
package analytics

import (
	"math"
	"sort"
)

// Group is the set of items sharing one key.
type Group[T any] struct {
	Key   string
	Items []T
}

// GroupBy buckets items by key, keeping groups in first-encounter order.
// Items with an empty key are dropped.
func GroupBy[T any](items []T, key func(T) string) []Group[T] {
	return GroupByEach(items, func(it T) []string { return []string{key(it)} })
}

// GroupByEach is GroupBy for items that belong to several groups, such as
// a listing naming several skills. An item joins each group at most once.
func GroupByEach[T any](items []T, keys func(T) []string) []Group[T] {
	idx := make(map[string]int)
	out := []Group[T]{}
	for _, it := range items {
		seen := make(map[string]struct{})
		for _, k := range keys(it) {
			if k == "" {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			i, ok := idx[k]
			if !ok {
				i = len(out)
				idx[k] = i
				out = append(out, Group[T]{Key: k})
			}
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out
}

// Mean returns the arithmetic mean of vals. For an empty slice it returns
// the sentinel 0 and ok=false.
func Mean(vals []float64) (mean float64, ok bool) {
	if len(vals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), true
}

// Percent is round(part/whole*100), or 0 when whole is 0.
func Percent(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}

// RankDesc sorts items by metric, highest first. The sort is stable so
// ties keep encounter order.
func RankDesc[T any](items []T, metric func(T) float64) {
	sort.SliceStable(items, func(i, j int) bool {
		return metric(items[i]) > metric(items[j])
	})
}

// Top returns at most n leading items. n <= 0 means no limit.
func Top[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

func round(v float64) int {
	return int(math.Round(v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func positive(vals []float64) []float64 {
	out := vals[:0:0]
	for _, v := range vals {
		if v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
