package finder

import (
	"slices"

	"bizfinder/internal/models"
	"bizfinder/pkg/metrics"
)

// Fold reduces the provider result lists, left to right, into a single list
// with one record per business. Later lists win per-source conflicts because
// they are merged into the records already accumulated.
func Fold(lists ...[]*models.Business) []*models.Business {
	var acc []*models.Business
	for _, next := range lists {
		acc = foldPair(acc, next)
	}
	return acc
}

// foldPair merges next into acc. Each accumulated record takes the first
// unused record of next that describes the same business; every record of
// next is consumed at most once. Unmatched records of next are appended in
// their original order. nil records are dropped.
func foldPair(acc, next []*models.Business) []*models.Business {
	acc, next = compact(acc), compact(next)
	used := make([]bool, len(next))
	matches := make([]int, len(acc))
	for i, r := range acc {
		matches[i] = -1
		for j, m := range next {
			if used[j] || !models.SameBusiness(r, m) {
				continue
			}
			used[j] = true
			matches[i] = j
			break
		}
	}

	out := make([]*models.Business, 0, len(acc)+len(next))
	for i, r := range acc {
		if j := matches[i]; j >= 0 {
			out = append(out, r.Merge(next[j]))
			metrics.MergesTotal.Inc()
			continue
		}
		out = append(out, r)
	}
	for j, m := range next {
		if !used[j] {
			out = append(out, m)
		}
	}
	return out
}

func compact(list []*models.Business) []*models.Business {
	if !slices.Contains(list, nil) {
		return list
	}
	out := make([]*models.Business, 0, len(list))
	for _, b := range list {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}
