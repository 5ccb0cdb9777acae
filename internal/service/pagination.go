package service

import (
	"math"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultPageSize  = 9
	MaxPageSize      = 50
	RecentLimit      = 6
	AuthorShelfLimit = 3
)

// ListQuery is the public listing filter. Zero values select everything, newest first.
type ListQuery struct {
	Aircraft string
	Tag      string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type Page[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return min(limit, MaxPageSize)
}

// pageBounds clamps the requested page into [1, max(totalPages, 1)].
func pageBounds(total int64, page, limit int) (totalPages, current int) {
	totalPages = int(math.Ceil(float64(total) / float64(limit)))
	current = max(page, 1)
	current = min(current, max(totalPages, 1))
	return totalPages, current
}

// normalizeTags lower-cases, trims and de-duplicates tags, dropping empties.
func normalizeTags(tags []string) []string {
	out := lo.Uniq(lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.ToLower(strings.TrimSpace(t))
		return t, t != ""
	}))
	if out == nil {
		return []string{}
	}
	return out
}

func compact(values []string) []string {
	out := lo.Compact(lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) }))
	if out == nil {
		return []string{}
	}
	return out
}
