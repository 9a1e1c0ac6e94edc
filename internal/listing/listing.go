// Package listing filters the donor and blood request collections for display.
// Filters are predicates combined with AND; an empty criterion matches
// everything, so predicates commute.
package listing

import (
	"strings"

	"donatelife/pkg/types"
)

// AllBloodTypes is the select value meaning no blood type filter.
const AllBloodTypes = "all"

type Predicate[T any] func(T) bool

// Apply keeps the items that satisfy every predicate, preserving order.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))

itemloop:
	for _, item := range items {
		for _, pred := range preds {
			if !pred(item) {
				continue itemloop
			}
		}
		out = append(out, item)
	}

	return out
}

// MatchName is a case-insensitive substring match on the field. The query is
// used as typed, so surrounding spaces take part in the match.
func MatchName[T any](field func(T) string, query string) Predicate[T] {
	query = strings.ToLower(query)
	return func(item T) bool {
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(field(item)), query)
	}
}

func MatchExact[T any](field func(T) string, value string) Predicate[T] {
	value = NormalizeBloodType(value)
	return func(item T) bool {
		if value == "" {
			return true
		}
		return field(item) == value
	}
}

// NormalizeBloodType maps the "all" select option to the empty criterion.
func NormalizeBloodType(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, AllBloodTypes) {
		return ""
	}
	return v
}

func Donors(donors []*types.Donor, filter types.ListingFilter) []*types.Donor {
	return Apply(donors,
		MatchName(func(d *types.Donor) string { return d.FullName }, filter.Query),
		MatchExact(func(d *types.Donor) string { return d.BloodType }, filter.BloodType),
	)
}

func Requests(requests []*types.BloodRequest, filter types.ListingFilter) []*types.BloodRequest {
	return Apply(requests,
		MatchName(func(r *types.BloodRequest) string { return r.PatientName }, filter.Query),
		MatchExact(func(r *types.BloodRequest) string { return r.RequiredBloodType }, filter.BloodType),
	)
}
