// Package assertions implements functions that help assess conditions in tests
package assertions

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// sortStrings makes comparisons of string slices ignore the order of their elements
var sortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })

// CompareStringArrays compares if two arrays of strings has the same elements, regardless of their order.
// The arrays are not modified.
func CompareStringArrays(a, b []string) bool {
	return cmp.Equal(a, b, sortStrings, cmpopts.EquateEmpty())
}

// DiffStringArrays returns a human readable report of the differences between two arrays of strings,
// regardless of their order. The report is empty if the arrays have the same elements.
func DiffStringArrays(expected, actual []string) string {
	return cmp.Diff(expected, actual, sortStrings, cmpopts.EquateEmpty())
}
