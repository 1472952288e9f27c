package typegraph

import (
	"sort"
	"strconv"
	"strings"
)

// intsKey renders a set of ids as a stable string suitable for use as (part
// of) a map key. Sorting makes it independent of iteration order.
func intsKey(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
