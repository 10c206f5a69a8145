package resolver

import "sort"

func sortUnsatisfied(list []UnsatisfiedAlias) {
	sort.Slice(list, func(i, j int) bool { return list[i].Label < list[j].Label })
}
