// Package report ranks collected records and turns them into display rows.
package report

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/HaPhanBaoMinh/kcap/internal/domain"
)

// Build ranks records by key and formats every one of them. The result always
// has the same length as the input.
func Build(records []domain.ResourceRequests, key domain.SortKey) []domain.ResourceStatus {
	ranked := Rank(records, key)
	out := make([]domain.ResourceStatus, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, Format(r))
	}
	return out
}

// Rank returns a copy of records ordered by the requests field selected by key,
// largest first. Ties keep their input order. NaN values sort last.
func Rank(records []domain.ResourceRequests, key domain.SortKey) []domain.ResourceRequests {
	data := slices.Clone(records)

	switch key {
	case domain.SortCPU:
		slices.SortStableFunc(data, func(a, b domain.ResourceRequests) int {
			return cmp.Compare(b.CPURequests, a.CPURequests)
		})
	case domain.SortMem:
		slices.SortStableFunc(data, func(a, b domain.ResourceRequests) int {
			return descFloat(a.MemRequests, b.MemRequests)
		})
	case domain.SortStorage:
		slices.SortStableFunc(data, func(a, b domain.ResourceRequests) int {
			return descFloat(a.StorageRequests, b.StorageRequests)
		})
	case domain.SortPods:
		slices.SortStableFunc(data, func(a, b domain.ResourceRequests) int {
			return cmp.Compare(b.Pods, a.Pods)
		})
	}

	return data
}

func descFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	return cmp.Compare(b, a)
}

// Percent returns part as a percentage of total. A zero total yields 0.
func Percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// Format renders one record as display strings. CPU cells read "<n>m (<p>%)",
// memory and storage requests "<v>Mi (<p>%)" with the shortest float form,
// memory usage "<v>Mi (<p>%)" with two decimals and pods "<used> / <total>".
// Percentages have two decimals and a zero total gives 0%.
func Format(r domain.ResourceRequests) domain.ResourceStatus {
	cpuReq := Percent(float64(r.CPURequests), float64(r.CPUTotal))
	cpuUse := Percent(float64(r.CPUUsage), float64(r.CPUTotal))
	memReq := Percent(r.MemRequests, r.MemTotal)
	memUse := Percent(r.MemUsage, r.MemTotal)
	stoReq := Percent(r.StorageRequests, r.StorageTotal)

	return domain.ResourceStatus{
		Name:            r.Name,
		CPURequests:     fmt.Sprintf("%dm (%.2f%%)", r.CPURequests, cpuReq),
		CPUUsage:        fmt.Sprintf("%dm (%.2f%%)", r.CPUUsage, cpuUse),
		MemRequests:     fmt.Sprintf("%sMi (%.2f%%)", shortFloat(r.MemRequests), memReq),
		MemUsage:        fmt.Sprintf("%.2fMi (%.2f%%)", r.MemUsage, memUse),
		StorageRequests: fmt.Sprintf("%sMi (%.2f%%)", shortFloat(r.StorageRequests), stoReq),
		Pods:            fmt.Sprintf("%d / %d", r.Pods, r.PodsTotal),
	}
}

func shortFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
