package domain

import "strings"

type SortKey int

const (
	SortNone SortKey = iota
	SortCPU
	SortMem
	SortStorage
	SortPods
)

var sortKeyNames = map[SortKey]string{
	SortNone:    "none",
	SortCPU:     "cpu",
	SortMem:     "mem",
	SortStorage: "storage",
	SortPods:    "pods",
}

func (k SortKey) String() string {
	if s, ok := sortKeyNames[k]; ok {
		return s
	}
	return "unknown"
}

// Next cycles through the sort keys, used by the interactive view.
func (k SortKey) Next() SortKey {
	return (k + 1) % (SortPods + 1)
}

// ParseSortKey accepts cpu, mem, storage, pods or none. Empty input means none.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.TrimSpace(s) {
	case "", "none":
		return SortNone, nil
	case "cpu":
		return SortCPU, nil
	case "mem":
		return SortMem, nil
	case "storage":
		return SortStorage, nil
	case "pods":
		return SortPods, nil
	}
	return SortNone, &ConfigError{Field: "sort key", Value: s, Allowed: []string{"cpu", "mem", "storage", "pods", "none"}}
}

type ResourceType int

const (
	ResourceNode ResourceType = iota
	ResourceNamespace
)

func (t ResourceType) String() string {
	switch t {
	case ResourceNode:
		return "node"
	case ResourceNamespace:
		return "namespace"
	}
	return "unknown"
}

// ParseResourceType accepts node or namespace. Empty input means node.
func ParseResourceType(s string) (ResourceType, error) {
	switch strings.TrimSpace(s) {
	case "", "node", "nodes":
		return ResourceNode, nil
	case "namespace", "namespaces", "ns":
		return ResourceNamespace, nil
	}
	return ResourceNode, &ConfigError{Field: "resource type", Value: s, Allowed: []string{"node", "namespace"}}
}
