package domain

import "context"

// CollectOptions narrows a collection. Selector is a node label selector: in
// node mode it picks the rows, in namespace mode it picks the nodes whose
// allocatable makes up every namespace's totals.
type CollectOptions struct {
	Type        ResourceType
	Selector    string
	Utilization bool   // also fetch live usage from metrics.k8s.io
}

// Collector enumerates cluster objects and returns one record per object.
type Collector interface {
	Collect(ctx context.Context, opts CollectOptions) ([]ResourceRequests, error)
}
