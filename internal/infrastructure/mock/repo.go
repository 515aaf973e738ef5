package mock

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/labels"

	"github.com/HaPhanBaoMinh/kcap/internal/domain"
	"github.com/HaPhanBaoMinh/kcap/internal/quantity"
)

// fixture holds raw quantity strings as the API server would print them.
type fixture struct {
	name   string
	labels map[string]string

	cpuReq, cpuTotal, cpuUsage string
	memReq, memTotal, memUsage string
	stoReq, stoTotal           string

	pods, podsTotal int
}

var nodes = []fixture{
	{"ip-10-0-1-5", map[string]string{"pool": "web", "zone": "a"}, "2350m", "3920m", "1204311870n", "5312Mi", "15640736Ki", "6112Mi", "2Gi", "96506274779", 18, 110},
	{"ip-10-0-1-12", map[string]string{"pool": "web", "zone": "b"}, "1.5", "3920m", "611203004n", "4Gi", "15640736Ki", "3480Mi", "0", "96506274779", 12, 110},
	{"ip-10-0-2-3", map[string]string{"pool": "batch", "zone": "a"}, "7100m", "7910m", "6903112554n", "28Gi", "31811948Ki", "25113Mi", "10G", "96506274779", 41, 110},
	{"ip-10-0-2-7", map[string]string{"pool": "batch", "zone": "b"}, "3", "7910m", "204331009n", "1800M", "31811948Ki", "1310Mi", "500M", "96506274779", 7, 110},
	{"ip-10-0-3-2", map[string]string{"pool": "system", "zone": "c"}, "950m", "1930m", "402113778n", "1310Mi", "7098824Ki", "2017Mi", "0", "48253137389", 23, 58},
}

// Namespace totals are not fixed: they are the sum of the selected nodes.
var namespaces = []fixture{
	{name: "default", cpuReq: "1100m", cpuUsage: "853122097n", memReq: "2Gi", memUsage: "1720Mi", stoReq: "512Mi", pods: 9},
	{name: "kube-system", cpuReq: "2850m", cpuUsage: "1402334121n", memReq: "1536Mi", memUsage: "2913Mi", stoReq: "0", pods: 31},
	{name: "staging", cpuReq: "5", cpuUsage: "6265654992n", memReq: "30Gi", memUsage: "27009Mi", stoReq: "10500M", pods: 42},
	{name: "monitoring", cpuReq: "1.5", cpuUsage: "805112008n", memReq: "8000M", memUsage: "6400Mi", stoReq: "2Gi", pods: 19},
}

// Repo serves fixed figures for demos and tests.
type Repo struct{}

func New() *Repo {
	return &Repo{}
}

func (r *Repo) Collect(ctx context.Context, opts domain.CollectOptions) ([]domain.ResourceRequests, error) {
	sel, err := labels.Parse(opts.Selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", opts.Selector, err)
	}

	selected := make([]domain.ResourceRequests, 0, len(nodes))
	for _, f := range nodes {
		if !sel.Matches(labels.Set(f.labels)) {
			continue
		}
		rec, err := f.record(opts.Utilization)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		if err := f.totals(&rec); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		selected = append(selected, rec)
	}
	if opts.Type != domain.ResourceNamespace {
		return selected, nil
	}

	var cluster domain.ResourceRequests
	for _, n := range selected {
		cluster.CPUTotal += n.CPUTotal
		cluster.MemTotal += n.MemTotal
		cluster.StorageTotal += n.StorageTotal
		cluster.PodsTotal += n.PodsTotal
	}

	out := make([]domain.ResourceRequests, 0, len(namespaces))
	for _, f := range namespaces {
		rec, err := f.record(opts.Utilization)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		rec.CPUTotal, rec.MemTotal, rec.StorageTotal, rec.PodsTotal =
			cluster.CPUTotal, cluster.MemTotal, cluster.StorageTotal, cluster.PodsTotal
		out = append(out, rec)
	}
	return out, nil
}

func (f fixture) totals(rec *domain.ResourceRequests) error {
	var err error
	if rec.CPUTotal, err = quantity.ParseCPU(f.cpuTotal); err != nil {
		return err
	}
	if rec.MemTotal, err = quantity.ParseCapacity(f.memTotal); err != nil {
		return err
	}
	if rec.StorageTotal, err = quantity.ParseCapacity(f.stoTotal); err != nil {
		return err
	}
	rec.PodsTotal = f.podsTotal
	return nil
}

func (f fixture) record(withUsage bool) (domain.ResourceRequests, error) {
	rec := domain.ResourceRequests{Name: f.name, Pods: f.pods}

	var err error
	if rec.CPURequests, err = quantity.ParseCPU(f.cpuReq); err != nil {
		return rec, err
	}
	if rec.MemRequests, err = quantity.ParseCapacity(f.memReq); err != nil {
		return rec, err
	}
	if rec.StorageRequests, err = quantity.ParseCapacity(f.stoReq); err != nil {
		return rec, err
	}
	if !withUsage {
		return rec, nil
	}
	if rec.CPUUsage, err = quantity.ParseCPU(f.cpuUsage); err != nil {
		return rec, err
	}
	if rec.MemUsage, err = quantity.ParseCapacity(f.memUsage); err != nil {
		return rec, err
	}
	return rec, nil
}
