package k8s

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	metricsclient "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/HaPhanBaoMinh/kcap/internal/domain"
	"github.com/HaPhanBaoMinh/kcap/internal/quantity"
)

type Options struct {
	Kubeconfig  string
	Context     string
	Timeout     time.Duration
	Concurrency int
}

type Repo struct {
	core    kubernetes.Interface
	metrics metricsclient.Interface
	log     *zap.Logger

	concurrency int
}

func New(opts Options, log *zap.Logger) (*Repo, error) {
	cfg, err := loadRESTConfig(opts.Kubeconfig, opts.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	cfg.QPS = 30
	cfg.Burst = 60
	cfg.Timeout = opts.Timeout

	core, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create k8s client: %w", err)
	}
	m, err := metricsclient.NewForConfig(cfg)
	if err != nil {
		log.Warn("failed to create metrics client", zap.Error(err))
		m = nil
	}
	return NewWithClients(core, m, log, opts.Concurrency), nil
}

// NewWithClients wires a Repo around existing clients. A nil metrics client
// disables usage collection.
func NewWithClients(core kubernetes.Interface, m metricsclient.Interface, log *zap.Logger, concurrency int) *Repo {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Repo{core: core, metrics: m, log: log, concurrency: concurrency}
}

func loadRESTConfig(kubeconfigPath, contextName string) (*rest.Config, error) {
	if kubeconfigPath == "" && contextName == "" {
		if cfg, err := rest.InClusterConfig(); err == nil {
			return cfg, nil
		}
	}
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		loadingRules.ExplicitPath = kubeconfigPath
	}
	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).ClientConfig()
}

// -------- Collector --------

func (r *Repo) Collect(ctx context.Context, opts domain.CollectOptions) ([]domain.ResourceRequests, error) {
	switch opts.Type {
	case domain.ResourceNamespace:
		return r.collectNamespaces(ctx, opts)
	default:
		return r.collectNodes(ctx, opts)
	}
}

func (r *Repo) collectNodes(ctx context.Context, opts domain.CollectOptions) ([]domain.ResourceRequests, error) {
	nodes, err := r.core.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: opts.Selector})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	usage := map[string]corev1.ResourceList{}
	if opts.Utilization {
		usage = r.nodeUsage(ctx)
	}

	out := make([]domain.ResourceRequests, len(nodes.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range nodes.Items {
		n := &nodes.Items[i]
		g.Go(func() error {
			pods, err := r.core.CoreV1().Pods("").List(gctx, metav1.ListOptions{
				FieldSelector: "spec.nodeName=" + n.Name + "," + activePodsSelector,
			})
			if err != nil {
				return fmt.Errorf("failed to list pods on node %s: %w", n.Name, err)
			}

			var onNode []corev1.Pod
			for _, p := range pods.Items {
				if p.Spec.NodeName == n.Name && isActive(&p) {
					onNode = append(onNode, p)
				}
			}

			rec, err := toRecord(n.Name, sumPodRequests(onNode), n.Status.Allocatable, usage[n.Name], len(onNode))
			if err != nil {
				return fmt.Errorf("node %s: %w", n.Name, err)
			}
			r.log.Debug("collected node", zap.String("node", n.Name), zap.Int("pods", len(onNode)))
			out[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) collectNamespaces(ctx context.Context, opts domain.CollectOptions) ([]domain.ResourceRequests, error) {
	nsList, err := r.core.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	// Namespaces share the cluster: totals are the allocatable sum of the
	// selected nodes.
	nodes, err := r.core.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: opts.Selector})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	capacity := corev1.ResourceList{}
	for _, n := range nodes.Items {
		addResourceList(capacity, n.Status.Allocatable)
	}

	usage := map[string]corev1.ResourceList{}
	if opts.Utilization {
		usage = r.namespaceUsage(ctx)
	}

	out := make([]domain.ResourceRequests, len(nsList.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range nsList.Items {
		ns := nsList.Items[i].Name
		g.Go(func() error {
			pods, err := r.core.CoreV1().Pods(ns).List(gctx, metav1.ListOptions{FieldSelector: activePodsSelector})
			if err != nil {
				return fmt.Errorf("failed to list pods in namespace %s: %w", ns, err)
			}

			var active []corev1.Pod
			for _, p := range pods.Items {
				if isActive(&p) {
					active = append(active, p)
				}
			}

			rec, err := toRecord(ns, sumPodRequests(active), capacity, usage[ns], len(active))
			if err != nil {
				return fmt.Errorf("namespace %s: %w", ns, err)
			}
			r.log.Debug("collected namespace", zap.String("namespace", ns), zap.Int("pods", len(active)))
			out[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// nodeUsage returns live usage keyed by node name. It degrades to an empty map
// when metrics.k8s.io is unavailable.
func (r *Repo) nodeUsage(ctx context.Context) map[string]corev1.ResourceList {
	usage := map[string]corev1.ResourceList{}
	if r.metrics == nil {
		r.log.Warn("usage columns will be zero", zap.Error(domain.ErrMetricsNotAvailable))
		return usage
	}
	nms, err := r.metrics.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{})
	if err != nil {
		r.log.Warn("usage columns will be zero", zap.Error(errors.Join(domain.ErrMetricsNotAvailable, err)))
		return usage
	}
	for _, m := range nms.Items {
		usage[m.Name] = m.Usage
	}
	return usage
}

// namespaceUsage sums container usage of every pod, keyed by namespace.
func (r *Repo) namespaceUsage(ctx context.Context) map[string]corev1.ResourceList {
	usage := map[string]corev1.ResourceList{}
	if r.metrics == nil {
		r.log.Warn("usage columns will be zero", zap.Error(domain.ErrMetricsNotAvailable))
		return usage
	}
	pms, err := r.metrics.MetricsV1beta1().PodMetricses("").List(ctx, metav1.ListOptions{})
	if err != nil {
		r.log.Warn("usage columns will be zero", zap.Error(errors.Join(domain.ErrMetricsNotAvailable, err)))
		return usage
	}
	for _, m := range pms.Items {
		total, ok := usage[m.Namespace]
		if !ok {
			total = corev1.ResourceList{}
			usage[m.Namespace] = total
		}
		for _, c := range m.Containers {
			addResourceList(total, c.Usage)
		}
	}
	return usage
}

func toRecord(name string, requests, capacity, usage corev1.ResourceList, pods int) (domain.ResourceRequests, error) {
	p := &parser{}
	rec := domain.ResourceRequests{
		Name:            name,
		CPURequests:     p.cpu(requests),
		CPUTotal:        p.cpu(capacity),
		CPUUsage:        p.cpu(usage),
		MemRequests:     p.capacity(requests, corev1.ResourceMemory),
		MemTotal:        p.capacity(capacity, corev1.ResourceMemory),
		MemUsage:        p.capacity(usage, corev1.ResourceMemory),
		StorageRequests: p.capacity(requests, corev1.ResourceEphemeralStorage),
		StorageTotal:    p.capacity(capacity, corev1.ResourceEphemeralStorage),
		Pods:            pods,
		PodsTotal:       int(capacity.Pods().Value()),
	}
	if p.err != nil {
		return domain.ResourceRequests{}, p.err
	}
	return rec, nil
}

// parser feeds quantities through the normalizer and keeps the first error.
// Summed quantities canonicalize to forms like "1k" or "1e3", so each one is
// rewritten as plain milli-cores or bytes first.
type parser struct {
	err error
}

func (p *parser) cpu(list corev1.ResourceList) int64 {
	q, ok := list[corev1.ResourceCPU]
	if !ok || p.err != nil {
		return 0
	}
	v, err := quantity.ParseCPU(strconv.FormatInt(q.MilliValue(), 10) + "m")
	if err != nil {
		p.err = err
	}
	return v
}

func (p *parser) capacity(list corev1.ResourceList, name corev1.ResourceName) float64 {
	q, ok := list[name]
	if !ok || p.err != nil {
		return 0
	}
	v, err := quantity.ParseCapacity(strconv.FormatInt(q.Value(), 10))
	if err != nil {
		p.err = err
	}
	return v
}
