package domain

// ResourceRequests is the raw figure set of one inspected node or namespace.
// CPU values are milli-cores, memory and storage are MiB.
type ResourceRequests struct {
	Name            string  `json:"name"`
	CPURequests     int64   `json:"cpuRequests"`
	CPUTotal        int64   `json:"cpuTotal"`
	CPUUsage        int64   `json:"cpuUsage"`
	MemRequests     float64 `json:"memRequests"`
	MemTotal        float64 `json:"memTotal"`
	MemUsage        float64 `json:"memUsage"`
	StorageRequests float64 `json:"storageRequests"`
	StorageTotal    float64 `json:"storageTotal"`
	Pods            int     `json:"pods"`
	PodsTotal       int     `json:"podsTotal"`
}

// ResourceStatus is a display-ready report row derived from ResourceRequests.
type ResourceStatus struct {
	Name            string `json:"name"`
	CPURequests     string `json:"cpuRequests"`
	CPUUsage        string `json:"cpuUsage"`
	MemRequests     string `json:"memRequests"`
	MemUsage        string `json:"memUsage"`
	StorageRequests string `json:"storageRequests"`
	Pods            string `json:"pods"`
}

// Column headers, in the order returned by ResourceStatus.Fields.
const (
	ColName            = "name"
	ColCPURequests     = "cpu requests"
	ColCPUUsage        = "cpu usage"
	ColMemRequests     = "mem requests"
	ColMemUsage        = "mem usage"
	ColStorageRequests = "storage requests"
	ColPods            = "pods"
)

var Columns = []string{
	ColName,
	ColCPURequests,
	ColCPUUsage,
	ColMemRequests,
	ColMemUsage,
	ColStorageRequests,
	ColPods,
}

// UsageColumns are only meaningful when live usage was collected.
var UsageColumns = map[string]bool{
	ColCPUUsage: true,
	ColMemUsage: true,
}

func (s ResourceStatus) Fields() []string {
	return []string{
		s.Name,
		s.CPURequests,
		s.CPUUsage,
		s.MemRequests,
		s.MemUsage,
		s.StorageRequests,
		s.Pods,
	}
}
