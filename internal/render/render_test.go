package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/HaPhanBaoMinh/kcap/internal/domain"
)

var rows = []domain.ResourceStatus{
	{
		Name:            "node-1",
		CPURequests:     "500m (50.00%)",
		CPUUsage:        "250m (25.00%)",
		MemRequests:     "512Mi (50.00%)",
		MemUsage:        "100.00Mi (9.77%)",
		StorageRequests: "0Mi (0.00%)",
		Pods:            "7 / 110",
	},
	{
		Name:            "node-2",
		CPURequests:     "100m (10.00%)",
		CPUUsage:        "90m (9.00%)",
		MemRequests:     "64Mi (6.25%)",
		MemUsage:        "60.00Mi (5.86%)",
		StorageRequests: "1024Mi (1.00%)",
		Pods:            "2 / 110",
	},
}

func TestVisibleColumns(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, VisibleColumns(true))
	assert.Equal(t, []int{0, 1, 3, 5, 6}, VisibleColumns(false))
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows, Options{Format: "table"}))

	out := buf.String()
	assert.Contains(t, out, "cpu requests")
	assert.Contains(t, out, "storage requests")
	assert.NotContains(t, out, "cpu usage")
	assert.NotContains(t, out, "250m (25.00%)")
	assert.Contains(t, out, "512Mi (50.00%)")
	assert.Contains(t, out, "7 / 110")
	assert.Less(t, strings.Index(out, "node-1"), strings.Index(out, "node-2"))
}

func TestWrite_TableWithUsage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows, Options{Format: "table", ShowUsage: true}))

	out := buf.String()
	assert.Contains(t, out, "mem usage")
	assert.Contains(t, out, "100.00Mi (9.77%)")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows, Options{Format: "json"}))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "node-1", got[0]["name"])
	assert.Equal(t, "7 / 110", got[0]["pods"])
	assert.NotContains(t, got[0], "cpuUsage")
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows, Options{Format: "yaml", ShowUsage: true}))

	var got []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "90m (9.00%)", got[1]["cpuUsage"])
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, rows, Options{Format: "xml"})
	var cerr *domain.ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, Options{Format: "json"}))
	assert.Equal(t, "[]\n", buf.String())
}
