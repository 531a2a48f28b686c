package commands

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"
	"github.com/soeframe/soeframe/internal/cliutil"
	"github.com/soeframe/soeframe/pkg/metrics"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print collected Prometheus metrics for this process",
	Long: `metrics gathers every counter/gauge/histogram registered so far in
this process and prints a flattened name/value table. It only has
anything to show when a prior decode/grid invocation in the same
process ran with --metrics; as a standalone command it mainly confirms
the registry wiring, since each soeinspect invocation is short-lived.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !metricsEnabled && !cfg.Metrics.Enabled {
			return fmt.Errorf("metrics: pass --metrics (or enable it in config) before decode/grid to collect anything")
		}
		reg := metrics.GetRegistry()
		if reg == nil {
			return fmt.Errorf("metrics: registry not initialized")
		}
		families, err := reg.Gather()
		if err != nil {
			return fmt.Errorf("metrics: gather: %w", err)
		}

		table := cliutil.NewKVTable()
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				table.Add(mf.GetName()+labelSuffix(m), formatMetricValue(mf.GetType(), m))
			}
		}
		cliutil.PrintTable(cmd.OutOrStdout(), table)
		return nil
	},
}

func labelSuffix(m *dto.Metric) string {
	labels := m.GetLabel()
	if len(labels) == 0 {
		return ""
	}
	suffix := "{"
	for i, l := range labels {
		if i > 0 {
			suffix += ","
		}
		suffix += l.GetName() + "=" + l.GetValue()
	}
	return suffix + "}"
}

func formatMetricValue(kind dto.MetricType, m *dto.Metric) string {
	switch kind {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("count=%d sum=%g", h.GetSampleCount(), h.GetSampleSum())
	default:
		return "unsupported"
	}
}
