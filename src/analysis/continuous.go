package analysis

import (
	"time"

	"github.com/iafilius/ResourceMonitorViz/src/telemetry"
	"github.com/iafilius/ResourceMonitorViz/src/types"
)

const (
	kbPerMB    = 1024
	pageSizeKB = 4 // RSS is exported in pages; the monitor assumes 4 KiB pages
	bytesPerMB = 1024 * 1024
)

// ContinuousSeries holds the monitoring time series, one entry per sample.
type ContinuousSeries struct {
	Times       []time.Time
	CPUPercent  []float64
	VSZMB       []float64
	RSSMB       []float64
	IOReadMBps  []float64
	IOWriteMBps []float64
	NetRxMB     []float64
	NetTxMB     []float64
}

func (c *ContinuousSeries) Kind() types.Kind { return types.Continuous }
func (c *ContinuousSeries) Empty() bool      { return len(c.Times) == 0 }
func (c *ContinuousSeries) derived()         {}

// DeriveContinuous converts raw samples into chart units.
func DeriveContinuous(recs []types.Record) (*ContinuousSeries, error) {
	out := &ContinuousSeries{}
	if len(recs) == 0 {
		warnEmpty(types.Continuous)
		return out, nil
	}
	for i, rec := range recs {
		ts, err := telemetry.Time(rec, "timestamp")
		if err != nil {
			return nil, fieldErr(types.Continuous, i, err)
		}
		r := newRowReader(types.Continuous, i, rec)
		cpu := r.float("cpu_usage_percent")
		vsz := r.float("memory_vsz_kb")
		rss := r.float("memory_rss_pages")
		ioRead := r.float("io_read_rate_bps")
		ioWrite := r.float("io_write_rate_bps")
		rx := r.float("net_rx_bytes")
		tx := r.float("net_tx_bytes")
		if r.err != nil {
			return nil, r.err
		}
		out.Times = append(out.Times, ts)
		out.CPUPercent = append(out.CPUPercent, cpu)
		out.VSZMB = append(out.VSZMB, vsz/kbPerMB)
		out.RSSMB = append(out.RSSMB, rss*pageSizeKB/kbPerMB)
		out.IOReadMBps = append(out.IOReadMBps, ioRead/bytesPerMB)
		out.IOWriteMBps = append(out.IOWriteMBps, ioWrite/bytesPerMB)
		out.NetRxMB = append(out.NetRxMB, rx/bytesPerMB)
		out.NetTxMB = append(out.NetTxMB, tx/bytesPerMB)
	}
	return out, nil
}
