package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type perfGauges struct {
	cpu        metric.Float64Gauge
	rss        metric.Int64Gauge
	heap       metric.Int64Gauge
	goroutines metric.Int64Gauge
}

func newPerfGauges() (perfGauges, error) {
	meter := otel.Meter("cityscrape.perf_stats")

	var g perfGauges
	var err error
	g.cpu, err = meter.Float64Gauge("cpu_usage", metric.WithUnit("%"))
	if err != nil {
		return perfGauges{}, err
	}
	g.rss, err = meter.Int64Gauge("resident_memory", metric.WithUnit("MB"))
	if err != nil {
		return perfGauges{}, err
	}
	g.heap, err = meter.Int64Gauge("heap_alloc", metric.WithUnit("MB"))
	if err != nil {
		return perfGauges{}, err
	}
	g.goroutines, err = meter.Int64Gauge("goroutine_count")
	if err != nil {
		return perfGauges{}, err
	}
	return g, nil
}

func (g perfGauges) record(ctx context.Context, proc *process.Process) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	g.heap.Record(ctx, int64(memStats.HeapAlloc/1_000_000))
	g.goroutines.Record(ctx, int64(runtime.NumGoroutine()))

	usage, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err == nil && len(usage) > 0 {
		g.cpu.Record(ctx, usage[0])
	} else if err != nil {
		slog.DebugContext(ctx, "failed to read cpu usage", "err", err)
	}

	if proc == nil {
		return
	}
	mem, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		slog.DebugContext(ctx, "failed to read process memory", "err", err)
		return
	}
	g.rss.Record(ctx, int64(mem.RSS/1_000_000))
}

// InstrumentPerfStats records cpu, memory and goroutine gauges of the
// process every 30 seconds until ctx is cancelled.
func InstrumentPerfStats(ctx context.Context) {
	gauges, err := newPerfGauges()
	if err != nil {
		slog.WarnContext(ctx, "failed to create perf gauges", "err", err)
		return
	}
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		slog.DebugContext(ctx, "failed to inspect own process", "err", err)
		proc = nil
	}

	go func() {
		ticker := time.NewTicker(time.Second * 30)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gauges.record(ctx, proc)
			case <-ctx.Done():
				return
			}
		}
	}()
}
