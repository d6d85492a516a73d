package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Counter reports the number of live entries of a runtime structure.
type Counter interface {
	Count() int
}

type HeartbeatWorker struct {
	log         *slog.Logger
	connections Counter
	presence    Counter
	interval    time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, connections, presence Counter, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:         log,
		connections: connections,
		presence:    presence,
		interval:    interval,
	}
}

// Run logs process health (RSS, CPU, status) and live counters every interval.
func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.beat(p)
		}
	}
}

func (w *HeartbeatWorker) beat(p *process.Process) {
	rss, cpu, status, err := getSelfStats(p)
	if err != nil {
		w.log.Error("Failed to collect self stats", "error", err)
		return
	}
	w.log.Info("Heartbeat",
		"pid", p.Pid,
		"pid_status", status,
		"cpu_percent", cpu,
		"ram_bytes", rss,
		"connections", w.connections.Count(),
		"online", w.presence.Count(),
	)
}

// getSelfStats retrieves memory, CPU and OS status of the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
