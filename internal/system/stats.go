package system

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HostStats describes the machine a render ran on.
type HostStats struct {
	CPUModel     string
	LogicalCPUs  int
	MemTotal     uint64
	MemAvailable uint64
	ProcessRSS   uint64
}

// CollectHostStats queries CPU, memory and the current process. Fields that
// cannot be read on this platform are left zero; the first error is returned
// alongside whatever was collected.
func CollectHostStats(ctx context.Context) (HostStats, error) {
	var hs HostStats
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	n, err := cpu.CountsWithContext(ctx, true)
	keep(err)
	hs.LogicalCPUs = n

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		hs.CPUModel = infos[0].ModelName
	} else {
		keep(err)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		hs.MemTotal = vm.Total
		hs.MemAvailable = vm.Available
	} else {
		keep(err)
	}

	if proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfoWithContext(ctx); err == nil {
			hs.ProcessRSS = mi.RSS
		} else {
			keep(err)
		}
	} else {
		keep(err)
	}

	return hs, firstErr
}

func (h HostStats) String() string {
	model := h.CPUModel
	if model == "" {
		model = "unknown cpu"
	}
	return fmt.Sprintf("%s x%d | RAM %s free of %s | RSS %s",
		model, h.LogicalCPUs, FormatBytes(h.MemAvailable), FormatBytes(h.MemTotal), FormatBytes(h.ProcessRSS))
}

// Report is the performance summary printed when stats are enabled.
type Report struct {
	Build   string
	Input   string
	Frames  int
	Total   time.Duration
	Render  time.Duration
	Compose time.Duration
	Host    HostStats
}

// FPS is frames rendered per wall-clock second.
func (r Report) FPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

// Print writes the human-readable report.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w,
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Composition: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		r.Build, r.Host, r.Total.Seconds(), r.Render.Seconds(), r.Compose.Seconds(), r.FPS(),
	)
}

// AppendBenchmarkLog appends a one-line entry for r to the file at path.
func (r Report) AppendBenchmarkLog(path string, at time.Time) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening benchmark log: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "[%s] Build: %s | Input: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Compose: %.2fs | FPS: %.2f\n",
		at.Format("2006-01-02 15:04:05"), r.Build, r.Input, r.Frames,
		r.Total.Seconds(), r.Render.Seconds(), r.Compose.Seconds(), r.FPS())
	return err
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
