package checker

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"spinnertip/logger"
	"spinnertip/metrics"
)

// MaxDelay caps the artificial delay a caller may request.
const MaxDelay = time.Minute

type SystemStatus struct {
	Hostname     string    `json:"hostname"`
	Platform     string    `json:"platform"`
	Uptime       uint64    `json:"uptime_seconds"`
	UptimeString string    `json:"uptime_string"`
	Procs        uint64    `json:"procs"`
	MemoryUsed   string    `json:"memory_used"`
	MemoryTotal  string    `json:"memory_total"`
	Delay        string    `json:"delay"`
	GeneratedAt  time.Time `json:"generated_at"`
}

func CheckSystem() (SystemStatus, error) {
	status := SystemStatus{}

	info, err := host.Info()
	if err != nil {
		return status, err
	}
	status.Hostname = info.Hostname
	status.Platform = info.Platform
	if info.PlatformVersion != "" {
		status.Platform += " " + info.PlatformVersion
	}
	status.Procs = info.Procs
	status.Uptime = info.Uptime

	d := time.Duration(info.Uptime) * time.Second
	status.UptimeString = d.String()

	// Memory is informational only
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemoryUsed = formatBytes(int64(vm.Used))
		status.MemoryTotal = formatBytes(int64(vm.Total))
	}

	status.GeneratedAt = time.Now()
	return status, nil
}

// Handler serves the host status after waiting for a delay, standing in for a
// slow upstream call. The delay query parameter overrides defaultDelay.
func Handler(defaultDelay time.Duration, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		start := time.Now()
		delay := defaultDelay
		if raw := r.URL.Query().Get("delay"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d < 0 {
				http.Error(w, "Invalid delay parameter", http.StatusBadRequest)
				return
			}
			delay = d
		}
		if delay > MaxDelay {
			delay = MaxDelay
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-r.Context().Done():
				log.Debug("status request cancelled after waiting less than %s", delay)
				metrics.StatusRequestDuration.WithLabelValues("cancelled").Observe(time.Since(start).Seconds())
				return
			}
		}

		status, err := CheckSystem()
		if err != nil {
			log.Error("Failed to get system status: %v", err)
			metrics.StatusRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
			http.Error(w, "Failed to get system status: "+err.Error(), http.StatusInternalServerError)
			return
		}
		status.Delay = delay.String()
		metrics.StatusRequestDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
