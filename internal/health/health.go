package health

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"scaffold-backend/internal/cache"
)

// Pinger is anything that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db      Pinger
	storage Pinger
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds the optional dependencies and host usage
type DetailedStatus struct {
	HealthStatus
	Storage ComponentHealth `json:"storage"`
	Redis   string          `json:"redis"`
	Host    HostStats       `json:"host"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsed      string  `json:"disk_used"`
	DiskTotal     string  `json:"disk_total"`
}

// NewHealthChecker builds a checker. storage may be nil.
func NewHealthChecker(db, storage Pinger) *HealthChecker {
	return &HealthChecker{db: db, storage: storage}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := ping(h.db)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}
	return HealthStatus{Status: status, Database: dbHealth}
}

// CheckDetailed reports every dependency. Only the database decides the
// overall status; storage and redis failures degrade it.
func (h *HealthChecker) CheckDetailed() DetailedStatus {
	d := DetailedStatus{HealthStatus: h.CheckBasic(), Redis: "disabled", Host: CollectHost()}

	if h.storage != nil {
		d.Storage = ping(h.storage)
	} else {
		d.Storage = ComponentHealth{Status: "disabled"}
	}
	if cache.GetClient() != nil {
		d.Redis = "healthy"
		if !cache.IsHealthy() {
			d.Redis = "unhealthy"
		}
	}

	if d.Status == "healthy" && (d.Storage.Status == "unhealthy" || d.Redis == "unhealthy") {
		d.Status = "degraded"
	}
	return d
}

func ping(p Pinger) ComponentHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: "unhealthy", ResponseTime: responseTime}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: responseTime}
}

// CollectHost samples CPU, memory and root disk usage of this host
func CollectHost() HostStats {
	var s HostStats
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if m, err := mem.VirtualMemory(); err == nil {
		s.MemoryPercent = m.UsedPercent
		s.MemoryUsed = FormatBytes(m.Used)
		s.MemoryTotal = FormatBytes(m.Total)
	}
	if d, err := disk.Usage("/"); err == nil {
		s.DiskPercent = d.UsedPercent
		s.DiskUsed = FormatBytes(d.Used)
		s.DiskTotal = FormatBytes(d.Total)
	}
	return s
}

func FormatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", gb)
}
