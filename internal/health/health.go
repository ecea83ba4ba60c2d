package health

import (
	"context"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type Status struct {
	Status     string  `json:"status"`
	Database   string  `json:"database"`
	UptimeSecs float64 `json:"uptime_seconds"`
	Goroutines int     `json:"goroutines"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
}

type Checker struct {
	pool      *pgxpool.Pool
	startedAt time.Time
}

func NewChecker(pool *pgxpool.Pool) *Checker {
	return &Checker{pool: pool, startedAt: time.Now()}
}

// Check pings the database and samples process/system stats. A failing
// database turns the overall status to "degraded" but still answers.
func (c *Checker) Check(ctx context.Context) *Status {
	status := &Status{
		Status:     "ok",
		Database:   "ok",
		UptimeSecs: time.Since(c.startedAt).Seconds(),
		Goroutines: runtime.NumGoroutine(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.pool.Ping(pingCtx); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemPercent = vm.UsedPercent
	}

	return status
}
