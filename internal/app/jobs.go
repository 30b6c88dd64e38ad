package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"github.com/talkincode/tradecatalog/internal/repository"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// initJob builds the scheduler. It is started by StartBackgroundJobs.
func (a *Application) initJob() error {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.UTC
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	interval := a.appConfig.System.MonitorInterval
	if interval == "" {
		return nil
	}
	_, err = a.sched.AddFunc(interval, func() {
		go a.SchedSystemMonitorTask()
		go a.SchedCatalogMonitorTask()
	})
	if err != nil {
		return fmt.Errorf("invalid monitor interval %q: %w", interval, err)
	}
	return nil
}

// StartBackgroundJobs runs the scheduler until ctx is cancelled
func (a *Application) StartBackgroundJobs(ctx context.Context) error {
	if a.sched == nil {
		return nil
	}
	a.sched.Start()
	<-ctx.Done()
	<-a.sched.Stop().Done()
	return nil
}

// SchedSystemMonitorTask system and process monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	fields := make([]zap.Field, 0, 4)
	if cpuuse, err := cpu.Percent(0, false); err == nil && len(cpuuse) > 0 {
		fields = append(fields, zap.Float64("system_cpuuse", cpuuse[0]))
	}
	if meminfo, err := mem.VirtualMemory(); err == nil {
		fields = append(fields, zap.Uint64("system_memuse_mb", meminfo.Used/1024/1024))
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil { //nolint:gosec // G115: PID is always within int32 range
		if cpuuse, err := p.CPUPercent(); err == nil {
			fields = append(fields, zap.Float64("process_cpuuse", cpuuse))
		}
		if meminfo, err := p.MemoryInfo(); err == nil {
			fields = append(fields, zap.Uint64("process_memuse_mb", meminfo.RSS/1024/1024))
		}
	}
	zap.L().Info("system monitor", fields...)
}

// SchedCatalogMonitorTask logs the current product count
func (a *Application) SchedCatalogMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := countProducts(ctx, a); err != nil {
		zap.L().Error("catalog monitor: count products", zap.Error(err))
	}
}

func countProducts(ctx context.Context, p CatalogProvider) (int64, error) {
	count, err := repository.NewGormProductRepository(p.DB()).Count(ctx)
	if err != nil {
		return 0, err
	}
	zap.L().Info("catalog monitor",
		zap.String("profile", p.Config().Catalog.Profile),
		zap.Int64("products", count))
	return count, nil
}
