package util

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	Cpu       = "cpu"
	Memory    = "mem"
	Disk      = "disk"
	Goroutine = "goroutine"
)

func GetCpuPercent() (float64, *Err) {
	percent, e := cpu.Percent(time.Second, false)
	if e != nil {
		return 0, WrapErr(EcServiceErr, e)
	}
	if len(percent) == 0 {
		return 0, NewErr(EcEmpty, nil)
	}
	return percent[0], nil
}

func GetMemPercent() float64 {
	memInfo, e := mem.VirtualMemory()
	if e != nil {
		return 0
	}
	return memInfo.UsedPercent
}

func GetDiskPercent() float64 {
	parts, e := disk.Partitions(true)
	if e != nil || len(parts) == 0 {
		return 0
	}
	diskInfo, e := disk.Usage(parts[0].Mountpoint)
	if e != nil {
		return 0
	}
	return diskInfo.UsedPercent
}

// StartProfile 按dur间隔采样进程所在主机的状态,ctx结束时停止
func StartProfile(ctx context.Context, dur time.Duration, receiver chan<- M) {
	go func() {
		sampling(ctx, receiver)
		ticker := time.NewTicker(dur)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sampling(ctx, receiver)
			}
		}
	}()
}

func sampling(ctx context.Context, receiver chan<- M) {
	status := M{
		Memory:    float32(GetMemPercent()),
		Disk:      float32(GetDiskPercent()),
		Goroutine: uint32(runtime.NumGoroutine()),
	}
	if runtime.GOOS != "darwin" {
		cp, err := GetCpuPercent()
		if err == nil {
			status[Cpu] = float32(cp)
		}
	}
	select {
	case receiver <- status:
	case <-ctx.Done():
	}
}
