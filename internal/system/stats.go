package system

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats хранит снимок процесса и хоста.
type ProcessStats struct {
	RSS         uint64  // байты
	CPUPercent  float64 // с момента запуска
	Threads     int32
	Goroutines  int
	HostUsedPct float64
	HostTotal   uint64
}

// CollectStats собирает данные процесса и хоста. Недоступные поля
// остаются нулевыми.
func CollectStats() (ProcessStats, error) {
	st := ProcessStats{Goroutines: runtime.NumGoroutine()}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return st, fmt.Errorf("open process: %w", err)
	}
	if mi, err := p.MemoryInfo(); err == nil {
		st.RSS = mi.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	if n, err := p.NumThreads(); err == nil {
		st.Threads = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		st.HostUsedPct = vm.UsedPercent
		st.HostTotal = vm.Total
	}
	return st, nil
}

// PlaybackRun хранит замеры одного прогона воспроизведения.
type PlaybackRun struct {
	Build    string
	Input    string
	Tweens   int
	Frames   int
	Span     float64 // секунды таймлайна
	Elapsed  time.Duration
	Rebuilds int
}

// FPS считает кадры в секунду реального времени.
func (r PlaybackRun) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// FormatReport форматирует отчёт о производительности.
func FormatReport(r PlaybackRun, st ProcessStats) string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Timeline: %s (%d tweens, %.2fs)\n"+
			"Total Time: %.3fs\n"+
			"Frames: %d | Effective FPS: %.1f\n"+
			"Rebuilds: %d\n"+
			"Memory (RSS): %.1f MB | Threads: %d | Goroutines: %d\n"+
			"CPU: %.1f%% | Host memory used: %.1f%% of %.1f GB\n"+
			"----------------------------\n",
		r.Build, r.Input, r.Tweens, r.Span,
		r.Elapsed.Seconds(),
		r.Frames, r.FPS(),
		r.Rebuilds,
		float64(st.RSS)/(1<<20), st.Threads, st.Goroutines,
		st.CPUPercent, st.HostUsedPct, float64(st.HostTotal)/(1<<30),
	)
}

// AppendBenchmarkLog дописывает в path строку с результатами r.
func AppendBenchmarkLog(path string, r PlaybackRun, st ProcessStats) error {
	entry := fmt.Sprintf("[%s] Build: %s | Input: %s | Tweens: %d | Span: %.2fs | Total: %.3fs | FPS: %.1f | RSS: %.1fMB\n",
		time.Now().Format("2006-01-02 15:04:05"),
		r.Build, r.Input, r.Tweens, r.Span, r.Elapsed.Seconds(), r.FPS(), float64(st.RSS)/(1<<20),
	)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open benchmark log: %w", err)
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}
