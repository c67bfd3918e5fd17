package debug

// Resource logger started only when debug is on. Emits goroutine count, heap
// and process RSS at a fixed interval so memory growth while stepping through
// long videos (decoded frame cache, Tk photos) can be spotted.

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// Sample is one resource reading.
type Sample struct {
	Goroutines uint64
	HeapAlloc  uint64
	HeapInuse  uint64
	StackInuse uint64
	NumGC      uint32
	RSS        uint64 // 0 when unavailable
}

// Read takes a sample. The error reports only an RSS query failure; the Go
// runtime numbers are always filled in.
func Read() (Sample, error) {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := Sample{
		Goroutines: samples[0].Value.Uint64(),
		HeapAlloc:  ms.HeapAlloc,
		HeapInuse:  ms.HeapInuse,
		StackInuse: ms.StackInuse,
		NumGC:      ms.NumGC,
	}
	rss, err := processRSS()
	s.RSS = rss
	return s, err
}

// StartResourceLogger launches a goroutine that logs a Sample every interval.
// RSS query failures are logged once and suppressed. The returned function stops it.
func StartResourceLogger(interval time.Duration, logger *slog.Logger) (stop func()) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-done:
				return
			case <-t.C:
			}
			s, err := Read()
			if err != nil && !rssErrLogged {
				logger.Warn("resources: rss query failed", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Info("resources",
				slog.Uint64("goroutines", s.Goroutines),
				slog.String("heap_alloc", humanize.IBytes(s.HeapAlloc)),
				slog.String("heap_inuse", humanize.IBytes(s.HeapInuse)),
				slog.String("stack_inuse", humanize.IBytes(s.StackInuse)),
				slog.String("rss", humanize.IBytes(s.RSS)),
				slog.Uint64("num_gc", uint64(s.NumGC)),
			)
		}
	}()
	var stopped bool
	return func() {
		if !stopped {
			stopped = true
			close(done)
		}
	}
}
