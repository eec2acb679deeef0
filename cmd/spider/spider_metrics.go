package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"bookscout/internal/spider"
)

var (
	// Counters for crawl activity exposed on /metrics.
	// analyzed: frontier items fetched+processed; errored: fetch failures;
	// skipped: remote ids already known.
	spiderItemsAnalyzed uint64
	spiderItemsErrored  uint64
	spiderItemsSkipped  uint64
	spiderRunsTotal     uint64

	// Histogram buckets for full crawl run duration (seconds).
	// Buckets define upper bounds for histogram counts; the +Inf bucket is implicit.
	runDurationBuckets = []float64{1, 5, 15, 60, 300, 900, 3600}
	// Counts per bucket; last slot holds the +Inf bucket.
	runDurationCounts = make([]uint64, len(runDurationBuckets)+1)
	// Sum and count are used by Prometheus histogram quantiles.
	runDurationSumNs uint64
	runDurationCount uint64
)

func recordSummary(sum spider.Summary) {
	atomic.AddUint64(&spiderItemsAnalyzed, uint64(sum.Analyzed))
	atomic.AddUint64(&spiderItemsErrored, uint64(sum.Errored))
	atomic.AddUint64(&spiderItemsSkipped, uint64(sum.Skipped))
	atomic.AddUint64(&spiderRunsTotal, 1)
}

func startMetricsServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", handleMetrics)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("metrics shutdown error: %v", err)
		}
	}()

	go func() {
		log.Printf("metrics listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	body := fmt.Sprintf(
		"bookscout_spider_up 1\n"+
			"bookscout_spider_items_analyzed_total %d\n"+
			"bookscout_spider_items_errored_total %d\n"+
			"bookscout_spider_items_skipped_total %d\n"+
			"bookscout_spider_runs_total %d\n",
		atomic.LoadUint64(&spiderItemsAnalyzed),
		atomic.LoadUint64(&spiderItemsErrored),
		atomic.LoadUint64(&spiderItemsSkipped),
		atomic.LoadUint64(&spiderRunsTotal),
	)
	var histogram strings.Builder
	histogram.WriteString("# HELP bookscout_spider_run_duration_seconds Full crawl run duration.\n")
	histogram.WriteString("# TYPE bookscout_spider_run_duration_seconds histogram\n")
	appendHistogram(&histogram, "bookscout_spider_run_duration_seconds", runDurationBuckets,
		runDurationCounts, &runDurationSumNs, &runDurationCount, "%.0f")

	_, _ = w.Write([]byte(body + histogram.String()))
}

// appendHistogram writes a Prometheus histogram (buckets, +Inf, sum, count) to sb.
// counts must have len(buckets)+1 elements; leFmt formats bucket bounds (e.g. "%.0f").
func appendHistogram(sb *strings.Builder, name string, buckets []float64, counts []uint64, sumNs, count *uint64, leFmt string) {
	var cumulative uint64
	for i, bound := range buckets {
		cumulative += atomic.LoadUint64(&counts[i])
		sb.WriteString(fmt.Sprintf("%s_bucket{le=\"%s\"} %d\n", name, fmt.Sprintf(leFmt, bound), cumulative))
	}
	cumulative += atomic.LoadUint64(&counts[len(buckets)])
	sb.WriteString(fmt.Sprintf("%s_bucket{le=\"+Inf\"} %d\n", name, cumulative))
	sumSeconds := float64(atomic.LoadUint64(sumNs)) / float64(time.Second)
	sb.WriteString(fmt.Sprintf("%s_sum %.6f\n", name, sumSeconds))
	sb.WriteString(fmt.Sprintf("%s_count %d\n", name, atomic.LoadUint64(count)))
}

// observeRunDuration updates the manual run-duration histogram.
func observeRunDuration(duration time.Duration) {
	if duration <= 0 {
		return
	}
	seconds := duration.Seconds()
	bucketIndex := len(runDurationBuckets)
	for i, bound := range runDurationBuckets {
		if seconds <= bound {
			bucketIndex = i
			break
		}
	}
	atomic.AddUint64(&runDurationCounts[bucketIndex], 1)
	atomic.AddUint64(&runDurationSumNs, uint64(duration.Nanoseconds()))
	atomic.AddUint64(&runDurationCount, 1)
}
