package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	llmRequests  = newCounterVec("provider", "operation", "outcome")
	jobSearches  = newCounterVec("source", "cache")
	pdfExports   = newCounterVec("kind", "outcome")
	profileSaves = newCounterVec("origin")

	llmDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
	pdfDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// ObserveLLM records one completed LLM call.
func ObserveLLM(provider, operation string, ok bool, durationMs float64) {
	llmRequests.Inc(provider, operation, outcome(ok))
	llmDuration.Observe(clamp(durationMs))
}

// IncJobSearch counts a job search per provider source; cache is "hit" or "miss".
func IncJobSearch(source, cache string) {
	jobSearches.Inc(source, cache)
}

// ObservePDFExport records a rendered PDF ("resume" or "cover_letter").
func ObservePDFExport(kind string, ok bool, durationMs float64) {
	pdfExports.Inc(kind, outcome(ok))
	if ok {
		pdfDuration.Observe(clamp(durationMs))
	}
}

// IncProfileSave counts profile writes by origin (save, import, restore, patch, tailor, parse).
func IncProfileSave(origin string) {
	profileSaves.Inc(origin)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounterVec(&buf, "llm_requests_total", "LLM completions by provider, operation and outcome", llmRequests)
	writeHistogram(&buf, "llm_duration_ms", "LLM completion latency in milliseconds", llmDuration.Snapshot())
	writeCounterVec(&buf, "job_searches_total", "Job searches by source and cache result", jobSearches)
	writeCounterVec(&buf, "pdf_exports_total", "PDF exports by kind and outcome", pdfExports)
	writeHistogram(&buf, "pdf_render_duration_ms", "PDF render latency in milliseconds", pdfDuration.Snapshot())
	writeCounterVec(&buf, "profile_saves_total", "Profile writes by origin", profileSaves)
	return buf.String()
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

type counterVec struct {
	mu     sync.Mutex
	labels []string
	values map[string]uint64
}

func newCounterVec(labels ...string) *counterVec {
	return &counterVec{labels: labels, values: make(map[string]uint64)}
}

func (v *counterVec) Inc(labelValues ...string) {
	key := strings.Join(labelValues, "\x00")
	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) Get(labelValues ...string) uint64 {
	key := strings.Join(labelValues, "\x00")
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values[key]
}

func (v *counterVec) snapshot() ([]string, map[string]uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := make([]string, 0, len(v.values))
	out := make(map[string]uint64, len(v.values))
	for k, n := range v.values {
		keys = append(keys, k)
		out[k] = n
	}
	sort.Strings(keys)
	return keys, out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value into the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounterVec(buf *bytes.Buffer, name, help string, v *counterVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys, values := v.snapshot()
	for _, key := range keys {
		parts := strings.Split(key, "\x00")
		pairs := make([]string, 0, len(v.labels))
		for i, label := range v.labels {
			val := ""
			if i < len(parts) {
				val = parts[i]
			}
			pairs = append(pairs, fmt.Sprintf("%s=%q", label, val))
		}
		fmt.Fprintf(buf, "%s{%s} %d\n", name, strings.Join(pairs, ","), values[key])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
