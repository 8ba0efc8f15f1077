package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numPlugins   = 40
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== promod load test ===")
	fmt.Printf("Workers: %d | Duration: %s | Plugins: %d\n\n", numWorkers, testDuration, numPlugins)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// first request fills the data cache
	doGet("/promo", http.StatusOK, http.StatusNoContent)

	fmt.Println("\n--- Phase 1: Cached reads ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.50:
			return doGet("/promo?popup=1", http.StatusOK, http.StatusNoContent)
		case r < 0.80:
			return doGet("/promo/links", http.StatusOK)
		default:
			return doGet("/promo/status", http.StatusOK)
		}
	})

	fmt.Println("\n--- Phase 2: Reads with plugin churn ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.10:
			return doSetPlugins(rng)
		case r < 0.60:
			return doGet("/promo?pinned=1", http.StatusOK, http.StatusNoContent)
		case r < 0.90:
			return doGet("/promo/links", http.StatusOK)
		default:
			return doGet("/promo/notices", http.StatusOK, http.StatusNoContent)
		}
	})

	fmt.Println("\n--- Phase 3: Cache invalidation ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.02:
			return doPost("/promo/cache/clear", nil)
		case r < 0.70:
			return doGet("/promo", http.StatusOK, http.StatusNoContent)
		default:
			return doGet("/promo/notices", http.StatusOK, http.StatusNoContent)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
					totalOps.Add(1)
				}
			}
		}(rand.Int63() + int64(i))
	}

	byEndpoint := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := byEndpoint[r.endpoint]
			if !ok {
				s = &stats{}
				byEndpoint[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(byEndpoint, duration)
}

func printResults(byEndpoint map[string]*stats, duration time.Duration) {
	var totalOps, totalErrors int64

	endpoints := make([]string, 0, len(byEndpoint))
	for ep := range byEndpoint {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 76))

	for _, ep := range endpoints {
		s := byEndpoint[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		fmt.Printf("  %-26s %8d %6d %10s %10s %10s\n", ep, s.count, s.errors,
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 76))
	if totalOps == 0 {
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func doGet(path string, okStatus ...int) result {
	name := "GET " + strings.SplitN(path, "?", 2)[0]
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{name, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	failed := true
	for _, s := range okStatus {
		if resp.StatusCode == s {
			failed = false
		}
	}
	return result{name, resp.StatusCode, lat, failed}
}

func doPost(path string, body []byte) result {
	name := "POST " + path
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(body))
	lat := time.Since(start)
	if err != nil {
		return result{name, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return result{name, resp.StatusCode, lat, resp.StatusCode >= 300}
}

func doSetPlugins(rng *rand.Rand) result {
	active := make([]string, rng.Intn(5))
	for i := range active {
		n := rng.Intn(numPlugins)
		active[i] = fmt.Sprintf("plugin-%d/plugin-%d.php", n, n)
	}
	data, _ := json.Marshal(active)
	return doPost("/plugins/active", data)
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
