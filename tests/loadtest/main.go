package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"
)

var (
	baseURL    string
	numWorkers int
	phaseTime  time.Duration
)

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
	rootCmd := &cobra.Command{
		Use:          "loadtest",
		Short:        "Hammers the tracker's read-only HTTP API",
		Args:         cobra.NoArgs,
		RunE:         run,
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&baseURL, "url", "http://127.0.0.1:8080", "Tracker base URL")
	rootCmd.Flags().IntVarP(&numWorkers, "workers", "w", 50, "Concurrent clients")
	rootCmd.Flags().DurationVar(&phaseTime, "duration", 10*time.Second, "Length of each phase")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *http.Client {
	return &http.Client{
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
}

func run(_ *cobra.Command, _ []string) error {
	client := newClient()

	fmt.Printf("=== Tracker API load test ===\nWorkers: %d | Phase: %s\n\n", numWorkers, phaseTime)
	ids, err := waitForEntities(client)
	if err != nil {
		return err
	}
	fmt.Printf("Entities: %v\n", ids)
	if len(ids) == 0 {
		return fmt.Errorf("tracker has no entities configured")
	}

	fmt.Println("\n--- Phase 1: live history ---")
	runPhase(func(rng *rand.Rand) result {
		return get(client, "GET /history", "/history?id="+url.QueryEscape(ids[rng.Intn(len(ids))]))
	})

	fmt.Println("\n--- Phase 2: mixed (60% live, 20% archive, 20% entities) ---")
	runPhase(func(rng *rand.Rand) result {
		id := url.QueryEscape(ids[rng.Intn(len(ids))])
		r := rng.Float64()
		switch {
		case r < 0.60:
			return get(client, "GET /history", "/history?id="+id)
		case r < 0.80:
			return get(client, "GET /history+archive", "/history?include=archive&id="+id)
		default:
			return get(client, "GET /entities", "/entities")
		}
	})
	return nil
}

func waitForEntities(client *http.Client) ([]string, error) {
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := client.Get(baseURL + "/entities")
		if err == nil {
			var entities []struct {
				ID string `json:"id"`
			}
			decodeErr := json.NewDecoder(resp.Body).Decode(&entities)
			resp.Body.Close()
			if decodeErr != nil {
				return nil, fmt.Errorf("decode /entities: %w", decodeErr)
			}
			fmt.Println("OK")
			ids := make([]string, len(entities))
			for i, e := range entities {
				ids[i] = e.ID
			}
			return ids, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("FAILED")
	return nil, fmt.Errorf("server %s not responding", baseURL)
}

func get(client *http.Client, endpoint, path string) result {
	start := time.Now()
	resp, err := client.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func runPhase(workFn func(rng *rand.Rand) result) {
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
					totalOps.Inc()
				}
			}
		}(rand.Int63() + int64(i))
	}

	all := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := all[r.endpoint]
			if !ok {
				s = &stats{}
				all[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(phaseTime)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(all, totalOps.Load())
}

func printResults(all map[string]*stats, totalOps int64) {
	endpoints := make([]string, 0, len(all))
	for ep := range all {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99"})

	var totalErrors int64
	for _, ep := range endpoints {
		s := all[ep]
		totalErrors += s.errors
		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		t.AppendRow(table.Row{ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99))})
	}

	errPct := 0.0
	if totalOps > 0 {
		errPct = float64(totalErrors) / float64(totalOps) * 100
	}
	t.AppendFooter(table.Row{"Total", totalOps, totalErrors,
		fmt.Sprintf("%.1f%%", errPct), fmt.Sprintf("%.0f rps", float64(totalOps)/phaseTime.Seconds()), "", ""})
	t.Render()
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
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
