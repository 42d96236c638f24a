package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	baseURL  = flag.String("url", "http://127.0.0.1:8000", "ghstats base URL")
	users    = flag.String("users", "octocat,torvalds,gaearon", "comma-separated usernames")
	duration = flag.Duration("duration", 10*time.Second, "duration of each timed phase")
	workers  = flag.Int("workers", 50, "concurrent clients")
)

var client = &http.Client{
	Timeout:   2 * time.Minute,
	Transport: &http.Transport{MaxIdleConnsPerHost: 200},
}

// sample is one request outcome, keyed by route pattern.
type sample struct {
	route   string
	ok      bool
	latency time.Duration
}

func main() {
	flag.Parse()
	names := strings.Split(*users, ",")

	if !waitForServer() {
		fmt.Fprintln(os.Stderr, "server not responding")
		os.Exit(1)
	}

	fmt.Println("--- warm-up: one cold aggregation per user ---")
	for _, u := range names {
		s := get("GET /stats/{username}", "/stats/"+u, http.StatusOK)
		fmt.Printf("  %-20s ok=%t %s\n", u, s.ok, s.latency.Round(time.Millisecond))
	}

	fmt.Println("--- cached reads: 50% JSON, 40% SVG, 10% health ---")
	report(run(*duration, func(rng *rand.Rand) sample {
		u := names[rng.Intn(len(names))]
		switch r := rng.Float64(); {
		case r < 0.5:
			return get("GET /stats/{username}", "/stats/"+u, http.StatusOK)
		case r < 0.9:
			return get("GET /stats/{username}/svg", "/stats/"+u+"/svg", http.StatusOK)
		default:
			return get("GET /health", "/health", http.StatusOK)
		}
	}))

	fmt.Println("--- unknown users: expect 404 ---")
	report(run(*duration/2, func(rng *rand.Rand) sample {
		return get("GET /stats/{missing}", fmt.Sprintf("/stats/ghstats-missing-%d", rng.Intn(20)), http.StatusNotFound)
	}))
}

func waitForServer() bool {
	for i := 0; i < 30; i++ {
		if resp, err := client.Get(*baseURL + "/health"); err == nil {
			resp.Body.Close()
			return true
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

func get(route, path string, want int) sample {
	start := time.Now()
	resp, err := client.Get(*baseURL + path)
	if err != nil {
		return sample{route, false, time.Since(start)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return sample{route, resp.StatusCode == want, time.Since(start)}
}

// run drives work from every worker until d elapses.
func run(d time.Duration, work func(rng *rand.Rand) sample) []sample {
	var (
		mu  sync.Mutex
		all []sample
		wg  sync.WaitGroup
	)
	deadline := time.Now().Add(d)
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			var local []sample
			for time.Now().Before(deadline) {
				local = append(local, work(rng))
			}
			mu.Lock()
			all = append(all, local...)
			mu.Unlock()
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()
	fmt.Printf("  %d requests, %.0f req/s\n", len(all), float64(len(all))/d.Seconds())
	return all
}

func report(samples []sample) {
	byRoute := map[string][]sample{}
	for _, s := range samples {
		byRoute[s.route] = append(byRoute[s.route], s)
	}
	routes := make([]string, 0, len(byRoute))
	for r := range byRoute {
		routes = append(routes, r)
	}
	slices.Sort(routes)

	for _, r := range routes {
		group := byRoute[r]
		failed := 0
		latencies := make([]time.Duration, len(group))
		for i, s := range group {
			latencies[i] = s.latency
			if !s.ok {
				failed++
			}
		}
		slices.Sort(latencies)
		fmt.Printf("  %-28s n=%-7d failed=%-5d p50=%-10s p99=%s\n", r, len(group), failed,
			latencies[len(latencies)/2].Round(time.Microsecond),
			latencies[len(latencies)*99/100].Round(time.Microsecond))
	}
}
