package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsers     = 200
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

var (
	userIDsMu sync.Mutex
	userIDs   []string
)

func main() {
	fmt.Println("=== StreamGuard Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Users: %d\n\n", numWorkers, testDuration, numUsers)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/today")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed users with registrations
	fmt.Println("\n--- Phase 1: Seeding users (POST /register) ---")
	seedUsers()

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (reads + logins + profile writes) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doUpdateProfile(rng)
		case r < 0.25:
			return doLogin(rng)
		case r < 0.50:
			return doGetToday()
		case r < 0.75:
			return doGetProgress(rng)
		default:
			return doGetUsers()
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (95% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doLogin(rng)
		case r < 0.40:
			return doGetToday()
		case r < 0.70:
			return doGetProgress(rng)
		case r < 0.85:
			return doGetSchedule()
		default:
			return doGetUsers()
		}
	})
}

func seedUsers() {
	var wg sync.WaitGroup
	results := make(chan result, numUsers)
	sem := make(chan struct{}, numWorkers)

	start := time.Now()
	for i := 0; i < numUsers; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(n int) {
			defer wg.Done()
			defer func() { <-sem }()
			results <- doRegister(n)
		}(i)
	}
	wg.Wait()
	close(results)

	allResults := make(map[string]*stats)
	for r := range results {
		s, ok := allResults[r.endpoint]
		if !ok {
			s = &stats{}
			allResults[r.endpoint] = s
		}
		s.count++
		if r.err {
			s.errors++
		}
		s.latencies = append(s.latencies, r.latency)
	}
	printResults(allResults, time.Since(start))
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
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
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

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doRegister(n int) result {
	body := map[string]string{
		"appUsername": fmt.Sprintf("loaduser_%d", n),
		"password":    "loadtest",
	}
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/register", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /register", 0, lat, true}
	}
	defer resp.Body.Close()
	if resp.StatusCode == 201 {
		var user struct {
			ID string `json:"id"`
		}
		if json.NewDecoder(resp.Body).Decode(&user) == nil && user.ID != "" {
			userIDsMu.Lock()
			userIDs = append(userIDs, user.ID)
			userIDsMu.Unlock()
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return result{"POST /register", resp.StatusCode, lat, resp.StatusCode != 201}
}

func randomUserID(rng *rand.Rand) string {
	userIDsMu.Lock()
	defer userIDsMu.Unlock()
	if len(userIDs) == 0 {
		return "missing"
	}
	return userIDs[rng.Intn(len(userIDs))]
}

func doLogin(rng *rand.Rand) result {
	body := map[string]string{
		"username": fmt.Sprintf("loaduser_%d", rng.Intn(numUsers)),
		"password": "loadtest",
	}
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/login", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /login", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /login", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doUpdateProfile(rng *rand.Rand) result {
	body := map[string]interface{}{
		"userId": randomUserID(rng),
		"fields": map[string]string{
			"personalArtist": fmt.Sprintf("Artist %d", rng.Intn(100)),
		},
	}
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/profile", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /profile", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /profile", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetToday() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/today")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /today", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /today", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetProgress(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/progress?user=%s", baseURL, randomUserID(rng))
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /progress", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /progress", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetSchedule() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/schedule")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /schedule", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /schedule", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetUsers() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/users")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /users", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /users", resp.StatusCode, lat, resp.StatusCode != 200}
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

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
