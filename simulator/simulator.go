package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

type SimConfig struct {
	NumUsers       int
	Workers        int
	SimulationTime time.Duration
	// Relative weights of the activities each worker picks from.
	CreateWeight  int
	VoteWeight    int
	ViewWeight    int
	CommentWeight int
	BrowseWeight  int
	// ZipfS skews which memes get traffic; higher means a few memes get most.
	ZipfS          float64
	Seed           int64
	EngineURL      string
	RequestTimeout time.Duration
}

// DefaultConfig is a small, read-heavy workload.
func DefaultConfig() SimConfig {
	return SimConfig{
		NumUsers:       50,
		Workers:        8,
		SimulationTime: time.Minute,
		CreateWeight:   1,
		VoteWeight:     6,
		ViewWeight:     12,
		CommentWeight:  2,
		BrowseWeight:   4,
		ZipfS:          1.07,
		Seed:           time.Now().UnixNano(),
		EngineURL:      "http://localhost:8080",
		RequestTimeout: 5 * time.Second,
	}
}

type opStats struct {
	count     int64
	failures  int64
	latencies []time.Duration
}

// SimulationStats aggregates request outcomes per activity.
type SimulationStats struct {
	mu        sync.Mutex
	StartTime time.Time
	EndTime   time.Time
	ops       map[string]*opStats
}

func newSimulationStats() *SimulationStats {
	return &SimulationStats{StartTime: time.Now(), ops: make(map[string]*opStats)}
}

func (st *SimulationStats) record(op string, latency time.Duration, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.ops[op]
	if !ok {
		s = &opStats{}
		st.ops[op] = s
	}
	s.count++
	if err != nil {
		s.failures++
	}
	s.latencies = append(s.latencies, latency)
}

// Count returns the number of requests made for op.
func (st *SimulationStats) Count(op string) int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.ops[op]; ok {
		return s.count
	}
	return 0
}

// Failures returns the total number of failed requests.
func (st *SimulationStats) Failures() int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	var n int64
	for _, s := range st.ops {
		n += s.failures
	}
	return n
}

// WriteSummary renders one row per activity with latency percentiles.
func (st *SimulationStats) WriteSummary(w io.Writer) {
	st.mu.Lock()
	defer st.mu.Unlock()

	ops := make([]string, 0, len(st.ops))
	for op := range st.ops {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	elapsed := st.EndTime.Sub(st.StartTime)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Activity", "Requests", "Failed", "Req/s", "p50", "p95", "p99"})
	for _, op := range ops {
		s := st.ops[op]
		sorted := append([]time.Duration(nil), s.latencies...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		rate := 0.0
		if elapsed > 0 {
			rate = float64(s.count) / elapsed.Seconds()
		}
		table.Append([]string{
			op,
			fmt.Sprintf("%d", s.count),
			fmt.Sprintf("%d", s.failures),
			fmt.Sprintf("%.1f", rate),
			percentile(sorted, 0.50).String(),
			percentile(sorted, 0.95).String(),
			percentile(sorted, 0.99).String(),
		})
	}
	table.Render()
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx].Round(time.Microsecond)
}

// SimulatedUser is one synthetic account. Users exist only on the client side;
// the engine identifies creators and commenters by the ids sent with requests.
type SimulatedUser struct {
	ID       string
	Username string
}

type Simulator struct {
	config SimConfig
	stats  *SimulationStats
	users  []*SimulatedUser
	client *http.Client
	logger *zap.Logger

	mu    sync.RWMutex
	memes []string // ids in creation order, oldest first
}

func NewSimulator(config SimConfig, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.NumUsers <= 0 {
		config.NumUsers = 1
	}
	if config.ZipfS <= 1 {
		config.ZipfS = 1.07
	}
	users := make([]*SimulatedUser, config.NumUsers)
	for i := range users {
		users[i] = &SimulatedUser{ID: fmt.Sprintf("user-%d", i), Username: fmt.Sprintf("user_%d", i)}
	}
	return &Simulator{
		config: config,
		stats:  newSimulationStats(),
		users:  users,
		client: &http.Client{Timeout: config.RequestTimeout},
		logger: logger,
	}
}

func (s *Simulator) Stats() *SimulationStats {
	return s.stats
}

// Run drives the workload until ctx is done or SimulationTime elapses.
func (s *Simulator) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.SimulationTime)
	defer cancel()

	if err := s.checkHealth(ctx); err != nil {
		return fmt.Errorf("engine not reachable at %s: %w", s.config.EngineURL, err)
	}
	s.logger.Info("starting simulation",
		zap.Int("users", len(s.users)),
		zap.Int("workers", s.config.Workers),
		zap.Duration("duration", s.config.SimulationTime))

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(s.config.Seed + int64(worker)))
			for ctx.Err() == nil {
				s.step(ctx, rng)
			}
		}(i)
	}
	wg.Wait()

	s.stats.mu.Lock()
	s.stats.EndTime = time.Now()
	s.stats.mu.Unlock()
	return nil
}

func (s *Simulator) checkHealth(ctx context.Context) error {
	_, err := s.makeRequest(ctx, http.MethodGet, "/health", nil)
	return err
}

func (s *Simulator) addMeme(id string) {
	s.mu.Lock()
	s.memes = append(s.memes, id)
	s.mu.Unlock()
}

// pickMeme draws a meme with Zipf skew towards the newest ones.
func (s *Simulator) pickMeme(rng *rand.Rand) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.memes)
	if n == 0 {
		return "", false
	}
	if n == 1 {
		return s.memes[0], true
	}
	zipf := rand.NewZipf(rng, s.config.ZipfS, 1, uint64(n-1))
	return s.memes[n-1-int(zipf.Uint64())], true
}

func (s *Simulator) pickUser(rng *rand.Rand) *SimulatedUser {
	return s.users[rng.Intn(len(s.users))]
}

type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func (s *Simulator) makeRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.config.EngineURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &apiError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	return data, nil
}
