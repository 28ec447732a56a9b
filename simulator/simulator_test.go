package simulator

import (
	"bytes"
	"context"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	"memehub/internal/catalog"
	"memehub/internal/engine"
	"memehub/internal/handlers"
	"memehub/internal/memes"
	"memehub/internal/store"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngineServer(t *testing.T) (*httptest.Server, *memes.Service) {
	t.Helper()
	svc := memes.NewService(store.New(), catalog.Default())
	eng := engine.NewEngine(actor.NewActorSystem(), svc, engine.Config{Shards: 2})
	srv := httptest.NewServer(handlers.NewServer(eng, nil, nil, nil).Routes())
	t.Cleanup(func() {
		srv.Close()
		_ = eng.Stop()
	})
	return srv, svc
}

func TestSimulatorDrivesEngine(t *testing.T) {
	srv, svc := newEngineServer(t)

	cfg := DefaultConfig()
	cfg.EngineURL = srv.URL
	cfg.NumUsers = 5
	cfg.Workers = 3
	cfg.SimulationTime = 500 * time.Millisecond
	cfg.Seed = 42

	sim := NewSimulator(cfg, nil)
	require.NoError(t, sim.Run(context.Background()))

	stats := sim.Stats()
	assert.Positive(t, stats.Count(opCreate))
	assert.Zero(t, stats.Failures())
	// creates cut off by the deadline may still land server side
	assert.GreaterOrEqual(t, svc.Store().Len(), int(stats.Count(opCreate)))

	var out bytes.Buffer
	stats.WriteSummary(&out)
	assert.Contains(t, out.String(), opCreate)
}

func TestSimulatorFailsFastWithoutEngine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EngineURL = "http://127.0.0.1:1"
	cfg.SimulationTime = time.Second
	cfg.RequestTimeout = 200 * time.Millisecond

	err := NewSimulator(cfg, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestPickActivityRespectsWeights(t *testing.T) {
	sim := NewSimulator(SimConfig{VoteWeight: 1}, nil)
	rng := newTestRand()
	for i := 0; i < 20; i++ {
		assert.Equal(t, opVote, sim.pickActivity(rng))
	}

	sim = NewSimulator(SimConfig{}, nil)
	assert.Equal(t, opCreate, sim.pickActivity(rng))
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
