// Package politeness spaces out outbound requests and rotates user agents
// so the pipeline does not trip anti-scraping defenses.
package politeness

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Default delay windows. Searches hit third-party engines and get the wider
// window; validations touch many distinct hosts and can run tighter.
const (
	DefaultSearchMinDelay   = 2 * time.Second
	DefaultSearchMaxDelay   = 5 * time.Second
	DefaultValidateMinDelay = 500 * time.Millisecond
	DefaultValidateMaxDelay = 1500 * time.Millisecond
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Controller injects inter-request delays and picks user agents. Pipeline
// components receive a Controller instead of sleeping on their own, which
// keeps tests fast via NewStatic.
type Controller interface {
	// Delay blocks for a randomized duration or until ctx is canceled.
	Delay(ctx context.Context)
	// UserAgent returns one agent string from the pool.
	UserAgent() string
}

type randomController struct {
	minDelay time.Duration
	maxDelay time.Duration
	agents   []string

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Controller drawing delays uniformly from [minDelay, maxDelay]
// and user agents from agents. Empty agents falls back to the builtin pool.
func New(minDelay, maxDelay time.Duration, agents []string) Controller {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	return &randomController{
		minDelay: minDelay,
		maxDelay: maxDelay,
		agents:   agents,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Delay implements Controller using a stoppable timer so context
// cancellation does not leak the sleep.
func (c *randomController) Delay(ctx context.Context) {
	d := c.nextDelay()
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (c *randomController) UserAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agents[c.rng.Intn(len(c.agents))]
}

func (c *randomController) nextDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	spread := c.maxDelay - c.minDelay
	if spread <= 0 {
		return c.minDelay
	}
	return c.minDelay + time.Duration(c.rng.Int63n(int64(spread)+1))
}

// staticController never sleeps and always returns the same agent.
type staticController struct {
	agent string
}

// NewStatic returns a zero-delay Controller for tests and dry runs.
func NewStatic(agent string) Controller {
	if agent == "" {
		agent = defaultUserAgents[0]
	}
	return &staticController{agent: agent}
}

func (c *staticController) Delay(context.Context) {}

func (c *staticController) UserAgent() string { return c.agent }
