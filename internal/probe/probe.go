package probe

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Mohsinsiddi/w3gate/internal/chain"
	"github.com/Mohsinsiddi/w3gate/internal/quantity"
)

// ErrChainMismatch is returned when an endpoint serves a different chain than
// the one it is registered for.
var ErrChainMismatch = errors.New("endpoint serves a different chain")

// Target is one registered endpoint to check.
type Target struct {
	Name    string
	ChainID string // canonical hex the endpoint is registered under
	URL     string
}

// Result is the outcome of probing one Target.
type Result struct {
	Target
	Reported string // chain id reported by eth_chainId
	Block    *big.Int
	Latency  time.Duration
	Err      error
}

// Healthy reports whether the endpoint answered for the right chain.
func (r Result) Healthy() bool {
	return r.Err == nil
}

// Check asks t.URL for its chain id and head block.
func Check(ctx context.Context, t Target, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res := Result{Target: t}
	c := chain.NewEVMClient(t.URL, timeout)

	start := time.Now()
	id, err := c.ChainID(ctx)
	res.Latency = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	res.Reported = quantity.Format(id)

	if res.Block, err = c.BlockNumber(ctx); err != nil {
		res.Err = err
		return res
	}
	if res.Reported != t.ChainID {
		res.Err = fmt.Errorf("%w: got %s, registered as %s", ErrChainMismatch, res.Reported, t.ChainID)
	}
	return res
}

// All probes every target in parallel. Results keep the order of targets.
func All(ctx context.Context, targets []Target, timeout time.Duration) []Result {
	results := make([]Result, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(idx int, t Target) {
			defer wg.Done()
			results[idx] = Check(ctx, t, timeout)
		}(i, t)
	}
	wg.Wait()
	return results
}
