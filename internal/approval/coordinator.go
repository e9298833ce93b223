package approval

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3gate/internal/logger"
)

// errors
var (
	ErrUserRejected = errors.New("user rejected the request")
	ErrUnknownFlow  = errors.New("unknown approval flow")
)

// Type identifies what the user is asked to approve.
type Type string

const (
	TypeAddChain    Type = "add_chain"
	TypeSwitchChain Type = "switch_chain"
)

// Request is a single approval prompt.
type Request struct {
	ID     string
	FlowID string // empty when the prompt is not part of a flow
	Type   Type
	Origin string
	Fields [][2]string // label/value pairs shown to the user
}

// Prompter asks the user to approve or reject a request.
type Prompter interface {
	Prompt(ctx context.Context, req Request) (bool, error)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(ctx context.Context, req Request) (bool, error)

// Prompt calls f.
func (f PromptFunc) Prompt(ctx context.Context, req Request) (bool, error) {
	return f(ctx, req)
}

// Always returns a Prompter that answers every request with approve.
func Always(approve bool) Prompter {
	return PromptFunc(func(context.Context, Request) (bool, error) {
		return approve, nil
	})
}

// Coordinator presents approval requests one at a time and tracks multi-step
// approval flows.
type Coordinator struct {
	prompter Prompter
	log      *zap.Logger

	// slot holds a token while a prompt is on screen.
	slot chan struct{}

	mu    sync.Mutex
	flows map[string]struct{}
}

// NewCoordinator returns a coordinator presenting requests through p.
func NewCoordinator(p Prompter, log *zap.Logger) *Coordinator {
	return &Coordinator{
		prompter: p,
		log:      logger.OrNop(log).With(zap.String("component", "approval")),
		slot:     make(chan struct{}, 1),
		flows:    make(map[string]struct{}),
	}
}

// StartFlow opens an approval flow and returns its ID.
func (c *Coordinator) StartFlow() string {
	id := uuid.New().String()
	c.mu.Lock()
	c.flows[id] = struct{}{}
	c.mu.Unlock()
	c.log.Debug("flow started", zap.String("flow", id))
	return id
}

// EndFlow closes a flow. Ending an unknown flow is a no-op.
func (c *Coordinator) EndFlow(id string) {
	c.mu.Lock()
	delete(c.flows, id)
	c.mu.Unlock()
	c.log.Debug("flow ended", zap.String("flow", id))
}

// ActiveFlows returns the number of open flows.
func (c *Coordinator) ActiveFlows() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.flows)
}

// RequestApproval blocks until the user answers. It returns nil on approval
// and an error wrapping ErrUserRejected on rejection. If ctx ends first, the
// request is resolved as a rejection as well.
func (c *Coordinator) RequestApproval(ctx context.Context, flowID string, typ Type, origin string, fields [][2]string) error {
	if flowID != "" {
		c.mu.Lock()
		_, ok := c.flows[flowID]
		c.mu.Unlock()
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFlow, flowID)
		}
	}

	req := Request{
		ID:     uuid.New().String(),
		FlowID: flowID,
		Type:   typ,
		Origin: origin,
		Fields: fields,
	}
	log := c.log.With(zap.String("request", req.ID), zap.String("type", string(typ)), zap.String("origin", origin))

	select {
	case c.slot <- struct{}{}:
	case <-ctx.Done():
		log.Debug("caller went away while queued")
		return fmt.Errorf("%w: %w", ErrUserRejected, ctx.Err())
	}
	defer func() { <-c.slot }()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUserRejected, err)
	}

	approved, err := c.prompter.Prompt(ctx, req)
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Debug("caller went away during prompt")
		return fmt.Errorf("%w: %w", ErrUserRejected, ctxErr)
	}
	if err != nil {
		return fmt.Errorf("approval prompt: %w", err)
	}
	if !approved {
		log.Info("request rejected")
		return ErrUserRejected
	}
	log.Info("request approved")
	return nil
}
