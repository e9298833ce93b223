package connector_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3gate/internal/approval"
	"github.com/Mohsinsiddi/w3gate/internal/chainreq"
	"github.com/Mohsinsiddi/w3gate/internal/connector"
	"github.com/Mohsinsiddi/w3gate/internal/network"
)

func TestHandleChainID(t *testing.T) {
	h := newHarness()
	h.active.On("Current", origin).Return(network.Active{ChainID: "0x2105"}, nil).Once()

	res, err := h.o.Handle(context.Background(), connector.Request{Method: connector.MethodChainID, Origin: origin})
	require.NoError(t, err)
	assert.Equal(t, "0x2105", res)
}

func TestHandleDispatchesAddChain(t *testing.T) {
	h := newHarness()
	res, err := h.o.Handle(context.Background(), connector.Request{
		Method: connector.MethodAddEthereumChain,
		Params: []interface{}{"nope"},
		Origin: origin,
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, chainreq.ErrInvalidParams)
}

func TestHandleDispatchesSwitchChain(t *testing.T) {
	h := newHarness()
	h.registry.On("FindByChainID", "0x5").Return(nil)
	_, err := h.o.Handle(context.Background(), connector.Request{
		Method: connector.MethodSwitchEthereumChain,
		Params: switchParams("0x5"),
		Origin: origin,
	})
	assert.ErrorIs(t, err, connector.ErrUnrecognizedChain)
}

func TestHandleUnknownMethod(t *testing.T) {
	h := newHarness()
	_, err := h.o.Handle(context.Background(), connector.Request{Method: "eth_sendTransaction"})
	assert.ErrorIs(t, err, connector.ErrMethodNotFound)
	assert.Equal(t, connector.CodeMethodNotFound, connector.ToRPCError(err).Code)
}

// ---------------------------------------------------------------------------
// ToRPCError
// ---------------------------------------------------------------------------

func TestToRPCError(t *testing.T) {
	assert.Nil(t, connector.ToRPCError(nil))

	_, err := chainreq.Validate([]interface{}{obj{"chainId": "0x1", "bogus": true}}, nil)
	rpcErr := connector.ToRPCError(fmt.Errorf("wrapped: %w", err))
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Equal(t, chainreq.ReasonUnexpectedKeys, rpcErr.Message)
	assert.Equal(t, []string{"bogus"}, rpcErr.Data)

	rejected := connector.ToRPCError(fmt.Errorf("adding chain: %w", approval.ErrUserRejected))
	assert.Equal(t, 4001, rejected.Code)
	assert.Equal(t, "User rejected the request.", rejected.Message)

	internal := connector.ToRPCError(errors.New("disk on fire"))
	assert.Equal(t, -32603, internal.Code)
	assert.Equal(t, "disk on fire", internal.ErrorData())

	passthrough := &connector.RPCError{Code: 4100, Message: "unauthorized"}
	assert.Same(t, passthrough, connector.ToRPCError(passthrough))
	assert.Equal(t, 4100, passthrough.ErrorCode())
	assert.Equal(t, "unauthorized", passthrough.Error())
}
