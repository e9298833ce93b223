package connector

import (
	"context"
	"fmt"
)

// RPC methods served by Handle.
const (
	MethodAddEthereumChain    = "wallet_addEthereumChain"
	MethodSwitchEthereumChain = "wallet_switchEthereumChain"
	MethodChainID             = "eth_chainId"
)

// Request is an inbound dApp call.
type Request struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
	Origin string        `json:"origin"`
}

// Handle dispatches req by method name. Successful chain mutations return a
// nil result.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (interface{}, error) {
	switch req.Method {
	case MethodAddEthereumChain:
		return nil, o.AddChain(ctx, req.Params, req.Origin)
	case MethodSwitchEthereumChain:
		return nil, o.SwitchChain(ctx, req.Params, req.Origin)
	case MethodChainID:
		return o.ChainID(req.Origin)
	default:
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, req.Method)
	}
}
