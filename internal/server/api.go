package server

import (
	"context"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/Mohsinsiddi/w3gate/internal/connector"
)

// LocalOrigin is used for callers that send no Origin header.
const LocalOrigin = "local"

// Handler executes dApp requests.
type Handler interface {
	Handle(ctx context.Context, req connector.Request) (interface{}, error)
}

// WalletAPI serves the wallet_ namespace.
type WalletAPI struct {
	h Handler
}

// AddEthereumChain serves wallet_addEthereumChain.
func (api *WalletAPI) AddEthereumChain(ctx context.Context, param *interface{}) (interface{}, error) {
	return call(ctx, api.h, connector.MethodAddEthereumChain, param)
}

// SwitchEthereumChain serves wallet_switchEthereumChain.
func (api *WalletAPI) SwitchEthereumChain(ctx context.Context, param *interface{}) (interface{}, error) {
	return call(ctx, api.h, connector.MethodSwitchEthereumChain, param)
}

// EthAPI serves the eth_ methods the gateway answers itself.
type EthAPI struct {
	h Handler
}

// ChainId serves eth_chainId.
func (api *EthAPI) ChainId(ctx context.Context) (interface{}, error) {
	return call(ctx, api.h, connector.MethodChainID, nil)
}

func call(ctx context.Context, h Handler, method string, param *interface{}) (interface{}, error) {
	params := []interface{}{}
	if param != nil {
		params = append(params, *param)
	}
	res, err := h.Handle(ctx, connector.Request{
		Method: method,
		Params: params,
		Origin: originFrom(ctx),
	})
	if err != nil {
		return nil, connector.ToRPCError(err)
	}
	return res, nil
}

func originFrom(ctx context.Context) string {
	if origin := rpc.PeerInfoFromContext(ctx).HTTP.Origin; origin != "" {
		return origin
	}
	return LocalOrigin
}
