package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Mohsinsiddi/w3gate/internal/quantity"
)

// ErrTransport is returned when the RPC endpoint cannot be reached or answers
// with something that is not a JSON-RPC response.
var ErrTransport = errors.New("rpc transport error")

// RPCError is a JSON-RPC error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// IsExecutionError reports whether err is a node-side execution failure
// (revert, out of gas, invalid opcode) rather than a transport problem.
func IsExecutionError(err error) bool {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	// geth answers reverts with code 3; other clients use -32000 and a message.
	if rpcErr.Code == 3 {
		return true
	}
	msg := strings.ToLower(rpcErr.Message)
	return strings.Contains(msg, "revert") || strings.Contains(msg, "execution")
}

// EVMClient is a minimal JSON-RPC client for EVM chains.
type EVMClient struct {
	url    string
	client *http.Client
	nextID atomic.Int64
}

// BlockHeader is the slice of a block the gas estimator needs.
type BlockHeader struct {
	Number   *big.Int
	Hash     string
	GasLimit *big.Int
}

// CallMsg is a transaction to be simulated with eth_estimateGas.
type CallMsg struct {
	From  string
	To    string // empty for contract creation
	Data  string
	Value *big.Int
	Gas   *big.Int
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string, timeout time.Duration) *EVMClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// LatestBlock fetches the latest block header (no transaction bodies).
func (c *EVMClient) LatestBlock(ctx context.Context) (*BlockHeader, error) {
	var rb *struct {
		Number   string `json:"number"`
		Hash     string `json:"hash"`
		GasLimit string `json:"gasLimit"`
	}
	if err := c.call(ctx, &rb, "eth_getBlockByNumber", "latest", false); err != nil {
		return nil, err
	}
	if rb == nil {
		return nil, fmt.Errorf("%w: latest block not found", ErrTransport)
	}
	number, err := quantity.Parse(rb.Number)
	if err != nil {
		return nil, fmt.Errorf("parsing block number: %w", err)
	}
	gasLimit, err := quantity.Parse(rb.GasLimit)
	if err != nil {
		return nil, fmt.Errorf("parsing block gas limit: %w", err)
	}
	return &BlockHeader{Number: number, Hash: rb.Hash, GasLimit: gasLimit}, nil
}

// GetCode returns the bytecode at an address. Empty "0x" means EOA (no code).
func (c *EVMClient) GetCode(ctx context.Context, address string) (string, error) {
	var code string
	if err := c.call(ctx, &code, "eth_getCode", address, "latest"); err != nil {
		return "", err
	}
	return code, nil
}

// EstimateGas asks the node to simulate msg and returns the gas it consumed.
func (c *EVMClient) EstimateGas(ctx context.Context, msg CallMsg) (*big.Int, error) {
	var hex string
	if err := c.call(ctx, &hex, "eth_estimateGas", toCallArg(msg)); err != nil {
		return nil, err
	}
	gas, err := quantity.Parse(hex)
	if err != nil {
		return nil, fmt.Errorf("parsing gas estimate: %w", err)
	}
	return gas, nil
}

// ChainID returns the chain id reported by the endpoint.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	var hex string
	if err := c.call(ctx, &hex, "eth_chainId"); err != nil {
		return nil, err
	}
	return quantity.Parse(hex)
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (*big.Int, error) {
	var hex string
	if err := c.call(ctx, &hex, "eth_blockNumber"); err != nil {
		return nil, err
	}
	return quantity.Parse(hex)
}

// HasCode reports whether a eth_getCode result denotes deployed bytecode.
func HasCode(code string) bool {
	switch strings.TrimSpace(code) {
	case "", "0x", "0x0":
		return false
	}
	return true
}

func toCallArg(msg CallMsg) map[string]interface{} {
	arg := map[string]interface{}{
		"from": msg.From,
	}
	if msg.To != "" {
		arg["to"] = msg.To
	}
	if msg.Data != "" && msg.Data != "0x" {
		arg["data"] = msg.Data
	}
	if msg.Value != nil && msg.Value.Sign() > 0 {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if msg.Gas != nil && msg.Gas.Sign() > 0 {
		arg["gas"] = (*hexutil.Big)(msg.Gas)
	}
	return arg
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

func (c *EVMClient) call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: %s: HTTP %d", ErrTransport, method, resp.StatusCode)
		}
		return fmt.Errorf("%w: parsing response: %v", ErrTransport, err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("parsing %s result: %w", method, err)
	}
	return nil
}
