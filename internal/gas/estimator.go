package gas

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3gate/internal/chain"
	"github.com/Mohsinsiddi/w3gate/internal/config"
	"github.com/Mohsinsiddi/w3gate/internal/logger"
	"github.com/Mohsinsiddi/w3gate/internal/quantity"
)

// ErrInvalidTransaction is returned when a transaction's addresses are malformed.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Simulation failure classifiers.
const (
	ErrorKeyExecutionReverted = "execution_reverted"
	ErrorKeyRPC               = "rpc_error"
	ErrorKeyTransport         = "transport_error"
)

// Transport is the read-only slice of a node the estimator needs.
type Transport interface {
	LatestBlock(ctx context.Context) (*chain.BlockHeader, error)
	GetCode(ctx context.Context, address string) (string, error)
	EstimateGas(ctx context.Context, msg chain.CallMsg) (*big.Int, error)
}

// Transaction is a pending outgoing transaction.
type Transaction struct {
	From  string
	To    string // empty for contract creation
	Data  string
	Value *big.Int
	Gas   *big.Int

	GasLimitSpecified bool
	SimpleSend        bool
	EstimatedGas      *big.Int
}

// SimulationFailure describes why eth_estimateGas could not produce a value.
type SimulationFailure struct {
	Reason        string
	ErrorKey      string
	BlockNumber   *big.Int
	BlockGasLimit *big.Int
	// FallbackGas is the ceiling the simulation ran with; callers that want to
	// proceed anyway can submit it.
	FallbackGas *big.Int
}

// Estimate is the outcome of Estimator.Estimate. Exactly one of Tx.EstimatedGas
// and SimulationFailure is set.
type Estimate struct {
	Tx                Transaction
	SimulationFailure *SimulationFailure
}

// Failed reports whether the simulation failed.
func (e *Estimate) Failed() bool {
	return e.SimulationFailure != nil
}

// Estimator computes safe gas limits for outgoing transactions.
type Estimator struct {
	transport Transport
	log       *zap.Logger
}

// NewEstimator returns an estimator querying t.
func NewEstimator(t Transport, log *zap.Logger) *Estimator {
	return &Estimator{
		transport: t,
		log:       logger.OrNop(log).With(zap.String("component", "gas")),
	}
}

// Estimate determines the gas limit for tx against the latest block. tx itself
// is never modified; the updated copy is returned in Estimate.Tx.
//
// Transport failures while fetching the block or the recipient's code are
// returned as errors wrapping chain.ErrTransport. A failed simulation is not an
// error: it is reported through Estimate.SimulationFailure and the returned
// transaction keeps the caller's Gas value.
func (e *Estimator) Estimate(ctx context.Context, tx Transaction) (*Estimate, error) {
	if err := validate(tx); err != nil {
		return nil, err
	}
	tx = clone(tx)

	block, err := e.transport.LatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching latest block: %w", asTransportError(err))
	}
	saferLimit := quantity.MulFrac(block.GasLimit, 19, 20)

	var estimate *big.Int
	switch {
	case tx.Gas != nil:
		tx.GasLimitSpecified = true
		estimate = tx.Gas

	case tx.To != "":
		code, err := e.transport.GetCode(ctx, tx.To)
		if err != nil {
			return nil, fmt.Errorf("fetching code at %s: %w", tx.To, asTransportError(err))
		}
		if !chain.HasCode(code) {
			tx.Gas = quantity.FromUint64(config.GasLimitETHTransfer)
			tx.SimpleSend = true
			estimate = tx.Gas
			e.log.Debug("simple send", zap.String("to", tx.To))
			break
		}
		fallthrough

	default:
		estimate, err = e.transport.EstimateGas(ctx, chain.CallMsg{
			From:  tx.From,
			To:    tx.To,
			Data:  tx.Data,
			Value: tx.Value,
			Gas:   saferLimit,
		})
		if err != nil {
			failure := &SimulationFailure{
				Reason:        err.Error(),
				ErrorKey:      classify(err),
				BlockNumber:   block.Number,
				BlockGasLimit: block.GasLimit,
				FallbackGas:   saferLimit,
			}
			e.log.Warn("gas simulation failed",
				zap.String("from", tx.From),
				zap.String("to", tx.To),
				zap.String("error_key", failure.ErrorKey),
				zap.Error(err),
			)
			return &Estimate{Tx: tx, SimulationFailure: failure}, nil
		}
	}

	setGas(&tx, block.GasLimit, estimate)
	e.log.Debug("gas estimated",
		zap.String("gas", quantity.Format(tx.Gas)),
		zap.Bool("specified", tx.GasLimitSpecified),
		zap.Bool("simple_send", tx.SimpleSend),
	)
	return &Estimate{Tx: tx}, nil
}

func setGas(tx *Transaction, blockGasLimit, estimate *big.Int) {
	if tx.GasLimitSpecified || tx.SimpleSend {
		tx.EstimatedGas = new(big.Int).Set(tx.Gas)
		return
	}
	tx.EstimatedGas = new(big.Int).Set(estimate)
	tx.Gas = AddGasBuffer(estimate, blockGasLimit)
}

// AddGasBuffer pads estimate by 50% without exceeding 90% of the block gas
// limit. An estimate already above that ceiling is returned unchanged.
func AddGasBuffer(estimate, blockGasLimit *big.Int) *big.Int {
	upper := quantity.MulFrac(blockGasLimit, 9, 10)
	buffered := quantity.MulFrac(estimate, 3, 2)

	if estimate.Cmp(upper) > 0 {
		return new(big.Int).Set(estimate)
	}
	if buffered.Cmp(upper) < 0 {
		return buffered
	}
	return upper
}

func classify(err error) string {
	switch {
	case chain.IsExecutionError(err):
		return ErrorKeyExecutionReverted
	case errors.Is(err, chain.ErrTransport):
		return ErrorKeyTransport
	default:
		return ErrorKeyRPC
	}
}

func asTransportError(err error) error {
	if errors.Is(err, chain.ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", chain.ErrTransport, err)
}

func validate(tx Transaction) error {
	if !common.IsHexAddress(tx.From) {
		return fmt.Errorf("%w: from address %q", ErrInvalidTransaction, tx.From)
	}
	if tx.To != "" && !common.IsHexAddress(tx.To) {
		return fmt.Errorf("%w: to address %q", ErrInvalidTransaction, tx.To)
	}
	return nil
}

func clone(tx Transaction) Transaction {
	cp := tx
	cp.Gas = copyBig(tx.Gas)
	cp.Value = copyBig(tx.Value)
	cp.EstimatedGas = copyBig(tx.EstimatedGas)
	return cp
}

func copyBig(n *big.Int) *big.Int {
	if n == nil {
		return nil
	}
	return new(big.Int).Set(n)
}
