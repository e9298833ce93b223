package connector

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3gate/internal/approval"
	"github.com/Mohsinsiddi/w3gate/internal/chainreq"
	"github.com/Mohsinsiddi/w3gate/internal/logger"
	"github.com/Mohsinsiddi/w3gate/internal/network"
)

// Registry is the network registry the orchestrator reads and writes.
type Registry interface {
	FindByChainID(chainID string) *network.Configuration
	Upsert(cfg network.Configuration, prov network.Provenance) (string, error)
}

// ActiveState tracks the selected network per origin.
type ActiveState interface {
	Current(origin string) (network.Active, error)
	SetActive(origin, configID string) error
}

// Approvals asks the user for consent.
type Approvals interface {
	StartFlow() string
	EndFlow(id string)
	RequestApproval(ctx context.Context, flowID string, typ approval.Type, origin string, fields [][2]string) error
}

// outcome is how the user answered one approval step.
type outcome int

const (
	outcomeApproved outcome = iota
	outcomeRejected
)

// Orchestrator applies chain add and switch requests coming from dApps.
type Orchestrator struct {
	registry  Registry
	active    ActiveState
	approvals Approvals
	log       *zap.Logger
}

// NewOrchestrator wires an orchestrator. A nil logger disables logging.
func NewOrchestrator(registry Registry, active ActiveState, approvals Approvals, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		active:    active,
		approvals: approvals,
		log:       logger.OrNop(log).With(zap.String("component", "connector")),
	}
}

// AddChain handles wallet_addEthereumChain for origin.
//
// Invalid params fail before the user is involved. A chain already registered
// with the same RPC URL only needs a switch; otherwise the user approves the
// addition and then, separately, the switch. Declining the addition fails the
// request; declining the switch does not.
func (o *Orchestrator) AddChain(ctx context.Context, params []interface{}, origin string) error {
	req, err := chainreq.Validate(params, o.registry)
	if err != nil {
		o.log.Debug("add chain rejected", zap.String("origin", origin), zap.Error(err))
		return err
	}
	log := o.log.With(zap.String("origin", origin), zap.String("chain_id", req.ChainID))

	existing := o.registry.FindByChainID(req.ChainID)
	if existing != nil && existing.RPCURL == req.RPCURL {
		current, err := o.active.Current(origin)
		if err != nil {
			return fmt.Errorf("reading active network: %w", err)
		}
		if current.ChainID == req.ChainID && current.RPCURL == req.RPCURL {
			log.Debug("network already active")
			return nil
		}
		log.Debug("network already registered", zap.String("network", existing.ID))
		return o.switchTo(ctx, "", origin, *existing, log)
	}

	flowID := o.approvals.StartFlow()
	defer o.approvals.EndFlow(flowID)

	res, err := o.approve(ctx, flowID, approval.TypeAddChain, origin, addFields(req))
	if err != nil {
		return err
	}
	if res == outcomeRejected {
		log.Info("add chain declined")
		return fmt.Errorf("adding chain %s: %w", req.ChainID, approval.ErrUserRejected)
	}

	cfg := network.Configuration{
		ChainID:          req.ChainID,
		Nickname:         req.ChainName,
		RPCURL:           req.RPCURL,
		Ticker:           req.Ticker,
		BlockExplorerURL: req.BlockExplorerURL,
	}
	cfg.ID, err = o.registry.Upsert(cfg, network.Provenance{Source: network.SourceDapp, Referrer: origin})
	if err != nil {
		return fmt.Errorf("saving network: %w", err)
	}
	log.Info("network added", zap.String("network", cfg.ID), zap.String("rpc_url", cfg.RPCURL))

	return o.switchTo(ctx, flowID, origin, cfg, log)
}

// switchTo asks to make cfg active for origin. A declined switch is not an
// error here.
func (o *Orchestrator) switchTo(ctx context.Context, flowID, origin string, cfg network.Configuration, log *zap.Logger) error {
	res, err := o.approve(ctx, flowID, approval.TypeSwitchChain, origin, switchFields(cfg))
	if err != nil {
		return err
	}
	if res == outcomeRejected {
		log.Warn("switch declined", zap.String("network", cfg.ID))
		return nil
	}
	return o.activate(origin, cfg, log)
}

// SwitchChain handles wallet_switchEthereumChain for origin. Unlike the switch
// step of AddChain, a declined switch fails the request.
func (o *Orchestrator) SwitchChain(ctx context.Context, params []interface{}, origin string) error {
	chainID, err := chainreq.ValidateSwitch(params)
	if err != nil {
		return err
	}
	log := o.log.With(zap.String("origin", origin), zap.String("chain_id", chainID))

	cfg := o.registry.FindByChainID(chainID)
	if cfg == nil {
		return fmt.Errorf("%w %s: add it with wallet_addEthereumChain first", ErrUnrecognizedChain, chainID)
	}

	current, err := o.active.Current(origin)
	if err != nil {
		return fmt.Errorf("reading active network: %w", err)
	}
	if current.ChainID == chainID {
		log.Debug("network already active")
		return nil
	}

	res, err := o.approve(ctx, "", approval.TypeSwitchChain, origin, switchFields(*cfg))
	if err != nil {
		return err
	}
	if res == outcomeRejected {
		log.Info("switch declined", zap.String("network", cfg.ID))
		return fmt.Errorf("switching to chain %s: %w", chainID, approval.ErrUserRejected)
	}
	return o.activate(origin, *cfg, log)
}

// ChainID returns the active chain id for origin.
func (o *Orchestrator) ChainID(origin string) (string, error) {
	current, err := o.active.Current(origin)
	if err != nil {
		return "", fmt.Errorf("reading active network: %w", err)
	}
	return current.ChainID, nil
}

func (o *Orchestrator) approve(ctx context.Context, flowID string, typ approval.Type, origin string, fields [][2]string) (outcome, error) {
	err := o.approvals.RequestApproval(ctx, flowID, typ, origin, fields)
	switch {
	case err == nil:
		return outcomeApproved, nil
	case errors.Is(err, approval.ErrUserRejected):
		return outcomeRejected, nil
	default:
		return outcomeRejected, fmt.Errorf("requesting %s approval: %w", typ, err)
	}
}

func (o *Orchestrator) activate(origin string, cfg network.Configuration, log *zap.Logger) error {
	if err := o.active.SetActive(origin, cfg.ID); err != nil {
		if !errors.Is(err, network.ErrActivation) {
			err = fmt.Errorf("%w: %w", network.ErrActivation, err)
		}
		return err
	}
	log.Info("network activated", zap.String("network", cfg.ID))
	return nil
}

func addFields(req *chainreq.Request) [][2]string {
	fields := [][2]string{
		{"Network name", req.ChainName},
		{"Chain ID", fmt.Sprintf("%s (%d)", req.ChainID, req.ChainIDInt)},
		{"Currency symbol", req.Ticker},
		{"Network URL", req.RPCURL},
	}
	if req.BlockExplorerURL != "" {
		fields = append(fields, [2]string{"Block explorer URL", req.BlockExplorerURL})
	}
	if len(req.IconURLs) > 0 {
		fields = append(fields, [2]string{"Icon", req.IconURLs[0]})
	}
	return fields
}

func switchFields(cfg network.Configuration) [][2]string {
	return [][2]string{
		{"Network name", cfg.Nickname},
		{"Chain ID", cfg.ChainID},
		{"Network URL", cfg.RPCURL},
	}
}
