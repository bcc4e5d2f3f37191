package txbuilder

import (
	"github.com/blinklabs-io/gouroboros/ledger/common"

	"github.com/go-cardano/txbuilder/backend"
)

// BuildDriver resolves the collaborators a build needs (protocol parameters,
// a change address, spendable UTxOs) from either explicit BuildOptions
// overrides or its bound Context/Wallet, then drives a fresh TransactionState
// through the balancing machine on every Build() call.
type BuildDriver struct {
	Context backend.ChainContext
	Wallet  Wallet
}

// NewBuildDriver binds a driver to a chain context and wallet. Either may be
// nil if every build supplies its own overrides via BuildOptions.
func NewBuildDriver(ctx backend.ChainContext, wallet Wallet) *BuildDriver {
	return &BuildDriver{Context: ctx, Wallet: wallet}
}

// NewRecorder starts a new, empty OperationRecorder bound to this driver.
func (d *BuildDriver) NewRecorder() *OperationRecorder {
	return NewOperationRecorder(d)
}

func (d *BuildDriver) resolveProtocolParameters(opts BuildOptions) (backend.ProtocolParameters, error) {
	if opts.ProtocolParameters != nil {
		return *opts.ProtocolParameters, nil
	}
	if d.Context == nil {
		return backend.ProtocolParameters{}, newBuildError(ErrBadConfiguration, "no ProtocolParameters supplied and driver has no chain context")
	}
	pp, err := d.Context.ProtocolParams()
	if err != nil {
		return backend.ProtocolParameters{}, wrapBuildError(ErrBadConfiguration, err, "failed to fetch protocol parameters")
	}
	return pp, nil
}

func (d *BuildDriver) resolveChangeAddress(opts BuildOptions) (common.Address, error) {
	if opts.ChangeAddress != nil {
		return *opts.ChangeAddress, nil
	}
	if d.Wallet == nil {
		return common.Address{}, newBuildError(ErrBadConfiguration, "no ChangeAddress supplied and driver has no wallet")
	}
	return d.Wallet.Address(), nil
}

func (d *BuildDriver) resolveAvailableUtxos(opts BuildOptions, changeAddr common.Address) ([]common.Utxo, error) {
	if opts.AvailableUtxos != nil {
		return opts.AvailableUtxos, nil
	}
	if d.Context == nil {
		return nil, newBuildError(ErrBadConfiguration, "no AvailableUtxos supplied and driver has no chain context")
	}
	utxos, err := d.Context.Utxos(changeAddr)
	if err != nil {
		return nil, wrapBuildError(ErrBadConfiguration, err, "failed to fetch available UTxOs")
	}
	return utxos, nil
}

func (d *BuildDriver) resolveNetworkId(opts BuildOptions) uint8 {
	if d.Context != nil {
		return d.Context.NetworkId()
	}
	return 0
}

// build plays ops against a fresh TransactionState and drives the balancing
// machine. Each call is independent: no state is shared across calls, even
// on the same recorder.
func (d *BuildDriver) build(ops []operation, opts BuildOptions) (*BuiltTransaction, error) {
	pp, err := d.resolveProtocolParameters(opts)
	if err != nil {
		return nil, err
	}
	changeAddr, err := d.resolveChangeAddress(opts)
	if err != nil {
		return nil, err
	}
	available, err := d.resolveAvailableUtxos(opts, changeAddr)
	if err != nil {
		return nil, err
	}
	selectFn, err := resolveCoinSelection(opts)
	if err != nil {
		return nil, err
	}
	networkId := d.resolveNetworkId(opts)

	state := newTransactionState()
	for _, op := range ops {
		if err := op.apply(state); err != nil {
			return nil, err
		}
	}
	if len(state.DeclaredOutputs) == 0 {
		return nil, newBuildError(ErrInvalidInput, "no payments declared")
	}

	ctx := newBuildContext(opts.Unfrack != nil)
	return runMachine(state, ctx, available, pp, changeAddr, opts, networkId, selectFn)
}
