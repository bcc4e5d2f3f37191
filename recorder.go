package txbuilder

import (
	"github.com/blinklabs-io/gouroboros/ledger/common"
)

// PaymentParams describes a declared output to be recorded by addPayment.
type PaymentParams struct {
	Address   string
	Assets    AssetBag
	Datum     *common.Datum
	DatumHash []byte
	IsInline  bool
	ScriptRef *common.ScriptRef
}

// InputParams describes one or more explicit inputs to be recorded by addInput.
type InputParams struct {
	Inputs      []common.Utxo
	HasRedeemer bool
}

// operation is a deferred, replayable mutation of a fresh TransactionState.
// Closures capture their parameters by value at record time; nothing here
// holds a reference to mutable state outside its own params.
type operation interface {
	apply(state *TransactionState) error
}

type opPayment struct{ params PaymentParams }

func (o opPayment) apply(state *TransactionState) error {
	addr, err := common.NewAddress(o.params.Address)
	if err != nil {
		return wrapBuildError(ErrInvalidInput, err, "invalid payment address %q", o.params.Address)
	}
	state.addDeclaredOutput(TxOutput{
		Address:   addr,
		Assets:    o.params.Assets,
		Datum:     o.params.Datum,
		DatumHash: o.params.DatumHash,
		IsInline:  o.params.IsInline,
		ScriptRef: o.params.ScriptRef,
	})
	return nil
}

type opInput struct{ params InputParams }

func (o opInput) apply(state *TransactionState) error {
	if len(o.params.Inputs) == 0 {
		return newBuildError(ErrInvalidInput, "addInput requires at least one UTxO")
	}
	for _, utxo := range o.params.Inputs {
		if isScriptLocked(utxo) && !o.params.HasRedeemer {
			return newBuildError(ErrInvalidInput, "script-locked input %s requires a redeemer", coinSelectionRef(utxo))
		}
	}
	state.addInputs(o.params.Inputs)
	return nil
}

// isScriptLocked reports whether a UTxO's payment credential is a script
// hash rather than a key hash. Script execution is out of scope for this
// engine; addInput only validates that a redeemer was supplied, it does not
// evaluate one.
func isScriptLocked(utxo common.Utxo) bool {
	addr := utxo.Output.Address()
	return addr.PaymentKeyHash() == (common.Blake2b224{})
}

// OperationRecorder accumulates deferred operations. It holds no build
// state itself: every call to Build() plays the recorded operations against
// a brand-new TransactionState, so two Build() calls never share state.
type OperationRecorder struct {
	driver *BuildDriver
	ops    []operation
}

// NewOperationRecorder creates a recorder bound to a BuildDriver.
func NewOperationRecorder(driver *BuildDriver) *OperationRecorder {
	return &OperationRecorder{driver: driver}
}

// AddPayment records a declared output. The address is validated lazily at
// build time (replay), not at record time.
func (r *OperationRecorder) AddPayment(params PaymentParams) *OperationRecorder {
	r.ops = append(r.ops, opPayment{params: params})
	return r
}

// AddInput records one or more explicit inputs.
func (r *OperationRecorder) AddInput(params InputParams) *OperationRecorder {
	r.ops = append(r.ops, opInput{params: params})
	return r
}

// Build plays every recorded operation against fresh state and drives the
// balancing machine to completion. Calling Build() multiple times on the
// same recorder yields independent-but-equal results.
func (r *OperationRecorder) Build(opts BuildOptions) (*BuiltTransaction, error) {
	return r.driver.build(r.ops, opts)
}
