package txbuilder

import (
	"github.com/blinklabs-io/gouroboros/ledger/babbage"
	"github.com/blinklabs-io/gouroboros/ledger/common"

	"github.com/go-cardano/txbuilder/backend"
)

// TxOutput is an output under construction: it has no txHash/outputIndex
// because the transaction has not been submitted yet.
type TxOutput struct {
	Address   common.Address
	Assets    AssetBag
	Datum     *common.Datum
	DatumHash []byte
	IsInline  bool
	ScriptRef *common.ScriptRef
}

// NewTxOutput creates a plain address+assets output with no datum or script reference.
func NewTxOutput(addr common.Address, assets AssetBag) TxOutput {
	return TxOutput{Address: addr, Assets: assets}
}

// toBabbageOutput renders a TxOutput into the gouroboros CBOR-encodable type,
// reusing the teacher's NewBabbageOutput/NewDatumOption* primitives.
func (o TxOutput) toBabbageOutput() (babbage.BabbageTransactionOutput, error) {
	val, err := o.Assets.toValue()
	if err != nil {
		return babbage.BabbageTransactionOutput{}, err
	}
	out := NewBabbageOutput(o.Address, val, nil, o.ScriptRef)
	switch {
	case o.IsInline && o.Datum != nil:
		datumOpt, derr := NewDatumOptionInline(o.Datum)
		if derr != nil {
			return out, wrapBuildError(ErrInvalidInput, derr, "failed to inline datum")
		}
		out.DatumOption = datumOpt
	case len(o.DatumHash) == common.Blake2b256Size:
		var hash common.Blake2b256
		copy(hash[:], o.DatumHash)
		datumOpt, derr := NewDatumOptionHash(hash)
		if derr != nil {
			return out, wrapBuildError(ErrInvalidInput, derr, "failed to hash datum")
		}
		out.DatumOption = datumOpt
	}
	return out, nil
}

// UnfrackTokenConfig controls how native tokens are bundled into change outputs.
type UnfrackTokenConfig struct {
	BundleSize        int
	IsolateFungibles  bool
	GroupNftsByPolicy bool
}

// UnfrackAdaConfig controls how residual ADA is subdivided after bundling.
type UnfrackAdaConfig struct {
	SubdivideThreshold    int64
	SubdividePercentages  []int64
}

// UnfrackConfig is the user-facing knob enabling the multi-output change shaping.
type UnfrackConfig struct {
	Tokens UnfrackTokenConfig
	Ada    UnfrackAdaConfig
}

// DefaultUnfrackConfig returns the documented defaults.
func DefaultUnfrackConfig() UnfrackConfig {
	return UnfrackConfig{
		Tokens: UnfrackTokenConfig{BundleSize: 10},
		Ada: UnfrackAdaConfig{
			SubdivideThreshold:   100_000_000,
			SubdividePercentages: []int64{50, 15, 10, 10, 5, 5, 5},
		},
	}
}

// OnInsufficientChange selects the terminal fallback behavior when change
// falls below minimum UTxO and reselection has been exhausted.
type OnInsufficientChange int

const (
	OnInsufficientChangeError OnInsufficientChange = iota
	OnInsufficientChangeBurn
)

// BuildOptions configures a single build() invocation.
type BuildOptions struct {
	CoinSelection        string
	CoinSelectionFunc     CoinSelectionFunc
	ChangeAddress        *common.Address
	AvailableUtxos       []common.Utxo
	ProtocolParameters   *backend.ProtocolParameters
	Unfrack              *UnfrackConfig
	DrainTo              *int
	OnInsufficientChange OnInsufficientChange
}

// TransactionState is created fresh for each build() and discarded after.
type TransactionState struct {
	SelectedInputs    []common.Utxo
	DeclaredOutputs   []TxOutput
	totalInputAssets  AssetBag
	totalOutputAssets AssetBag
}

func newTransactionState() *TransactionState {
	return &TransactionState{totalInputAssets: EmptyAssetBag(), totalOutputAssets: EmptyAssetBag()}
}

// TotalInputAssets returns the cached aggregate of selected input assets.
func (s *TransactionState) TotalInputAssets() AssetBag {
	return s.totalInputAssets
}

// TotalOutputAssets returns the cached aggregate of declared output assets.
func (s *TransactionState) TotalOutputAssets() AssetBag {
	return s.totalOutputAssets
}

func (s *TransactionState) addInputs(utxos []common.Utxo) {
	s.SelectedInputs = append(s.SelectedInputs, utxos...)
	for _, u := range utxos {
		s.totalInputAssets = s.totalInputAssets.AddBag(assetBagFromUtxo(u))
	}
}

func (s *TransactionState) addDeclaredOutput(out TxOutput) {
	s.DeclaredOutputs = append(s.DeclaredOutputs, out)
	s.totalOutputAssets = s.totalOutputAssets.AddBag(out.Assets)
}

// Phase enumerates the balancing state machine's states.
type Phase int

const (
	PhaseSelection Phase = iota
	PhaseChangeCreation
	PhaseFeeCalculation
	PhaseBalance
	PhaseFallback
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseSelection:
		return "Selection"
	case PhaseChangeCreation:
		return "ChangeCreation"
	case PhaseFeeCalculation:
		return "FeeCalculation"
	case PhaseBalance:
		return "Balance"
	case PhaseFallback:
		return "Fallback"
	case PhaseComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

const maxReselectionAttempts = 3

// BuildContext is the state-machine frame threaded through phase functions.
type BuildContext struct {
	Phase                    Phase
	Attempt                  int
	LatestFee                int64
	RequiredLovelaceShortfall int64
	ChangeOutputs            []TxOutput
	CanUnfrack               bool
}

func newBuildContext(canUnfrack bool) *BuildContext {
	return &BuildContext{Phase: PhaseSelection, CanUnfrack: canUnfrack}
}
