package txbuilder

import (
	"math/big"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/gouroboros/ledger/babbage"
	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/gouroboros/ledger/conway"

	"github.com/go-cardano/txbuilder/backend"
)

// BuiltTransaction is the outcome of a successful build(): the assembled
// transaction (empty real witness set, since real signing is out of scope),
// the fee that was converged on, the canonical input list, and a parallel
// view carrying the fake witness set used during fee validation.
type BuiltTransaction struct {
	Body           conway.ConwayTransactionBody
	Fee            int64
	SelectedInputs []common.Utxo
	Outputs        []babbage.BabbageTransactionOutput
	FakeWitnessTx  conway.ConwayTransaction
}

func filterAvailable(available []common.Utxo, selected []common.Utxo) []common.Utxo {
	used := make(map[string]struct{}, len(selected))
	for _, u := range selected {
		used[coinSelectionRef(u)] = struct{}{}
	}
	out := make([]common.Utxo, 0, len(available))
	for _, u := range available {
		if _, ok := used[coinSelectionRef(u)]; ok {
			continue
		}
		out = append(out, u)
	}
	return out
}

func outputsToBabbage(outputs []TxOutput) ([]babbage.BabbageTransactionOutput, error) {
	result := make([]babbage.BabbageTransactionOutput, 0, len(outputs))
	for _, o := range outputs {
		bo, err := o.toBabbageOutput()
		if err != nil {
			return nil, err
		}
		result = append(result, bo)
	}
	return result, nil
}

func sumOutputAssets(outputs []TxOutput) AssetBag {
	total := EmptyAssetBag()
	for _, o := range outputs {
		total = total.AddBag(o.Assets)
	}
	return total
}

// runMachine drives the balancing state machine described for BuildDriver:
// Selection -> ChangeCreation -> FeeCalculation -> Balance -> (Fallback) -> Complete.
func runMachine(
	state *TransactionState,
	ctx *BuildContext,
	available []common.Utxo,
	pp backend.ProtocolParameters,
	changeAddr common.Address,
	opts BuildOptions,
	networkId uint8,
	selectFn CoinSelectionFunc,
) (*BuiltTransaction, error) {
	coinsPerUtxoByte := pp.CoinsPerUtxoByteValue()

	for {
		switch ctx.Phase {

		case PhaseSelection:
			declaredTotal := state.TotalOutputAssets()
			need := declaredTotal.Clone()
			if ctx.RequiredLovelaceShortfall > 0 {
				need[LovelaceUnit] = new(big.Int).Add(need.Lovelace(), big.NewInt(ctx.RequiredLovelaceShortfall))
			}
			delta := need.Subtract(state.TotalInputAssets())
			shortfalls := delta.FilterPositive()

			if shortfalls.IsEmpty() && ctx.RequiredLovelaceShortfall == 0 {
				ctx.Phase = PhaseChangeCreation
				continue
			}

			target := shortfalls
			if ctx.Attempt > 0 && ctx.RequiredLovelaceShortfall > 0 && shortfalls.IsEmpty() {
				target = AssetBag{LovelaceUnit: big.NewInt(ctx.RequiredLovelaceShortfall)}
			}

			remaining := filterAvailable(available, state.SelectedInputs)
			selected, err := selectFn(remaining, target)
			if err != nil {
				return nil, err
			}
			state.addInputs(selected)
			ctx.Attempt++
			ctx.RequiredLovelaceShortfall = 0
			ctx.Phase = PhaseChangeCreation

		case PhaseChangeCreation:
			totalIn := state.TotalInputAssets()
			totalOut := state.TotalOutputAssets()
			tentative := totalIn.Subtract(totalOut)
			tentative[LovelaceUnit] = new(big.Int).Sub(tentative.Lovelace(), big.NewInt(ctx.LatestFee))

			if tentative.Lovelace().Sign() < 0 {
				ctx.RequiredLovelaceShortfall = new(big.Int).Neg(tentative.Lovelace()).Int64()
				ctx.ChangeOutputs = nil
				ctx.Phase = PhaseSelection
				continue
			}

			positiveLeftover := tentative.FilterPositive()
			singleOut := TxOutput{Address: changeAddr, Assets: positiveLeftover}
			minSingle, err := minLovelace(singleOut, coinsPerUtxoByte)
			if err != nil {
				return nil, err
			}

			remaining := filterAvailable(available, state.SelectedInputs)

			if tentative.Lovelace().Int64() < minSingle {
				if tentative.HasNativeAssets() {
					if ctx.Attempt < maxReselectionAttempts && len(remaining) > 0 {
						ctx.RequiredLovelaceShortfall = minSingle - tentative.Lovelace().Int64()
						ctx.Phase = PhaseSelection
						continue
					}
					return nil, newBuildError(ErrNativeAssetLocked,
						"Native assets present in change but only %d lovelace available, need %d (include the assets in a payment, add lovelace, or reduce outputs)",
						tentative.Lovelace().Int64(), minSingle)
				}
				if ctx.Attempt < maxReselectionAttempts && len(remaining) > 0 {
					ctx.RequiredLovelaceShortfall = minSingle - tentative.Lovelace().Int64()
					ctx.Phase = PhaseSelection
					continue
				}
				if opts.DrainTo != nil || opts.OnInsufficientChange == OnInsufficientChangeBurn {
					ctx.ChangeOutputs = nil
					ctx.Phase = PhaseFallback
					continue
				}
				return nil, newBuildError(ErrInsufficientChange,
					"change of %d lovelace falls below minimum UTxO of %d (add funds, set drainTo, or opt into onInsufficientChange=\"burn\")",
					tentative.Lovelace().Int64(), minSingle)
			}

			if opts.Unfrack != nil && ctx.CanUnfrack && tentative.HasNativeAssets() {
				result, uerr := planUnfrack(positiveLeftover, changeAddr, *opts.Unfrack, coinsPerUtxoByte)
				if uerr != nil {
					return nil, uerr
				}
				if result.Feasible {
					ctx.ChangeOutputs = result.Outputs
					ctx.Phase = PhaseFeeCalculation
					continue
				}
				ctx.CanUnfrack = false
			}

			ctx.ChangeOutputs = []TxOutput{singleOut}
			ctx.Phase = PhaseFeeCalculation

		case PhaseFeeCalculation:
			allOutputs := make([]TxOutput, 0, len(state.DeclaredOutputs)+len(ctx.ChangeOutputs))
			allOutputs = append(allOutputs, state.DeclaredOutputs...)
			allOutputs = append(allOutputs, ctx.ChangeOutputs...)
			babbageOutputs, err := outputsToBabbage(allOutputs)
			if err != nil {
				return nil, err
			}
			newFee, err := computeFee(state.SelectedInputs, babbageOutputs, pp, networkId)
			if err != nil {
				return nil, err
			}
			ctx.LatestFee = newFee
			ctx.Phase = PhaseBalance

		case PhaseBalance:
			totalIn := state.TotalInputAssets()
			totalDeclared := state.TotalOutputAssets()
			totalChange := sumOutputAssets(ctx.ChangeOutputs)
			delta := totalIn.Subtract(totalDeclared.AddBag(totalChange))
			delta[LovelaceUnit] = new(big.Int).Sub(delta.Lovelace(), big.NewInt(ctx.LatestFee))

			nativeNonZero := false
			for _, u := range delta.NativeUnits() {
				if delta.Get(u).Sign() != 0 {
					nativeNonZero = true
					break
				}
			}
			// also check negative native components, not just positive ones
			for u, v := range delta {
				if u != LovelaceUnit && v.Sign() != 0 {
					nativeNonZero = true
				}
			}

			switch {
			case delta.Lovelace().Sign() == 0 && !nativeNonZero:
				ctx.Phase = PhaseComplete
			case nativeNonZero:
				return nil, newBuildError(ErrInternal, "native asset delta non-zero after balancing: planner or selector invariant violated")
			case delta.Lovelace().Sign() > 0:
				if len(ctx.ChangeOutputs) == 0 && opts.DrainTo != nil {
					idx := *opts.DrainTo
					if idx < 0 || idx >= len(state.DeclaredOutputs) {
						return nil, newBuildError(ErrInternal, "drainTo index %d out of range", idx)
					}
					out := state.DeclaredOutputs[idx]
					out.Assets = out.Assets.Clone()
					out.Assets[LovelaceUnit] = new(big.Int).Add(out.Assets.Lovelace(), delta.Lovelace())
					state.DeclaredOutputs[idx] = out
					state.totalOutputAssets = sumOutputAssets(state.DeclaredOutputs)
					ctx.Phase = PhaseComplete
				} else if len(ctx.ChangeOutputs) == 0 && opts.OnInsufficientChange == OnInsufficientChangeBurn {
					ctx.Phase = PhaseComplete
				} else {
					return nil, newBuildError(ErrInternal, "positive balance delta of %d lovelace outside burn/drain modes", delta.Lovelace().Int64())
				}
			default:
				ctx.Phase = PhaseChangeCreation
			}

		case PhaseFallback:
			ctx.ChangeOutputs = nil
			ctx.Phase = PhaseFeeCalculation

		case PhaseComplete:
			allOutputs := make([]TxOutput, 0, len(state.DeclaredOutputs)+len(ctx.ChangeOutputs))
			allOutputs = append(allOutputs, state.DeclaredOutputs...)
			allOutputs = append(allOutputs, ctx.ChangeOutputs...)
			babbageOutputs, err := outputsToBabbage(allOutputs)
			if err != nil {
				return nil, err
			}
			inputs := canonicalInputs(state.SelectedInputs)
			body := buildCandidateBody(inputs, babbageOutputs, ctx.LatestFee, networkId)

			fakeWs := buildFakeWitnessSet(inputs)
			fakeTx := conway.ConwayTransaction{Body: body, WitnessSet: fakeWs, TxIsValid: true}
			txBytes, err := cbor.Encode(&fakeTx)
			if err != nil {
				return nil, wrapBuildError(ErrInternal, err, "failed to encode final transaction")
			}
			if pp.MaxTxSize > 0 && len(txBytes) > pp.MaxTxSize {
				return nil, newBuildError(ErrTransactionTooLarge,
					"transaction size %d exceeds maxTxSize %d", len(txBytes), pp.MaxTxSize)
			}

			return &BuiltTransaction{
				Body:           body,
				Fee:            ctx.LatestFee,
				SelectedInputs: inputs,
				Outputs:        babbageOutputs,
				FakeWitnessTx:  fakeTx,
			}, nil
		}
	}
}
