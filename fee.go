package txbuilder

import (
	"sort"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/gouroboros/ledger/babbage"
	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/gouroboros/ledger/conway"
	"github.com/blinklabs-io/gouroboros/ledger/shelley"

	"github.com/go-cardano/txbuilder/backend"
)

const maxFeeConvergenceIterations = 10

// fakeWitnessCount returns the number of fake VkeyWitnesses a fee estimate
// must account for: one per unique payment key hash among the selected
// inputs. Script-credential inputs contribute no key-hash witness.
func fakeWitnessCount(inputs []common.Utxo) int {
	return len(dedupedPaymentKeyHashes(inputs))
}

func dedupedPaymentKeyHashes(inputs []common.Utxo) []string {
	seen := make(map[string]struct{})
	for _, utxo := range inputs {
		addr := utxo.Output.Address()
		if hash := addr.PaymentKeyHash(); hash != (common.Blake2b224{}) {
			seen[string(hash.Bytes())] = struct{}{}
		}
	}
	hashes := make([]string, 0, len(seen))
	for h := range seen {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	return hashes
}

// buildFakeWitnessSet constructs a ConwayTransactionWitnessSet carrying one
// placeholder VkeyWitness (32-byte pubkey, 64-byte signature) per unique
// deduplicated payment key hash among inputs, in lexicographic order.
func buildFakeWitnessSet(inputs []common.Utxo) conway.ConwayTransactionWitnessSet {
	ws := conway.ConwayTransactionWitnessSet{}
	n := fakeWitnessCount(inputs)
	if n == 0 {
		return ws
	}
	witnesses := make([]common.VkeyWitness, n)
	for i := range witnesses {
		witnesses[i] = common.VkeyWitness{
			Vkey:      make([]byte, 32),
			Signature: make([]byte, 64),
		}
	}
	ws.VkeyWitnesses = cbor.NewSetType(witnesses, true)
	return ws
}

// canonicalInputs returns inputs sorted by (transaction-hash bytes, index)
// ascending, as required for both fee sizing and final assembly.
func canonicalInputs(inputs []common.Utxo) []common.Utxo {
	return SortInputs(inputs)
}

func buildTxInputSet(inputs []common.Utxo) conway.ConwayTransactionInputSet {
	txInputs := make([]shelley.ShelleyTransactionInput, 0, len(inputs))
	for _, utxo := range inputs {
		txInputs = append(txInputs, shelley.ShelleyTransactionInput{
			TxId:        utxo.Id.Id(),
			OutputIndex: utxo.Id.Index(),
		})
	}
	return conway.NewConwayTransactionInputSet(txInputs)
}

// buildCandidateBody assembles a transaction body from canonical inputs,
// the given outputs (declared ++ change, in emission order) and fee.
func buildCandidateBody(inputs []common.Utxo, outputs []babbage.BabbageTransactionOutput, fee int64, networkId uint8) conway.ConwayTransactionBody {
	body := conway.ConwayTransactionBody{
		TxInputs:  buildTxInputSet(canonicalInputs(inputs)),
		TxOutputs: outputs,
		TxFee:     uint64(fee),
	}
	body.TxNetworkId = &networkId
	return body
}

// computeFee runs the bounded fixed-point convergence described for the
// fee calculator: rebuild with the current fee estimate, measure CBOR size,
// derive the next estimate from the linear fee formula, and stop once fee
// and size have both stabilized (or the iteration cap is hit).
func computeFee(
	inputs []common.Utxo,
	outputs []babbage.BabbageTransactionOutput,
	pp backend.ProtocolParameters,
	networkId uint8,
) (int64, error) {
	ws := buildFakeWitnessSet(inputs)

	var fee int64
	prevFee := int64(-1)
	prevSize := -1

	for range maxFeeConvergenceIterations {
		body := buildCandidateBody(inputs, outputs, fee, networkId)
		tx := conway.ConwayTransaction{Body: body, WitnessSet: ws, TxIsValid: true}
		txBytes, err := cbor.Encode(&tx)
		if err != nil {
			return 0, wrapBuildError(ErrInternal, err, "failed to encode candidate transaction for fee estimation")
		}
		size := len(txBytes)
		nextFee := pp.MinFeeCoefficient*int64(size) + pp.MinFeeConstant

		if prevFee == fee && prevSize == size && fee >= nextFee {
			return fee, nil
		}
		prevFee = fee
		prevSize = size
		fee = nextFee
	}
	return fee, nil
}
