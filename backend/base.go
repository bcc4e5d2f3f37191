package backend

import (
	"strconv"

	"github.com/blinklabs-io/gouroboros/ledger/common"
)

// ChainContext is the collaborator the balancing engine drives: the minimum
// surface BuildDriver needs to resolve protocol parameters, fetch a wallet's
// UTxO set, resolve the active network, and submit the finished transaction.
// Concrete implementations (fixed fixtures, node/indexer clients) live in
// their own packages under backend/.
type ChainContext interface {
	ProtocolParams() (ProtocolParameters, error)
	Utxos(address common.Address) ([]common.Utxo, error)
	NetworkId() uint8
	SubmitTx(txCbor []byte) (common.Blake2b256, error)
}

// ProtocolParameters holds the subset of current Cardano protocol parameters
// the balancing engine reads: fee coefficients for FeeCalculator, the max
// transaction size for the final size check, and the per-byte UTxO cost for
// MinUtxoCalculator.
type ProtocolParameters struct {
	MinFeeConstant    int64  `json:"min_fee_b"`
	MinFeeCoefficient int64  `json:"min_fee_a"`
	MaxTxSize         int    `json:"max_tx_size"`
	CoinsPerUtxoByte  string `json:"coins_per_utxo_byte"`
}

// CoinsPerUtxoByteValue returns the coins per UTxO byte value parsed from the string field.
func (p ProtocolParameters) CoinsPerUtxoByteValue() int64 {
	if p.CoinsPerUtxoByte != "" {
		v, err := strconv.ParseInt(p.CoinsPerUtxoByte, 10, 64)
		if err == nil {
			return v
		}
	}
	return 4310 // default fallback
}
