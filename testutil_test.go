package txbuilder

import (
	"testing"

	"github.com/blinklabs-io/gouroboros/ledger/babbage"
	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/gouroboros/ledger/mary"
	"github.com/blinklabs-io/gouroboros/ledger/shelley"

	"github.com/go-cardano/txbuilder/backend/fixed"
)

// validTestAddrBech32 is a valid bech32 test address with both payment and staking parts.
var validTestAddrBech32 = func() string {
	var raw [57]byte
	raw[0] = 0x00 // type 0 = base address, network 0 = testnet
	raw[1] = 0xAA // payment key hash
	raw[29] = 0xBB // stake key hash
	addr, err := common.NewAddressFromBytes(raw[:])
	if err != nil {
		return ""
	}
	return addr.String()
}()

func testAddress(t *testing.T) common.Address {
	t.Helper()
	addr, err := common.NewAddress(validTestAddrBech32)
	if err != nil {
		t.Fatal(err)
	}
	return addr
}

func setupFixedContext() *fixed.FixedChainContext {
	return fixed.NewEmptyFixedChainContext()
}

func addTestUtxo(fc *fixed.FixedChainContext, addr common.Address, lovelace uint64, txHashByte byte, index uint32) {
	var txHash common.Blake2b256
	txHash[0] = txHashByte

	input := shelley.ShelleyTransactionInput{
		TxId:        txHash,
		OutputIndex: index,
	}
	output := babbage.BabbageTransactionOutput{
		OutputAddress: addr,
		OutputAmount: mary.MaryTransactionOutputValue{
			Amount: lovelace,
		},
	}
	utxo := common.Utxo{
		Id:     input,
		Output: &output,
	}
	fc.AddUtxo(addr, utxo)
}
