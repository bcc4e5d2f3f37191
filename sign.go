package txbuilder

import (
	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/gouroboros/ledger/conway"

	"github.com/go-cardano/txbuilder/backend"
)

// Sign witnesses a BuiltTransaction's body with wallet, appending a
// VkeyWitness to the real (non-fake) witness set and returning a ready-to-
// submit ConwayTransaction. It does not mutate bt.
func (bt *BuiltTransaction) Sign(wallet Wallet) (conway.ConwayTransaction, error) {
	if wallet == nil {
		return conway.ConwayTransaction{}, newBuildError(ErrBadConfiguration, "no wallet supplied to Sign")
	}

	body := bt.Body
	bodyCbor, err := cbor.Encode(&body)
	if err != nil {
		return conway.ConwayTransaction{}, wrapBuildError(ErrInternal, err, "failed to encode tx body for signing")
	}
	body.SetCbor(bodyCbor)
	txHash := body.Id()

	witness, err := wallet.SignTxBody(txHash)
	if err != nil {
		return conway.ConwayTransaction{}, wrapBuildError(ErrInternal, err, "signing failed")
	}

	tx := conway.ConwayTransaction{Body: body, TxIsValid: true}
	tx.WitnessSet.VkeyWitnesses = cbor.NewSetType([]common.VkeyWitness{witness}, true)
	return tx, nil
}

// TxCbor returns the CBOR encoding of a signed transaction.
func TxCbor(tx *conway.ConwayTransaction) ([]byte, error) {
	b, err := cbor.Encode(tx)
	if err != nil {
		return nil, wrapBuildError(ErrInternal, err, "failed to encode transaction")
	}
	return b, nil
}

// Submit sends a signed transaction's CBOR to the given chain context.
func Submit(ctx backend.ChainContext, tx *conway.ConwayTransaction) (common.Blake2b256, error) {
	txCbor, err := TxCbor(tx)
	if err != nil {
		return common.Blake2b256{}, err
	}
	hash, err := ctx.SubmitTx(txCbor)
	if err != nil {
		return common.Blake2b256{}, wrapBuildError(ErrInternal, err, "submit failed")
	}
	return hash, nil
}
