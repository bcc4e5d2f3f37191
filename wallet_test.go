package txbuilder

import (
	"bytes"
	"testing"

	"github.com/blinklabs-io/gouroboros/ledger/common"
)

// Well-known BIP39 test mnemonic (checksum-valid, widely used as a fixture
// across wallet implementations); not tied to any funds.
const testMnemonic = "test test test test test test test test test test test junk"

func TestHDWalletDerivationIsDeterministic(t *testing.T) {
	w1, err := NewHDWallet(testMnemonic)
	if err != nil {
		t.Fatal(err)
	}
	w2, err := NewHDWallet(testMnemonic)
	if err != nil {
		t.Fatal(err)
	}
	if w1.Address().String() != w2.Address().String() {
		t.Errorf("derivation not deterministic: %s vs %s", w1.Address().String(), w2.Address().String())
	}
	if w1.PubKeyHash() != w2.PubKeyHash() {
		t.Error("payment pub key hash not deterministic")
	}
	if w1.StakePubKeyHash() != w2.StakePubKeyHash() {
		t.Error("stake pub key hash not deterministic")
	}
}

func TestHDWalletDifferentAccountsDiverge(t *testing.T) {
	w0, err := NewHDWalletAt(testMnemonic, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	w1, err := NewHDWalletAt(testMnemonic, "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if w0.Address().String() == w1.Address().String() {
		t.Error("expected different accounts to derive different addresses")
	}
}

func TestHDWalletSignTxBodyProducesVerifiableWitness(t *testing.T) {
	w, err := NewHDWallet(testMnemonic)
	if err != nil {
		t.Fatal(err)
	}
	var bodyHash common.Blake2b256
	bodyHash[0] = 0xAB

	witness, err := w.SignTxBody(bodyHash)
	if err != nil {
		t.Fatal(err)
	}
	if len(witness.Vkey) == 0 {
		t.Error("expected a non-empty verification key in witness")
	}
	if len(witness.Signature) == 0 {
		t.Error("expected a non-empty signature in witness")
	}
	if !bytes.Equal(common.Blake2b224Hash(witness.Vkey).Bytes(), w.PubKeyHash().Bytes()) {
		t.Error("witness vkey does not hash to the wallet's reported pub key hash")
	}
}

func TestHDWalletFromKeysWithoutStakeKey(t *testing.T) {
	w, err := NewHDWallet(testMnemonic)
	if err != nil {
		t.Fatal(err)
	}
	derived := NewHDWalletFromKeys(w.Address(), w.paymentKey, nil)
	if derived.StakePubKeyHash() != (common.Blake2b224{}) {
		t.Error("expected zero stake pub key hash when no stake key supplied")
	}
	if derived.PubKeyHash() != w.PubKeyHash() {
		t.Error("expected same payment pub key hash as source wallet")
	}
}

func TestExternalWalletCannotSign(t *testing.T) {
	addr := testAddress(t)
	w := NewExternalWallet(addr)
	if _, err := w.SignTxBody(common.Blake2b256{}); err == nil {
		t.Error("expected external wallet to refuse signing")
	}
	if w.Address().String() != addr.String() {
		t.Error("expected external wallet to report the configured address")
	}
}
