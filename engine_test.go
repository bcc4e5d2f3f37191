package txbuilder

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/blinklabs-io/gouroboros/ledger/babbage"
	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/gouroboros/ledger/shelley"

	"github.com/go-cardano/txbuilder/backend/fixed"
)

func newTestDriver(t *testing.T) (*BuildDriver, *fixed.FixedChainContext, common.Address) {
	t.Helper()
	cc := setupFixedContext()
	addr := testAddress(t)
	return NewBuildDriver(cc, NewExternalWallet(addr)), cc, addr
}

func unitAssetBag(policyHex, nameHex string, qty int64) AssetBag {
	bag := EmptyAssetBag()
	bag[policyHex+nameHex] = big.NewInt(qty)
	return bag
}

func addAssetUtxo(fc *fixed.FixedChainContext, addr common.Address, bag AssetBag, txHashByte byte, index uint32) error {
	var txHash common.Blake2b256
	txHash[0] = txHashByte
	val, err := bag.toValue()
	if err != nil {
		return err
	}
	output := NewBabbageOutput(addr, val, nil, nil)
	input := shelley.ShelleyTransactionInput{TxId: txHash, OutputIndex: index}
	fc.AddUtxo(addr, common.Utxo{Id: input, Output: &output})
	return nil
}

var _ = babbage.BabbageTransactionOutput{}

// Scenario: a simple payment with ample ADA-only funding must conserve
// value exactly: inputs == outputs + fee.
func TestBuildSimplePaymentConserves(t *testing.T) {
	driver, cc, addr := newTestDriver(t)
	addTestUtxo(cc, addr, 10_000_000, 0x01, 0)

	params, err := PayToAddressBech32(validTestAddrBech32, 2_000_000)
	if err != nil {
		t.Fatal(err)
	}

	rec := driver.NewRecorder()
	rec.AddPayment(params)
	bt, err := rec.Build(BuildOptions{ChangeAddress: &addr})
	if err != nil {
		t.Fatal(err)
	}

	totalIn := EmptyAssetBag()
	for _, u := range bt.SelectedInputs {
		totalIn = totalIn.AddBag(assetBagFromUtxo(u))
	}
	var totalOutLovelace uint64
	for _, o := range bt.Outputs {
		totalOutLovelace += o.OutputAmount.Amount
	}
	lhs := totalIn.Lovelace()
	rhs := new(big.Int).Add(new(big.Int).SetUint64(totalOutLovelace), big.NewInt(bt.Fee))
	if lhs.Cmp(rhs) != 0 {
		t.Errorf("conservation violated: inputs=%s outputs+fee=%s", lhs.String(), rhs.String())
	}
	if bt.Fee <= 0 {
		t.Error("expected positive fee")
	}
}

// Build() called twice on the same recorder with the same options must be
// idempotent: identical fee, identical selected inputs.
func TestBuildIsIdempotent(t *testing.T) {
	driver, cc, addr := newTestDriver(t)
	addTestUtxo(cc, addr, 10_000_000, 0x01, 0)

	params, err := PayToAddressBech32(validTestAddrBech32, 2_000_000)
	if err != nil {
		t.Fatal(err)
	}
	rec := driver.NewRecorder()
	rec.AddPayment(params)

	opts := BuildOptions{ChangeAddress: &addr}
	bt1, err := rec.Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	bt2, err := rec.Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	if bt1.Fee != bt2.Fee {
		t.Errorf("fee not idempotent: %d vs %d", bt1.Fee, bt2.Fee)
	}
	if len(bt1.SelectedInputs) != len(bt2.SelectedInputs) {
		t.Errorf("input count not idempotent: %d vs %d", len(bt1.SelectedInputs), len(bt2.SelectedInputs))
	}
}

// Scenario: a payment larger than any single UTxO must pull in exactly the
// UTxOs needed (here, two) under largest-first selection.
func TestBuildRequiresMultipleInputs(t *testing.T) {
	driver, cc, addr := newTestDriver(t)
	addTestUtxo(cc, addr, 3_000_000, 0x01, 0)
	addTestUtxo(cc, addr, 3_000_000, 0x02, 0)

	params, err := PayToAddressBech32(validTestAddrBech32, 5_000_000)
	if err != nil {
		t.Fatal(err)
	}
	rec := driver.NewRecorder()
	rec.AddPayment(params)
	bt, err := rec.Build(BuildOptions{ChangeAddress: &addr})
	if err != nil {
		t.Fatal(err)
	}
	if len(bt.SelectedInputs) != 2 {
		t.Errorf("expected 2 selected inputs, got %d", len(bt.SelectedInputs))
	}
}

// Scenario: change consisting solely of a native asset with no ADA headroom,
// and no further UTxOs to reselect from, must fail rather than silently
// dropping the asset or underfunding the change output.
func TestBuildNativeAssetLockedWhenNoHeadroom(t *testing.T) {
	driver, cc, addr := newTestDriver(t)
	policy := "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4"
	name := "746f6b656e"

	bag := unitAssetBag(policy, name, 1)
	bag[LovelaceUnit] = big.NewInt(1_300_000)
	if err := addAssetUtxo(cc, addr, bag, 0x01, 0); err != nil {
		t.Fatal(err)
	}

	params, err := PayToAddressBech32(validTestAddrBech32, 1_300_000)
	if err != nil {
		t.Fatal(err)
	}
	rec := driver.NewRecorder()
	rec.AddPayment(params)
	_, err = rec.Build(BuildOptions{ChangeAddress: &addr})
	if err == nil {
		t.Fatal("expected an error")
	}
	be, ok := err.(*BuildError)
	if !ok {
		t.Fatalf("expected *BuildError, got %T", err)
	}
	if be.Kind != ErrNativeAssetLocked && be.Kind != ErrInsufficientFunds {
		t.Errorf("expected ErrNativeAssetLocked or ErrInsufficientFunds, got %v", be.Kind)
	}
}

// Scenario: dust change below minimum UTxO with OnInsufficientChangeBurn set
// must succeed and absorb the dust into the fee rather than erroring.
func TestBuildBurnsDustChange(t *testing.T) {
	driver, cc, addr := newTestDriver(t)
	addTestUtxo(cc, addr, 2_170_000, 0x01, 0)

	params, err := PayToAddressBech32(validTestAddrBech32, 2_000_000)
	if err != nil {
		t.Fatal(err)
	}
	rec := driver.NewRecorder()
	rec.AddPayment(params)
	bt, err := rec.Build(BuildOptions{
		ChangeAddress:        &addr,
		OnInsufficientChange: OnInsufficientChangeBurn,
	})
	if err != nil {
		t.Fatalf("expected burn to succeed, got %v", err)
	}
	if len(bt.Outputs) != 1 {
		t.Errorf("expected exactly 1 output (no change output), got %d", len(bt.Outputs))
	}
}

// Every output in a built transaction, including change, must carry at
// least the minimum lovelace for its own CBOR-encoded size.
func TestBuildOutputsMeetMinUtxo(t *testing.T) {
	driver, cc, addr := newTestDriver(t)
	addTestUtxo(cc, addr, 10_000_000, 0x01, 0)

	params, err := PayToAddressBech32(validTestAddrBech32, 2_000_000)
	if err != nil {
		t.Fatal(err)
	}
	rec := driver.NewRecorder()
	rec.AddPayment(params)
	bt, err := rec.Build(BuildOptions{ChangeAddress: &addr})
	if err != nil {
		t.Fatal(err)
	}

	pp, err := cc.ProtocolParams()
	if err != nil {
		t.Fatal(err)
	}
	for i, o := range bt.Outputs {
		min, err := MinLovelacePostAlonzo(&o, pp.CoinsPerUtxoByteValue())
		if err != nil {
			t.Fatal(err)
		}
		if int64(o.OutputAmount.Amount) < min { //nolint:gosec // test value fits
			t.Errorf("output %d carries %d lovelace, below minimum %d", i, o.OutputAmount.Amount, min)
		}
	}
}

// Selected inputs must come out in the canonical (txId, then index) order
// regardless of the order UTxOs were added to the wallet, so that two
// builds over the same UTxO set always produce byte-identical input lists.
func TestBuildCanonicalizesInputOrder(t *testing.T) {
	driver, cc, addr := newTestDriver(t)
	// Added out of order; canonical order sorts by tx hash byte 0x01 < 0x02.
	addTestUtxo(cc, addr, 3_000_000, 0x02, 0)
	addTestUtxo(cc, addr, 3_000_000, 0x01, 0)

	params, err := PayToAddressBech32(validTestAddrBech32, 5_000_000)
	if err != nil {
		t.Fatal(err)
	}
	rec := driver.NewRecorder()
	rec.AddPayment(params)
	bt, err := rec.Build(BuildOptions{ChangeAddress: &addr})
	if err != nil {
		t.Fatal(err)
	}
	if len(bt.SelectedInputs) != 2 {
		t.Fatalf("expected 2 selected inputs, got %d", len(bt.SelectedInputs))
	}
	firstId := bt.SelectedInputs[0].Id.Id()
	secondId := bt.SelectedInputs[1].Id.Id()
	if firstId.Bytes()[0] != 0x01 || secondId.Bytes()[0] != 0x02 {
		t.Errorf("inputs not in canonical order: got %x then %x", firstId.Bytes()[0], secondId.Bytes()[0])
	}
}

// A leftover carrying several distinct native-asset policies, with the
// unfrack planner enabled, must shape the change into multiple outputs
// rather than cramming every asset into one.
func TestBuildUnfracksMultiPolicyChange(t *testing.T) {
	driver, cc, addr := newTestDriver(t)
	bag := EmptyAssetBag()
	bag[LovelaceUnit] = big.NewInt(50_000_000)
	for i := range 4 {
		policy := fmt.Sprintf("%056x", i+1)
		name := "74"
		bag[policy+name] = big.NewInt(1)
	}
	if err := addAssetUtxo(cc, addr, bag, 0x01, 0); err != nil {
		t.Fatal(err)
	}

	params, err := PayToAddressBech32(validTestAddrBech32, 2_000_000)
	if err != nil {
		t.Fatal(err)
	}
	unfrack := DefaultUnfrackConfig()
	unfrack.Tokens.BundleSize = 1
	rec := driver.NewRecorder()
	rec.AddPayment(params)
	bt, err := rec.Build(BuildOptions{ChangeAddress: &addr, Unfrack: &unfrack})
	if err != nil {
		t.Fatal(err)
	}
	if len(bt.Outputs) < 4 {
		t.Errorf("expected unfrack to split change across several outputs, got %d total outputs", len(bt.Outputs))
	}
}
