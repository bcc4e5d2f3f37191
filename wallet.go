package txbuilder

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/bursa"
	"github.com/blinklabs-io/bursa/bip32"
	"github.com/blinklabs-io/gouroboros/ledger/common"
)

// Wallet is the key-holding collaborator: BuildDriver reads its address as the
// default change address, and BuiltTransaction.Sign asks wallets that hold
// key material to turn a body hash into the VkeyWitness the finished
// transaction needs.
type Wallet interface {
	// Address returns the payment address for this wallet.
	Address() common.Address
	// SignTxBody signs a serialized transaction body hash and returns a VkeyWitness.
	SignTxBody(txBodyHash common.Blake2b256) (common.VkeyWitness, error)
	// PubKeyHash returns the payment public key hash.
	PubKeyHash() common.Blake2b224
	// StakePubKeyHash returns the staking public key hash (zero if not staking).
	StakePubKeyHash() common.Blake2b224
}

// HDWallet signs with BIP32-Ed25519 keys, either derived from a BIP39
// mnemonic via bursa or supplied directly by the caller (e.g. keys already
// derived by an external custody system). When derived from a mnemonic,
// NewHDWalletAt's account argument selects the account component of the
// payment and stake key derivation paths, and both keys use index 0.
type HDWallet struct {
	mnemonic   string
	address    common.Address
	paymentKey bip32.XPrv
	stakeKey   bip32.XPrv
}

// NewHDWallet derives a wallet from a mnemonic at account 0, payment/stake
// index 0, with no BIP39 passphrase.
func NewHDWallet(mnemonic string, opts ...bursa.WalletOption) (*HDWallet, error) {
	return NewHDWalletAt(mnemonic, "", 0, opts...)
}

// NewHDWalletAt derives a wallet from a mnemonic and optional BIP39
// passphrase at the given account index, using index 0 for both the
// payment and stake keys within that account.
func NewHDWalletAt(mnemonic string, passphrase string, account uint, opts ...bursa.WalletOption) (*HDWallet, error) {
	// bursa.WithPassword is appended last so address derivation always uses
	// the same passphrase as key derivation below, even if a caller passed a
	// conflicting WithPassword in opts.
	allOpts := append(append([]bursa.WalletOption{}, opts...), bursa.WithPassword(passphrase))
	w, err := bursa.NewWallet(mnemonic, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bursa wallet: %w", err)
	}

	addr, err := common.NewAddress(w.PaymentAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to parse wallet address: %w", err)
	}

	rootKey, err := bursa.GetRootKeyFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to derive root key: %w", err)
	}
	accountKey, err := bursa.GetAccountKey(rootKey, account)
	if err != nil {
		return nil, fmt.Errorf("failed to derive account key: %w", err)
	}
	paymentKey, err := bursa.GetPaymentKey(accountKey, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payment key: %w", err)
	}
	stakeKey, err := bursa.GetStakeKey(accountKey, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stake key: %w", err)
	}

	return &HDWallet{
		mnemonic:   w.Mnemonic,
		address:    addr,
		paymentKey: paymentKey,
		stakeKey:   stakeKey,
	}, nil
}

// NewHDWalletGenerate creates a wallet from a freshly generated mnemonic.
func NewHDWalletGenerate(opts ...bursa.WalletOption) (*HDWallet, error) {
	mnemonic, err := bursa.GenerateMnemonic()
	if err != nil {
		return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return NewHDWallet(mnemonic, opts...)
}

// NewHDWalletFromKeys builds a wallet directly from already-derived extended
// keys, for callers (custody integrations, hardware-wallet bridges) that
// perform their own BIP32 derivation and only need the Wallet surface on
// top. The stake key is optional; pass a zero bip32.XPrv if the wallet has
// no staking component, in which case StakePubKeyHash returns a zero hash.
func NewHDWalletFromKeys(addr common.Address, paymentKey bip32.XPrv, stakeKey bip32.XPrv) *HDWallet {
	return &HDWallet{
		address:    addr,
		paymentKey: paymentKey,
		stakeKey:   stakeKey,
	}
}

func (w *HDWallet) Address() common.Address {
	return w.address
}

func (w *HDWallet) SignTxBody(txBodyHash common.Blake2b256) (common.VkeyWitness, error) {
	return common.VkeyWitness{
		Vkey:      w.paymentKey.Public().PublicKey(),
		Signature: w.paymentKey.Sign(txBodyHash.Bytes()),
	}, nil
}

func (w *HDWallet) PubKeyHash() common.Blake2b224 {
	pubKey := w.paymentKey.Public().PublicKey()
	return common.Blake2b224Hash(pubKey)
}

// StakePubKeyHash returns a zero hash if this wallet has no stake key.
func (w *HDWallet) StakePubKeyHash() common.Blake2b224 {
	if len(w.stakeKey) == 0 {
		return common.Blake2b224{}
	}
	pubKey := w.stakeKey.Public().PublicKey()
	return common.Blake2b224Hash(pubKey)
}

// Mnemonic returns the mnemonic this wallet was derived from, empty if the
// wallet was constructed from raw keys instead.
func (w *HDWallet) Mnemonic() string {
	return w.mnemonic
}

// String returns a safe string representation that does not expose key material.
func (w *HDWallet) String() string {
	return fmt.Sprintf("HDWallet{address: %s}", w.address.String())
}

// GoString implements fmt.GoStringer to prevent key material from leaking via %#v.
func (w *HDWallet) GoString() string {
	return w.String()
}

// ExternalWallet is an address-only wallet for watch-only flows.
// It cannot sign transactions.
type ExternalWallet struct {
	address common.Address
}

// NewExternalWallet creates a watch-only wallet from an address.
func NewExternalWallet(addr common.Address) *ExternalWallet {
	return &ExternalWallet{address: addr}
}

func (w *ExternalWallet) Address() common.Address {
	return w.address
}

func (w *ExternalWallet) SignTxBody(_ common.Blake2b256) (common.VkeyWitness, error) {
	return common.VkeyWitness{}, errors.New("external wallet cannot sign transactions")
}

func (w *ExternalWallet) PubKeyHash() common.Blake2b224 {
	return w.address.PaymentKeyHash()
}

func (w *ExternalWallet) StakePubKeyHash() common.Blake2b224 {
	return w.address.StakeKeyHash()
}
