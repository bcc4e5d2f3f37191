package txbuilder

import (
	"encoding/hex"
	"math/big"
	"sort"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/gouroboros/ledger/common"
)

// LovelaceUnit is the reserved AssetBag key denoting ADA.
const LovelaceUnit = "lovelace"

// AssetBag is a canonical mapping from asset unit to quantity. The unit
// "lovelace" denotes ADA; every other unit is a 28-byte policy id followed
// by a hex-encoded asset name, both hex-encoded and concatenated. Quantities
// may be negative only as an intermediate value returned by Subtract; a bag
// handed to a collaborator outside this package is always non-negative and
// carries no zero entries.
type AssetBag map[string]*big.Int

// EmptyAssetBag returns a new, empty bag.
func EmptyAssetBag() AssetBag {
	return AssetBag{}
}

// Get returns the quantity for unit, or zero if absent.
func (b AssetBag) Get(unit string) *big.Int {
	if v, ok := b[unit]; ok {
		return new(big.Int).Set(v)
	}
	return big.NewInt(0)
}

// Lovelace returns the lovelace quantity (zero if absent).
func (b AssetBag) Lovelace() *big.Int {
	return b.Get(LovelaceUnit)
}

// GetUnits returns the units present in the bag in a stable (lexicographic) order.
func (b AssetBag) GetUnits() []string {
	units := make([]string, 0, len(b))
	for u := range b {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// IsEmpty returns true if the bag has no nonzero entries.
func (b AssetBag) IsEmpty() bool {
	for _, v := range b {
		if v.Sign() != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep, independent copy.
func (b AssetBag) Clone() AssetBag {
	out := make(AssetBag, len(b))
	for u, v := range b {
		out[u] = new(big.Int).Set(v)
	}
	return out
}

// canonicalize drops zero-valued entries so the bag remains canonical.
func (b AssetBag) canonicalize() AssetBag {
	out := make(AssetBag, len(b))
	for u, v := range b {
		if v.Sign() != 0 {
			out[u] = v
		}
	}
	return out
}

// AddBag returns a fresh bag holding the per-unit sum of b and other.
func (b AssetBag) AddBag(other AssetBag) AssetBag {
	out := make(AssetBag, len(b)+len(other))
	for u, v := range b {
		out[u] = new(big.Int).Set(v)
	}
	for u, v := range other {
		if cur, ok := out[u]; ok {
			out[u] = new(big.Int).Add(cur, v)
		} else {
			out[u] = new(big.Int).Set(v)
		}
	}
	return out.canonicalize()
}

// Subtract returns a fresh bag holding b minus other, per unit. Resulting
// components may be negative; callers filter with FilterPositive as needed.
func (b AssetBag) Subtract(other AssetBag) AssetBag {
	out := make(AssetBag, len(b)+len(other))
	for u, v := range b {
		out[u] = new(big.Int).Set(v)
	}
	for u, v := range other {
		if cur, ok := out[u]; ok {
			out[u] = new(big.Int).Sub(cur, v)
		} else {
			out[u] = new(big.Int).Neg(v)
		}
	}
	return out.canonicalize()
}

// FilterPositive returns a fresh bag retaining only strictly positive entries.
func (b AssetBag) FilterPositive() AssetBag {
	out := make(AssetBag, len(b))
	for u, v := range b {
		if v.Sign() > 0 {
			out[u] = new(big.Int).Set(v)
		}
	}
	return out
}

// MergeBags sums an arbitrary number of bags into one fresh bag.
func MergeBags(bags ...AssetBag) AssetBag {
	out := EmptyAssetBag()
	for _, b := range bags {
		out = out.AddBag(b)
	}
	return out
}

// GreaterOrEqual reports whether b has at least as much lovelace and at
// least as much of every unit present in other. Extra units in b are allowed.
func (b AssetBag) GreaterOrEqual(other AssetBag) bool {
	for u, req := range other {
		if req.Sign() <= 0 {
			continue
		}
		if b.Get(u).Cmp(req) < 0 {
			return false
		}
	}
	return true
}

// NativeUnits returns the non-lovelace units present with a positive quantity.
func (b AssetBag) NativeUnits() []string {
	units := make([]string, 0, len(b))
	for u, v := range b {
		if u != LovelaceUnit && v.Sign() > 0 {
			units = append(units, u)
		}
	}
	sort.Strings(units)
	return units
}

// HasNativeAssets reports whether the bag carries any positive non-lovelace unit.
func (b AssetBag) HasNativeAssets() bool {
	return len(b.NativeUnits()) > 0
}

// PolicyAndAssetName splits a unit into its 28-byte policy id and asset name.
// The lovelace unit must never be passed here.
func PolicyAndAssetName(unit string) (policyHex string, assetNameHex string) {
	if len(unit) < 56 {
		return unit, ""
	}
	return unit[:56], unit[56:]
}

// assetBagFromValue converts the teacher's split Value (coin + MultiAsset)
// into the engine's unified AssetBag.
func assetBagFromValue(v Value) AssetBag {
	bag := EmptyAssetBag()
	bag[LovelaceUnit] = new(big.Int).SetUint64(v.Coin)
	if v.Assets == nil {
		return bag
	}
	for _, policyId := range v.Assets.Policies() {
		for _, assetName := range v.Assets.Assets(policyId) {
			qty := v.Assets.Asset(policyId, assetName)
			if qty == nil || qty.Sign() == 0 {
				continue
			}
			unit := hex.EncodeToString(policyId.Bytes()) + hex.EncodeToString(assetName)
			bag[unit] = new(big.Int).Set(qty)
		}
	}
	return bag.canonicalize()
}

// assetBagFromUtxo extracts the AssetBag carried by a UTxO's output.
func assetBagFromUtxo(utxo common.Utxo) AssetBag {
	bag := EmptyAssetBag()
	amt := utxo.Output.Amount()
	if amt != nil {
		bag[LovelaceUnit] = new(big.Int).Set(amt)
	} else {
		bag[LovelaceUnit] = big.NewInt(0)
	}
	assets := utxo.Output.Assets()
	if assets == nil {
		return bag
	}
	for _, policyId := range assets.Policies() {
		for _, assetName := range assets.Assets(policyId) {
			qty := assets.Asset(policyId, assetName)
			if qty == nil || qty.Sign() == 0 {
				continue
			}
			unit := hex.EncodeToString(policyId.Bytes()) + hex.EncodeToString(assetName)
			bag[unit] = new(big.Int).Set(qty)
		}
	}
	return bag.canonicalize()
}

// toValue converts the engine's AssetBag back to the teacher's Value
// representation at the CBOR-serialization boundary. Negative or zero
// native components are dropped; a lovelace amount that is negative or does
// not fit in uint64 is an error. Callers are expected to only convert bags
// that have already passed FilterPositive (or are otherwise known non-negative).
func (b AssetBag) toValue() (Value, error) {
	lovelace := b.Lovelace()
	if !lovelace.IsUint64() {
		return Value{}, newBuildError(ErrInternal, "lovelace amount %s does not fit in uint64", lovelace.String())
	}
	data := make(map[common.Blake2b224]map[cbor.ByteString]common.MultiAssetTypeOutput)
	for _, unit := range b.NativeUnits() {
		policyHex, nameHex := PolicyAndAssetName(unit)
		policyBytes, err := hex.DecodeString(policyHex)
		if err != nil {
			return Value{}, wrapBuildError(ErrInternal, err, "invalid policy id %q in asset bag", policyHex)
		}
		nameBytes, err := hex.DecodeString(nameHex)
		if err != nil {
			return Value{}, wrapBuildError(ErrInternal, err, "invalid asset name %q in asset bag", nameHex)
		}
		var policyId common.Blake2b224
		copy(policyId[:], policyBytes)
		if _, ok := data[policyId]; !ok {
			data[policyId] = make(map[cbor.ByteString]common.MultiAssetTypeOutput)
		}
		data[policyId][cbor.NewByteString(nameBytes)] = new(big.Int).Set(b[unit])
	}
	var assets *common.MultiAsset[common.MultiAssetTypeOutput]
	if len(data) > 0 {
		ma := common.NewMultiAsset[common.MultiAssetTypeOutput](data)
		assets = &ma
	}
	return NewValue(lovelace.Uint64(), assets), nil
}
