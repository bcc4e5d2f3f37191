package txbuilder

import (
	"math/big"
	"sort"

	"github.com/blinklabs-io/gouroboros/ledger/common"
)

// unfrackResult carries either a feasible plan or a signal that the planner
// could not produce a conserving, minimum-UTxO-compliant set of outputs for
// the given leftover under the configured rules.
type unfrackResult struct {
	Outputs  []TxOutput
	Feasible bool
}

// planUnfrack shapes a leftover AssetBag into one or more change outputs
// following token-bundling, fungible-isolation, NFT-policy-grouping, and
// ADA-subdivision rules. Token bundling always runs first; residual lovelace
// after bundling is then subdivided or folded into the last bundle.
func planUnfrack(leftover AssetBag, changeAddr common.Address, cfg UnfrackConfig, coinsPerUtxoByte int64) (unfrackResult, error) {
	bundleSize := cfg.Tokens.BundleSize
	if bundleSize <= 0 {
		bundleSize = 10
	}

	bundles := bundleTokens(leftover, cfg.Tokens.IsolateFungibles, cfg.Tokens.GroupNftsByPolicy, bundleSize)

	outputs := make([]TxOutput, 0, len(bundles)+1)
	var totalBundleMin int64
	for _, bundle := range bundles {
		min, err := minLovelaceForAssets(TxOutput{Address: changeAddr}, bundle, coinsPerUtxoByte)
		if err != nil {
			return unfrackResult{}, err
		}
		bag := bundle.Clone()
		bag[LovelaceUnit] = big.NewInt(min)
		outputs = append(outputs, TxOutput{Address: changeAddr, Assets: bag})
		totalBundleMin += min
	}

	leftoverLovelace := leftover.Lovelace()
	if leftoverLovelace.Cmp(big.NewInt(totalBundleMin)) < 0 {
		return unfrackResult{Feasible: false}, nil
	}
	residual := leftoverLovelace.Int64() - totalBundleMin

	adaCfg := cfg.Ada
	threshold := adaCfg.SubdivideThreshold
	if threshold == 0 {
		threshold = 100_000_000
	}
	percentages := adaCfg.SubdividePercentages
	if len(percentages) == 0 {
		percentages = []int64{50, 15, 10, 10, 5, 5, 5}
	}

	if residual == 0 {
		return unfrackResult{Outputs: outputs, Feasible: true}, nil
	}

	adaOnlyMin, err := minLovelaceForAssets(TxOutput{Address: changeAddr}, EmptyAssetBag(), coinsPerUtxoByte)
	if err != nil {
		return unfrackResult{}, err
	}

	if residual <= threshold {
		if residual >= adaOnlyMin {
			outputs = append(outputs, TxOutput{Address: changeAddr, Assets: AssetBag{LovelaceUnit: big.NewInt(residual)}})
			return unfrackResult{Outputs: outputs, Feasible: true}, nil
		}
		if len(outputs) == 0 {
			return unfrackResult{Feasible: false}, nil
		}
		last := outputs[len(outputs)-1]
		last.Assets = last.Assets.Clone()
		last.Assets[LovelaceUnit] = new(big.Int).Add(last.Assets.Lovelace(), big.NewInt(residual))
		outputs[len(outputs)-1] = last
		return unfrackResult{Outputs: outputs, Feasible: true}, nil
	}

	allocations := subdivide(residual, percentages)
	for _, alloc := range allocations {
		if alloc < adaOnlyMin {
			return unfrackResult{Feasible: false}, nil
		}
		outputs = append(outputs, TxOutput{Address: changeAddr, Assets: AssetBag{LovelaceUnit: big.NewInt(alloc)}})
	}
	return unfrackResult{Outputs: outputs, Feasible: true}, nil
}

// subdivide splits amount across percentages (each out of 100), flooring
// every allocation except the last, which absorbs the rounding remainder so
// the sum equals amount exactly.
func subdivide(amount int64, percentages []int64) []int64 {
	allocations := make([]int64, len(percentages))
	var sum int64
	for i, p := range percentages {
		if i == len(percentages)-1 {
			allocations[i] = amount - sum
			continue
		}
		a := amount * p / 100
		allocations[i] = a
		sum += a
	}
	return allocations
}

// bundleTokens groups the leftover's native units into bundles following the
// configured policy, each bundle carrying its tokens (lovelace added later
// once the bundle's minimum is known).
//
// Without either flag, units are packed flat across policy boundaries: a
// bundle may mix tokens from several policies, up to bundleSize entries.
// isolateFungibles peels off every policy whose holdings are entirely
// fungible (quantity != 1) into its own bundle(s), so same-policy fungible
// tokens never share an output with another policy's tokens. groupNftsByPolicy
// does the same for policies whose holdings are entirely NFT-like (quantity
// == 1). Units belonging to neither isolated category still fall through to
// the flat default packing. A policy can match at most one rule, since a
// single policy can't be both all-fungible and all-NFT.
func bundleTokens(leftover AssetBag, isolateFungibles bool, groupNftsByPolicy bool, bundleSize int) []AssetBag {
	byPolicy := make(map[string][]string)
	for _, unit := range leftover.NativeUnits() {
		policy, _ := PolicyAndAssetName(unit)
		byPolicy[policy] = append(byPolicy[policy], unit)
	}
	policies := make([]string, 0, len(byPolicy))
	for p := range byPolicy {
		policies = append(policies, p)
	}
	sort.Strings(policies)

	var bundles []AssetBag
	appendChunks := func(units []string) {
		for i := 0; i < len(units); i += bundleSize {
			end := min(i+bundleSize, len(units))
			bag := EmptyAssetBag()
			for _, u := range units[i:end] {
				bag[u] = leftover.Get(u)
			}
			bundles = append(bundles, bag)
		}
	}

	var flatUnits []string
	for _, policy := range policies {
		units := byPolicy[policy]
		isAllFungible := true
		isAllNft := true
		for _, u := range units {
			if leftover.Get(u).Cmp(big.NewInt(1)) == 0 {
				isAllFungible = false
			} else {
				isAllNft = false
			}
		}
		switch {
		case isolateFungibles && isAllFungible:
			appendChunks(units)
		case groupNftsByPolicy && isAllNft:
			appendChunks(units)
		default:
			flatUnits = append(flatUnits, units...)
		}
	}
	appendChunks(flatUnits)
	return bundles
}
