package txbuilder

import (
	"encoding/hex"
	"math/big"
	"testing"
)

func policyUnit(policyByte byte, assetByte byte) string {
	policy := make([]byte, 28)
	policy[0] = policyByte
	name := []byte{assetByte}
	return hex.EncodeToString(policy) + hex.EncodeToString(name)
}

// Two policies: one entirely fungible (quantities > 1), one entirely
// NFT-like (quantity == 1). With a bundle size large enough to hold every
// unit, the default (both flags off) packs everything flat into a single
// bundle, while isolateFungibles and groupNftsByPolicy each split it into two.
func TestBundleTokensFlagsDivergeFromDefault(t *testing.T) {
	leftover := EmptyAssetBag()
	fungibleA := policyUnit(0x01, 0x01)
	fungibleB := policyUnit(0x01, 0x02)
	nftA := policyUnit(0x02, 0x01)
	nftB := policyUnit(0x02, 0x02)
	leftover[fungibleA] = big.NewInt(5)
	leftover[fungibleB] = big.NewInt(7)
	leftover[nftA] = big.NewInt(1)
	leftover[nftB] = big.NewInt(1)

	defaultBundles := bundleTokens(leftover, false, false, 10)
	if len(defaultBundles) != 1 {
		t.Fatalf("expected default packing to produce 1 flat bundle, got %d", len(defaultBundles))
	}

	isolated := bundleTokens(leftover, true, false, 10)
	if len(isolated) != 2 {
		t.Fatalf("expected isolateFungibles to split into 2 bundles, got %d", len(isolated))
	}
	foundFungibleOnly := false
	for _, b := range isolated {
		if _, ok := b[fungibleA]; ok {
			if _, ok := b[nftA]; ok {
				t.Error("isolateFungibles must not mix a fungible-only policy's units with another policy")
			}
			foundFungibleOnly = true
		}
	}
	if !foundFungibleOnly {
		t.Error("expected a bundle containing the isolated fungible policy's units")
	}

	grouped := bundleTokens(leftover, false, true, 10)
	if len(grouped) != 2 {
		t.Fatalf("expected groupNftsByPolicy to split into 2 bundles, got %d", len(grouped))
	}
	foundNftOnly := false
	for _, b := range grouped {
		if _, ok := b[nftA]; ok {
			if _, ok := b[fungibleA]; ok {
				t.Error("groupNftsByPolicy must not mix an NFT-only policy's units with another policy")
			}
			foundNftOnly = true
		}
	}
	if !foundNftOnly {
		t.Error("expected a bundle containing the grouped NFT policy's units")
	}
}

// A fungible policy whose unit count exceeds bundleSize still splits across
// consecutive bundles even when isolated.
func TestBundleTokensIsolatedFungiblesStillRespectsBundleSize(t *testing.T) {
	leftover := EmptyAssetBag()
	for i := byte(0); i < 5; i++ {
		leftover[policyUnit(0x03, i)] = big.NewInt(2)
	}
	bundles := bundleTokens(leftover, true, false, 2)
	if len(bundles) != 3 {
		t.Fatalf("expected 5 units in chunks of 2 to produce 3 bundles, got %d", len(bundles))
	}
}
