package txbuilder

// minLovelace reports the minimum lovelace a TxOutput must carry: the
// output's CBOR byte length times coinsPerUtxoByte. The output's own
// lovelace field affects its own CBOR length (a larger integer encodes to
// more bytes), so callers that need a precise answer for a candidate amount
// materialize the output with that amount first. ChangeCreation measures the
// change output carrying the actual leftover; UnfrackPlanner sizes each
// bundle with zero lovelace via minLovelaceForAssets and does not iterate.
func minLovelace(out TxOutput, coinsPerUtxoByte int64) (int64, error) {
	babbageOut, err := out.toBabbageOutput()
	if err != nil {
		return 0, err
	}
	size, err := OutputCborSize(&babbageOut)
	if err != nil {
		return 0, wrapBuildError(ErrInternal, err, "failed to compute minimum UTxO")
	}
	return coinsPerUtxoByte * int64(size), nil
}

// minLovelaceForAssets is a convenience wrapper that materializes a
// single-output candidate at a given address carrying only assets (lovelace
// set to zero for sizing) and returns its minimum lovelace requirement.
func minLovelaceForAssets(addr TxOutput, assets AssetBag, coinsPerUtxoByte int64) (int64, error) {
	candidate := addr
	candidate.Assets = assets.Clone()
	return minLovelace(candidate, coinsPerUtxoByte)
}
