package txbuilder

import (
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/blinklabs-io/gouroboros/ledger/common"
)

// CoinSelectionFunc selects a subset of available UTxOs whose aggregate
// assets cover every positive unit in target. Implementations must be
// deterministic for a given input ordering and must not mutate available.
type CoinSelectionFunc func(available []common.Utxo, target AssetBag) ([]common.Utxo, error)

func coinSelectionRef(utxo common.Utxo) string {
	return hex.EncodeToString(utxo.Id.Id().Bytes()) + "#" + strconv.Itoa(int(utxo.Id.Index()))
}

// largestFirst is the default coin-selection strategy: it covers lovelace
// first (sorted by lovelace descending), then walks every required native
// unit in turn, picking among the still-unselected UTxOs containing that
// unit (largest-first on its quantity) until covered. A UTxO already picked
// to satisfy an earlier unit counts toward every later unit it happens to carry.
func largestFirst(available []common.Utxo, target AssetBag) ([]common.Utxo, error) {
	pool := make([]common.Utxo, len(available))
	copy(pool, available)

	selected := make([]common.Utxo, 0)
	selectedIdx := make(map[int]bool)
	covered := EmptyAssetBag()

	coveredUnit := func(unit string) bool {
		return covered.Get(unit).Cmp(target.Get(unit)) >= 0
	}

	pick := func(idx int) {
		selectedIdx[idx] = true
		selected = append(selected, pool[idx])
		covered = covered.AddBag(assetBagFromUtxo(pool[idx]))
	}

	if target.Lovelace().Sign() > 0 {
		order := make([]int, 0, len(pool))
		for i := range pool {
			order = append(order, i)
		}
		sort.SliceStable(order, func(i, j int) bool {
			ai := pool[order[i]].Output.Amount()
			aj := pool[order[j]].Output.Amount()
			if ai == nil || aj == nil {
				return false
			}
			return ai.Cmp(aj) > 0
		})
		for _, idx := range order {
			if coveredUnit(LovelaceUnit) {
				break
			}
			if selectedIdx[idx] {
				continue
			}
			pick(idx)
		}
	}

	for _, unit := range target.NativeUnits() {
		if coveredUnit(unit) {
			continue
		}
		order := make([]int, 0, len(pool))
		for i := range pool {
			if selectedIdx[i] {
				continue
			}
			order = append(order, i)
		}
		sort.SliceStable(order, func(i, j int) bool {
			qi := assetBagFromUtxo(pool[order[i]]).Get(unit)
			qj := assetBagFromUtxo(pool[order[j]]).Get(unit)
			return qi.Cmp(qj) > 0
		})
		for _, idx := range order {
			if coveredUnit(unit) {
				break
			}
			pick(idx)
		}
	}

	if !covered.GreaterOrEqual(target.FilterPositive()) {
		return nil, newBuildError(ErrInsufficientFunds,
			"insufficient UTxOs to cover required value (have %s lovelace, need %s)",
			covered.Lovelace().String(), target.Lovelace().String())
	}
	return selected, nil
}

// coinSelectionAlgorithms names the recognized built-in strategies.
var coinSelectionAlgorithms = map[string]CoinSelectionFunc{
	"largest-first": largestFirst,
	"random-improve": func(_ []common.Utxo, _ AssetBag) ([]common.Utxo, error) {
		return nil, newBuildError(ErrBadConfiguration, "coin selection algorithm %q is not implemented", "random-improve")
	},
	"optimal": func(_ []common.Utxo, _ AssetBag) ([]common.Utxo, error) {
		return nil, newBuildError(ErrBadConfiguration, "coin selection algorithm %q is not implemented", "optimal")
	},
}

// resolveCoinSelection picks the selection function named by options,
// defaulting to largest-first, or the caller-supplied custom function.
func resolveCoinSelection(opts BuildOptions) (CoinSelectionFunc, error) {
	if opts.CoinSelectionFunc != nil {
		return opts.CoinSelectionFunc, nil
	}
	name := opts.CoinSelection
	if name == "" {
		name = "largest-first"
	}
	fn, ok := coinSelectionAlgorithms[name]
	if !ok {
		return nil, newBuildError(ErrBadConfiguration, "unknown coin selection algorithm %q", name)
	}
	return fn, nil
}
