// Command balance-demo builds a single balanced transaction against a fixed
// demo UTxO set and prints a summary of the result. It exists to exercise
// the balancing engine end-to-end outside of its test suite.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/gouroboros/ledger/shelley"
	"go.uber.org/zap"

	txbuilder "github.com/go-cardano/txbuilder"
	"github.com/go-cardano/txbuilder/backend/fixed"
	"github.com/go-cardano/txbuilder/internal/config"
	"github.com/go-cardano/txbuilder/internal/logging"
)

var cmdlineFlags struct {
	configFile string
}

func main() {
	flag.StringVar(&cmdlineFlags.configFile, "config", "", "path to config file to load")
	flag.Parse()

	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("failed to load config: %s\n", err)
		os.Exit(1)
	}

	logging.Configure()
	logger := logging.GetLogger()
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(cfg, logger); err != nil {
		logger.Errorw("build failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	changeAddr, err := common.NewAddress(cfg.Wallet.ChangeAddress)
	if err != nil {
		return fmt.Errorf("invalid wallet.changeAddress: %w", err)
	}

	chain := fixed.NewEmptyFixedChainContext()
	var fundingTxId common.Blake2b256
	fundingTxId[0] = 0x01
	fundingOutput := txbuilder.NewBabbageOutputSimple(changeAddr, uint64(cfg.Wallet.FundingLovelace)) //nolint:gosec // demo config value
	chain.AddUtxo(changeAddr, common.Utxo{
		Id:     shelley.ShelleyTransactionInput{TxId: fundingTxId, OutputIndex: 0},
		Output: &fundingOutput,
	})

	logger.Infow("starting demo build",
		"network", cfg.Network,
		"changeAddress", cfg.Wallet.ChangeAddress,
		"fundingLovelace", cfg.Wallet.FundingLovelace,
		"paymentAddress", cfg.Payment.ToAddress,
		"paymentLovelace", cfg.Payment.Lovelace,
	)

	wallet := txbuilder.NewExternalWallet(changeAddr)
	driver := txbuilder.NewBuildDriver(chain, wallet)

	params, err := txbuilder.PayToAddressBech32(cfg.Payment.ToAddress, cfg.Payment.Lovelace)
	if err != nil {
		return fmt.Errorf("invalid payment: %w", err)
	}

	opts := txbuilder.BuildOptions{ChangeAddress: &changeAddr}
	if cfg.Unfrack.Enabled {
		unfrack := txbuilder.DefaultUnfrackConfig()
		unfrack.Tokens.BundleSize = cfg.Unfrack.BundleSize
		opts.Unfrack = &unfrack
	}

	rec := driver.NewRecorder()
	rec.AddPayment(params)
	bt, err := rec.Build(opts)
	if err != nil {
		return err
	}

	logger.Infow("build complete",
		"fee", bt.Fee,
		"inputs", len(bt.SelectedInputs),
		"outputs", len(bt.Outputs),
	)
	for i, o := range bt.Outputs {
		logger.Infow("output",
			"index", i,
			"address", o.OutputAddress.String(),
			"lovelace", o.OutputAmount.Amount,
		)
	}

	txCbor, err := txbuilder.TxCbor(&bt.FakeWitnessTx)
	if err != nil {
		return fmt.Errorf("failed to encode tx cbor: %w", err)
	}
	logger.Infow("fake-witness transaction cbor", "hex", hex.EncodeToString(txCbor))
	return nil
}
