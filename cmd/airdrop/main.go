// Command airdrop builds an unsigned fund-distribution transaction from a
// recipient CSV and a wallet's live UTXO set, and writes a wallet import
// file ready for offline signing. Nothing is ever signed or submitted here.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/bomlabs/airdrop-go/asset"
	"github.com/bomlabs/airdrop-go/chain"
	"github.com/bomlabs/airdrop-go/recipients"
	"github.com/bomlabs/airdrop-go/runstore"
	"github.com/bomlabs/airdrop-go/tx"
)

type config struct {
	Network       string        `envconfig:"NETWORK" default:"mainnet"`
	BlockfrostURL string        `envconfig:"BLOCKFROST_URL"`
	ProjectID     string        `envconfig:"BLOCKFROST_PROJECT_ID" required:"true"`
	SenderAddress string        `envconfig:"SENDER_ADDRESS" required:"true"`
	CSVPath       string        `envconfig:"CSV_PATH" required:"true"`
	OutputPath    string        `envconfig:"OUTPUT_PATH" default:"airdrop_tx.json"`
	JournalPath   string        `envconfig:"JOURNAL_PATH" default:"airdrop.db"`
	Description   string        `envconfig:"DESCRIPTION" default:"Airdrop transaction"`
	Messages      []string      `envconfig:"MESSAGES"`
	TTLSlot       uint64        `envconfig:"TTL_SLOT"`
	SkipPaid      bool          `envconfig:"SKIP_PAID" default:"true"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"2m"`
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("airdrop failed")
	}
}

func run(log *logrus.Logger) error {
	var cfg config
	if err := envconfig.Process("airdrop", &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	payouts, err := recipients.ReadFile(cfg.CSVPath)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"csv":        cfg.CSVPath,
		"recipients": len(payouts),
	}).Info("recipient list loaded")

	store, err := runstore.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if cfg.SkipPaid {
		payouts, err = filterPaid(store, payouts, log)
		if err != nil {
			return err
		}
		if len(payouts) == 0 {
			log.Info("every recipient is already covered by an earlier run")
			return nil
		}
	}

	client, err := chain.NewClient(chain.Config{
		URL:       cfg.BlockfrostURL,
		ProjectID: cfg.ProjectID,
		Network:   cfg.Network,
	})
	if err != nil {
		return err
	}

	params, err := client.ProtocolParameters(ctx)
	if err != nil {
		return err
	}
	pool, err := client.UTXOs(ctx, cfg.SenderAddress)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"utxos":     pool.Size(),
		"total_ada": float64(pool.TotalNative()) / asset.LovelacePerADA,
		"min_fee_a": params.MinFeeA,
		"min_fee_b": params.MinFeeB,
		"min_utxo":  params.MinUTXOValue,
	}).Info("wallet snapshot fetched")

	assembler, err := tx.NewAssembler(params)
	if err != nil {
		return err
	}
	if cfg.TTLSlot > 0 {
		assembler.SetTTL(cfg.TTLSlot)
	}
	if len(cfg.Messages) > 0 {
		meta, err := tx.NewMetadata(cfg.Messages...)
		if err != nil {
			return err
		}
		assembler.SetMetadata(meta)
	}

	result, err := assembler.Assemble(pool, payouts, cfg.SenderAddress)
	if err != nil {
		return err
	}

	change := "none"
	if out, ok := result.Draft.ChangeOutput(); ok {
		change = out.Value.String()
	}
	log.WithFields(logrus.Fields{
		"txid":    result.TxID,
		"inputs":  len(result.Draft.Inputs),
		"outputs": len(result.Draft.Outputs),
		"fee_ada": float64(result.Draft.Fee) / asset.LovelacePerADA,
		"change":  change,
	}).Info("transaction balanced")

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()
	if err := result.WriteEternl(out, cfg.Description); err != nil {
		return err
	}

	payments := make([]runstore.Payment, len(payouts))
	for i, p := range payouts {
		payments[i] = runstore.Payment{Address: p.Address, Amount: p.Amount}
	}
	runID, err := store.RecordRun(runstore.Run{
		TxID:        result.TxID,
		CborHex:     result.CborHex(),
		Description: cfg.Description,
		Payments:    payments,
	})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"run":    runID,
		"output": cfg.OutputPath,
	}).Info("import the output file into your wallet to sign and submit")
	return nil
}

// filterPaid drops payouts already covered by an earlier journaled run.
func filterPaid(store *runstore.Store, payouts []tx.Payout, log *logrus.Logger) ([]tx.Payout, error) {
	paid, err := store.PaidAddresses()
	if err != nil {
		return nil, err
	}
	if len(paid) == 0 {
		return payouts, nil
	}
	kept := payouts[:0]
	for _, p := range payouts {
		if runID, ok := paid[p.Address]; ok {
			log.WithFields(logrus.Fields{
				"address": p.Address,
				"run":     runID,
			}).Debug("skipping recipient paid in an earlier round")
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}
