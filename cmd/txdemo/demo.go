package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/thanhnp/ledger-tx/pkg/keys"
	"github.com/thanhnp/ledger-tx/pkg/transaction"
)

var errDemoCheck = errors.New("demo check failed")

// demo mints a coinbase to alice, spends it to bob with change back to alice,
// then checks signatures, the input link and a JSON round trip
func (r *runtime) demo(_ *cli.Context) error {
	r.log.Info().Int("bits", r.cfg.Keys.Bits).Msg("generating keys for alice and bob")

	alice, err := keys.NewPair(r.cfg.Keys.Bits)
	if err != nil {
		return errors.Wrap(err, "alice")
	}
	bob, err := keys.NewPair(r.cfg.Keys.Bits)
	if err != nil {
		return errors.Wrap(err, "bob")
	}

	opts := []transaction.Option{transaction.WithLogger(r.log)}

	// Coinbase paying alice
	reward, err := transaction.NewOutput(alice.PublicPEM, r.cfg.Demo.CoinbaseAmount)
	if err != nil {
		return err
	}
	coinbase, err := transaction.New(nil, []transaction.Output{reward}, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create coinbase")
	}
	if err := coinbase.Sign(""); err != nil {
		return errors.Wrap(err, "failed to sign coinbase")
	}
	coinbaseValid, err := coinbase.VerifySignature("")
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Coinbase:        %s\n", coinbase)
	fmt.Fprintf(r.out, "  valid:         %t\n", coinbaseValid)
	if !coinbaseValid {
		return errors.Wrap(errDemoCheck, "coinbase does not verify")
	}

	// Alice pays bob and keeps the change
	spend, err := transaction.NewInput(coinbase.ID(), 0)
	if err != nil {
		return err
	}
	toBob, err := transaction.NewOutput(bob.PublicPEM, r.cfg.Demo.TransferAmount)
	if err != nil {
		return err
	}
	change, err := transaction.NewOutput(alice.PublicPEM, r.cfg.Demo.CoinbaseAmount-r.cfg.Demo.TransferAmount)
	if err != nil {
		return err
	}

	tx, err := transaction.New([]transaction.Input{spend}, []transaction.Output{toBob, change}, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create transfer")
	}
	unsignedID := tx.ID()

	if err := tx.Sign(alice.PrivatePEM); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Transfer:        %s\n", tx)
	fmt.Fprintf(r.out, "  initial hash:  %s\n", unsignedID)
	fmt.Fprintf(r.out, "  final id:      %s\n", tx.ID())

	byAlice, err := tx.VerifySignature(alice.PublicPEM)
	if err != nil {
		return err
	}
	byBob, err := tx.VerifySignature(bob.PublicPEM)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "  alice's key:   %t\n", byAlice)
	fmt.Fprintf(r.out, "  bob's key:     %t\n", byBob)
	if !byAlice || byBob {
		return errors.Wrap(errDemoCheck, "signature verification gave unexpected results")
	}

	linked := false
	for _, in := range tx.Inputs() {
		if in.PreviousTxID() != coinbase.ID() {
			continue
		}
		outputs := coinbase.Outputs()
		if in.OutputIndex() < len(outputs) && outputs[in.OutputIndex()].RecipientAddress() == alice.PublicPEM {
			linked = true
		}
	}
	fmt.Fprintf(r.out, "  spends coinbase: %t\n", linked)
	if !linked {
		return errors.Wrap(errDemoCheck, "transfer does not spend the coinbase output")
	}

	// Round trip through the JSON record
	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	restored, err := transaction.Parse(data, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to restore transfer")
	}
	restoredValid, err := restored.VerifySignature(alice.PublicPEM)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Restored:        %s\n", restored)
	fmt.Fprintf(r.out, "  same id:       %t\n", restored.ID() == tx.ID())
	fmt.Fprintf(r.out, "  valid:         %t\n", restoredValid)
	if restored.ID() != tx.ID() || !restoredValid {
		return errors.Wrap(errDemoCheck, "restored transfer does not match the signed one")
	}

	r.log.Info().Str("tx_id", tx.ID()).Msg("demo completed")

	return nil
}
