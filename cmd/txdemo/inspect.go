package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/thanhnp/ledger-tx/pkg/transaction"
)

// inspect rebuilds a stored record, reports whether its tx_id was stale and
// verifies the signature when a public key is given
func (r *runtime) inspect(c *cli.Context) error {
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return errors.Wrap(err, "failed to read record")
	}

	var rec transaction.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return errors.Wrap(err, "failed to decode record")
	}

	tx, stale, err := transaction.Reconcile(rec, transaction.WithLogger(r.log))
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "transaction: %s\n", tx)
	fmt.Fprintf(r.out, "tx_id:       %s\n", tx.ID())
	fmt.Fprintf(r.out, "stale id:    %t\n", stale)
	fmt.Fprintf(r.out, "coinbase:    %t\n", tx.IsCoinbase())
	fmt.Fprintf(r.out, "signed:      %t\n", tx.Signature().Present())

	pubkeyPath := c.String("pubkey")
	if pubkeyPath == "" && !tx.IsCoinbase() {
		return nil
	}

	var publicKey []byte
	if pubkeyPath != "" {
		publicKey, err = os.ReadFile(pubkeyPath)
		if err != nil {
			return errors.Wrap(err, "failed to read public key")
		}
	}

	valid, err := tx.VerifySignature(string(publicKey))
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "valid:       %t\n", valid)

	return nil
}
