package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/thanhnp/ledger-tx/pkg/keys"
)

// keygen writes NAME.pem and NAME.pub.pem into the key directory
func (r *runtime) keygen(c *cli.Context) error {
	name := c.String("name")
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return errors.Newf("invalid key name %q", name)
	}

	pair, err := keys.NewPair(r.cfg.Keys.Bits)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(r.cfg.Keys.Dir, 0o700); err != nil {
		return errors.Wrap(err, "failed to create key directory")
	}

	privatePath := filepath.Join(r.cfg.Keys.Dir, name+".pem")
	publicPath := filepath.Join(r.cfg.Keys.Dir, name+".pub.pem")

	if _, err := os.Stat(privatePath); err == nil {
		return errors.Newf("refusing to overwrite %s", privatePath)
	}

	if err := os.WriteFile(privatePath, []byte(pair.PrivatePEM), 0o600); err != nil {
		return errors.Wrap(err, "failed to write private key")
	}
	if err := os.WriteFile(publicPath, []byte(pair.PublicPEM), 0o644); err != nil {
		return errors.Wrap(err, "failed to write public key")
	}

	r.log.Info().Str("name", name).Int("bits", r.cfg.Keys.Bits).Msg("key pair generated")
	fmt.Fprintf(r.out, "private key: %s\npublic key:  %s\n", privatePath, publicPath)

	return nil
}
