// Command txdemo exercises the transaction library end to end and inspects
// stored transaction records.
package main

import (
	"io"
	"log"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/thanhnp/ledger-tx/internal/config"
	"github.com/thanhnp/ledger-tx/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// runtime carries what every command needs once the configuration is loaded
type runtime struct {
	cfg    *config.Config
	log    zerolog.Logger
	out    io.Writer
	logOut io.Writer
}

func main() {
	app := newApp(os.Stdout, os.Stderr)

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("txdemo: %v", err)
	}
}

func newApp(out, logOut io.Writer) *cli.App {
	rt := &runtime{out: out, logOut: logOut}

	return &cli.App{
		Name:   "txdemo",
		Usage:  "Build, sign and verify ledger transactions",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to configuration file",
			},
		},
		Before: rt.load,
		Commands: []*cli.Command{
			{
				Name:   "demo",
				Usage:  "Run the coinbase and transfer walkthrough",
				Action: rt.demo,
			},
			{
				Name:   "keygen",
				Usage:  "Generate an RSA key pair into the configured key directory",
				Action: rt.keygen,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Base name of the key files",
						Required: true,
					},
				},
			},
			{
				Name:   "inspect",
				Usage:  "Recompute the identifier of a JSON record and optionally verify it",
				Action: rt.inspect,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the JSON transaction record",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "pubkey",
						Usage: "Path to a PEM public key to verify the signature with",
					},
				},
			},
		},
	}
}

func (r *runtime) load(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	r.cfg = cfg
	r.log = logger.New("txdemo", cfg.Log, r.logOut)
	r.log.Debug().Str("config", c.String("config")).Msg("configuration loaded")

	return nil
}
