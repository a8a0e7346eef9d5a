package api

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gekatateam/loggate/config"
	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/gate"
	"github.com/gekatateam/loggate/pkg/tls"
	"github.com/gekatateam/loggate/relay"
	"github.com/gekatateam/loggate/relay/gateway"
)

type cliApi struct {
	gw  relay.Controller
	out io.Writer
}

func Cli(gw relay.Controller) *cliApi {
	return &cliApi{
		gw:  gw,
		out: os.Stdout,
	}
}

func (c *cliApi) Init(cCtx *cli.Context) error {
	tlsConfig, err := tls.NewConfigBuilder().
		RootCaFile(cCtx.String("tls-ca-file")).
		KeyPairFile(cCtx.String("tls-cert-file"), cCtx.String("tls-key-file")).
		SkipVerify(cCtx.Bool("tls-skip-verify")).
		Build()
	if err != nil {
		return cli.Exit(fmt.Sprintf("cli init: tls configuration failed - %v", err), 1)
	}

	c.gw = gateway.Rest(cCtx.String("server-address"), "api/v1/gates", cCtx.Duration("request-timeout"), tlsConfig)
	return nil
}

func (c *cliApi) List(cCtx *cli.Context) error {
	gates, err := c.gw.List()
	if err != nil {
		return cli.Exit(fmt.Sprintf("cli list: exec failed - %v", err), 1)
	}

	out, err := printGates(cCtx.String("format"), gates)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cli list: exec failed - %v", err), 1)
	}

	fmt.Fprint(c.out, out)
	return nil
}

func (c *cliApi) State(cCtx *cli.Context) error {
	name := cCtx.String("name")
	state, err := c.gw.State(name)

	var notFoundErr *relay.NotFoundError
	switch {
	case err == nil:
	case errors.As(err, &notFoundErr):
		return cli.Exit(fmt.Sprintf("gate %v not found: %v", name, err), 1)
	default:
		return cli.Exit(fmt.Sprintf("cli state: exec failed - %v", err), 1)
	}

	rawState, err := config.Marshal(state, cCtx.String("format"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("cli state: exec failed - %v", err), 1)
	}

	fmt.Fprintf(c.out, "%v\n", string(rawState))
	return nil
}

func (c *cliApi) Start(cCtx *cli.Context) error {
	name := cCtx.String("name")

	cfg := gate.Config{
		Category:   cCtx.String("category"),
		Filter:     cCtx.String("filter"),
		ForceLevel: cCtx.Bool("force-level"),
	}

	if l := cCtx.String("level"); len(l) > 0 {
		level, err := core.ToLevel(l)
		if err != nil {
			return cli.Exit(fmt.Sprintf("cli start: %v", err), 1)
		}
		cfg.Level = level
	}

	fmt.Fprintf(c.out, "starting gate %v\n", name)
	err := c.gw.Start(name, cfg)

	var notFoundErr *relay.NotFoundError
	var validationErr *relay.ValidationError
	switch {
	case err == nil:
		fmt.Fprintf(c.out, "gate %v started\n", name)
		return nil
	case errors.As(err, &notFoundErr):
		return cli.Exit(fmt.Sprintf("gate %v startup failed: gate not found: %v", name, err), 1)
	case errors.As(err, &validationErr):
		return cli.Exit(fmt.Sprintf("gate %v startup failed: invalid configuration: %v", name, err), 1)
	default:
		return cli.Exit(fmt.Sprintf("cli start: exec failed - %v", err), 1)
	}
}

func (c *cliApi) Stop(cCtx *cli.Context) error {
	name := cCtx.String("name")

	fmt.Fprintf(c.out, "stopping gate %v\n", name)
	err := c.gw.Stop(name)

	var notFoundErr *relay.NotFoundError
	switch {
	case err == nil:
		fmt.Fprintf(c.out, "gate %v stopped\n", name)
		return nil
	case errors.As(err, &notFoundErr):
		return cli.Exit(fmt.Sprintf("gate %v stop failed: gate not found: %v", name, err), 1)
	default:
		return cli.Exit(fmt.Sprintf("cli stop: exec failed - %v", err), 1)
	}
}
