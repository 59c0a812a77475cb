package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/openebl/leafca/pkg/ca_server/api"
	"github.com/openebl/leafca/pkg/config"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const appName string = "leafca"

type App struct{}

type ServerCmd struct {
	Config     string `short:"c" long:"config" type:"existingfile" help:"Path to the configuration file"`
	CACertFile string `long:"ca-cert-file" help:"CA certificate (PEM). Overrides ca_cert_file."`
	CAPkeyFile string `long:"ca-pkey-file" help:"CA private key (PEM, PKCS#8). Overrides ca_pkey_file."`
	Listen     string `long:"listen" help:"Listen address. Overrides listen."`
}

type GetCACertCmd struct {
	Out string `short:"o" long:"out" help:"Write the certificate to this file instead of stdout"`
}

type SignCmd struct {
	CSR []byte `long:"csr" type:"filecontent" help:"Certificate signing request (PEM)" required:""`
	Out string `short:"o" long:"out" help:"Write the certificate to this file instead of stdout"`
}

type CAServerCli struct {
	Server ServerCmd `cmd:"" help:"Run the CA server."`

	Client struct {
		Server   string `short:"s" long:"server" help:"Server address, e.g. http://localhost:8080" required:""`
		Attempts uint   `long:"attempts" help:"Attempts per request on transport errors" default:"3"`

		GetCACert GetCACertCmd `cmd:"" name:"get-ca-cert" help:"Print the CA certificate."`
		Sign      SignCmd      `cmd:"" help:"Get a certificate issued for a CSR."`
	} `cmd:""`
}

func (*App) Run() {
	cli := CAServerCli{}
	ctx := kong.Parse(&cli, kong.Name(appName), kong.Description("Issues leaf certificates signed by a single CA."))
	err := ctx.Run(&cli)
	if err != nil {
		logrus.Errorf("failed to run command: %v", err)
		os.Exit(1)
	}
}

// LoadConfig reads the config file, if any, and applies the command line overrides.
func (cmd *ServerCmd) LoadConfig() (api.RestServerConfig, error) {
	cfg := api.RestServerConfig{
		Listen:       "0.0.0.0:8080",
		RateBurst:    10,
		ReadTimeout:  10,
		WriteTimeout: 10,
	}
	if cmd.Config != "" {
		if err := config.FromFile(cmd.Config, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.CACertFile = lo.Ternary(cmd.CACertFile != "", cmd.CACertFile, cfg.CACertFile)
	cfg.CAPrivateKeyFile = lo.Ternary(cmd.CAPkeyFile != "", cmd.CAPkeyFile, cfg.CAPrivateKeyFile)
	cfg.Listen = lo.Ternary(cmd.Listen != "", cmd.Listen, cfg.Listen)
	return cfg, cfg.Validate()
}

func (cmd *ServerCmd) Run(cli *CAServerCli) error {
	ctx := context.Background()

	cfg, err := cmd.LoadConfig()
	if err != nil {
		logrus.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}

	if endpoint := cfg.OTLPEndpoint; endpoint != "" {
		exporter, err := otlp_util.InitExporter(
			otlp_util.WithContext(ctx),
			otlp_util.WithEndPoint(endpoint),
			otlp_util.WithServiceName(appName),
			otlp_util.WithInSecure(),
			otlp_util.WithErrorHandler(func(err error) {
				logrus.Warnf("OTLP error: %v", err)
			}),
		)
		if err != nil {
			logrus.Errorf("failed to initialize OTLP exporter: %v", err)
			os.Exit(1)
		}
		defer func() { _ = exporter.Shutdown(ctx) }()
	}

	restServer, err := api.NewRestServerWithConfig(cfg)
	if err != nil {
		logrus.Errorf("failed to create CA server: %v", err)
		os.Exit(1)
	}

	logrus.Infof("starting CA server on %s.", cfg.Listen)
	go func() {
		if err := restServer.Run(); err != nil {
			logrus.Errorf("failed to start CA server: %v", err)
			os.Exit(1)
		}
	}()

	cmd.waitForInterrupt()
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return restServer.Close(shutdownCtx)
}

func (cmd *ServerCmd) waitForInterrupt() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server......")
}

func (cmd *GetCACertCmd) Run(cli *CAServerCli) error {
	client := NewRestClient(cli.Client.Server, RestClientWithAttempts(cli.Client.Attempts))
	certPEM, err := client.GetCACert(context.Background())
	if err != nil {
		return fmt.Errorf("get CA certificate: %w", err)
	}
	return writeOutput(cmd.Out, certPEM)
}

func (cmd *SignCmd) Run(cli *CAServerCli) error {
	client := NewRestClient(cli.Client.Server, RestClientWithAttempts(cli.Client.Attempts))
	certPEM, err := client.Sign(context.Background(), cmd.CSR)
	if err != nil {
		return fmt.Errorf("sign certificate request: %w", err)
	}
	return writeOutput(cmd.Out, certPEM)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logrus.Infof("certificate written to %s", path)
	return nil
}
