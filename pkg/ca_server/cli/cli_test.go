package cli_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/openebl/leafca/pkg/ca_server/api"
	"github.com/openebl/leafca/pkg/ca_server/cert_issuer"
	"github.com/openebl/leafca/pkg/ca_server/cli"
	"github.com/openebl/leafca/pkg/ca_server/keystore"
	"github.com/openebl/leafca/pkg/ca_server/model"
	eblpkix "github.com/openebl/leafca/pkg/pkix"
	"github.com/openebl/leafca/test/pkitest"
	"github.com/stretchr/testify/suite"
)

type RestClientTestSuite struct {
	suite.Suite

	ctx    context.Context
	ca     pkitest.CA
	server *httptest.Server
	client *cli.RestClient
}

func TestRestClientTestSuite(t *testing.T) {
	suite.Run(t, new(RestClientTestSuite))
}

func (s *RestClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ca = pkitest.NewCA(s.T(), pkitest.RSA, "Test CA")

	issuer := cert_issuer.NewCertIssuer(keystore.NewCAIdentity(s.ca.Cert, s.ca.Key))
	restServer := api.NewRestServerWithIssuer(issuer, "")
	s.server = httptest.NewServer(restServer.Handler())
	s.client = cli.NewRestClient(s.server.URL+"/", cli.RestClientWithRetryDelay(time.Millisecond))
}

func (s *RestClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *RestClientTestSuite) TestGetCACert() {
	certPEM, err := s.client.GetCACert(s.ctx)
	s.Require().NoError(err)
	s.Equal(s.ca.CertPEM, certPEM)
}

func (s *RestClientTestSuite) TestSign() {
	csr := pkitest.NewCSR(s.T(), pkitest.NewKey(s.T(), pkitest.ECDSA), "leaf.example.com")
	certPEM, err := s.client.Sign(s.ctx, csr)
	s.Require().NoError(err)

	cert, err := eblpkix.ParseCertificate(certPEM)
	s.Require().NoError(err)
	s.Equal("leaf.example.com", cert.Subject.CommonName)
	s.NoError(cert.CheckSignatureFrom(s.ca.Cert))
}

func (s *RestClientTestSuite) TestSignRejected() {
	_, err := s.client.Sign(s.ctx, s.ca.CertPEM)
	s.Require().Error(err)
	s.True(errors.Is(err, cli.ErrRequestRejected))
}

func (s *RestClientTestSuite) TestNoServer() {
	client := cli.NewRestClient("http://localhost:1", cli.RestClientWithAttempts(2), cli.RestClientWithRetryDelay(time.Millisecond))
	_, err := client.GetCACert(s.ctx)
	s.Error(err)
}

func TestRestClientRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(model.CACertResponse{Status: model.StatusFailure, StatusMessage: "no CA"})
	}))
	defer server.Close()

	client := cli.NewRestClient(server.URL, cli.RestClientWithAttempts(5), cli.RestClientWithRetryDelay(time.Millisecond))
	_, err := client.GetCACert(context.Background())
	if !errors.Is(err, cli.ErrRequestRejected) {
		t.Fatalf("expected a rejected request, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 calls, got %d", got)
	}
}

func TestRestClientGivesUp(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := cli.NewRestClient(server.URL, cli.RestClientWithAttempts(2), cli.RestClientWithRetryDelay(time.Millisecond))
	if _, err := client.Sign(context.Background(), []byte("csr")); err == nil {
		t.Fatal("expected an error")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

type ServerCmdTestSuite struct {
	suite.Suite
	dir string
}

func TestServerCmdTestSuite(t *testing.T) {
	suite.Run(t, new(ServerCmdTestSuite))
}

func (s *ServerCmdTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ServerCmdTestSuite) TestLoadConfigFromFile() {
	path := filepath.Join(s.dir, "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(`
ca_cert_file: /etc/leafca/ca.crt
ca_pkey_file: /etc/leafca/ca.key
listen: 127.0.0.1:9000
serial_policy: sequential
rate_limit: 5
`), 0o600))

	cmd := cli.ServerCmd{Config: path, Listen: "127.0.0.1:9100"}
	cfg, err := cmd.LoadConfig()
	s.Require().NoError(err)
	s.Equal("/etc/leafca/ca.crt", cfg.CACertFile)
	s.Equal("/etc/leafca/ca.key", cfg.CAPrivateKeyFile)
	s.Equal("127.0.0.1:9100", cfg.Listen)
	s.Equal(cert_issuer.SerialPolicySequential, cfg.SerialPolicy)
	s.Equal(5.0, cfg.RateLimit)
	s.Equal(10, cfg.RateBurst)
}

func (s *ServerCmdTestSuite) TestLoadConfigFromFlags() {
	cmd := cli.ServerCmd{CACertFile: "ca.crt", CAPkeyFile: "ca.key"}
	cfg, err := cmd.LoadConfig()
	s.Require().NoError(err)
	s.Equal("ca.crt", cfg.CACertFile)
	s.Equal("ca.key", cfg.CAPrivateKeyFile)
	s.Equal("0.0.0.0:8080", cfg.Listen)
}

func (s *ServerCmdTestSuite) TestLoadConfigInvalid() {
	_, err := (&cli.ServerCmd{CACertFile: "ca.crt"}).LoadConfig()
	s.Error(err)

	path := filepath.Join(s.dir, "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("ca_cert_file: a\nca_pkey_file: b\nserial_policy: constant\n"), 0o600))
	_, err = (&cli.ServerCmd{Config: path}).LoadConfig()
	s.Error(err)
}
