package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/openebl/leafca/pkg/ca_server/cert_issuer"
	"github.com/openebl/leafca/pkg/ca_server/keystore"
	"github.com/openebl/leafca/pkg/ca_server/model"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	APIPrefix = "/api/v1.0"

	routeGetCACert     = "get-ca-cert"
	routeCreateFromCSR = "create-from-csr"
)

type RestServer struct {
	issuer     cert_issuer.CertIssuer
	limiter    *rate.Limiter
	httpServer *http.Server
}

type RestServerOption func(*RestServer)

// RestServerWithRateLimit limits the API routes to limit requests per second.
// A limit of zero or less disables rate limiting.
func RestServerWithRateLimit(limit float64, burst int) RestServerOption {
	return func(s *RestServer) {
		if limit <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(limit), max(burst, 1))
	}
}

func RestServerWithTimeouts(read, write time.Duration) RestServerOption {
	return func(s *RestServer) {
		s.httpServer.ReadTimeout = read
		s.httpServer.WriteTimeout = write
	}
}

// NewRestServerWithConfig loads the CA material named by cfg and builds a server around it.
func NewRestServerWithConfig(cfg RestServerConfig) (*RestServer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ca, err := keystore.Load(cfg.CACertFile, cfg.CAPrivateKeyFile)
	if err != nil {
		return nil, err
	}
	if !ca.MatchesKey() {
		logrus.Warnf("CA private key %s does not match the certificate %s", cfg.CAPrivateKeyFile, cfg.CACertFile)
	}

	serials, err := cert_issuer.NewSerialAllocator(cfg.SerialPolicy)
	if err != nil {
		return nil, err
	}

	issuer := cert_issuer.NewCertIssuer(
		ca,
		cert_issuer.CertIssuerWithSerialAllocator(serials),
		cert_issuer.CertIssuerWithObserver(NewIssuanceMetrics()),
	)
	logrus.Infof("CA %q loaded, serial policy %s", ca.Certificate().Subject.String(), lo.Ternary(cfg.SerialPolicy == "", cert_issuer.SerialPolicyRandom, cfg.SerialPolicy))

	return NewRestServerWithIssuer(
		issuer,
		cfg.Listen,
		RestServerWithRateLimit(cfg.RateLimit, cfg.RateBurst),
		RestServerWithTimeouts(time.Duration(cfg.ReadTimeout)*time.Second, time.Duration(cfg.WriteTimeout)*time.Second),
	), nil
}

func NewRestServerWithIssuer(issuer cert_issuer.CertIssuer, address string, options ...RestServerOption) *RestServer {
	restServer := &RestServer{
		issuer:     issuer,
		httpServer: &http.Server{Addr: address},
	}
	for _, option := range options {
		option(restServer)
	}

	router := mux.NewRouter()
	router.Use(Log)
	router.HandleFunc("/healthz", restServer.healthz).Methods(http.MethodGet)

	apiRouter := router.PathPrefix(APIPrefix).Subrouter()
	if restServer.limiter != nil {
		apiRouter.Use(RateLimit(restServer.limiter))
	}
	apiRouter.HandleFunc("/get-ca-cert", restServer.getCACert).Methods(http.MethodGet).Name(routeGetCACert)
	apiRouter.HandleFunc("/create-from-csr", restServer.createFromCSR).Methods(http.MethodPost).Name(routeCreateFromCSR)

	restServer.httpServer.Handler = router
	return restServer
}

func (s *RestServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *RestServer) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *RestServer) Close(ctx context.Context) error {
	s.httpServer.SetKeepAlivesEnabled(false)
	return s.httpServer.Shutdown(ctx)
}

func (s *RestServer) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *RestServer) getCACert(w http.ResponseWriter, r *http.Request) {
	result := s.issuer.GetCACertificate()
	writeJSON(w, http.StatusOK, model.NewCACertResponse(result))
}

func (s *RestServer) createFromCSR(w http.ResponseWriter, r *http.Request) {
	_, span := otlp_util.Start(r.Context(), "ca_server/api.CreateFromCSR",
		trace.WithAttributes(attribute.String("request_id", RequestID(r.Context()))),
	)
	defer span.End()

	var req model.SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.SetAttributes(attribute.String("status", string(model.StatusFailure)))
		writeFailure(w, r, fmt.Errorf("invalid request body: %s%w", err.Error(), model.ErrBadRequest))
		return
	}

	result := s.issuer.SignCertificateRequest(req.CSRBase64)
	span.SetAttributes(attribute.String("status", string(result.Status)))
	writeJSON(w, http.StatusOK, model.NewSignResponse(result))
}

// writeFailure answers with the FAILURE envelope of the matched route.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	result := model.Failure(err)
	var body any = model.NewSignResponse(result)
	if route := mux.CurrentRoute(r); route != nil && route.GetName() == routeGetCACert {
		body = model.NewCACertResponse(result)
	}
	writeJSON(w, model.ErrToHttpStatus(err), body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Warnf("failed to write response: %v", err)
	}
}
