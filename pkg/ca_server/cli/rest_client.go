package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/openebl/leafca/pkg/ca_server/api"
	"github.com/openebl/leafca/pkg/ca_server/model"
	eblpkix "github.com/openebl/leafca/pkg/pkix"
	"github.com/openebl/leafca/pkg/util"
	"github.com/sirupsen/logrus"
)

var ErrRequestRejected = errors.New("request rejected by the CA server")

type RestClient struct {
	server     string // http://server:port
	attempts   uint
	retryDelay time.Duration
	httpClient *http.Client
}

type RestClientOption func(*RestClient)

func RestClientWithAttempts(attempts uint) RestClientOption {
	return func(r *RestClient) {
		r.attempts = max(attempts, 1)
	}
}

func RestClientWithRetryDelay(delay time.Duration) RestClientOption {
	return func(r *RestClient) {
		r.retryDelay = delay
	}
}

func RestClientWithHTTPClient(client *http.Client) RestClientOption {
	return func(r *RestClient) {
		r.httpClient = client
	}
}

func NewRestClient(server string, options ...RestClientOption) *RestClient {
	client := &RestClient{
		server:     strings.TrimSuffix(server, "/"),
		attempts:   3,
		retryDelay: 500 * time.Millisecond,
		httpClient: http.DefaultClient,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// GetCACert returns the PEM encoded CA certificate.
func (r *RestClient) GetCACert(ctx context.Context) ([]byte, error) {
	resp := model.CACertResponse{}
	if err := r.execute(ctx, http.MethodGet, "/get-ca-cert", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != model.StatusSuccess {
		return nil, fmt.Errorf("%s: %w", resp.StatusMessage, ErrRequestRejected)
	}
	return decodeCertificate(resp.CACertBase64)
}

// Sign submits a PEM encoded CSR and returns the PEM encoded certificate.
func (r *RestClient) Sign(ctx context.Context, csrPEM []byte) ([]byte, error) {
	req := model.SignRequest{CSRBase64: base64.StdEncoding.EncodeToString(csrPEM)}
	resp := model.SignResponse{}
	if err := r.execute(ctx, http.MethodPost, "/create-from-csr", req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != model.StatusSuccess {
		return nil, fmt.Errorf("%s: %w", resp.StatusMessage, ErrRequestRejected)
	}
	return decodeCertificate(resp.SignedCertBase64)
}

// execute retries transport errors, 429 and 5xx responses. A decoded envelope is never retried.
func (r *RestClient) execute(ctx context.Context, method, path string, body any, result any) error {
	endPoint := r.server + api.APIPrefix + path

	var payload []byte
	if body != nil {
		payload = []byte(util.StructToJSON(body))
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, method, endPoint, bytes.NewReader(payload))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if body != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := r.httpClient.Do(req)
			if err != nil {
				logrus.Debugf("send http request: %v", err)
				return err
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode/100 == 5 {
				message, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("request failed with status %d, message: %s", resp.StatusCode, string(message))
			}
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return retry.Unrecoverable(fmt.Errorf("unexpected response with status %d: %w", resp.StatusCode, err))
			}
			return nil
		},
		retry.Attempts(r.attempts),
		retry.Delay(r.retryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
}

func decodeCertificate(payload string) ([]byte, error) {
	certPEM, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid certificate encoding: %w", err)
	}
	if _, err := eblpkix.ParseCertificate(certPEM); err != nil {
		return nil, fmt.Errorf("invalid certificate: %w", err)
	}
	return certPEM, nil
}
