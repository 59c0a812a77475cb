package api

import (
	"context"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/openebl/leafca/pkg/ca_server/cert_issuer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// IssuanceMetrics counts issued and failed certificates.
type IssuanceMetrics struct {
	issuedCount metric.Int64Counter
	failedCount metric.Int64Counter
}

func NewIssuanceMetrics() *IssuanceMetrics {
	return &IssuanceMetrics{
		issuedCount: otlp_util.NewInt64Counter("ca_server.certificate.issued.count", metric.WithDescription("The total number of certificates issued")),
		failedCount: otlp_util.NewInt64Counter("ca_server.certificate.failed.count", metric.WithDescription("The total number of certificate requests that failed")),
	}
}

func (m *IssuanceMetrics) ObserveIssuance(stage cert_issuer.Stage, err error) {
	ctx := context.Background()
	if err == nil {
		m.issuedCount.Add(ctx, 1)
		return
	}
	m.failedCount.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", string(stage))))
}
