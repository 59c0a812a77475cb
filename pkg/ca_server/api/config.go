package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/openebl/leafca/pkg/ca_server/cert_issuer"
)

type RestServerConfig struct {
	CACertFile       string                   `yaml:"ca_cert_file"`
	CAPrivateKeyFile string                   `yaml:"ca_pkey_file"`
	Listen           string                   `yaml:"listen"`
	SerialPolicy     cert_issuer.SerialPolicy `yaml:"serial_policy"`
	RateLimit        float64                  `yaml:"rate_limit"` // Requests per second. 0 disables the limiter.
	RateBurst        int                      `yaml:"rate_burst"`
	ReadTimeout      int                      `yaml:"read_timeout"` // Seconds.
	WriteTimeout     int                      `yaml:"write_timeout"`
	OTLPEndpoint     string                   `yaml:"otlp_endpoint"`
}

func (c RestServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CACertFile, validation.Required),
		validation.Field(&c.CAPrivateKeyFile, validation.Required),
		validation.Field(&c.Listen, validation.Required),
		validation.Field(&c.SerialPolicy, validation.In(cert_issuer.SerialPolicyRandom, cert_issuer.SerialPolicySequential)),
		validation.Field(&c.RateLimit, validation.Min(0.0)),
		validation.Field(&c.RateBurst, validation.Min(0)),
		validation.Field(&c.ReadTimeout, validation.Min(0)),
		validation.Field(&c.WriteTimeout, validation.Min(0)),
	)
}
