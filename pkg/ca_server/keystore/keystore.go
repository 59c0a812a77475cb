package keystore

import (
	"crypto"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/openebl/leafca/pkg/ca_server/model"
	eblpkix "github.com/openebl/leafca/pkg/pkix"
)

// CAIdentity is the certificate and private key of the issuing CA.
// It is immutable after Load and safe to share between goroutines.
type CAIdentity struct {
	certificate *x509.Certificate
	privateKey  crypto.Signer
}

func NewCAIdentity(certificate *x509.Certificate, privateKey crypto.Signer) *CAIdentity {
	return &CAIdentity{
		certificate: certificate,
		privateKey:  privateKey,
	}
}

func (id *CAIdentity) Certificate() *x509.Certificate {
	return id.certificate
}

func (id *CAIdentity) PrivateKey() crypto.Signer {
	return id.privateKey
}

// MatchesKey reports whether the private key belongs to the certificate.
// Load does not enforce it.
func (id *CAIdentity) MatchesKey() bool {
	return eblpkix.IsPublicKeyOf(id.privateKey, id.certificate.PublicKey)
}

// Load reads the CA certificate and private key.
// Errors wrap model.ErrLoad or model.ErrParse and are meant to abort start-up.
func Load(certPath, keyPath string) (*CAIdentity, error) {
	cert, err := LoadCertificate(certPath)
	if err != nil {
		return nil, err
	}
	key, err := LoadPrivateKey(keyPath)
	if err != nil {
		return nil, err
	}
	return NewCAIdentity(cert, key), nil
}

func LoadCertificate(path string) (*x509.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the CA certificate file %s: %s%w", path, err.Error(), model.ErrLoad)
	}

	cert, err := eblpkix.ParseCertificate(raw)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse the CA certificate file %s: %s%w", path, err.Error(), model.ErrParse)
	}
	return cert, nil
}

func LoadPrivateKey(path string) (crypto.Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the CA private key file %s: %s%w", path, err.Error(), model.ErrLoad)
	}

	key, err := eblpkix.ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse the CA private key file %s: %s%w", path, err.Error(), model.ErrParse)
	}
	return key, nil
}
