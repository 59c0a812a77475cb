// Package pkitest builds throw-away CA material and CSRs for tests.
package pkitest

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	gopkix "crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type KeyType string

const (
	Ed25519 KeyType = "ed25519"
	ECDSA   KeyType = "ecdsa"
	RSA     KeyType = "rsa"
)

type CA struct {
	Cert    *x509.Certificate
	Key     crypto.Signer
	CertPEM []byte
	KeyPEM  []byte // PKCS#8
}

func NewKey(t testing.TB, keyType KeyType) crypto.Signer {
	t.Helper()

	switch keyType {
	case Ed25519:
		_, key, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		return key
	case ECDSA:
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		return key
	case RSA:
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		return key
	}
	t.Fatalf("unknown key type %s", keyType)
	return nil
}

// NewCA returns a self-signed CA named commonName.
func NewCA(t testing.TB, keyType KeyType, commonName string) CA {
	t.Helper()

	key := NewKey(t, keyType)
	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               gopkix.Name{CommonName: commonName},
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature | x509.KeyUsageCRLSign,
		IsCA:                  true,
		BasicConstraintsValid: true,
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().AddDate(10, 0, 0),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, key.Public(), key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	return CA{
		Cert:    cert,
		Key:     key,
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		KeyPEM:  pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}),
	}
}

// WriteFiles stores the CA certificate and key under dir and returns their paths.
func (ca CA) WriteFiles(t testing.TB, dir string) (certPath, keyPath string) {
	t.Helper()

	certPath = filepath.Join(dir, "ca.crt")
	keyPath = filepath.Join(dir, "ca.key")
	require.NoError(t, os.WriteFile(certPath, ca.CertPEM, 0o600))
	require.NoError(t, os.WriteFile(keyPath, ca.KeyPEM, 0o600))
	return certPath, keyPath
}

// NewCSR returns a PEM encoded CSR for commonName signed by key.
func NewCSR(t testing.TB, key crypto.Signer, commonName string) []byte {
	t.Helper()

	der, err := x509.CreateCertificateRequest(rand.Reader, &x509.CertificateRequest{
		Subject: gopkix.Name{CommonName: commonName},
	}, key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE REQUEST", Bytes: der})
}

func Base64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeCertificate reverses the issuer encoding: base64 of a PEM certificate.
func DecodeCertificate(t testing.TB, payload string) *x509.Certificate {
	t.Helper()

	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	block, _ := pem.Decode(raw)
	require.NotNil(t, block)
	require.Equal(t, "CERTIFICATE", block.Type)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	return cert
}

func PEM(blockType string, der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
}
