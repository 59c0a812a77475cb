package pkix

import (
	"crypto"
	"crypto/sha1"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"
)

const (
	PEMTypeCertificate        = "CERTIFICATE"
	PEMTypeCertificateRequest = "CERTIFICATE REQUEST"
	// Emitted by some older tools (Netscape, early openssl).
	PEMTypeNewCertificateRequest = "NEW CERTIFICATE REQUEST"
)

var ErrUnsupportedKey = errors.New("unsupported key type")

// ParsePrivateKey parses the first PEM block of key.
//
// PKCS#8 is tried first. SEC1 EC and PKCS#1 RSA encodings are accepted as fallbacks.
// The key must be usable as a crypto.Signer.
func ParsePrivateKey(key []byte) (crypto.Signer, error) {
	pemBlock, _ := pem.Decode(key)
	if pemBlock == nil {
		return nil, errors.New("invalid private key: no PEM block found")
	}

	var parsed any
	privKey, pkcs8Err := x509.ParsePKCS8PrivateKey(pemBlock.Bytes)
	if pkcs8Err == nil {
		parsed = privKey
	} else if ecPrivateKey, ecErr := x509.ParseECPrivateKey(pemBlock.Bytes); ecErr == nil {
		parsed = ecPrivateKey
	} else if rsaPrivateKey, pkcs1Err := x509.ParsePKCS1PrivateKey(pemBlock.Bytes); pkcs1Err == nil {
		parsed = rsaPrivateKey
	} else {
		return nil, pkcs8Err
	}

	signer, ok := parsed.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("private key of type %T cannot sign: %w", parsed, ErrUnsupportedKey)
	}
	return signer, nil
}

// ParseCertificate parses the first PEM block of certRaw as an X.509 certificate.
// Trailing blocks are ignored.
func ParseCertificate(certRaw []byte) (*x509.Certificate, error) {
	pemBlock, _ := pem.Decode(certRaw)
	if pemBlock == nil {
		return nil, errors.New("invalid certificate: no PEM block found")
	}
	if pemBlock.Type != PEMTypeCertificate {
		return nil, fmt.Errorf("invalid certificate: unexpected PEM block type %q", pemBlock.Type)
	}

	return x509.ParseCertificate(pemBlock.Bytes)
}

// ParseCertificateRequest parses a PEM encoded PKCS#10 certificate request.
// Any PEM block other than a certificate request (a certificate, a key) is rejected.
func ParseCertificateRequest(certRequest []byte) (*x509.CertificateRequest, error) {
	pemBlock, _ := pem.Decode(certRequest)
	if pemBlock == nil {
		return nil, errors.New("invalid certificate request: no PEM block found")
	}
	if pemBlock.Type != PEMTypeCertificateRequest && pemBlock.Type != PEMTypeNewCertificateRequest {
		return nil, fmt.Errorf("invalid certificate request: unexpected PEM block type %q", pemBlock.Type)
	}

	return x509.ParseCertificateRequest(pemBlock.Bytes)
}

func MarshalCertificate(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: PEMTypeCertificate, Bytes: cert.Raw})
}

// SubjectKeyID derives the Subject Key Identifier of pub as described in
// RFC 5280 section 4.2.1.2 (1): the SHA-1 hash of the subjectPublicKey BIT STRING.
func SubjectKeyID(pub crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrUnsupportedKey)
	}

	var spki struct {
		Algorithm        asn1.RawValue
		SubjectPublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(der, &spki); err != nil {
		return nil, err
	}

	sum := sha1.Sum(spki.SubjectPublicKey.Bytes)
	return sum[:], nil
}

// IsPublicKeyOf reports whether pub is the public half of privKey.
func IsPublicKeyOf(privKey crypto.Signer, pub crypto.PublicKey) bool {
	type equaler interface {
		Equal(x crypto.PublicKey) bool
	}

	own, ok := privKey.Public().(equaler)
	if !ok {
		return false
	}
	return own.Equal(pub)
}
