package cert_issuer

import (
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"time"

	"github.com/openebl/leafca/pkg/ca_server/keystore"
	"github.com/openebl/leafca/pkg/ca_server/model"
	eblpkix "github.com/openebl/leafca/pkg/pkix"
	"github.com/sirupsen/logrus"
)

// Validity of every issued certificate.
const CertificateLifetime = 365 * 24 * time.Hour

type CertIssuer interface {
	// GetCACertificate returns the CA certificate as base64 encoded PEM.
	GetCACertificate() model.OperationResult

	// SignCertificateRequest issues a certificate for a base64 encoded PEM CSR.
	// Failures never escape as errors; they are reported through a FAILURE envelope.
	SignCertificateRequest(csrBase64 string) model.OperationResult
}

// Stage is the last pipeline step reached by SignCertificateRequest.
type Stage string

const (
	StageDecode       Stage = "decode"
	StageParse        Stage = "parse"
	StageBuild        Stage = "build"
	StageSelectDigest Stage = "select_digest"
	StageSign         Stage = "sign"
	StageDone         Stage = "done"
)

// Observer is notified once per SignCertificateRequest call.
// err is nil when stage is StageDone.
type Observer interface {
	ObserveIssuance(stage Stage, err error)
}

type _CertIssuer struct {
	ca           *keystore.CAIdentity
	caCertBase64 string
	serials      SerialAllocator
	now          func() time.Time
	observer     Observer
}

type CertIssuerOption func(*_CertIssuer)

func CertIssuerWithSerialAllocator(serials SerialAllocator) CertIssuerOption {
	return func(i *_CertIssuer) {
		i.serials = serials
	}
}

func CertIssuerWithClock(now func() time.Time) CertIssuerOption {
	return func(i *_CertIssuer) {
		i.now = now
	}
}

func CertIssuerWithObserver(observer Observer) CertIssuerOption {
	return func(i *_CertIssuer) {
		i.observer = observer
	}
}

func NewCertIssuer(ca *keystore.CAIdentity, options ...CertIssuerOption) *_CertIssuer {
	issuer := &_CertIssuer{
		ca:           ca,
		caCertBase64: encodeCertificate(ca.Certificate().Raw),
		serials:      RandomSerial{},
		now:          time.Now,
	}
	for _, option := range options {
		option(issuer)
	}
	return issuer
}

func (i *_CertIssuer) GetCACertificate() model.OperationResult {
	return model.Success(i.caCertBase64)
}

func (i *_CertIssuer) SignCertificateRequest(csrBase64 string) model.OperationResult {
	payload, stage, err := i.issue(csrBase64)
	if i.observer != nil {
		i.observer.ObserveIssuance(stage, err)
	}
	if err != nil {
		logrus.Warnf("certificate issuance failed at %s: %v", stage, err)
		return model.Failure(err)
	}
	return model.Success(payload)
}

func (i *_CertIssuer) issue(csrBase64 string) (string, Stage, error) {
	csrPEM, err := decodeRequest(csrBase64)
	if err != nil {
		return "", StageDecode, err
	}

	csr, err := parseRequest(csrPEM)
	if err != nil {
		return "", StageParse, err
	}

	serial, err := i.serials.NextSerial()
	if err != nil {
		return "", StageBuild, fmt.Errorf("failed to allocate serial number: %s%w", err.Error(), model.ErrBuild)
	}
	template, err := BuildCertificate(csr, i.ca, serial, i.now())
	if err != nil {
		return "", StageBuild, err
	}

	digest, err := SelectDigest(i.ca.PrivateKey())
	if err != nil {
		return "", StageSelectDigest, err
	}

	der, err := SignCertificate(template, i.ca, digest)
	if err != nil {
		return "", StageSign, err
	}

	logrus.Debugf("issued certificate serial %s for %q (CSR version %d)", serial.String(), csr.Subject.String(), csr.Version)
	return encodeCertificate(der), StageDone, nil
}

func decodeRequest(csrBase64 string) ([]byte, error) {
	if err := ValidateSignRequest(model.SignRequest{CSRBase64: csrBase64}); err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(csrBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode csr_base64: %s%w", err.Error(), model.ErrDecode)
	}
	return raw, nil
}

func parseRequest(csrPEM []byte) (*x509.CertificateRequest, error) {
	csr, err := eblpkix.ParseCertificateRequest(csrPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate request: %s%w", err.Error(), model.ErrParse)
	}
	if err := csr.CheckSignature(); err != nil {
		return nil, fmt.Errorf("certificate request signature is invalid: %s%w", err.Error(), model.ErrParse)
	}
	return csr, nil
}

// BuildCertificate returns the unsigned certificate for csr.
// The validity starts at now, truncated to seconds, and lasts CertificateLifetime.
func BuildCertificate(csr *x509.CertificateRequest, ca *keystore.CAIdentity, serial *big.Int, now time.Time) (*x509.Certificate, error) {
	if serial == nil || serial.Sign() <= 0 {
		return nil, fmt.Errorf("serial number must be positive%w", model.ErrBuild)
	}

	subjectKeyID, err := eblpkix.SubjectKeyID(csr.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive subject key identifier: %s%w", err.Error(), model.ErrBuild)
	}

	notBefore := now.UTC().Truncate(time.Second)
	return &x509.Certificate{
		SerialNumber: serial,
		Issuer:       ca.Certificate().Subject,
		Subject:      csr.Subject,
		RawSubject:   csr.RawSubject,
		PublicKey:    csr.PublicKey,
		NotBefore:    notBefore,
		NotAfter:     notBefore.Add(CertificateLifetime),
		SubjectKeyId: subjectKeyID,
	}, nil
}

// SelectDigest returns the digest the CA key has to sign with.
func SelectDigest(key crypto.Signer) (crypto.Hash, error) {
	digest, err := eblpkix.DigestForKey(key)
	if err != nil {
		return eblpkix.NoDigest, fmt.Errorf("no digest for CA key: %s%w", err.Error(), model.ErrSigning)
	}
	return digest, nil
}

// SignCertificate signs template with the CA key using digest and returns the DER certificate.
// A digest that does not fit the CA key fails with model.ErrSigning.
func SignCertificate(template *x509.Certificate, ca *keystore.CAIdentity, digest crypto.Hash) ([]byte, error) {
	signatureAlgorithm, err := eblpkix.SignatureAlgorithmFor(ca.PrivateKey().Public(), digest)
	if err != nil {
		return nil, fmt.Errorf("unsupported signing combination: %s%w", err.Error(), model.ErrSigning)
	}

	signed := *template
	signed.SignatureAlgorithm = signatureAlgorithm

	// Without a parent key id, the certificate carries the subject key identifier as its only extension.
	parent := *ca.Certificate()
	parent.SubjectKeyId = nil

	der, err := x509.CreateCertificate(rand.Reader, &signed, &parent, template.PublicKey, ca.PrivateKey())
	if err != nil {
		return nil, fmt.Errorf("failed to sign certificate: %s%w", err.Error(), model.ErrSigning)
	}
	return der, nil
}

func encodeCertificate(der []byte) string {
	return base64.StdEncoding.EncodeToString(pem.EncodeToMemory(&pem.Block{Type: eblpkix.PEMTypeCertificate, Bytes: der}))
}
