package keystore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openebl/leafca/pkg/ca_server/keystore"
	"github.com/openebl/leafca/pkg/ca_server/model"
	eblpkix "github.com/openebl/leafca/pkg/pkix"
	"github.com/openebl/leafca/test/pkitest"
	"github.com/stretchr/testify/suite"
)

type KeyStoreTestSuite struct {
	suite.Suite

	dir      string
	ca       pkitest.CA
	certPath string
	keyPath  string
}

func TestKeyStoreTestSuite(t *testing.T) {
	suite.Run(t, new(KeyStoreTestSuite))
}

func (s *KeyStoreTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.ca = pkitest.NewCA(s.T(), pkitest.Ed25519, "Test CA")
	s.certPath, s.keyPath = s.ca.WriteFiles(s.T(), s.dir)
}

func (s *KeyStoreTestSuite) TestLoad() {
	identity, err := keystore.Load(s.certPath, s.keyPath)
	s.Require().NoError(err)
	s.Assert().Equal(s.ca.Cert.Raw, identity.Certificate().Raw)
	s.Assert().True(eblpkix.IsPublicKeyOf(s.ca.Key, identity.PrivateKey().Public()))
	s.Assert().True(identity.MatchesKey())
}

func (s *KeyStoreTestSuite) TestLoadMismatchedKey() {
	other := pkitest.NewCA(s.T(), pkitest.ECDSA, "Other CA")
	keyPath := filepath.Join(s.dir, "other.key")
	s.Require().NoError(os.WriteFile(keyPath, other.KeyPEM, 0o600))

	// A mismatch is not rejected, only reported.
	identity, err := keystore.Load(s.certPath, keyPath)
	s.Require().NoError(err)
	s.Assert().False(identity.MatchesKey())
}

func (s *KeyStoreTestSuite) TestLoadMissingFiles() {
	_, err := keystore.LoadCertificate(filepath.Join(s.dir, "missing.crt"))
	s.Assert().ErrorIs(err, model.ErrLoad)

	_, err = keystore.LoadPrivateKey(filepath.Join(s.dir, "missing.key"))
	s.Assert().ErrorIs(err, model.ErrLoad)

	_, err = keystore.Load(s.certPath, filepath.Join(s.dir, "missing.key"))
	s.Assert().ErrorIs(err, model.ErrLoad)
}

func (s *KeyStoreTestSuite) TestLoadMalformedFiles() {
	garbage := filepath.Join(s.dir, "garbage.pem")
	s.Require().NoError(os.WriteFile(garbage, []byte("definitely not PEM"), 0o600))

	_, err := keystore.LoadCertificate(garbage)
	s.Assert().ErrorIs(err, model.ErrParse)
	s.Assert().NotErrorIs(err, model.ErrLoad)

	_, err = keystore.LoadPrivateKey(garbage)
	s.Assert().ErrorIs(err, model.ErrParse)

	// Certificate and key swapped.
	_, err = keystore.LoadCertificate(s.keyPath)
	s.Assert().ErrorIs(err, model.ErrParse)
	_, err = keystore.LoadPrivateKey(s.certPath)
	s.Assert().ErrorIs(err, model.ErrParse)
}
