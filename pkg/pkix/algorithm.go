package pkix

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
)

// NoDigest is returned by DigestForKey for signature schemes that hash internally.
const NoDigest crypto.Hash = 0

var ErrIncompatibleDigest = errors.New("digest is not compatible with key")

// DigestForKey returns the digest that has to be applied before signing with key.
// Ed25519 hashes internally and needs NoDigest.
func DigestForKey(key crypto.Signer) (crypto.Hash, error) {
	switch pub := key.Public().(type) {
	case ed25519.PublicKey:
		return NoDigest, nil
	case *ecdsa.PublicKey:
		switch pub.Curve {
		case elliptic.P256():
			return crypto.SHA256, nil
		case elliptic.P384():
			return crypto.SHA384, nil
		case elliptic.P521():
			return crypto.SHA512, nil
		}
		return NoDigest, fmt.Errorf("ECDSA curve %s: %w", pub.Curve.Params().Name, ErrUnsupportedKey)
	case *rsa.PublicKey:
		return crypto.SHA256, nil
	default:
		return NoDigest, fmt.Errorf("%T: %w", pub, ErrUnsupportedKey)
	}
}

// SignatureAlgorithmFor maps the key family of pub and digest to an X.509 signature algorithm.
// Combinations that would not yield a standard signature are rejected with ErrIncompatibleDigest.
func SignatureAlgorithmFor(pub crypto.PublicKey, digest crypto.Hash) (x509.SignatureAlgorithm, error) {
	switch pub.(type) {
	case ed25519.PublicKey:
		if digest == NoDigest {
			return x509.PureEd25519, nil
		}
	case *ecdsa.PublicKey:
		switch digest {
		case crypto.SHA256:
			return x509.ECDSAWithSHA256, nil
		case crypto.SHA384:
			return x509.ECDSAWithSHA384, nil
		case crypto.SHA512:
			return x509.ECDSAWithSHA512, nil
		}
	case *rsa.PublicKey:
		switch digest {
		case crypto.SHA256:
			return x509.SHA256WithRSA, nil
		case crypto.SHA384:
			return x509.SHA384WithRSA, nil
		case crypto.SHA512:
			return x509.SHA512WithRSA, nil
		}
	default:
		return x509.UnknownSignatureAlgorithm, fmt.Errorf("%T: %w", pub, ErrUnsupportedKey)
	}

	return x509.UnknownSignatureAlgorithm, fmt.Errorf("%T with digest %s: %w", pub, digestName(digest), ErrIncompatibleDigest)
}

func digestName(digest crypto.Hash) string {
	if digest == NoDigest {
		return "none"
	}
	return digest.String()
}
