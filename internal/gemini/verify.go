package gemini

import (
	"crypto/tls"
	"crypto/x509"
	"sync"
)

// VerifyPolicy decides whether a server's presented certificate chain
// is acceptable. Implementations receive the raw DER chain exactly as
// the TLS layer observed it; returning nil accepts the peer.
type VerifyPolicy interface {
	VerifyServerCert(rawCerts [][]byte) error
}

// TrustAll accepts any certificate chain, any signature, any protocol
// version. Gemini's trust model is informal and most capsules present
// self-signed certificates; stricter policies (pinning, trust on first
// use) slot in through VerifyPolicy without touching fetch logic.
type TrustAll struct{}

func (TrustAll) VerifyServerCert([][]byte) error { return nil }

var (
	tlsBaseOnce sync.Once
	tlsBase     *tls.Config
)

// baseTLSConfig clones the shared client TLS template. The template is
// built once per process.
func baseTLSConfig() *tls.Config {
	tlsBaseOnce.Do(func() {
		tlsBase = &tls.Config{
			MinVersion: tls.VersionTLS12,
			// Chain validation is delegated to the VerifyPolicy; the
			// stock verifier stays out of the way.
			InsecureSkipVerify: true,
		}
	})
	return tlsBase.Clone()
}

func clientTLSConfig(serverName string, policy VerifyPolicy) *tls.Config {
	cfg := baseTLSConfig()
	cfg.ServerName = serverName
	cfg.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		return policy.VerifyServerCert(rawCerts)
	}
	return cfg
}
