package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"net"
	"os"
	"strings"
	"time"
)

// TLSSettings holds environment-driven TLS configuration.
type TLSSettings struct {
	EnableTLS       bool
	CertPath        string
	KeyPath         string
	CertPEM         string
	KeyPEM          string
	Env             string
	AllowSelfSigned bool // dev only, when no certificate material is configured
}

// loadTLSSettings reads ENABLE_TLS, TLS_CERT_PATH, TLS_KEY_PATH, TLS_CERT,
// TLS_KEY and TLS_SELF_SIGNED. TLS is always on in production.
func loadTLSSettings(env string) TLSSettings {
	enableTLS := strings.EqualFold(os.Getenv("ENABLE_TLS"), "true")
	if env == "production" {
		enableTLS = true
	}

	return TLSSettings{
		EnableTLS:       enableTLS,
		CertPath:        os.Getenv("TLS_CERT_PATH"),
		KeyPath:         os.Getenv("TLS_KEY_PATH"),
		CertPEM:         os.Getenv("TLS_CERT"),
		KeyPEM:          os.Getenv("TLS_KEY"),
		Env:             env,
		AllowSelfSigned: !strings.EqualFold(os.Getenv("TLS_SELF_SIGNED"), "false"),
	}
}

func (s TLSSettings) Validate() error {
	if s.Env == "production" {
		if !s.EnableTLS {
			return errors.New("TLS must be enabled in production")
		}
		if s.CertPath == "" || s.KeyPath == "" {
			return errors.New("TLS_CERT_PATH and TLS_KEY_PATH are required in production")
		}
	}
	return nil
}

// Build returns the server TLS config. File paths win over inline PEM;
// a self-signed localhost certificate is the last resort outside production.
func (s TLSSettings) Build() (*tls.Config, error) {
	var cert tls.Certificate
	var err error

	switch {
	case s.CertPath != "" && s.KeyPath != "":
		cert, err = tls.LoadX509KeyPair(s.CertPath, s.KeyPath)
	case s.CertPEM != "" && s.KeyPEM != "":
		cert, err = tls.X509KeyPair([]byte(s.CertPEM), []byte(s.KeyPEM))
	case s.Env != "production" && s.AllowSelfSigned:
		cert, err = generateSelfSignedCert()
	default:
		return nil, errors.New("no TLS certificates available")
	}
	if err != nil {
		return nil, err
	}

	return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, nil
}

// generateSelfSignedCert mints a throwaway P-256 certificate for localhost.
func generateSelfSignedCert() (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, err
	}

	now := time.Now()
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "localhost", Organization: []string{"assettracker dev"}},
		NotBefore:    now.Add(-time.Hour),
		NotAfter:     now.AddDate(0, 0, 30),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, nil
}
