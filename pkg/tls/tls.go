package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"os"
)

type tlsConfigBuilder struct {
	cfg *tls.Config
	err error
}

func NewConfigBuilder() *tlsConfigBuilder {
	return &tlsConfigBuilder{
		cfg: &tls.Config{
			Certificates: []tls.Certificate{},
		},
	}
}

func (tb *tlsConfigBuilder) SkipVerify(skip bool) *tlsConfigBuilder {
	if tb.err != nil {
		return tb
	}
	tb.cfg.InsecureSkipVerify = skip
	return tb
}

func (tb *tlsConfigBuilder) KeyPairFile(cert, key string) *tlsConfigBuilder {
	if tb.err != nil {
		return tb
	}
	if len(cert) > 0 && len(key) > 0 {
		c, err := tls.LoadX509KeyPair(cert, key)
		if err != nil {
			tb.err = err
			return tb
		}
		tb.cfg.Certificates = append(tb.cfg.Certificates, c)
	}
	return tb
}

func (tb *tlsConfigBuilder) RootCaFile(ca string) *tlsConfigBuilder {
	if tb.err != nil {
		return tb
	}
	if len(ca) > 0 {
		caCert, err := os.ReadFile(ca)
		if err != nil {
			tb.err = err
			return tb
		}
		// system roots stay trusted, configured CA is added on top
		if tb.cfg.RootCAs == nil {
			pool, err := x509.SystemCertPool()
			if err != nil {
				pool = x509.NewCertPool()
			}
			tb.cfg.RootCAs = pool
		}
		if !tb.cfg.RootCAs.AppendCertsFromPEM(caCert) {
			tb.err = errors.New("no certificates found in " + ca)
		}
	}
	return tb
}

func (tb *tlsConfigBuilder) ServerName(serverName string) *tlsConfigBuilder {
	if tb.err != nil {
		return tb
	}
	tb.cfg.ServerName = serverName
	return tb
}

func (tb *tlsConfigBuilder) Build() (*tls.Config, error) {
	return tb.cfg, tb.err
}
