package tls

import (
	"crypto/tls"
	"fmt"

	pkg "github.com/gekatateam/loggate/pkg/tls"
)

type TLSClientConfig struct {
	KeyFile            string `mapstructure:"tls_key_file"             toml:"tls_key_file"             yaml:"tls_key_file"             json:"tls_key_file"`
	CertFile           string `mapstructure:"tls_cert_file"            toml:"tls_cert_file"            yaml:"tls_cert_file"            json:"tls_cert_file"`
	CAFile             string `mapstructure:"tls_ca_file"              toml:"tls_ca_file"              yaml:"tls_ca_file"              json:"tls_ca_file"`
	ServerName         string `mapstructure:"tls_server_name"          toml:"tls_server_name"          yaml:"tls_server_name"          json:"tls_server_name"`
	InsecureSkipVerify bool   `mapstructure:"tls_insecure_skip_verify" toml:"tls_insecure_skip_verify" yaml:"tls_insecure_skip_verify" json:"tls_insecure_skip_verify"`
	Enable             bool   `mapstructure:"tls_enable"               toml:"tls_enable"               yaml:"tls_enable"               json:"tls_enable"`
}

func (t *TLSClientConfig) Config() (*tls.Config, error) {
	if !t.Enable {
		return nil, nil
	}

	cfg, err := pkg.NewConfigBuilder().
		RootCaFile(t.CAFile).
		KeyPairFile(t.CertFile, t.KeyFile).
		SkipVerify(t.InsecureSkipVerify).
		ServerName(t.ServerName).
		Build()
	if err != nil {
		return nil, fmt.Errorf("tls: %v", err)
	}

	return cfg, nil
}
