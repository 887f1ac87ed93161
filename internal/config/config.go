// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	HTTP HTTPServer `yaml:"http"`

	Database         Database         `yaml:"database"`
	Migrate          Migrate          `yaml:"migrate"`
	IdentityProvider IdentityProvider `yaml:"identityProvider"`
	Issuer           Issuer           `yaml:"issuer"`
	Cookies          Cookies          `yaml:"cookies"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
	RequestTimeout  time.Duration `yaml:"requestTimeout" default:"10s"`
}

type Database struct {
	Name     string              `yaml:"name"`
	Port     string              `yaml:"port"`
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	SSLMode  string              `yaml:"sslMode"`
}

// Migrate selects the directory of the embedded migrations to apply.
type Migrate struct {
	Dir string `yaml:"dir" default:"."`
}

type IdentityProviderType string

const (
	IdentityProviderSQL  IdentityProviderType = "sql"
	IdentityProviderHTTP IdentityProviderType = "http"
)

type IdentityProvider struct {
	Type IdentityProviderType `yaml:"type" default:"sql"`
	HTTP HTTPIdentityProvider `yaml:"http"`
	SQL  SQLIdentityProvider  `yaml:"sql"`
}

// HTTPIdentityProvider points at a remote credential verification endpoint.
type HTTPIdentityProvider struct {
	URL        string        `yaml:"url"`
	Timeout    time.Duration `yaml:"timeout" default:"5s"`
	ClientAuth ClientAuth    `yaml:"clientAuth"`
}

type ClientAuthType string

const (
	ClientAuthInsecure     ClientAuthType = "insecure"
	ClientAuthMTLS         ClientAuthType = "mtls"
	ClientAuthClientSecret ClientAuthType = "client_secret"
)

// ClientAuth configures how the service authenticates itself towards the
// identity provider.
type ClientAuth struct {
	Type         ClientAuthType      `yaml:"type" default:"insecure"`
	ClientID     string              `yaml:"clientID"`
	ClientSecret commoncfg.SourceRef `yaml:"clientSecret"`
	MTLS         *commoncfg.MTLS     `yaml:"mTLS"`
}

type SQLIdentityProvider struct {
	LookupByEmail bool `yaml:"lookupByEmail" default:"true"`
}

// Issuer holds the key material and claim settings of the assertion token.
// PrivateKey and Audience are required for issuance only.
type Issuer struct {
	SiteURL       string              `yaml:"siteURL"`
	Audience      string              `yaml:"audience"`
	SessionWindow time.Duration       `yaml:"sessionWindow" default:"580s"`
	Algorithm     string              `yaml:"algorithm" default:"RS256"`
	KeyID         string              `yaml:"keyID"`
	PrivateKey    commoncfg.SourceRef `yaml:"privateKey"`
	PublicKey     commoncfg.SourceRef `yaml:"publicKey"`
}

type Cookies struct {
	Prefix           string              `yaml:"prefix" default:"wordpress"`
	InstallationHash string              `yaml:"installationHash"`
	Secret           commoncfg.SourceRef `yaml:"secret"`
	SetOnResponse    bool                `yaml:"setOnResponse"`
	AuthTemplate     CookieTemplate      `yaml:"authTemplate"`
	LoggedInTemplate CookieTemplate      `yaml:"loggedInTemplate"`
}

type CookieSameSite string

const (
	CookieSameSiteNone   CookieSameSite = "None"
	CookieSameSiteLax    CookieSameSite = "Lax"
	CookieSameSiteStrict CookieSameSite = "Strict"
)

// CookieTemplate carries the attributes of a cookie. Names and values are
// filled in at issuance time.
type CookieTemplate struct {
	Path     string         `yaml:"path" default:"/"`
	Domain   string         `yaml:"domain"`
	Secure   bool           `yaml:"secure" default:"true"`
	HTTPOnly bool           `yaml:"httpOnly" default:"true"`
	SameSite CookieSameSite `yaml:"sameSite" default:"Lax"`
}
