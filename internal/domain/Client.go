package domain

import "time"

// Platform identifica a plataforma de anúncios de origem dos dados
type Platform string

const (
	PlatformMeta      Platform = "meta"
	PlatformGoogleAds Platform = "google_ads"
)

// Platforms lista todas as plataformas suportadas pelo pipeline
var Platforms = []Platform{PlatformMeta, PlatformGoogleAds}

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusDisabled ClientStatus = "disabled"
)

// PlatformCredentials contém as credenciais de um cliente para uma plataforma
type PlatformCredentials struct {
	AccessToken string `json:"access_token"`
	AccountID   string `json:"account_id"`
	Enabled     bool   `json:"enabled"`
}

// Valid indica se as credenciais estão completas para uso na API da plataforma
func (c PlatformCredentials) Valid() bool {
	return c.AccessToken != "" && c.AccountID != ""
}

// Client representa um cliente (hotel) com credenciais por plataforma.
// Clientes nunca são removidos fisicamente, apenas desabilitados.
type Client struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Status    ClientStatus `json:"status"`
	Meta      PlatformCredentials
	GoogleAds PlatformCredentials
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credentials retorna as credenciais do cliente para a plataforma informada
func (c *Client) Credentials(platform Platform) PlatformCredentials {
	switch platform {
	case PlatformMeta:
		return c.Meta
	case PlatformGoogleAds:
		return c.GoogleAds
	}
	return PlatformCredentials{}
}

// PlatformEnabled indica se o cliente está habilitado para coleta na plataforma
func (c *Client) PlatformEnabled(platform Platform) bool {
	return c.Status == ClientStatusActive && c.Credentials(platform).Enabled
}
