package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/marketing-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

const (
	clientsTable = "clients c"
)

const clientColumns = `c.id, c.name, c.status,
	c.meta_access_token, c.meta_account_id, c.meta_enabled,
	c.google_ads_access_token, c.google_ads_customer_id, c.google_ads_enabled,
	c.created_at, c.updated_at`

type ClientRepository interface {
	GetByID(clientID string) (*domain.Client, error)
	ListActive() ([]*domain.Client, error)
	ListEnabledForPlatform(platform domain.Platform) ([]*domain.Client, error)
}

type clientRepository struct {
	conn *postgres.Connection
}

func NewClientRepository(conn *postgres.Connection) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

func (r *clientRepository) GetByID(clientID string) (*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns).
		From(clientsTable).
		Where(squirrel.Eq{"c.id": clientID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	client, err := r.scanClient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear cliente: %w", err)
	}

	return client, nil
}

func (r *clientRepository) ListActive() ([]*domain.Client, error) {
	return r.list(squirrel.Eq{"c.status": domain.ClientStatusActive})
}

// ListEnabledForPlatform retorna os clientes ativos com coleta habilitada na
// plataforma informada. Clientes desabilitados nunca entram no fan-out.
func (r *clientRepository) ListEnabledForPlatform(platform domain.Platform) ([]*domain.Client, error) {
	where := squirrel.And{squirrel.Eq{"c.status": domain.ClientStatusActive}}

	switch platform {
	case domain.PlatformMeta:
		where = append(where, squirrel.Eq{"c.meta_enabled": true})
	case domain.PlatformGoogleAds:
		where = append(where, squirrel.Eq{"c.google_ads_enabled": true})
	default:
		return nil, fmt.Errorf("plataforma desconhecida: %s", platform)
	}

	return r.list(where)
}

func (r *clientRepository) list(where squirrel.Sqlizer) ([]*domain.Client, error) {
	query, args, err := squirrel.
		Select(clientColumns).
		From(clientsTable).
		Where(where).
		OrderBy("c.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := r.scanClientRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear cliente: %w", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return clients, nil
}

func (r *clientRepository) scanClient(row *sql.Row) (*domain.Client, error) {
	client := &domain.Client{}
	var metaToken, metaAccountID, googleToken, googleCustomerID sql.NullString

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Status,
		&metaToken,
		&metaAccountID,
		&client.Meta.Enabled,
		&googleToken,
		&googleCustomerID,
		&client.GoogleAds.Enabled,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.Meta.AccessToken = metaToken.String
	client.Meta.AccountID = metaAccountID.String
	client.GoogleAds.AccessToken = googleToken.String
	client.GoogleAds.AccountID = googleCustomerID.String

	return client, nil
}

func (r *clientRepository) scanClientRows(rows *sql.Rows) (*domain.Client, error) {
	client := &domain.Client{}
	var metaToken, metaAccountID, googleToken, googleCustomerID sql.NullString

	err := rows.Scan(
		&client.ID,
		&client.Name,
		&client.Status,
		&metaToken,
		&metaAccountID,
		&client.Meta.Enabled,
		&googleToken,
		&googleCustomerID,
		&client.GoogleAds.Enabled,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.Meta.AccessToken = metaToken.String
	client.Meta.AccountID = metaAccountID.String
	client.GoogleAds.AccessToken = googleToken.String
	client.GoogleAds.AccountID = googleCustomerID.String

	return client, nil
}
