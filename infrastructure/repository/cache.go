package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/marketing-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

const (
	currentMonthCacheTable = "current_month_cache"
	currentWeekCacheTable  = "current_week_cache"
)

// CacheRepository persiste os snapshots dos períodos em andamento. Cada
// granularidade tem sua própria tabela (current_month_cache e
// current_week_cache), ambas com a mesma forma de linha.
type CacheRepository interface {
	Get(clientID, periodID string, platform domain.Platform, granularity domain.Granularity) (*domain.CacheEntry, error)
	Upsert(granularity domain.Granularity, entry *domain.CacheEntry) error
}

type cacheRepository struct {
	conn *postgres.Connection
}

func NewCacheRepository(conn *postgres.Connection) CacheRepository {
	return &cacheRepository{
		conn: conn,
	}
}

func tableForGranularity(granularity domain.Granularity) string {
	if granularity == domain.GranularityMonth {
		return currentMonthCacheTable
	}
	return currentWeekCacheTable
}

func (r *cacheRepository) Get(clientID, periodID string, platform domain.Platform, granularity domain.Granularity) (*domain.CacheEntry, error) {
	table := tableForGranularity(granularity)

	query, args, err := squirrel.
		Select("id, client_id, period_id, platform, snapshot, last_updated").
		From(table).
		Where(squirrel.Eq{
			"client_id": clientID,
			"period_id": periodID,
			"platform":  platform,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	entry := &domain.CacheEntry{}
	var snapshotJSON []byte

	row := r.conn.QueryRow(query, args...)
	err = row.Scan(
		&entry.ID,
		&entry.ClientID,
		&entry.PeriodID,
		&entry.Platform,
		&snapshotJSON,
		&entry.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear entrada de cache: %w", err)
	}

	if snapshotJSON != nil {
		snapshot := &domain.PeriodSnapshot{}
		if err := json.Unmarshal(snapshotJSON, snapshot); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de snapshot: %w", err)
		}
		entry.Snapshot = snapshot
	}

	return entry, nil
}

// Upsert grava o snapshot do período em andamento, substituindo a entrada
// existente para a mesma chave (client_id, period_id, platform)
func (r *cacheRepository) Upsert(granularity domain.Granularity, entry *domain.CacheEntry) error {
	if entry == nil {
		return errors.New("entrada de cache não pode ser nula")
	}

	table := tableForGranularity(granularity)

	var snapshotJSON []byte
	var err error

	if entry.Snapshot != nil {
		snapshotJSON, err = json.Marshal(entry.Snapshot)
		if err != nil {
			return fmt.Errorf("erro ao serializar snapshot para JSON: %w", err)
		}
	}

	query := squirrel.StatementBuilder.
		Insert(table).
		Columns("client_id", "period_id", "platform", "snapshot", "last_updated").
		Values(
			entry.ClientID,
			entry.PeriodID,
			entry.Platform,
			snapshotJSON,
			squirrel.Expr("NOW()"),
		).
		Suffix(`
			ON CONFLICT (client_id, period_id, platform) DO UPDATE SET
				snapshot = EXCLUDED.snapshot,
				last_updated = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}
