package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/marketing-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

const (
	periodSummariesTable = "period_summaries ps"
)

// SummaryRepository persiste os resumos definitivos de períodos encerrados.
// A chave natural (client_id, platform, summary_type, summary_date) garante
// no máximo uma linha por período: escritas repetidas substituem o agregado.
type SummaryRepository interface {
	Get(clientID string, platform domain.Platform, summaryType domain.SummaryType, summaryDate time.Time) (*domain.PeriodSummary, error)
	GetByPeriodRange(clientID string, platform domain.Platform, summaryType domain.SummaryType, startDate, endDate time.Time) ([]*domain.PeriodSummary, error)
	ListSummaryDates(clientID string, platform domain.Platform, summaryType domain.SummaryType) ([]time.Time, error)
	Upsert(summary *domain.PeriodSummary) error
}

type summaryRepository struct {
	conn *postgres.Connection
}

func NewSummaryRepository(conn *postgres.Connection) SummaryRepository {
	return &summaryRepository{
		conn: conn,
	}
}

func (r *summaryRepository) Get(clientID string, platform domain.Platform, summaryType domain.SummaryType, summaryDate time.Time) (*domain.PeriodSummary, error) {
	query, args, err := squirrel.
		Select("ps.id, ps.client_id, ps.platform, ps.summary_type, ps.summary_date, ps.totals, ps.campaigns, ps.created_at, ps.updated_at").
		From(periodSummariesTable).
		Where(squirrel.Eq{
			"ps.client_id":    clientID,
			"ps.platform":     platform,
			"ps.summary_type": summaryType,
			"ps.summary_date": summaryDate.Format(time.DateOnly),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	summary, err := r.scanSummary(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear resumo de período: %w", err)
	}

	return summary, nil
}

func (r *summaryRepository) GetByPeriodRange(clientID string, platform domain.Platform, summaryType domain.SummaryType, startDate, endDate time.Time) ([]*domain.PeriodSummary, error) {
	query, args, err := squirrel.
		Select("ps.id, ps.client_id, ps.platform, ps.summary_type, ps.summary_date, ps.totals, ps.campaigns, ps.created_at, ps.updated_at").
		From(periodSummariesTable).
		Where(squirrel.Eq{
			"ps.client_id":    clientID,
			"ps.platform":     platform,
			"ps.summary_type": summaryType,
		}).
		Where(squirrel.GtOrEq{"ps.summary_date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"ps.summary_date": endDate.Format(time.DateOnly)}).
		OrderBy("ps.summary_date ASC").
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

	summaries := make([]*domain.PeriodSummary, 0)
	for rows.Next() {
		summary, err := r.scanSummaryRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear resumos de período: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return summaries, nil
}

// ListSummaryDates retorna as datas de resumo já coletadas, usadas para
// descobrir períodos faltantes antes de um backfill
func (r *summaryRepository) ListSummaryDates(clientID string, platform domain.Platform, summaryType domain.SummaryType) ([]time.Time, error) {
	query, args, err := squirrel.
		Select("ps.summary_date").
		From(periodSummariesTable).
		Where(squirrel.Eq{
			"ps.client_id":    clientID,
			"ps.platform":     platform,
			"ps.summary_type": summaryType,
		}).
		OrderBy("ps.summary_date ASC").
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

	dates := make([]time.Time, 0)
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("erro ao escanear data de resumo: %w", err)
		}
		dates = append(dates, date)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return dates, nil
}

func (r *summaryRepository) Upsert(summary *domain.PeriodSummary) error {
	if summary == nil {
		return errors.New("resumo de período não pode ser nulo")
	}

	var totalsJSON, campaignsJSON []byte
	var err error

	if summary.Totals != nil {
		totalsJSON, err = json.Marshal(summary.Totals)
		if err != nil {
			return fmt.Errorf("erro ao serializar totais para JSON: %w", err)
		}
	}

	if summary.Campaigns != nil {
		campaignsJSON, err = json.Marshal(summary.Campaigns)
		if err != nil {
			return fmt.Errorf("erro ao serializar campanhas para JSON: %w", err)
		}
	}

	query := squirrel.StatementBuilder.
		Insert("period_summaries").
		Columns("client_id", "platform", "summary_type", "summary_date", "totals", "campaigns").
		Values(
			summary.ClientID,
			summary.Platform,
			summary.SummaryType,
			summary.SummaryDate.Format(time.DateOnly),
			totalsJSON,
			campaignsJSON,
		).
		Suffix(`
			ON CONFLICT (client_id, platform, summary_type, summary_date) DO UPDATE SET
				totals = EXCLUDED.totals,
				campaigns = EXCLUDED.campaigns,
				updated_at = NOW()
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

func (r *summaryRepository) scanSummary(row *sql.Row) (*domain.PeriodSummary, error) {
	summary := &domain.PeriodSummary{}
	var totalsJSON, campaignsJSON []byte

	err := row.Scan(
		&summary.ID,
		&summary.ClientID,
		&summary.Platform,
		&summary.SummaryType,
		&summary.SummaryDate,
		&totalsJSON,
		&campaignsJSON,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.decodeSummaryPayload(summary, totalsJSON, campaignsJSON)
}

func (r *summaryRepository) scanSummaryRows(rows *sql.Rows) (*domain.PeriodSummary, error) {
	summary := &domain.PeriodSummary{}
	var totalsJSON, campaignsJSON []byte

	err := rows.Scan(
		&summary.ID,
		&summary.ClientID,
		&summary.Platform,
		&summary.SummaryType,
		&summary.SummaryDate,
		&totalsJSON,
		&campaignsJSON,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.decodeSummaryPayload(summary, totalsJSON, campaignsJSON)
}

func (r *summaryRepository) decodeSummaryPayload(summary *domain.PeriodSummary, totalsJSON, campaignsJSON []byte) (*domain.PeriodSummary, error) {
	if totalsJSON != nil {
		totals := &domain.PeriodTotals{}
		if err := json.Unmarshal(totalsJSON, totals); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de totais: %w", err)
		}
		summary.Totals = totals
	}

	if campaignsJSON != nil {
		campaigns := make([]*domain.CampaignMetrics, 0)
		if err := json.Unmarshal(campaignsJSON, &campaigns); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de campanhas: %w", err)
		}
		summary.Campaigns = campaigns
	}

	return summary, nil
}
