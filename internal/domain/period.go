package domain

import (
	"fmt"
	"time"
)

// Granularity identifica a granularidade de um período de coleta
type Granularity string

const (
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// PeriodState classifica um período em relação ao relógio atual
type PeriodState int

const (
	// PeriodInProgress indica um período ainda aberto, atendido pelo cache
	PeriodInProgress PeriodState = iota
	// PeriodClosed indica um período encerrado, atendido pelo summary store
	PeriodClosed
)

// Period representa um período de calendário com datas inclusivas.
// Semanas são ancoradas na segunda-feira (convenção ISO).
type Period struct {
	Granularity Granularity
	Start       time.Time
	End         time.Time
}

// ID retorna o identificador do período usado como chave de cache.
// Meses no formato mm-yyyy, semanas pela data da segunda-feira.
func (p Period) ID() string {
	if p.Granularity == GranularityMonth {
		return fmt.Sprintf("%02d-%04d", int(p.Start.Month()), p.Start.Year())
	}
	return p.Start.Format(time.DateOnly)
}

// SummaryDate retorna a data que identifica o período no summary store
func (p Period) SummaryDate() time.Time {
	return p.Start
}

// Contains indica se a data está dentro do período
func (p Period) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return !day.Before(p.Start) && !day.After(p.End)
}

// WeekStart retorna a segunda-feira da semana da data informada
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // domingo conta como último dia da semana
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// MonthPeriod retorna o período mensal que contém a data informada
func MonthPeriod(ref time.Time) Period {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return Period{Granularity: GranularityMonth, Start: start, End: end}
}

// WeekPeriod retorna o período semanal (segunda a domingo) que contém a data informada
func WeekPeriod(ref time.Time) Period {
	start := WeekStart(ref)
	return Period{Granularity: GranularityWeek, Start: start, End: start.AddDate(0, 0, 6)}
}

// CurrentPeriod retorna o período em andamento para a granularidade informada
func CurrentPeriod(granularity Granularity, now time.Time) Period {
	if granularity == GranularityMonth {
		return MonthPeriod(now)
	}
	return WeekPeriod(now)
}

// PreviousPeriods retorna os últimos n períodos encerrados antes do período
// atual, do mais recente para o mais antigo
func PreviousPeriods(granularity Granularity, now time.Time, n int) []Period {
	periods := make([]Period, 0, n)
	current := CurrentPeriod(granularity, now)

	for i := 0; i < n; i++ {
		var ref time.Time
		if granularity == GranularityMonth {
			ref = current.Start.AddDate(0, -1, 0)
		} else {
			ref = current.Start.AddDate(0, 0, -7)
		}
		current = CurrentPeriod(granularity, ref)
		periods = append(periods, current)
	}

	return periods
}

// ClassifyPeriod classifica o período em relação ao instante informado.
// Períodos encerrados não são assunto do cache: devem ser atendidos pelo
// summary store ou coletados via backfill.
func ClassifyPeriod(p Period, now time.Time) PeriodState {
	if p.Contains(now) || now.Before(p.Start) {
		return PeriodInProgress
	}
	return PeriodClosed
}
