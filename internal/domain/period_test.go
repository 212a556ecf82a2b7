package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected time.Time
	}{
		{
			name:     "Segunda-feira retorna o próprio dia",
			date:     time.Date(2025, 6, 9, 15, 30, 0, 0, time.UTC),
			expected: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Quarta-feira retorna a segunda anterior",
			date:     time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Domingo pertence à semana iniciada na segunda anterior",
			date:     time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC),
			expected: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Semana que cruza a virada do mês",
			date:     time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeekStart(tt.date))
		})
	}
}

func TestPeriodID(t *testing.T) {
	month := MonthPeriod(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "03-2025", month.ID())

	week := WeekPeriod(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-10", week.ID())
}

func TestMonthPeriodBounds(t *testing.T) {
	period := MonthPeriod(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), period.Start)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), period.End)
}

func TestClassifyPeriod(t *testing.T) {
	now := time.Date(2025, 6, 11, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		period   Period
		expected PeriodState
	}{
		{
			name:     "Mês corrente está em andamento",
			period:   MonthPeriod(now),
			expected: PeriodInProgress,
		},
		{
			name:     "Semana corrente está em andamento",
			period:   WeekPeriod(now),
			expected: PeriodInProgress,
		},
		{
			name:     "Mês anterior está encerrado",
			period:   MonthPeriod(now.AddDate(0, -1, 0)),
			expected: PeriodClosed,
		},
		{
			name:     "Semana anterior está encerrada",
			period:   WeekPeriod(now.AddDate(0, 0, -7)),
			expected: PeriodClosed,
		},
		{
			name: "Último dia do período ainda conta como em andamento",
			period: Period{
				Granularity: GranularityWeek,
				Start:       time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
				End:         time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			},
			expected: PeriodInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyPeriod(tt.period, now))
		})
	}
}

func TestPreviousPeriods(t *testing.T) {
	now := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	months := PreviousPeriods(GranularityMonth, now, 3)
	assert.Len(t, months, 3)
	assert.Equal(t, "05-2025", months[0].ID())
	assert.Equal(t, "04-2025", months[1].ID())
	assert.Equal(t, "03-2025", months[2].ID())

	weeks := PreviousPeriods(GranularityWeek, now, 2)
	assert.Len(t, weeks, 2)
	assert.Equal(t, "2025-06-02", weeks[0].ID())
	assert.Equal(t, "2025-05-26", weeks[1].ID())

	for _, p := range append(months, weeks...) {
		assert.Equal(t, PeriodClosed, ClassifyPeriod(p, now))
	}
}
