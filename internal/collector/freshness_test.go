package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/marketing-report-api/internal/domain"
)

func TestShouldRefresh(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	ttl := 6 * time.Hour

	tests := []struct {
		name     string
		entry    *domain.CacheEntry
		expected bool
	}{
		{
			name:     "Entrada ausente sempre dispara busca",
			entry:    nil,
			expected: true,
		},
		{
			name: "Entrada recém-gravada não dispara busca",
			entry: &domain.CacheEntry{
				LastUpdated: now.Add(-1 * time.Minute),
			},
			expected: false,
		},
		{
			name: "Entrada exatamente no limiar não dispara busca",
			entry: &domain.CacheEntry{
				LastUpdated: now.Add(-ttl),
			},
			expected: false,
		},
		{
			name: "Entrada um segundo além do limiar dispara busca",
			entry: &domain.CacheEntry{
				LastUpdated: now.Add(-ttl - time.Second),
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldRefresh(tt.entry, now, ttl))
		})
	}
}

// A decisão deve ser monotônica: uma vez vencido o limiar, qualquer instante
// posterior também dispara a busca
func TestShouldRefreshMonotonic(t *testing.T) {
	entry := &domain.CacheEntry{
		LastUpdated: time.Date(2025, 6, 11, 6, 0, 0, 0, time.UTC),
	}
	ttl := 2 * time.Hour

	firstStale := entry.LastUpdated.Add(ttl + time.Second)
	assert.True(t, ShouldRefresh(entry, firstStale, ttl))

	for _, later := range []time.Duration{time.Minute, time.Hour, 24 * time.Hour} {
		assert.True(t, ShouldRefresh(entry, firstStale.Add(later), ttl))
	}
}
