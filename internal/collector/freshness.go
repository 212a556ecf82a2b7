package collector

import (
	"time"

	"github.com/vfg2006/marketing-report-api/internal/domain"
)

// ShouldRefresh decide se o snapshot em cache de um período em andamento está
// velho o suficiente para justificar uma nova busca na API. Função pura de
// timestamps: sem rede, sem banco.
//
// Período sem entrada de cache sempre dispara refresh. Entrada existente
// dispara refresh quando a idade excede o limiar da granularidade; dentro do
// limiar, o snapshot em cache é servido como está.
func ShouldRefresh(entry *domain.CacheEntry, now time.Time, ttl time.Duration) bool {
	if entry == nil {
		return true
	}

	return entry.Age(now) > ttl
}
