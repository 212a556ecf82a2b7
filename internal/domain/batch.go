package domain

import (
	"sync"
	"time"
)

// ClientFailure registra a falha de coleta de um cliente dentro de um lote
type ClientFailure struct {
	ClientID string   `json:"client_id"`
	Platform Platform `json:"platform"`
	Reason   string   `json:"reason"`
}

// BatchResult agrega o resultado de uma rodada de coleta. A falha de um
// cliente nunca escapa do lote: é registrada aqui e o fan-out continua.
type BatchResult struct {
	mu sync.Mutex

	RunID       string          `json:"run_id"`
	Refreshed   []string        `json:"refreshed"`
	Skipped     []string        `json:"skipped"`
	Failed      []ClientFailure `json:"failed"`
	APICalls    int             `json:"api_calls"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
}

func NewBatchResult(runID string) *BatchResult {
	return &BatchResult{
		RunID:     runID,
		Refreshed: make([]string, 0),
		Skipped:   make([]string, 0),
		Failed:    make([]ClientFailure, 0),
		StartedAt: time.Now(),
	}
}

// AddRefreshed registra um cliente cujos dados foram atualizados com sucesso
func (b *BatchResult) AddRefreshed(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Refreshed = append(b.Refreshed, clientID)
}

// AddSkipped registra um cliente atendido pelo cache sem chamada à API
func (b *BatchResult) AddSkipped(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Skipped = append(b.Skipped, clientID)
}

// AddFailure registra a falha de um cliente sem abortar o lote
func (b *BatchResult) AddFailure(clientID string, platform Platform, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Failed = append(b.Failed, ClientFailure{
		ClientID: clientID,
		Platform: platform,
		Reason:   reason,
	})
}

// CountAPICalls incrementa o contador de chamadas às APIs dos fornecedores
func (b *BatchResult) CountAPICalls(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.APICalls += n
}

// Complete marca o lote como finalizado
func (b *BatchResult) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CompletedAt = time.Now()
}

// Summary monta o payload de resumo retornado aos agendadores externos
func (b *BatchResult) Summary() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return map[string]any{
		"run_id":    b.RunID,
		"refreshed": len(b.Refreshed),
		"skipped":   len(b.Skipped),
		"failed":    len(b.Failed),
		"failures":  b.Failed,
		"api_calls": b.APICalls,
	}
}
