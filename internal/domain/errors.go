package domain

import (
	"errors"
	"fmt"
	"time"
)

// CredentialError indica cliente sem credenciais válidas para a plataforma.
// Não é retentado: o cliente é pulado com o motivo registrado no lote.
type CredentialError struct {
	ClientID string
	Platform Platform
	Reason   string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credenciais inválidas para cliente %s na plataforma %s: %s", e.ClientID, e.Platform, e.Reason)
}

// RateLimitError indica throttling do fornecedor (HTTP 429 e afins).
// Elegível para retentativa limitada com backoff na borda do coletor.
type RateLimitError struct {
	Platform   Platform
	StatusCode int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("limite de requisições atingido na plataforma %s (status %d)", e.Platform, e.StatusCode)
}

// UpstreamError indica qualquer outra falha do lado do fornecedor: 5xx,
// payload malformado ou timeout. Não é retentado na mesma invocação.
type UpstreamError struct {
	Platform   Platform
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("falha na plataforma %s: %s", e.Platform, e.Message)
	}
	return fmt.Sprintf("falha na plataforma %s (status %d)", e.Platform, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StorageError indica falha de escrita no cache ou no summary store.
// Nunca é silenciada: a operação do cliente é marcada como falha no lote.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("falha de armazenamento em %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsCredentialError(err error) bool {
	var credErr *CredentialError
	return errors.As(err, &credErr)
}

func IsRateLimitError(err error) bool {
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}

func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}
