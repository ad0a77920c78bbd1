package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type LLMCallRecord struct {
	CallID       string
	Operation    string
	ProviderName string
	Model        string
	RequestID    string
	Status       string
	ErrorType    string
	StatusCode   int
	LatencyMS    int64
}

// LLMAuditRepo appends one row per candidate call to llm_calls.
type LLMAuditRepo struct {
	q Querier
}

func NewLLMAuditRepo(q Querier) *LLMAuditRepo {
	return &LLMAuditRepo{q: q}
}

func (r *LLMAuditRepo) Insert(ctx context.Context, rec LLMCallRecord) error {
	if rec.CallID == "" {
		rec.CallID = uuid.NewString()
	}
	_, err := r.q.Exec(ctx, `
INSERT INTO llm_calls(call_id, operation, provider_name, model, request_id, status, error_type, status_code, latency_ms)
VALUES ($1::uuid, $2, $3, $4, NULLIF($5,''), $6, NULLIF($7,''), NULLIF($8,0), $9)`,
		rec.CallID, rec.Operation, rec.ProviderName, rec.Model, rec.RequestID, rec.Status, rec.ErrorType, rec.StatusCode, rec.LatencyMS)
	if err != nil {
		return fmt.Errorf("insert llm call: %w", err)
	}
	return nil
}
