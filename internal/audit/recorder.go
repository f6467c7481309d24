// Package audit records every chart generation, export and import in the
// operation log.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/projsuite/internal/models"
	"github.com/rs/zerolog"
)

// Actions recorded by the CLI.
const (
	ActionGantt       = "gantt"
	ActionExport      = "export"
	ActionImport      = "import"
	ActionInitData    = "init-data"
	ActionPathsRepair = "paths-repair"
)

// OperationWriter persists operation records.
type OperationWriter interface {
	WriteOperation(action, inputsHash, outcome, projectID, details string) (*models.Operation, error)
}

// Recorder writes operation records for audit trails.
type Recorder struct {
	w   OperationWriter
	log zerolog.Logger
}

// NewRecorder creates a recorder on top of w. A nil w yields a recorder that
// only logs.
func NewRecorder(w OperationWriter, log zerolog.Logger) *Recorder {
	return &Recorder{w: w, log: log.With().Str("component", "audit").Logger()}
}

// Record writes an operation entry. Failures to persist are logged and
// returned; callers treat them as non-fatal.
func (r *Recorder) Record(action string, inputs interface{}, outcome, projectID, details string) (*models.Operation, error) {
	hash := HashInputs(inputs)
	r.log.Debug().
		Str("action", action).
		Str("outcome", outcome).
		Str("inputs_hash", hash).
		Msg("operation")
	if r.w == nil {
		return nil, nil
	}
	op, err := r.w.WriteOperation(action, hash, outcome, projectID, details)
	if err != nil {
		r.log.Warn().Err(err).Str("action", action).Msg("failed to record operation")
		return nil, err
	}
	return op, nil
}

// Outcome maps an error to the outcome recorded for it.
func Outcome(err error) string {
	if err != nil {
		return models.OutcomeFailed
	}
	return models.OutcomeSuccess
}

// HashInputs creates a SHA256 hash of the JSON encoding of inputs.
func HashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
