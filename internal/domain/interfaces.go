package domain

import (
	"context"
)

// RecommendationEngine maps a patient record to an ordered list of
// treatment recommendations with explanations.
type RecommendationEngine interface {
	Evaluate(patient PatientRecord) *Evaluation
	Rules() []Rule
	Fallback() Rule
}

// EvaluationCache memoizes evaluations keyed by the canonical record hash.
type EvaluationCache interface {
	Get(ctx context.Context, recordHash string) (*Evaluation, bool)
	Set(ctx context.Context, recordHash string, eval *Evaluation)
}

// AuditRepository persists evaluation audit records (hashes and rule ids
// only, never patient attributes).
type AuditRepository interface {
	Save(ctx context.Context, record *EvaluationRecord) error
	ListRecent(ctx context.Context, limit int) ([]*EvaluationRecord, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	GetCacheConfig() *CacheConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
