package domain

import (
	"time"
)

// Core Types

// PatientRecord is an open-ended mapping of clinical attribute keys to raw
// values (number, string, boolean, or nil). No schema is enforced: unknown
// keys are ignored and missing keys mean "unknown", never false or zero.
// The record is supplied per evaluation call and never retained.
type PatientRecord map[string]interface{}

// Condition is a pure predicate over a patient record. Conditions must not
// mutate the record; a panicking condition is treated as non-matching.
type Condition func(patient PatientRecord) bool

// Rule is a single clinical recommendation rule. Rules are authored once at
// process start and never mutated afterwards.
type Rule struct {
	ID             string    `json:"id"`
	Description    string    `json:"description"`
	Condition      Condition `json:"-"`
	Recommendation string    `json:"recommendation"`
	Dosage         string    `json:"dosage,omitempty"`
	DosageReason   string    `json:"dosage_reason,omitempty"`
	Priority       int       `json:"priority"` // lower numbers = higher priority
	GuidelineRef   string    `json:"guideline_ref,omitempty"`
	GuidelineText  string    `json:"guideline_text,omitempty"`
}

// Applies reports whether the rule's condition holds for the patient.
// Any panic inside the condition is contained here and counts as a
// non-match, so a single bad rule can never abort an evaluation. The
// value receiver keeps Applies callable on rules returned by value.
func (r Rule) Applies(patient PatientRecord) (applies bool) {
	defer func() {
		if recover() != nil {
			applies = false
		}
	}()
	if r.Condition == nil {
		return false
	}
	return r.Condition(patient)
}

// Explanation is the full reasoning record emitted for one fired rule.
type Explanation struct {
	RuleID         string `json:"rule_id"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Dosage         string `json:"dosage,omitempty"`
	DosageReason   string `json:"dosage_reason,omitempty"`
	Priority       int    `json:"priority"`
	GuidelineRef   string `json:"guideline_ref,omitempty"`
	GuidelineText  string `json:"guideline_text,omitempty"`
}

// Evaluation is the ordered result of evaluating a patient record against
// the rule set. Recommendations[i] corresponds to Explanations[i].
type Evaluation struct {
	Recommendations []string      `json:"recommendations"`
	Explanations    []Explanation `json:"explanations"`
	FallbackOnly    bool          `json:"fallback_only"`
}

// Request/Response Models

// RecommendationRequest is an incoming advisory request. When Source is
// "nhanes" the patient keys are NHANES field names and are translated
// before evaluation.
type RecommendationRequest struct {
	Patient PatientRecord `json:"patient" binding:"required"`
	Source  string        `json:"source,omitempty"`
}

// RecommendationResponse wraps an evaluation for the HTTP boundary.
type RecommendationResponse struct {
	Recommendations []string      `json:"recommendations"`
	Explanations    []Explanation `json:"explanations"`
	FallbackOnly    bool          `json:"fallback_only"`
	RecordHash      string        `json:"record_hash"`
	Cached          bool          `json:"cached"`
	ProcessingTime  time.Duration `json:"processing_time"`
	Timestamp       time.Time     `json:"timestamp"`
}

// Audit Models

// EvaluationRecord is the persisted audit trail of one evaluation. It
// deliberately carries only the opaque record hash and the fired rule ids,
// never patient attributes.
type EvaluationRecord struct {
	ID           string        `json:"id"`
	RecordHash   string        `json:"record_hash"`
	FiredRuleIDs []string      `json:"fired_rule_ids"`
	FallbackOnly bool          `json:"fallback_only"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Configuration Models

// Config is the main application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Feedback FeedbackConfig `mapstructure:"feedback"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig is the HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RateLimitRPS float64       `mapstructure:"rate_limit_rps"`
	RateBurst    int           `mapstructure:"rate_burst"`
}

// DatabaseConfig is the Postgres connection configuration for the optional
// audit repository and Postgres feedback store.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// CacheConfig configures the evaluation memoization cache.
type CacheConfig struct {
	MaxItems     int           `mapstructure:"max_items"`
	RedisEnabled bool          `mapstructure:"redis_enabled"`
	RedisURL     string        `mapstructure:"redis_url"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	PoolSize     int           `mapstructure:"pool_size"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// FeedbackConfig selects the clinician feedback store backend.
type FeedbackConfig struct {
	Backend    string `mapstructure:"backend"` // "sqlite", "postgres", "none"
	SQLitePath string `mapstructure:"sqlite_path"`
}

// LoggingConfig configures logrus output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json", "text"
}
