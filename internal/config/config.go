// Package config defines the global configuration structure for the hydromon
// engine. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the application to
// exit immediately on startup (fail fast).
package config

import "time"

// Config is the top-level configuration struct for the hydromon engine.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"hydromon-engine"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain configurations
	Server    ServerConfig
	Storage   StorageConfig
	Engine    EngineConfig
	Alerts    AlertsConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
}

// StorageConfig selects and tunes the document store backend.
type StorageConfig struct {
	// Backend is the document store implementation: "sqlite" (embedded,
	// default), "postgres", or "memory" (volatile, for development).
	Backend     string `envconfig:"STORAGE_BACKEND" default:"sqlite" validate:"required,oneof=sqlite postgres memory"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"hydromon.db"`
	PostgresURL string `envconfig:"DATABASE_URL"`

	// ArchiveDir enables zstd archiving of risk samples dropped by retention
	// trimming. Empty disables archiving.
	ArchiveDir string `envconfig:"ARCHIVE_DIR"`
}

// EngineConfig holds every tunable of the hydration risk engine. Defaults
// are the reference values; all of them are deliberate constants rather than
// derived quantities.
type EngineConfig struct {
	// SegmentWeights are the six lookback segment weights applied to
	// [0,12h) [12h,24h) [24h,48h) [48h,72h) [72h,96h) [96h,120h), newest
	// first. They sum to ~1.0 so the weighted exposure stays in volume units.
	SegmentWeights []float64 `envconfig:"SEGMENT_WEIGHTS" default:"0.50,0.25,0.13,0.07,0.035,0.015" validate:"len=6,dive,gte=0"`

	// Risk term weights.
	RiskWeightWater       float64 `envconfig:"RISK_WEIGHT_WATER" default:"0.6" validate:"gte=0"`
	RiskWeightActivity    float64 `envconfig:"RISK_WEIGHT_ACTIVITY" default:"0.2" validate:"gte=0"`
	RiskWeightHeartRate   float64 `envconfig:"RISK_WEIGHT_HEART_RATE" default:"0.15" validate:"gte=0"`
	RiskWeightTemperature float64 `envconfig:"RISK_WEIGHT_TEMPERATURE" default:"0.0" validate:"gte=0"`
	RiskWeightDelta       float64 `envconfig:"RISK_WEIGHT_DELTA" default:"0.05" validate:"gte=0"`

	// Alert thresholds on the normalized risk score.
	MidRiskThreshold  float64 `envconfig:"MID_RISK_THRESHOLD" default:"0.5" validate:"gt=0,lte=1"`
	HighRiskThreshold float64 `envconfig:"HIGH_RISK_THRESHOLD" default:"0.8" validate:"gt=0,lte=1"`

	// Retention horizon for both the water log and the risk history.
	RetentionDays int `envconfig:"RETENTION_DAYS" default:"5" validate:"gt=0"`

	// ThrottleWindow is the minimum interval between persisted risk samples
	// for throttled trigger kinds.
	ThrottleWindow time.Duration `envconfig:"THROTTLE_WINDOW" default:"30m" validate:"gt=0"`

	// Heart rate normalization bounds.
	RestingHeartRate float64 `envconfig:"RESTING_HEART_RATE" default:"60" validate:"gt=0"`
	MaxHeartRate     float64 `envconfig:"MAX_HEART_RATE" default:"180" validate:"gt=0"`

	// Activity normalization denominators.
	StepsPerDay    float64 `envconfig:"ACTIVITY_STEPS_PER_DAY" default:"10000" validate:"gt=0"`
	DistancePerDay float64 `envconfig:"ACTIVITY_DISTANCE_METERS" default:"5000" validate:"gt=0"`
	EnergyPerDay   float64 `envconfig:"ACTIVITY_ENERGY_KCAL" default:"500" validate:"gt=0"`
	ExercisePerDay float64 `envconfig:"ACTIVITY_EXERCISE_MINUTES" default:"30" validate:"gt=0"`

	// Body temperature normalization bounds (celsius).
	NormalBodyTemp float64 `envconfig:"NORMAL_BODY_TEMP" default:"37.0"`
	MaxBodyTemp    float64 `envconfig:"MAX_BODY_TEMP" default:"39.0"`

	// FallbackDailyWater is the recommended daily intake (ml) when no user
	// profile exists.
	FallbackDailyWater float64 `envconfig:"FALLBACK_DAILY_WATER" default:"2000" validate:"gt=0"`

	// SettleDelay is the deferred one-shot refresh scheduled after an
	// app-launch trigger.
	SettleDelay time.Duration `envconfig:"SETTLE_DELAY" default:"500ms" validate:"gte=0"`

	// TransitionDuration is advertised to display layers for animating
	// fraction changes.
	TransitionDuration time.Duration `envconfig:"TRANSITION_DURATION" default:"1s" validate:"gte=0"`

	// RefreshInterval enables the recurring periodic-refresh ticker when
	// greater than zero.
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"0"`
}

// AlertsConfig holds settings for outbound alert delivery channels. Both
// channels are optional; with neither configured, alerts are log-only.
type AlertsConfig struct {
	WebhookURL     string        `envconfig:"ALERT_WEBHOOK_URL" validate:"omitempty,url"`
	WebhookSecret  string        `envconfig:"ALERT_WEBHOOK_SECRET"`
	WebhookTimeout time.Duration `envconfig:"ALERT_WEBHOOK_TIMEOUT" default:"10s"`
	UserAgent      string        `envconfig:"ALERT_USER_AGENT" default:"Hydromon-Alerts/1.0"`
	QueueURL       string        `envconfig:"ALERT_QUEUE_URL" validate:"omitempty,url"`
}

// TelemetryConfig holds metrics publishing settings.
type TelemetryConfig struct {
	MetricNamespace  string `envconfig:"METRIC_NAMESPACE" default:"Hydromon"`
	EnableCloudWatch bool   `envconfig:"ENABLE_CLOUDWATCH" default:"false"`
	AWSRegion        string `envconfig:"AWS_REGION" default:"us-east-1"`
}
