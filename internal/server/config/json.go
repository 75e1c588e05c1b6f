package config

import (
	"encoding/json"
	"os"

	"github.com/truthlens/truthlens/internal/flagx"
	"github.com/truthlens/truthlens/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration, which accepts both string values
// such as "30s" and integer nanoseconds. After unmarshalling, its fields are
// copied into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	CORSOrigins                  []string       `json:"cors_origins"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`

	AnalysisProvider string         `json:"analysis_provider"`
	AnalysisModel    string         `json:"analysis_model"`
	AnalysisAPIKey   string         `json:"analysis_api_key"`
	AnalysisBaseURL  string         `json:"analysis_base_url"`
	AnalysisTimeout  timex.Duration `json:"analysis_timeout"`
	AnalysisCacheTTL timex.Duration `json:"analysis_cache_ttl"`

	ArchiveEnabled bool   `json:"archive_enabled"`
	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when neither
// is set, no JSON file is loaded. Only fields present in the file override
// the current values. An unreadable or invalid file panics: a config file
// that exists but cannot be used is an operator error worth failing fast on.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}

	if c.AnalysisProvider != "" {
		config.AnalysisProvider = c.AnalysisProvider
	}
	if c.AnalysisModel != "" {
		config.AnalysisModel = c.AnalysisModel
	}
	if c.AnalysisAPIKey != "" {
		config.AnalysisAPIKey = c.AnalysisAPIKey
	}
	if c.AnalysisBaseURL != "" {
		config.AnalysisBaseURL = c.AnalysisBaseURL
	}
	if c.AnalysisTimeout.Duration != 0 {
		config.AnalysisTimeout = c.AnalysisTimeout.Duration
	}
	if c.AnalysisCacheTTL.Duration != 0 {
		config.AnalysisCacheTTL = c.AnalysisCacheTTL.Duration
	}

	if c.ArchiveEnabled {
		config.ArchiveEnabled = true
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
