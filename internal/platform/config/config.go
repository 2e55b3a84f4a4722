package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	IssueTrackerBaseURL string
	IssueTrackerToken   string
	SourceHostBaseURL   string
	SourceHostToken     string
	BuildSystemBaseURL  string
	BuildSystemToken    string

	DeploySuccessStatus string

	AuditRelayBatchSize    int
	AuditRelayPollInterval time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "reqtrace"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	successStatus := strings.TrimSpace(os.Getenv("DEPLOY_SUCCESS_STATUS"))
	if successStatus == "" {
		successStatus = "success"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		IssueTrackerBaseURL: os.Getenv("ISSUE_TRACKER_BASE_URL"),
		IssueTrackerToken:   os.Getenv("ISSUE_TRACKER_TOKEN"),
		SourceHostBaseURL:   os.Getenv("SOURCE_HOST_BASE_URL"),
		SourceHostToken:     os.Getenv("SOURCE_HOST_TOKEN"),
		BuildSystemBaseURL:  os.Getenv("BUILD_SYSTEM_BASE_URL"),
		BuildSystemToken:    os.Getenv("BUILD_SYSTEM_TOKEN"),

		DeploySuccessStatus: successStatus,

		AuditRelayBatchSize:    envInt("AUDIT_RELAY_BATCH_SIZE", 100),
		AuditRelayPollInterval: envDuration("AUDIT_RELAY_POLL_INTERVAL", 5*time.Second),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
