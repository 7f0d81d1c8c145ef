package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// ReadingsURL is the telemetry endpoint polled for raw readings.
	// Empty means the service runs on synthetic readings only.
	ReadingsURL          string
	ReadingsUsername     string
	ReadingsPassword     string
	ReadingsPollInterval time.Duration
	ReadingsTimeout      time.Duration

	SatellitePollInterval time.Duration
	ReferenceLat          float64
	ReferenceLong         float64

	DeviceURL          string
	CommandFailureRate float64

	MQTTEnabled     bool
	MQTTBroker      string
	MQTTPort        int
	MQTTClientID    string
	MQTTTopicPrefix string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	readingsURL := strings.TrimSpace(os.Getenv("READINGS_URL"))
	if readingsURL != "" {
		if err := validateHTTPURL(readingsURL); err != nil {
			return Config{}, fmt.Errorf("invalid READINGS_URL %q: %w", readingsURL, err)
		}
	}

	readingsPollInterval, err := positiveDuration("READINGS_POLL_INTERVAL", "10s")
	if err != nil {
		return Config{}, err
	}
	readingsTimeout, err := positiveDuration("READINGS_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	satellitePollInterval, err := positiveDuration("SATELLITE_POLL_INTERVAL", "30s")
	if err != nil {
		return Config{}, err
	}

	referenceLat, err := floatFromEnv("REFERENCE_LAT", 32.7157)
	if err != nil {
		return Config{}, err
	}
	if referenceLat < -90 || referenceLat > 90 {
		return Config{}, fmt.Errorf("REFERENCE_LAT out of range: %f (must be -90..90)", referenceLat)
	}
	referenceLong, err := floatFromEnv("REFERENCE_LONG", -117.1611)
	if err != nil {
		return Config{}, err
	}
	if referenceLong < -180 || referenceLong > 180 {
		return Config{}, fmt.Errorf("REFERENCE_LONG out of range: %f (must be -180..180)", referenceLong)
	}

	deviceURL := strings.TrimSpace(os.Getenv("DEVICE_URL"))
	if deviceURL != "" {
		if err := validateHTTPURL(deviceURL); err != nil {
			return Config{}, fmt.Errorf("invalid DEVICE_URL %q: %w", deviceURL, err)
		}
	}

	failureRate, err := floatFromEnv("COMMAND_FAILURE_RATE", 0.1)
	if err != nil {
		return Config{}, err
	}
	if failureRate < 0 || failureRate > 1 {
		return Config{}, fmt.Errorf("COMMAND_FAILURE_RATE out of range: %f (must be 0..1)", failureRate)
	}

	mqttEnabledStr := strings.TrimSpace(os.Getenv("MQTT_ENABLED"))
	if mqttEnabledStr == "" {
		mqttEnabledStr = "true"
	}
	mqttEnabled, err := strconv.ParseBool(mqttEnabledStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_ENABLED %q: %w", mqttEnabledStr, err)
	}

	mqttBroker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))
	if mqttBroker == "" {
		mqttBroker = "localhost"
	}

	mqttPortStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}

	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "satmon"
	}

	mqttTopicPrefix := strings.Trim(strings.TrimSpace(os.Getenv("MQTT_TOPIC_PREFIX")), "/")
	if mqttTopicPrefix == "" {
		mqttTopicPrefix = "satmon"
	}

	return Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		HTTPAddr:              httpAddr,
		ReadingsURL:           readingsURL,
		ReadingsUsername:      strings.TrimSpace(os.Getenv("READINGS_USERNAME")),
		ReadingsPassword:      os.Getenv("READINGS_PASSWORD"),
		ReadingsPollInterval:  readingsPollInterval,
		ReadingsTimeout:       readingsTimeout,
		SatellitePollInterval: satellitePollInterval,
		ReferenceLat:          referenceLat,
		ReferenceLong:         referenceLong,
		DeviceURL:             strings.TrimRight(deviceURL, "/"),
		CommandFailureRate:    failureRate,
		MQTTEnabled:           mqttEnabled,
		MQTTBroker:            mqttBroker,
		MQTTPort:              mqttPort,
		MQTTClientID:          mqttClientID,
		MQTTTopicPrefix:       mqttTopicPrefix,
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func positiveDuration(key, def string) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		s = def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func floatFromEnv(key string, def float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return f, nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
