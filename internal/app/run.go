package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"satmon/internal/commands"
	"satmon/internal/config"
	"satmon/internal/httpapi"
	"satmon/internal/metrics"
	dashboard "satmon/internal/modules/dashboard"
	"satmon/internal/mqtt"
	"satmon/internal/poll"
	"satmon/internal/readings"
	"satmon/internal/satellite"
)

func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"readingsURL", cfg.ReadingsURL,
		"readingsPollInterval", cfg.ReadingsPollInterval,
		"readingsTimeout", cfg.ReadingsTimeout,
		"satellitePollInterval", cfg.SatellitePollInterval,
		"deviceURL", cfg.DeviceURL,
		"commandFailureRate", cfg.CommandFailureRate,
		"mqttEnabled", cfg.MQTTEnabled,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopicPrefix", cfg.MQTTTopicPrefix,
	)
	if cfg.ReadingsURL == "" {
		logger.Warn("READINGS_URL not set, serving synthetic readings only")
	}

	metrics.Init(nil)

	// Pollers and mirrors stop before the broker connection is closed.
	workCtx, stopWork := context.WithCancel(ctx)
	defer stopWork()

	var mqttClient *mqtt.Client
	if cfg.MQTTEnabled {
		c, err := mqtt.NewClient(cfg, logger)
		if err != nil {
			return err
		}
		mqttClient = c

		// Use a short timeout for the initial connect so a missing broker
		// does not block startup; the client keeps retrying in the background.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = mqttClient.Connect(connectCtx)
		connectCancel()
		if err != nil {
			logger.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}

	source := readings.NewSource(readings.SourceConfig{
		URL:      cfg.ReadingsURL,
		Username: cfg.ReadingsUsername,
		Password: cfg.ReadingsPassword,
		Timeout:  cfg.ReadingsTimeout,
	}, logger)
	readingsPoller := poll.New[readings.Snapshot](
		poll.Config{Name: "readings", Interval: cfg.ReadingsPollInterval},
		source.FetchLatest,
		nil,
		logger,
		poll.WithLabel[readings.Snapshot](func(s readings.Snapshot) string { return string(s.Provenance) }),
	)

	generator := satellite.NewGenerator(
		satellite.DefaultBaseline(time.Now(), cfg.ReferenceLat, cfg.ReferenceLong),
		nil,
	)
	satellitePoller := poll.New[satellite.Telemetry](
		poll.Config{Name: "satellite", Interval: cfg.SatellitePollInterval},
		generator.Fetch,
		nil,
		logger,
		poll.WithLabel[satellite.Telemetry](func(satellite.Telemetry) string { return "synthetic" }),
	)

	senderOpts := []commands.SenderOption{}
	if mqttClient != nil {
		mqtt.Mirror(workCtx, readingsPoller.Store(), mqttClient, cfg.MQTTTopicPrefix+"/readings", readingsPayload, logger)
		mqtt.Mirror(workCtx, satellitePoller.Store(), mqttClient, cfg.MQTTTopicPrefix+"/satellite", satellitePayload, logger)
		senderOpts = append(senderOpts, commands.WithPublisher(mqttClient))
	}
	sender := commands.NewSender(commands.SenderConfig{
		DeviceURL:   cfg.DeviceURL,
		FailureRate: cfg.CommandFailureRate,
		Topic:       cfg.MQTTTopicPrefix + "/commands",
	}, logger, senderOpts...)

	// a nil *mqtt.Client must not reach the healthcheck as a non-nil interface
	var connState httpapi.ConnectionState
	if mqttClient != nil {
		connState = mqttClient
	}
	mux := httpapi.NewMux(connState, nil)
	dashboard.RegisterFeature(mux, readingsPoller, satellitePoller, sender, logger)

	var pollers errgroup.Group
	pollers.Go(func() error { return readingsPoller.Run(workCtx) })
	pollers.Go(func() error { return satellitePoller.Run(workCtx) })

	srv := httpapi.NewServer(cfg, mux, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("pollers stopping")
	stopWork()
	if err := pollers.Wait(); err != nil {
		logger.Error("poller failed", "error", err)
	}

	if mqttClient != nil {
		logger.Info("mqtt disconnecting")
		mqttClient.Disconnect()
	}

	if serveErr != nil {
		return serveErr
	}
	if ctx.Err() == nil {
		// server stopped on its own
		return nil
	}

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

func readingsPayload(e poll.Entry[readings.Snapshot]) any {
	return map[string]any{
		"seq":        e.Seq,
		"provenance": e.Value.Provenance,
		"fetchedAt":  e.Value.FetchedAt,
		"readings":   e.Value.Readings,
	}
}

func satellitePayload(e poll.Entry[satellite.Telemetry]) any {
	return map[string]any{
		"seq":       e.Seq,
		"updatedAt": e.At,
		"telemetry": e.Value,
	}
}
