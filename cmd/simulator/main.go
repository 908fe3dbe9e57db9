// cmd/simulator/main.go
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-barspin/pkg/config"
	"github.com/opd-ai/go-barspin/pkg/engine"
	"github.com/opd-ai/go-barspin/pkg/health"
	"github.com/opd-ai/go-barspin/pkg/input"
	"github.com/opd-ai/go-barspin/pkg/logging"
	"github.com/opd-ai/go-barspin/pkg/render/terminal"
	"github.com/opd-ai/go-barspin/pkg/telemetry"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	scenarioName := flag.String("scenario", "happy", "Scripted ride: happy, timeout, cancel, wander")
	frameRate := flag.Int("rate", 90, "Simulated frame rate in Hz")
	duration := flag.Duration("duration", 8*time.Second, "How long to run the session")
	quiet := flag.Bool("quiet", false, "Suppress the terminal dashboard")
	flag.Parse()

	if *createDefault {
		defaultConfig := config.DefaultConfig()
		if err := config.SaveConfig(defaultConfig, *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	rigConfig := loadConfig(ctx, logger, *configPath)

	scenario, err := buildScenario(*scenarioName, rigConfig)
	if err != nil {
		logger.Error(ctx, "Failed to build scenario", err)
		os.Exit(1)
	}

	// Scripted controllers and fixed anchors stand in for the XR runtime.
	pose := input.NewScriptedPoseSource()
	leftAnchor := input.NewStaticAnchor(rigConfig.Grip.LeftAnchor)
	rightAnchor := input.NewStaticAnchor(rigConfig.Grip.RightAnchor)

	rig, err := engine.NewRig(rigConfig, pose, leftAnchor, rightAnchor, logger)
	if err != nil {
		logger.Error(ctx, "Failed to create rig", err)
		os.Exit(1)
	}

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}

	var eventServer *telemetry.Server
	if rigConfig.Telemetry.Enabled {
		eventServer = telemetry.NewServer(rigConfig.Telemetry, envConfig, rig.EventBus, logger)
		if err := eventServer.Start(ctx); err != nil {
			logger.Error(ctx, "Failed to start telemetry server", err)
			os.Exit(1)
		}
	}

	if rigConfig.Health.Enabled {
		startHealthServer(ctx, logger, rigConfig, rig, pose)
	}

	rig.Start()
	logger.Info(ctx, "Simulator session started",
		"scenario", scenario.name,
		"rate_hz", *frameRate,
		"duration", duration.String(),
	)

	runSession(rig, pose, scenario, *frameRate, *duration, *quiet)

	rig.Stop()
	if eventServer != nil {
		if err := eventServer.Stop(ctx); err != nil {
			logger.Warn(ctx, "Telemetry server shutdown failed",
				"error", err.Error(),
			)
		}
	}
	logger.Info(ctx, "Simulator session finished",
		"ticks", rig.CurrentTick,
	)
}

// runSession drives the rig at a fixed timestep until the duration elapses
// or the process is interrupted.
func runSession(rig *engine.Rig, pose *input.ScriptedPoseSource, s *scenario, rateHz int, duration time.Duration, quiet bool) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var renderer *terminal.Renderer
	if !quiet {
		renderer = terminal.NewRenderer(os.Stdout, true)
	}

	step := 1.0 / float64(rateHz)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * step))
	defer ticker.Stop()

	deadline := time.After(duration)
	simTime := 0.0
	applied := 0

	for {
		select {
		case <-interrupt:
			return
		case <-deadline:
			return
		case <-ticker.C:
			applied = s.run(pose, simTime, applied)
			rig.Step(step)
			simTime += step
			if renderer != nil && rig.CurrentTick%9 == 0 {
				renderer.Render(rig)
			}
		}
	}
}

func loadConfig(ctx context.Context, logger *logging.Logger, path string) *config.RigConfig {
	var rigConfig *config.RigConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		rigConfig = config.DefaultConfig()
	} else {
		var err error
		rigConfig, err = config.LoadConfig(path)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", path,
			)
			os.Exit(1)
		}
	}

	if err := config.ApplyEnvironmentOverrides(rigConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	return rigConfig
}

// startHealthServer exposes liveness and readiness probes for the session.
func startHealthServer(ctx context.Context, logger *logging.Logger, cfg *config.RigConfig, rig *engine.Rig, pose *input.ScriptedPoseSource) {
	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewRigSessionHealthCheck(func() bool {
		return rig.Running
	}))
	checker.AddCheck(health.NewPoseSourceHealthCheck(func() int {
		connected := 0
		for _, h := range input.Hands {
			if pose.IsConnected(h) {
				connected++
			}
		}
		return connected
	}))
	checker.AddCheck(health.NewGripZonesHealthCheck(func() bool {
		return rig.Grips.Zone(input.LeftHand) != nil && rig.Grips.Zone(input.RightHand) != nil
	}))

	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", checker.LivenessHandler)
	mux.HandleFunc("/health/ready", checker.ReadinessHandler)

	server := &http.Server{
		Addr:    cfg.Health.ListenAddr,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Health server stopped", err,
				"addr", cfg.Health.ListenAddr,
			)
		}
	}()

	logger.Info(ctx, "Health server listening",
		"addr", cfg.Health.ListenAddr,
	)
}
