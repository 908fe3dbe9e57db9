// cmd/viewer/main.go
package main

import (
	"context"
	"flag"
	"os"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-barspin/pkg/config"
	"github.com/opd-ai/go-barspin/pkg/engine"
	"github.com/opd-ai/go-barspin/pkg/input"
	"github.com/opd-ai/go-barspin/pkg/logging"
	engorender "github.com/opd-ai/go-barspin/pkg/render/engo"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	var rigConfig *config.RigConfig
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		rigConfig = config.DefaultConfig()
	} else {
		var err error
		rigConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	if err := config.ApplyEnvironmentOverrides(rigConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	// The viewer drives the rig from scripted controllers; a real VR build
	// would plug the XR runtime's pose source in here instead.
	pose := input.NewScriptedPoseSource()
	leftAnchor := input.NewStaticAnchor(rigConfig.Grip.LeftAnchor)
	rightAnchor := input.NewStaticAnchor(rigConfig.Grip.RightAnchor)

	rig, err := engine.NewRig(rigConfig, pose, leftAnchor, rightAnchor, logger)
	if err != nil {
		logger.Error(ctx, "Failed to create rig", err)
		os.Exit(1)
	}
	rig.Start()

	opts := engo.RunOptions{
		Title:  "go-barspin viewer",
		Width:  960,
		Height: 540,
	}
	engo.Run(opts, engorender.NewRigScene(rig, leftAnchor, rightAnchor))
}
