package main

import (
	"bufio"
	"context"
	"os"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/imtaco/roomkit/engine"
	"github.com/imtaco/roomkit/engine/signal"
	"github.com/imtaco/roomkit/internal/config"
	"github.com/imtaco/roomkit/internal/log"
	"github.com/imtaco/roomkit/internal/otel"
	"github.com/imtaco/roomkit/internal/workflow"
	"github.com/imtaco/roomkit/room"
)

type Config struct {
	App    config.App    `mapstructure:"app"`
	Otel   otel.Config   `mapstructure:"otel"`
	Signal signal.Config `mapstructure:"signal"`

	Credential string `mapstructure:"credential"`
	Room       string `mapstructure:"room"`
	Topology   string `mapstructure:"topology"`
	MemberName string `mapstructure:"member_name"`

	Microphone string `mapstructure:"microphone"`
	Camera     string `mapstructure:"camera"`
	DataLabel  string `mapstructure:"data_label"`
}

func loadConfig() (*Config, error) {
	return config.Load(&Config{}, func(v *viper.Viper) {
		v.SetDefault("credential", "")
		v.SetDefault("room", "lobby")
		v.SetDefault("topology", "p2p")
		v.SetDefault("member_name", "")

		v.SetDefault("microphone", "default")
		v.SetDefault("camera", "")
		v.SetDefault("data_label", "chat")

		config.Setup(v, "app")
		otel.Setup(v, "otel")
		signal.Setup(v, "signal")
	})
}

func main() {
	config, err := loadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}

	logger, err := log.NewLogger(config.App.LogConfigFile)
	if err != nil {
		log.Fatal("Failed to create logger", err)
	}
	defer func() { _ = logger.Sync() }()

	// global background context
	ctx := context.Background()

	// Initialize OpenTelemetry
	otelShutdown, err := otel.Init(ctx, &config.Otel, logger)
	if err != nil {
		logger.Fatal("Failed to initialize OTEL provider", log.Error(err))
	}

	logger.Info("Starting room client",
		log.String("signalUrl", config.Signal.URL),
		log.String("room", config.Room),
		log.String("topology", config.Topology))

	eng := signal.New(&config.Signal, logger.Module("Signal"))

	sessCtx, err := room.Setup(ctx, eng, config.Credential, logger.Module("RoomCtx"))
	if err != nil {
		logger.Fatal("Failed to set up session context", log.Error(err))
	}

	session, err := sessCtx.NewRoomSession(room.DefaultOptions())
	if err != nil {
		logger.Fatal("Failed to create room session", log.Error(err))
	}

	removeHandler := session.AddHandler(func(ev room.Event) {
		switch e := ev.(type) {
		case room.MemberJoined:
			logger.Info("Member joined", log.String("member", string(e.Member)))
		case room.MemberLeft:
			logger.Info("Member left", log.String("member", string(e.Member)))
		case room.PublicationAdded:
			logger.Info("Publication added",
				log.String("id", string(e.Publication.ID)),
				log.String("kind", string(e.Publication.Kind)),
				log.String("publisher", string(e.Publication.Publisher)))
		case room.PublicationRemoved:
			logger.Info("Publication removed", log.String("id", string(e.Publication.ID)))
		case room.SubscribeFailed:
			logger.Warn("Subscribe failed",
				log.String("id", string(e.PublicationID)),
				log.Error(e.Err))
		case room.DataReceived:
			logger.Info("Data received",
				log.String("from", string(e.Message.From)),
				log.String("text", e.Message.Text()))
		}
	})
	defer removeHandler()

	sources := room.CaptureSources{
		Microphone: config.Microphone,
		Camera:     config.Camera,
		DataLabel:  config.DataLabel,
	}
	if _, err := session.CreateLocalChannels(ctx, sources); err != nil {
		logger.Fatal("Failed to create local channels", log.Error(err))
	}

	if err := session.Join(ctx, config.Room, engine.Topology(config.Topology), config.MemberName); err != nil {
		logger.Fatal("Failed to join room", log.Error(err))
	}

	if _, err := session.Publish(ctx, nil); err != nil {
		logger.Error("Failed to publish local channels", log.Error(err))
	}

	runCtx, stopRun := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)

	// stdin lines go out as chat messages
	group.Go(func() error {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if err := session.SendText(groupCtx, line); err != nil {
				logger.Error("Failed to send message", log.Error(err))
			}
		}
		return scanner.Err()
	})

	go func() {
		if err := group.Wait(); err != nil {
			logger.Error("Input reader stopped", log.Error(err))
		}
	}()

	logger.Info("Room client running",
		log.String("member", string(session.LocalMember())))

	cleanup := func(ctx context.Context) {
		stopRun()

		if err := session.Leave(ctx); err != nil {
			logger.Error("Error leaving room", log.Error(err))
		}
		session.Close(ctx)

		if err := sessCtx.Close(ctx); err != nil {
			logger.Error("Error closing session context", log.Error(err))
		}
		if err := otelShutdown(ctx); err != nil {
			logger.Error("Failed to shutdown OTEL", log.Error(err))
		}
	}
	workflow.WaitGracefulShutdown(ctx, logger.Module("CleanUp"), cleanup, config.App.ShutdownTimeout)
}
