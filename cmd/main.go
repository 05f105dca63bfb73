package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
	"github.com/brettsmiles-bit/ai-video-maker/infrastructure/adapters"
	"github.com/brettsmiles-bit/ai-video-maker/infrastructure/gin_interface/controllers"
	"github.com/brettsmiles-bit/ai-video-maker/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "ai-video-maker",
		Short:        "Turn a script into a narrated video",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigFile, "path to the YAML config file")

	root.AddCommand(
		newServeCommand(),
		newBreakdownCommand(),
		newGenerateCommand(),
		newAssembleCommand(),
	)
	return root
}

// bootstrap loads the config and builds the shared app. The caller releases
// the app's pools.
func bootstrap() (*app, error) {
	logger := adapters.NewZerologWrapper()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error(err, "Failed to load config")
		return nil, err
	}

	return newApp(cfg, logger)
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.release()

			shotListGenerator, err := a.shotListGenerator(cmd.Context())
			if err != nil {
				a.logger.Error(err, "Failed to create shot list generator")
				return err
			}
			pipeline, err := a.pipeline()
			if err != nil {
				a.logger.Error(err, "Failed to create pipeline")
				return err
			}

			router := gin.Default()
			if err := router.SetTrustedProxies(nil); err != nil {
				a.logger.Error(err, "Failed to set trusted proxies!")
				return err
			}

			if authConfig := a.cfg.GetAuthConfig(); authConfig != nil {
				authHandler, err := middleware.NewAuthHandler(authConfig.JwksUrl, a.logger)
				if err != nil {
					a.logger.Error(err, "Failed to create auth handler!")
					return err
				}
				router.Use(authHandler.AuthMiddleware())
			} else {
				a.logger.Warn("JWKS_URL is not set, the API runs without authentication")
			}

			controllers.NewShotListController(a.logger, shotListGenerator).RegisterRoutes(router)
			controllers.NewVideoController(a.logger, pipeline, a.outputDir(), maxConcurrentRuns).RegisterRoutes(router)

			a.logger.InfoWithFields("Starting server", map[string]interface{}{
				"addr": a.cfg.ServerAddr(),
			})
			if err := router.Run(a.cfg.ServerAddr()); err != nil {
				a.logger.Error(err, "Failed to start server!")
				return err
			}
			return nil
		},
	}
}

func newBreakdownCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "breakdown <script.txt>",
		Short: "Break a script down into a shot list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.release()

			script, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			shotListGenerator, err := a.shotListGenerator(cmd.Context())
			if err != nil {
				return err
			}

			shots, err := shotListGenerator.Generate(cmd.Context(), string(script))
			if err != nil {
				return err
			}
			if err := adapters.NewShotListFile(a.logger).Write(output, shots); err != nil {
				return err
			}

			a.logger.InfoWithFields("Shot list written", map[string]interface{}{
				"file":   output,
				"scenes": len(shots),
			})
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "shotlist.json", "shot list file to write (.json or .yaml)")
	return cmd
}

func newGenerateCommand() *cobra.Command {
	var output, server, token string
	cmd := &cobra.Command{
		Use:   "generate <shotlist.json>",
		Short: "Fetch every asset of a shot list and assemble the video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.release()

			shots, err := adapters.NewShotListFile(a.logger).Read(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = a.cfg.GetPathConfig().OutputFile
			}

			if server != "" {
				return generateRemote(cmd.Context(), a.logger, server, token, shots, output)
			}
			return generateLocal(cmd.Context(), a, shots, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "video file to write (defaults to paths.output_file)")
	cmd.Flags().StringVar(&server, "server", "", "base URL of a running server to generate on")
	cmd.Flags().StringVar(&token, "token", os.Getenv("VIDEO_MAKER_TOKEN"), "bearer token for --server")
	return cmd
}

func generateLocal(ctx context.Context, a *app, shots domain.ShotList, output string) error {
	pipeline, err := a.pipeline()
	if err != nil {
		return err
	}

	events, errCh := pipeline.StartPipeline(ctx, inbound.StartPipelineParams{
		RunID:      uuid.NewString(),
		Shots:      shots,
		OutputFile: output,
	})
	for event := range events {
		logPipelineEvent(a.logger, event)
	}
	return <-errCh
}

func generateRemote(ctx context.Context, logger outbound.LoggerPort, server string, token string, shots domain.ShotList, output string) error {
	client := adapters.NewSSEProgressClient(logger, server, token)
	final, err := client.Generate(ctx, adapters.RemoteGenerateRequest{
		Scenes:     shots,
		OutputName: filepath.Base(output),
	}, func(event domain.PipelineEvent) {
		logPipelineEvent(logger, event)
	})
	if err != nil {
		logger.Error(err, "Remote generation failed")
		return err
	}
	if final.Result != nil {
		logger.InfoWithFields("Video ready for download", map[string]interface{}{
			"url": fmt.Sprintf("%s/videos/%s", strings.TrimSuffix(server, "/"), filepath.Base(final.Result.OutputFile)),
		})
	}
	return nil
}

func newAssembleCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "assemble <shotlist.json>",
		Short: "Assemble the video from assets already on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.release()

			shots, err := adapters.NewShotListFile(a.logger).Read(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = a.cfg.GetPathConfig().OutputFile
			}
			assembler, err := a.videoAssembler()
			if err != nil {
				return err
			}

			result, err := assembler.Assemble(cmd.Context(), inbound.AssembleParams{
				Shots:      shots,
				OutputFile: output,
			})
			if err != nil {
				return err
			}
			if result == nil {
				a.logger.Warn("No scene had both audio and a visual; nothing was rendered")
				return nil
			}
			a.logger.InfoWithFields("Video assembled", map[string]interface{}{
				"file":     result.OutputFile,
				"scenes":   result.SceneNumbers,
				"skipped":  result.SkippedSceneNumbers,
				"duration": result.DurationSeconds,
			})
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "video file to write (defaults to paths.output_file)")
	return cmd
}

func logPipelineEvent(logger outbound.LoggerPort, event domain.PipelineEvent) {
	fields := map[string]interface{}{
		"run_id": event.RunID,
		"type":   event.Type,
	}
	if event.Progress != nil {
		fields["completed"] = event.Progress.Completed
		fields["total"] = event.Progress.Total
		fields["scene_number"] = event.Progress.SceneNumber
		fields["kind"] = event.Progress.Kind
		if event.Progress.Error != "" {
			fields["error"] = event.Progress.Error
		}
	}
	if event.Result != nil {
		fields["file"] = event.Result.OutputFile
		fields["duration"] = event.Result.DurationSeconds
	}
	if event.VideoKey != "" {
		fields["video_key"] = event.VideoKey
	}
	if event.Message != "" {
		fields["message"] = event.Message
	}
	logger.InfoWithFields("Pipeline event", fields)
}
