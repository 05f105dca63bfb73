package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/services"
	"github.com/brettsmiles-bit/ai-video-maker/config"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
	"github.com/brettsmiles-bit/ai-video-maker/infrastructure/adapters"
	"github.com/panjf2000/ants/v2"
)

// Each /videos run holds about seven long-lived tasks on workerPool, so the
// server admits no more runs than the pool can carry.
const (
	workerPoolSize    = 120
	maxConcurrentRuns = workerPoolSize / 8
)

// app holds everything built from one Config. AWS clients share a session
// that is only created when a component needs one.
type app struct {
	cfg        config.Config
	logger     outbound.LoggerPort
	fetchPool  *ants.Pool
	workerPool *ants.Pool
	sess       *session.Session
}

func newApp(cfg config.Config, logger outbound.LoggerPort) (*app, error) {
	panicHandler := func(p interface{}) {
		logger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	fetchPool, err := ants.NewPool(cfg.DispatcherWorkers(), ants.WithPanicHandler(panicHandler))
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch pool: %w", err)
	}
	workerPool, err := ants.NewPool(workerPoolSize, ants.WithPanicHandler(panicHandler))
	if err != nil {
		fetchPool.Release()
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		fetchPool:  fetchPool,
		workerPool: workerPool,
	}, nil
}

func (a *app) release() {
	a.fetchPool.Release()
	a.workerPool.Release()
}

func (a *app) awsSession() (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	a.sess = sess
	return sess, nil
}

func (a *app) layout() domain.AssetLayout {
	paths := a.cfg.GetPathConfig()
	return domain.AssetLayout{
		AudioDir:  paths.AudioDir,
		VisualDir: paths.VisualDir,
	}
}

func (a *app) shotListGenerator(ctx context.Context) (inbound.ShotListGeneratorPort, error) {
	var breakdown outbound.SceneBreakdownPort
	switch provider := a.cfg.LLMProvider(); provider {
	case "gemini":
		geminiConfig, err := a.cfg.GetGeminiConfig()
		if err != nil {
			return nil, err
		}
		breakdown, err = adapters.NewGeminiSceneBreakdown(ctx, geminiConfig, a.logger)
		if err != nil {
			return nil, err
		}
	case "openai":
		openAIConfig, err := a.cfg.GetOpenAIConfig()
		if err != nil {
			return nil, err
		}
		breakdown = adapters.NewOpenAISceneBreakdown(openAIConfig, a.logger)
	default:
		return nil, fmt.Errorf("unknown llm.provider %q", provider)
	}

	return services.NewShotListGenerator(a.logger, breakdown), nil
}

func (a *app) audioGenerator(contentFetcher adapters.ContentFetcher) (outbound.AudioGeneratorPort, string, error) {
	switch provider := a.cfg.TTSProvider(); provider {
	case "elevenlabs":
		elevenLabsConfig, err := a.cfg.GetElevenLabsConfig()
		if err != nil {
			return nil, "", err
		}
		return adapters.NewElevenLabsAudioGenerator(contentFetcher, elevenLabsConfig, a.logger), provider, nil
	case "polly":
		pollyConfig, err := a.cfg.GetPollyConfig()
		if err != nil {
			return nil, "", err
		}
		sess, err := a.awsSession()
		if err != nil {
			return nil, "", err
		}
		pollyClient := polly.New(sess, aws.NewConfig().WithRegion(pollyConfig.Region))
		return adapters.NewPollyAudioGenerator(a.logger, pollyClient, pollyConfig), provider, nil
	default:
		return nil, "", fmt.Errorf("unknown tts.provider %q", provider)
	}
}

func (a *app) assetManifest() (outbound.AssetManifestPort, error) {
	manifestConfig := a.cfg.GetManifestConfig()
	switch manifestConfig.Backend {
	case "file":
		return adapters.NewFileAssetManifest(a.logger, manifestConfig.Path)
	case "dynamo":
		dynamoConfig, err := a.cfg.GetDynamoConfig()
		if err != nil {
			return nil, err
		}
		sess, err := a.awsSession()
		if err != nil {
			return nil, err
		}
		namespace, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dynamoClient := dynamodb.New(sess, aws.NewConfig().WithRegion(dynamoConfig.Region))
		return adapters.NewDynamoAssetManifest(a.logger, dynamoClient, dynamoConfig, namespace), nil
	default:
		return nil, fmt.Errorf("unknown manifest.backend %q", manifestConfig.Backend)
	}
}

func (a *app) assetDispatcher() (inbound.AssetDispatcherPort, error) {
	manifest, err := a.assetManifest()
	if err != nil {
		return nil, err
	}
	stabilityConfig, err := a.cfg.GetStabilityConfig()
	if err != nil {
		return nil, err
	}
	pexelsConfig, err := a.cfg.GetPexelsConfig()
	if err != nil {
		return nil, err
	}

	contentFetcher := adapters.NewContentFetcher(a.logger)
	audioGenerator, ttsProvider, err := a.audioGenerator(contentFetcher)
	if err != nil {
		return nil, err
	}
	layout := a.layout()

	fetchers := services.AssetFetchers{
		Audio: services.NewAudioFetcher(a.logger, manifest, layout, audioGenerator, ttsProvider),
		Image: services.NewImageFetcher(a.logger, manifest, layout,
			adapters.NewStabilityImageGenerator(contentFetcher, stabilityConfig, a.logger)),
		StockFootage: services.NewStockFootageFetcher(a.logger, manifest, layout,
			adapters.NewPexelsStockFootage(contentFetcher, pexelsConfig, a.logger)),
		GeneratedVideo: services.NewGeneratedVideoFetcher(a.logger, manifest, layout,
			adapters.NewStabilityVideoGenerator(contentFetcher, stabilityConfig, a.logger), stabilityConfig.Polling),
	}

	return services.NewAssetDispatcher(a.logger, a.fetchPool, a.workerPool, fetchers), nil
}

func (a *app) videoAssembler() (inbound.VideoAssemblerPort, error) {
	assemblerConfig, err := a.cfg.GetAssemblerConfig()
	if err != nil {
		return nil, err
	}
	return services.NewVideoAssembler(
		a.logger,
		a.layout(),
		adapters.NewFFProbeMediaProber(a.logger),
		adapters.NewFFMPEGVideoRenderer(a.logger, *assemblerConfig),
		*assemblerConfig,
	), nil
}

func (a *app) videoPublisher() (outbound.VideoPublisherPort, error) {
	if !a.cfg.PublishEnabled() {
		return nil, nil
	}
	s3Config, err := a.cfg.GetS3Config()
	if err != nil {
		return nil, err
	}
	sess, err := a.awsSession()
	if err != nil {
		return nil, err
	}
	s3Client := s3.New(sess, aws.NewConfig().WithRegion(s3Config.Region))
	return adapters.NewS3VideoPublisher(a.logger, s3Client, s3Config), nil
}

func (a *app) pipeline() (inbound.VideoMakerPipelinePort, error) {
	dispatcher, err := a.assetDispatcher()
	if err != nil {
		return nil, err
	}
	assembler, err := a.videoAssembler()
	if err != nil {
		return nil, err
	}
	publisher, err := a.videoPublisher()
	if err != nil {
		return nil, err
	}

	return services.NewVideoMakerPipeline(a.logger, a.workerPool, dispatcher, assembler, publisher), nil
}

func (a *app) outputDir() string {
	return filepath.Dir(a.cfg.GetPathConfig().OutputFile)
}
