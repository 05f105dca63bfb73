package adapters

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
)

type pollySynthesizer interface {
	SynthesizeSpeechWithContext(ctx aws.Context, input *polly.SynthesizeSpeechInput, opts ...request.Option) (*polly.SynthesizeSpeechOutput, error)
}

type pollyAudioGenerator struct {
	logger      outbound.LoggerPort
	pollySvc    pollySynthesizer
	pollyConfig *config.PollyConfig
}

func NewPollyAudioGenerator(logger outbound.LoggerPort, pollySvc pollySynthesizer, pollyConfig *config.PollyConfig) outbound.AudioGeneratorPort {
	return &pollyAudioGenerator{
		logger:      logger,
		pollySvc:    pollySvc,
		pollyConfig: pollyConfig,
	}
}

func (p *pollyAudioGenerator) Generate(ctx context.Context, req outbound.GenerateAudioRequest) (io.ReadCloser, error) {
	input := &polly.SynthesizeSpeechInput{
		OutputFormat: aws.String(polly.OutputFormatMp3),
		Text:         aws.String(req.Text),
		VoiceId:      aws.String(p.pollyConfig.VoiceID),
	}
	if p.pollyConfig.Engine != "" {
		input.Engine = aws.String(p.pollyConfig.Engine)
	}

	output, err := p.pollySvc.SynthesizeSpeechWithContext(ctx, input)
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to synthesize speech", map[string]interface{}{
			"voice_id": p.pollyConfig.VoiceID,
		})
		return nil, err
	}

	return output.AudioStream, nil
}
