package adapters

import (
	"context"
	"errors"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type shotListSchema struct {
	Scenes []sceneSchema `json:"scenes" jsonschema_description:"The scenes of the video in narration order."`
}

type sceneSchema struct {
	SceneNumber   int    `json:"scene_number" jsonschema_description:"An integer for the scene order."`
	NarrationText string `json:"narration_text" jsonschema_description:"The exact text to be spoken for the scene (1-3 sentences)."`
	VisualPrompt  string `json:"visual_prompt" jsonschema_description:"A descriptive prompt for an AI visual generator or a search query for stock footage."`
	VisualType    string `json:"visual_type" jsonschema:"enum=video,enum=image,enum=stock_footage"`
}

func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var shotListResponseSchema = GenerateSchema[shotListSchema]()

type openAISceneBreakdown struct {
	logger       outbound.LoggerPort
	client       openai.Client
	openAIConfig *config.OpenAIConfig
}

func NewOpenAISceneBreakdown(openAIConfig *config.OpenAIConfig, logger outbound.LoggerPort, opts ...option.RequestOption) outbound.SceneBreakdownPort {
	opts = append([]option.RequestOption{option.WithAPIKey(openAIConfig.ApiKey)}, opts...)
	return &openAISceneBreakdown{
		logger:       logger,
		client:       openai.NewClient(opts...),
		openAIConfig: openAIConfig,
	}
}

func (o *openAISceneBreakdown) Complete(ctx context.Context, prompt string) (string, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "shot_list",
		Description: openai.String("A video shot list"),
		Schema:      shotListResponseSchema,
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(o.openAIConfig.Model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		o.logger.ErrorWithFields(err, "OpenAI request failed", map[string]interface{}{
			"model": o.openAIConfig.Model,
		})
		return "", err
	}

	if len(chatCompletion.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}
