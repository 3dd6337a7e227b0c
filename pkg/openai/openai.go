package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "oneprompt/agent/contract"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-mini"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"512"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
}

// Validate checks the credential before any client is constructed, so the
// failure is descriptive instead of a downstream 401.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: please set OPENAI_API_KEY environment variable", contractx.ErrCredentialMissing)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: completion model is required", contractx.ErrValidation)
	}
	return nil
}

var _ einomodel.ToolCallingChatModel = (*ChatModel)(nil)

// ChatModel is an eino tool-calling chat model backed by the official OpenAI
// SDK. Implementing the transport directly on openai-go keeps API failures as
// *openaisdk.Error, which lets classifyInvokeError map them to the sentinel
// taxonomy instead of matching message text.
type ChatModel struct {
	client      openaisdk.Client
	model       string
	temperature float32
	maxTokens   int
	tools       []openaisdk.ChatCompletionToolParam
}

func NewChatModel(ctx context.Context, cfg Config) (*ChatModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &ChatModel{
		client:      openaisdk.NewClient(opts...),
		model:       strings.TrimSpace(cfg.Model),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxCompletionToken,
	}, nil
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: no input messages", contractx.ErrValidation)
	}

	options := einomodel.GetCommonOptions(&einomodel.Options{}, opts...)

	modelName := m.model
	if options.Model != nil && strings.TrimSpace(*options.Model) != "" {
		modelName = strings.TrimSpace(*options.Model)
	}
	temperature := m.temperature
	if options.Temperature != nil {
		temperature = *options.Temperature
	}
	maxTokens := m.maxTokens
	if options.MaxTokens != nil {
		maxTokens = *options.MaxTokens
	}
	tools := m.tools
	if len(options.Tools) > 0 {
		converted, err := toToolParams(options.Tools)
		if err != nil {
			return nil, err
		}
		tools = converted
	}

	messages, err := toMessageParams(input)
	if err != nil {
		return nil, err
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(modelName),
		Messages:    messages,
		Temperature: openaisdk.Float(float64(temperature)),
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(maxTokens))
	}
	if len(tools) > 0 {
		params.Tools = tools
	}

	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyInvokeError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: completion returned no choices", contractx.ErrModelInvoke)
	}

	return fromCompletionMessage(completion.Choices[0].Message), nil
}

// Stream satisfies the eino model contract with a single-chunk reader; the
// CLI never consumes partial output.
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	if len(tools) == 0 {
		return nil, fmt.Errorf("%w: no tools to bind", contractx.ErrValidation)
	}
	params, err := toToolParams(tools)
	if err != nil {
		return nil, err
	}

	clone := *m
	clone.tools = params
	return &clone, nil
}

func toMessageParams(input []*schema.Message) ([]openaisdk.ChatCompletionMessageParamUnion, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			return nil, fmt.Errorf("%w: nil message in input", contractx.ErrValidation)
		}
		switch msg.Role {
		case schema.System:
			messages = append(messages, openaisdk.SystemMessage(msg.Content))
		case schema.User:
			messages = append(messages, openaisdk.UserMessage(msg.Content))
		case schema.Assistant:
			messages = append(messages, openaisdk.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("%w: unsupported message role %q", contractx.ErrValidation, msg.Role)
		}
	}
	return messages, nil
}

func toToolParams(infos []*schema.ToolInfo) ([]openaisdk.ChatCompletionToolParam, error) {
	params := make([]openaisdk.ChatCompletionToolParam, 0, len(infos))
	for _, info := range infos {
		if info == nil || strings.TrimSpace(info.Name) == "" {
			return nil, fmt.Errorf("%w: tool info without a name", contractx.ErrValidation)
		}

		fn := openaisdk.FunctionDefinitionParam{
			Name:        info.Name,
			Description: openaisdk.String(info.Desc),
		}
		if info.ParamsOneOf != nil {
			parameters, err := toFunctionParameters(info)
			if err != nil {
				return nil, err
			}
			fn.Parameters = parameters
		}

		params = append(params, openaisdk.ChatCompletionToolParam{Function: fn})
	}
	return params, nil
}

func toFunctionParameters(info *schema.ToolInfo) (openaisdk.FunctionParameters, error) {
	openAPISchema, err := info.ParamsOneOf.ToOpenAPIV3()
	if err != nil {
		return nil, fmt.Errorf("%w: tool %s params: %v", contractx.ErrValidation, info.Name, err)
	}
	raw, err := json.Marshal(openAPISchema)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal tool %s params: %v", contractx.ErrValidation, info.Name, err)
	}
	var parameters map[string]any
	if err := json.Unmarshal(raw, &parameters); err != nil {
		return nil, fmt.Errorf("%w: decode tool %s params: %v", contractx.ErrValidation, info.Name, err)
	}
	return openaisdk.FunctionParameters(parameters), nil
}

func fromCompletionMessage(msg openaisdk.ChatCompletionMessage) *schema.Message {
	out := &schema.Message{
		Role:    schema.Assistant,
		Content: msg.Content,
	}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:   call.ID,
			Type: string(call.Type),
			Function: schema.FunctionCall{
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			},
		})
	}
	return out
}

// classifyInvokeError folds API failures into the flat error taxonomy:
// 401/403 authentication, 429 rate limit, 400/404/422 invalid request,
// everything else a plain invoke failure.
func classifyInvokeError(err error) error {
	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", contractx.ErrAuthentication, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", contractx.ErrRateLimited, err)
		case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %v", contractx.ErrInvalidRequest, err)
		}
	}
	return fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
}
