// Package openai provides a reasoning.Service implementation backed by
// the OpenAI Chat Completions API (including function/tool calling). It
// adapts the normalized Request/Response structures into the SDK's
// message format and back.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/prompt"
	"github.com/hupe1980/pmcopilot/reasoning"
)

// Options configure the OpenAI reasoning adapter. Classification and
// planning always run at temperature 0 regardless of Temperature, which
// only applies to Chat.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
}

// Service wraps the OpenAI Chat Completions API behind reasoning.Service.
type Service struct {
	client *openai.Client
	opts   Options
}

var _ reasoning.Service = (*Service)(nil)

// New creates a new OpenAI reasoning service using the official client.
func New(optFns ...func(o *Options)) *Service {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)
	return &Service{client: &client, opts: opts}
}

// NewFromClient creates a new OpenAI reasoning service from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Service {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Service{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
}

// Classify implements reasoning.Service with a deterministic completion.
func (s *Service) Classify(ctx context.Context, promptText string, labels []string) (string, error) {
	text, err := s.complete(ctx, openai.ChatCompletionNewParams{
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(promptText)},
		Model:               s.opts.Model,
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(s.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", err
	}
	label, _ := reasoning.NormalizeLabel(text, labels)
	return label, nil
}

// GeneratePlan implements reasoning.Service by requesting a JSON plan.
func (s *Service) GeneratePlan(ctx context.Context, goal string, tools []reasoning.ToolDefinition) (*core.Plan, error) {
	system := prompt.RenderPlannerSystem(reasoning.FormatToolCatalog(tools))
	user := fmt.Sprintf("Goal: %s\n\nPlease create a detailed execution plan. Respond with the JSON object only.", goal)

	text, err := s.complete(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:               s.opts.Model,
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(s.opts.MaxCompletionTokens),
	})
	if err != nil {
		return nil, err
	}
	return reasoning.ParsePlan(goal, reasoning.ExtractJSON(text))
}

// Chat implements reasoning.Service with optional tool calling.
func (s *Service) Chat(ctx context.Context, req reasoning.Request) (*reasoning.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               s.opts.Model,
		Temperature:         openai.Float(s.opts.Temperature),
		MaxCompletionTokens: openai.Int(s.opts.MaxCompletionTokens),
	}
	if len(req.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
		for i, tdef := range req.Tools {
			tools[i] = openai.ChatCompletionToolParam{
				Type: "function",
				Function: openai.FunctionDefinitionParam{
					Name:        tdef.Name,
					Description: openai.String(tdef.Description),
					Parameters:  tdef.Parameters,
				},
			}
		}
		params.Tools = tools
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	ch0 := resp.Choices[0]
	out := &reasoning.Response{Text: ch0.Message.Content}
	for _, tc := range ch0.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, reasoning.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return out, nil
}

// complete runs a plain completion and returns the first choice's text.
func (s *Service) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildMessages converts normalized turns into OpenAI chat messages,
// attaching tool responses after the assistant turns that requested them.
func buildMessages(req reasoning.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}
	for _, turn := range req.Turns {
		switch turn.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Text))
		case core.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Text))
		case core.RoleAssistant:
			if len(turn.ToolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(turn.Text))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(turn.ToolCalls))
			for i, tc := range turn.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: string(tc.Arguments),
					},
				}
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				},
			})
		case core.RoleTool:
			messages = append(messages, openai.ToolMessage(turn.Text, turn.ToolCallID))
		default:
			if turn.Text != "" {
				messages = append(messages, openai.UserMessage(turn.Text))
			}
		}
	}
	return messages
}
