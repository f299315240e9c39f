package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// maxToolRounds bounds the agentic loop. Warehouse questions resolve in one
// or two tool calls; anything past this is a runaway.
const maxToolRounds = 8

const systemPrompt = `You are a warehouse operations assistant.
Answer questions about inventory, products, pricing, purchase orders, sales orders,
vendors, and customers by calling the provided read tools.
Rules:
1. Call tools to look up data; never invent quantities, prices, or order numbers.
2. Monetary amounts in tool results are exact decimal strings; quote them as-is.
3. When the data does not answer the question, say so instead of guessing.
4. Keep answers short and factual.`

// Answer is the agent's final response plus the tool trail that produced it.
type Answer struct {
	Text      string
	ToolCalls []string
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// Ask runs the agentic read loop: the model calls registry tools until it has
// enough data, then returns a plain-text answer.
func (a *Agent) Ask(ctx context.Context, question string, reg *ToolRegistry) (*Answer, error) {
	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(shared.ChatModelGPT4o),
		Instructions: param.NewOpt(systemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(question),
		},
		Tools: reg.ToOpenAITools(),
	}

	answer := &Answer{}
	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.client.Responses.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("openai responses error: %w", err)
		}

		var outputs responses.ResponseInputParam
		for _, item := range resp.Output {
			if item.Type != "function_call" {
				continue
			}
			call := item.AsFunctionCall()
			answer.ToolCalls = append(answer.ToolCalls, call.Name)

			result, err := a.execute(ctx, reg, call.Name, call.Arguments)
			if err != nil {
				// Feed the failure back so the model can recover or report it.
				result = fmt.Sprintf(`{"error": %q}`, err.Error())
			}
			outputs = append(outputs, responses.ResponseInputItemParamOfFunctionCallOutput(call.CallID, result))
		}

		if len(outputs) == 0 {
			text := resp.OutputText()
			if text == "" {
				return nil, fmt.Errorf("empty response content")
			}
			answer.Text = text
			return answer, nil
		}

		params = responses.ResponseNewParams{
			Model:              shared.ResponsesModel(shared.ChatModelGPT4o),
			Instructions:       param.NewOpt(systemPrompt),
			PreviousResponseID: param.NewOpt(resp.ID),
			Input: responses.ResponseNewParamsInputUnion{
				OfInputItemList: outputs,
			},
			Tools: reg.ToOpenAITools(),
		}
	}

	return nil, fmt.Errorf("agent exceeded %d tool rounds without answering", maxToolRounds)
}

func (a *Agent) execute(ctx context.Context, reg *ToolRegistry, name, arguments string) (string, error) {
	tool, ok := reg.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}

	params := map[string]any{}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &params); err != nil {
			return "", fmt.Errorf("parse arguments for %s: %w", name, err)
		}
	}
	return tool.Handler(ctx, params)
}
