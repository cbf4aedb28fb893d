package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/outreach-cli/pkg/anthropic"
	"github.com/sells-group/outreach-cli/pkg/gemini"
	"github.com/sells-group/outreach-cli/pkg/openai"
	"github.com/sells-group/outreach-cli/pkg/perplexity"
)

type mockOpenAI struct{ mock.Mock }

func (m *mockOpenAI) CreateResponse(ctx context.Context, req openai.ResponseRequest) (*openai.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.Response), args.Error(1)
}

func (m *mockOpenAI) ChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatCompletionResponse), args.Error(1)
}

type mockAnthropic struct{ mock.Mock }

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

type mockPerplexity struct{ mock.Mock }

func (m *mockPerplexity) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*perplexity.ChatCompletionResponse), args.Error(1)
}

type mockGemini struct{ mock.Mock }

func (m *mockGemini) Generate(ctx context.Context, req gemini.Request) (*gemini.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gemini.Response), args.Error(1)
}
