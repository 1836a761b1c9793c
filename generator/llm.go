package generator

import "context"

// LLMClient 抽象补全接口：一个 Prompt 进，一段文本出。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Supported providers. groq 与 deepseek 都走 OpenAI 兼容接口。
const (
	ProviderGroq     = "groq"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderMock     = "mock"
)

const (
	GroqBaseURL  = "https://api.groq.com/openai/v1"
	DefaultModel = "qwen-2.5-32b"
)

// LLMSettings is what a concrete client needs to reach its endpoint.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewLLM builds the client for settings.Provider.
func NewLLM(settings LLMSettings) (LLMClient, error) {
	switch settings.Provider {
	case ProviderMock:
		return MockLLM{}, nil
	case ProviderGroq, ProviderOpenAI, ProviderDeepSeek, "":
		llm, err := NewOpenAILLMFromConfig(&settings)
		if err != nil {
			return nil, err
		}
		return llm, nil
	default:
		return nil, &UnsupportedProviderError{Provider: settings.Provider}
	}
}

type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return "llm provider " + e.Provider + " not supported"
}
