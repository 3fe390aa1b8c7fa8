// Package llm оборачивает chat-completion API: обычные CBT-ответы Mimi,
// оценку эмоций дневниковой записи и генерацию предлагаемых активностей.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/chat"
	"github.com/hanifahuq/MelloBackend/utils"
)

const cbtSystemPrompt = `You are a therapist specialized in Cognitive Behavioral Therapy (CBT).
Your goal is to help the user manage negative thoughts and emotions by
applying CBT principles. Offer supportive, thoughtful responses and help the user
reframe unhelpful thoughts.`

const emotionsPrompt = `Analyze the emotional content of the journal entry below.
Respond with a JSON object mapping exactly these five emotions to percentage
scores that sum to 100: "Angry", "Fear", "Happy", "Sad", "Surprise".

Journal entry:
%s`

const suggestionsPrompt = `Based on this conversation, suggest exactly two small
activities that would support the user's wellbeing. Respond with a JSON array of
two objects, each with a "title" and a "description" field.`

var (
	client     openai.Client
	logger     *zap.Logger
	configured bool

	ErrNotConfigured = errors.New("llm: OPENAI_API_KEY is not set")
)

var model = openai.ChatModelGPT4oMini

func Init(log *zap.Logger) error {
	logger = log

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return ErrNotConfigured
	}

	client = openai.NewClient(option.WithAPIKey(apiKey))
	configured = true
	logger.Info("llm_client_ready", zap.String("model", string(model)))
	return nil
}

func complete(ctx context.Context, mode string, history []chat.Turn, userMessage string) (string, error) {
	if !configured {
		return "", ErrNotConfigured
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(cbtSystemPrompt),
	}
	for _, turn := range history {
		if turn.Role == chat.RoleMimi {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userMessage))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    messages,
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		utils.CompletionCount.WithLabelValues(mode, "error").Inc()
		logger.Error("llm_request_failed", zap.String("mode", mode), zap.Error(err))
		return "", fmt.Errorf("llm: completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		utils.CompletionCount.WithLabelValues(mode, "error").Inc()
		return "", errors.New("llm: completion returned no choices")
	}

	utils.CompletionCount.WithLabelValues(mode, "ok").Inc()
	return resp.Choices[0].Message.Content, nil
}

// Completion - обычный ход разговора с Mimi: системный CBT-промпт, история,
// новая реплика пользователя.
func Completion(ctx context.Context, prompt string, history []chat.Turn) (string, error) {
	return complete(ctx, "chat", history, prompt)
}

// AnalyzeEmotions просит модель оценить запись по пяти эмоциям и вытаскивает
// JSON-объект из свободного текста ответа. Отсутствующие эмоции получают 0.
func AnalyzeEmotions(ctx context.Context, entry string) (map[string]float64, error) {
	raw, err := complete(ctx, "emotions", nil, fmt.Sprintf(emotionsPrompt, entry))
	if err != nil {
		return nil, err
	}

	var scores map[string]float64
	if err := ExtractObject(raw, &scores); err != nil {
		logger.Warn("emotion_extraction_failed", zap.Error(err))
		return nil, err
	}

	result := make(map[string]float64, 5)
	for _, emotion := range []string{"Angry", "Fear", "Happy", "Sad", "Surprise"} {
		result[emotion] = scores[emotion]
	}
	return result, nil
}

// SuggestEvents выводит из транскрипта две активности для календаря.
// Ответ модели не обязан быть чистым JSON - массив ищется внутри прозы.
func SuggestEvents(ctx context.Context, history []chat.Turn) ([]chat.Suggestion, error) {
	raw, err := complete(ctx, "suggestions", history, suggestionsPrompt)
	if err != nil {
		utils.SuggestionFailures.Inc()
		return nil, err
	}

	var suggestions []chat.Suggestion
	if err := ExtractArray(raw, &suggestions); err != nil {
		utils.SuggestionFailures.Inc()
		logger.Warn("suggestion_extraction_failed", zap.Error(err))
		return nil, err
	}
	if len(suggestions) < 2 {
		utils.SuggestionFailures.Inc()
		return nil, fmt.Errorf("llm: expected two suggestions, got %d", len(suggestions))
	}

	return suggestions[:2], nil
}
