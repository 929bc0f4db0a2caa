package backend

import (
	"bytes"
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const assistantPrompt = `You are the voice of the Ramses-VR museum guide.
Answer the visitor's spoken question in one or two short sentences,
suitable for text-to-speech. If the question is not about the exhibit,
politely steer back to it.`

// OpenAITransport is the fallback used when no Ramses backend URL is
// configured: transcribe the clip, then generate a text-only reply.
type OpenAITransport struct {
	client openai.Client
	model  string
}

func NewOpenAITransport(apiKey, model string) *OpenAITransport {
	return &OpenAITransport{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (t *OpenAITransport) Send(ctx context.Context, wav []byte, clip Clip) (Reply, error) {
	transcription, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(wav), "capture.wav", "audio/wav"),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("transcription: %w", err)
	}

	resp, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(assistantPrompt),
			openai.UserMessage(transcription.Text),
		},
		Model: openai.ChatModel(t.model),
	})
	if err != nil {
		return Reply{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("no choices in response")
	}

	return Reply{
		Transcript: transcription.Text,
		ReplyText:  resp.Choices[0].Message.Content,
	}, nil
}
