package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

// HTTPTransport posts captured WAV audio to the Ramses backend and
// decodes its JSON reply.
type HTTPTransport struct {
	url    string
	client *http.Client
}

func NewHTTPTransport(url string) *HTTPTransport {
	return &HTTPTransport{
		url:    url,
		client: &http.Client{},
	}
}

// wireReply is the backend response envelope. reply_audio is base64 MP3.
type wireReply struct {
	Transcript string `json:"transcript"`
	ReplyText  string `json:"reply_text"`
	ReplyAudio []byte `json:"reply_audio"`
}

func (t *HTTPTransport) Send(ctx context.Context, wav []byte, clip Clip) (Reply, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio", "capture.wav")
	if err != nil {
		return Reply{}, err
	}
	if _, err := part.Write(wav); err != nil {
		return Reply{}, err
	}
	if err := writer.WriteField("sample_rate", strconv.Itoa(clip.SampleRate)); err != nil {
		return Reply{}, err
	}
	if err := writer.WriteField("duration", strconv.FormatFloat(clip.Duration, 'f', -1, 64)); err != nil {
		return Reply{}, err
	}
	if err := writer.Close(); err != nil {
		return Reply{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, &body)
	if err != nil {
		return Reply{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return Reply{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Reply{}, fmt.Errorf("backend returned %d: %s", resp.StatusCode, payload)
	}

	var wire wireReply
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Reply{}, fmt.Errorf("failed to decode backend reply: %w", err)
	}

	return Reply{
		Transcript: wire.Transcript,
		ReplyText:  wire.ReplyText,
		ReplyAudio: wire.ReplyAudio,
	}, nil
}
