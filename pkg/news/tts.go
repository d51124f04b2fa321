package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultVoiceID is the "Rachel" anchor voice.
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

const defaultTTSBaseURL = "https://api.elevenlabs.io"

// AnchorVoices maps the selectable anchor names to ElevenLabs voice ids.
var AnchorVoices = map[string]string{
	"Rachel":  "21m00Tcm4TlvDq8ikWAM",
	"Drew":    "29vD33N1CtxCmqQRPOHJ",
	"Clyde":   "2EiwWnXFnvU5JabPnv8n",
	"Sarah":   "EXAVITQu4vr4xnSDxMaL",
	"Thomas":  "GBv7mTt0atIp3Br8iCZE",
	"George":  "JBFqnCBsd6RMkjVDRZzb",
	"Emily":   "LcfcDJNUP1GQjkzn1xUU",
	"Daniel":  "onwK4e9ZLuTAKqWW03F9",
	"Matilda": "XrExE9yKIg1WjnnlVkGX",
}

// TTSClient talks to the ElevenLabs text-to-speech REST API.
type TTSClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewTTSClient(apiKey string) *TTSClient {
	return &TTSClient{
		apiKey:  apiKey,
		baseURL: defaultTTSBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // long scripts take a while to render
		},
	}
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Synthesize renders the text with the given voice and returns MP3 bytes.
func (c *TTSClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}

	body, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: "eleven_monolingual_v1",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           0.3,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("TTS API error: %d - %s", resp.StatusCode, msg)
	}

	return io.ReadAll(resp.Body)
}
