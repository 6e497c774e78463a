package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinassist/assessment/pkg/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.GeminiConfig{
		APIKey:         "test-key",
		Model:          "gemini-2.0-flash",
		RateLimitRPM:   600,
		RateLimitBurst: 10,
	})
	require.NoError(t, err)
	client.baseURL = server.URL
	return client
}

func modelResponse(text string) generateResponse {
	return generateResponse{
		Candidates: []candidate{
			{Content: content{Parts: []contentPart{{Text: text}}}},
		},
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.GeminiConfig{})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestClient_Generate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(modelResponse("Influenza: 80%"))
	})

	text, err := client.Generate(context.Background(), "You are a clinician.", "Diagnose fever and cough.")
	require.NoError(t, err)
	assert.Equal(t, "Influenza: 80%", text)

	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "Diagnose fever and cough.", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.SystemInstruction)
	assert.Equal(t, "You are a clinician.", gotBody.SystemInstruction.Parts[0].Text)
}

func TestClient_Generate_StripsCodeFences(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(modelResponse("```json\n{\"score\": 0.8}\n```"))
	})

	text, err := client.Generate(context.Background(), "", "score it")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 0.8}`, text)
}

func TestClient_Generate_RetriesOnServerError(t *testing.T) {
	attempts := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(modelResponse("recovered"))
	})

	text, err := client.Generate(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, attempts)
}

func TestClient_Generate_EmptyResponseFails(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{})
	})

	_, err := client.Generate(context.Background(), "", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing output text")
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, "plain", cleanResponse("plain"))
	assert.Equal(t, "fenced", cleanResponse("```\nfenced\n```"))
	assert.Equal(t, `{"a":1}`, cleanResponse("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "padded", cleanResponse("   padded \n"))
}
