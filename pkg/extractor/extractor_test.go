package extractor

import (
	"context"
	"net"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type captured struct {
	path   string
	auth   string
	parsed map[string]interface{}
}

func startServer(t *testing.T, status int, reply string) (*Client, *captured) {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	got := &captured{}
	go func() {
		_ = fasthttp.Serve(ln, func(ctx *fasthttp.RequestCtx) {
			got.path = string(ctx.Path())
			got.auth = string(ctx.Request.Header.Peek("Authorization"))
			_ = json.Unmarshal(ctx.PostBody(), &got.parsed)
			ctx.SetStatusCode(status)
			ctx.SetBodyString(reply)
		})
	}()
	t.Cleanup(func() { _ = ln.Close() })

	httpClient := &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}
	client := NewClient(Config{BaseURL: "http://ai.test/v1/", APIKey: "key", Model: "test-model"}, httpClient)
	return client, got
}

func TestExtractText(t *testing.T) {
	client, got := startServer(t, fasthttp.StatusOK, `{"choices":[{"message":{"content":"\n首都?\nA.上海\nB.北京\n#B\n"}}]}`)

	text, err := client.Extract(context.Background(), Input{Mode: ModeText, Text: "中国首都是北京"})
	require.NoError(t, err)
	assert.Equal(t, "首都?\nA.上海\nB.北京\n#B", text)
	assert.Equal(t, "/v1/chat/completions", got.path)
	assert.Equal(t, "Bearer key", got.auth)
	assert.Equal(t, "test-model", got.parsed["model"])

	messages, ok := got.parsed["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]interface{})
	assert.Equal(t, "中国首都是北京", user["content"])
}

func TestExtractImage(t *testing.T) {
	client, got := startServer(t, fasthttp.StatusOK, `{"choices":[{"message":{"content":"Q\nA\n#A"}}]}`)

	text, err := client.Extract(context.Background(), Input{Mode: ModeImage, ImageBase64: "aGVsbG8=", MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "Q\nA\n#A", text)

	messages := got.parsed["messages"].([]interface{})
	parts := messages[1].(map[string]interface{})["content"].([]interface{})
	imagePart := parts[0].(map[string]interface{})
	assert.Equal(t, "image_url", imagePart["type"])
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", imagePart["image_url"].(map[string]interface{})["url"])
}

func TestExtractErrors(t *testing.T) {
	client, _ := startServer(t, fasthttp.StatusUnauthorized, `{"error":{"message":"bad key"}}`)
	_, err := client.Extract(context.Background(), Input{Mode: ModeText, Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	empty, _ := startServer(t, fasthttp.StatusOK, `{"choices":[]}`)
	_, err = empty.Extract(context.Background(), Input{Mode: ModeText, Text: "x"})
	assert.ErrorIs(t, err, ErrNoChoices)

	blank, _ := startServer(t, fasthttp.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`)
	_, err = blank.Extract(context.Background(), Input{Mode: ModeText, Text: "x"})
	assert.ErrorIs(t, err, ErrNoChoices)

	_, err = blank.Extract(context.Background(), Input{Mode: ModeText, Text: "  "})
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = blank.Extract(context.Background(), Input{Mode: ModeImage})
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = blank.Extract(context.Background(), Input{Mode: "audio", Text: "x"})
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestExtractNotConfigured(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://ai.test"}, nil)
	assert.False(t, client.Configured())
	_, err := client.Extract(context.Background(), Input{Mode: ModeText, Text: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
