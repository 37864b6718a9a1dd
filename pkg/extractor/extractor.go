// Package extractor pide a un modelo compatible con /chat/completions que convierta texto
// libre o una imagen al formato de bloques del parser. El resultado es texto no confiable:
// siempre pasa por parser.Parse como cualquier texto manual.
package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

type Mode string

const (
	ModeText  Mode = "text"
	ModeImage Mode = "image"
)

var (
	ErrNotConfigured = errors.New("extractor IA no configurado")
	ErrEmptyInput    = errors.New("no hay contenido para extraer")
	ErrNoChoices     = errors.New("la IA no devolvió respuesta")
	ErrUnknownMode   = errors.New("modo de extracción desconocido")
)

const instructions = `你是一个专业的出题助手。请从提供的%s中提取所有题目，并转换为标准的选择题格式。
格式要求：
1. 每一题第一行是题目内容，之后每行一个选项（A. / B. / C. / D.）。
2. 正确答案单独一行，以 # 开头，紧跟答案字母（如 #A）。
3. 每道题之间用一个空行分隔。
4. 如果原内容没有选项，请根据常识生成合理的选项。

格式示例：
中国的首都是哪里？
A. 上海
B. 北京
C. 广州
#B

请直接输出题目内容，不要有任何开场白。`

// Input contenido a convertir
type Input struct {
	Mode Mode   `json:"mode"`
	Text string `json:"text,omitempty"`
	// ImageBase64 imagen codificada en base64 (sin prefijo data:)
	ImageBase64 string `json:"image,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Config conexión al proveedor
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client cliente del proveedor de IA
type Client struct {
	config Config
	http   *fasthttp.Client
}

func NewClient(cfg Config, httpClient *fasthttp.Client) *Client {
	if httpClient == nil {
		httpClient = &fasthttp.Client{Name: "quizgate-extractor"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{config: cfg, http: httpClient}
}

// Configured indica si hay clave y URL configuradas
func (c *Client) Configured() bool {
	return c.config.APIKey != "" && c.config.BaseURL != ""
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func buildMessages(in Input) ([]chatMessage, error) {
	switch in.Mode {
	case ModeText, "":
		if strings.TrimSpace(in.Text) == "" {
			return nil, ErrEmptyInput
		}
		return []chatMessage{
			{Role: "system", Content: fmt.Sprintf(instructions, "文本")},
			{Role: "user", Content: in.Text},
		}, nil
	case ModeImage:
		if in.ImageBase64 == "" {
			return nil, ErrEmptyInput
		}
		mime := in.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		return []chatMessage{
			{Role: "system", Content: fmt.Sprintf(instructions, "图片")},
			{Role: "user", Content: []contentPart{
				{Type: "image_url", ImageURL: &imageURL{URL: "data:" + mime + ";base64," + in.ImageBase64}},
			}},
		}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownMode, "%q", in.Mode)
	}
}

// Extract devuelve el texto generado, recortado. Nunca devuelve texto vacío sin error.
func (c *Client) Extract(ctx context.Context, in Input) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	messages, err := buildMessages(in)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatCompletionRequest{Model: c.config.Model, Messages: messages})
	if err != nil {
		return "", errors.Wrap(err, "error serializando petición")
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(strings.TrimSuffix(c.config.BaseURL, "/") + "/chat/completions")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.SetBody(body)

	timeout := c.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return "", errors.Wrap(err, "error llamando a la IA")
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode(), string(resp.Body()))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", errors.Wrap(err, "error deserializando respuesta de la IA")
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", ErrNoChoices
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", ErrNoChoices
	}
	return text, nil
}
