// Gemini [Converter] implementation
//
// Sends one generateContent request per conversion and treats the reply as an
// untrusted oracle: the MusicXML span is sliced out of the free-form text and
// must still pass the independent verifier downstream.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/scorefinder/internal/models"
	"github.com/desertthunder/scorefinder/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-1.5-flash"

	// maxPromptContent bounds how much file content is embedded in a prompt.
	maxPromptContent = 64 << 10
)

// GeminiService implements [Converter] backed by the Gemini generateContent API.
type GeminiService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewGeminiService creates a new Gemini conversion service instance.
func NewGeminiService(baseURL, apiKey, model string) *GeminiService {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Name returns the conversion backend name.
func (g *GeminiService) Name() string {
	return "Gemini"
}

// Convert builds a conversion prompt from the content, sends it to Gemini and
// extracts the MusicXML document from the reply.
//
// When the first reply yields no extractable document, one repair round asks
// the model to emit a corrected document; a second miss is a conversion
// failure. There is no further retry or multi-turn refinement.
func (g *GeminiService) Convert(ctx context.Context, content []byte, source models.Format) (string, error) {
	reply, err := g.generate(ctx, buildConversionPrompt(content, source))
	if err != nil {
		return "", err
	}

	doc, err := ExtractMusicXML(reply)
	if err == nil {
		return doc, nil
	}

	repaired, rerr := g.generate(ctx, buildRepairPrompt(reply))
	if rerr != nil {
		return "", fmt.Errorf("%w: repair round: %v", shared.ErrConversionFailed, rerr)
	}

	if doc, err = ExtractMusicXML(repaired); err != nil {
		return "", err
	}
	return doc, nil
}

func (g *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	type geminiPart struct {
		Text string `json:"text"`
	}
	type geminiContent struct {
		Parts []geminiPart `json:"parts"`
	}
	reqBody := struct {
		Contents []geminiContent `json:"contents"`
	}{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("%w: gemini API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("%w: gemini API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var genResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(genResp.Candidates) == 0 {
		return "", fmt.Errorf("%w: empty gemini reply", shared.ErrConversionFailed)
	}

	var b strings.Builder
	for _, part := range genResp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

func buildConversionPrompt(content []byte, source models.Format) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following is the content of a %s drum score. ", source)
	b.WriteString("Convert it to a single complete MusicXML document. ")
	b.WriteString("Output only the raw XML, starting with the <?xml declaration and a <score-partwise> root. ")
	b.WriteString("Do not include markdown fences or commentary.\n\n")
	b.WriteString(contentExcerpt(content))
	return b.String()
}

func buildRepairPrompt(reply string) string {
	var b strings.Builder
	b.WriteString("The following reply was supposed to contain a single valid MusicXML document but does not. ")
	b.WriteString("Emit a corrected, complete MusicXML document with one <?xml declaration and one <score-partwise> or <score-timewise> root. ")
	b.WriteString("Output only the raw XML.\n\n")
	b.WriteString(truncate(reply, maxPromptContent))
	return b.String()
}

// contentExcerpt renders file content for embedding in a prompt. Text formats
// pass through; binary content is reduced to its printable runs so the prompt
// stays within a sane size.
func contentExcerpt(content []byte) string {
	if isMostlyText(content) {
		return truncate(string(content), maxPromptContent)
	}

	var b strings.Builder
	run := 0
	for _, c := range content {
		if c >= 0x20 && c < 0x7F {
			b.WriteByte(c)
			run++
		} else if run > 0 {
			b.WriteByte(' ')
			run = 0
		}
		if b.Len() >= maxPromptContent {
			break
		}
	}
	return b.String()
}

func isMostlyText(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	sample := content
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	printable := 0
	for _, c := range sample {
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c < 0x7F) {
			printable++
		}
	}
	return printable*10 >= len(sample)*9
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ExtractMusicXML locates a MusicXML document inside a free-form model reply.
//
// The span runs from the first score-partwise or score-timewise opening tag to
// the last matching close tag. An XML declaration preceding the opening tag is
// preserved. Replies without a complete span fail; a truncated document is
// never returned.
func ExtractMusicXML(reply string) (string, error) {
	for _, root := range []string{"score-partwise", "score-timewise"} {
		open := "<" + root
		start := strings.Index(reply, open)
		if start < 0 {
			continue
		}

		closeTag := "</" + root + ">"
		end := strings.LastIndex(reply, closeTag)
		if end < start {
			return "", fmt.Errorf("%w: reply has an opening <%s> but no closing tag", shared.ErrConversionFailed, root)
		}

		doc := reply[start : end+len(closeTag)]

		if decl := strings.LastIndex(reply[:start], "<?xml"); decl >= 0 {
			if declEnd := strings.Index(reply[decl:start], "?>"); declEnd >= 0 {
				doc = reply[decl:decl+declEnd+2] + "\n" + doc
			}
		}

		return doc, nil
	}

	return "", fmt.Errorf("%w: no MusicXML document in reply", shared.ErrConversionFailed)
}
