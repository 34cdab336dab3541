package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nmcnair22/billscan/internal/model"
)

const (
	// ModelInvoice extracts bill-level fields alongside content
	ModelInvoice = "prebuilt-invoice"
	// ModelLayout extracts content with font styles
	ModelLayout = "prebuilt-layout"

	maxDocumentBytes = 50 * 1024 * 1024
	maxResponseBytes = 64 * 1024 * 1024
)

// Analyzer turns a bill file into an analyzed Document
type Analyzer interface {
	Analyze(ctx context.Context, path, analysisModel string) (*model.Document, error)
}

// Client calls a document-intelligence HTTP service
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *logrus.Logger
}

// NewClient creates a document-intelligence client
func NewClient(endpoint, apiKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

// analysisResponse is the service's wire shape
type analysisResponse struct {
	Content string            `json:"content"`
	Fields  map[string]string `json:"fields,omitempty"`
	Styles  []struct {
		Spans []struct {
			Offset int `json:"offset"`
			Length int `json:"length"`
		} `json:"spans"`
		FontWeight string `json:"fontWeight,omitempty"`
	} `json:"styles,omitempty"`
}

// Analyze uploads the document and returns the analyzed content. Invoice
// mode carries fields, layout mode carries styles.
func (c *Client) Analyze(ctx context.Context, path, analysisModel string) (*model.Document, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if c.endpoint == "" || c.apiKey == "" {
		return nil, fmt.Errorf("document intelligence endpoint or key not configured")
	}

	start := time.Now()
	reqURL := c.endpoint + "/analyze?model=" + url.QueryEscape(analysisModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewServiceError("analysis", "analyze", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, model.NewServiceError("analysis", "analyze",
			fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, model.NewServiceError("analysis", "read response", err)
	}

	var parsed analysisResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, model.NewParseError("analysis response", err)
	}

	doc := &model.Document{
		Content: parsed.Content,
		Fields:  parsed.Fields,
	}
	if doc.Fields == nil {
		doc.Fields = map[string]string{}
	}
	for _, s := range parsed.Styles {
		style := model.Style{FontWeight: s.FontWeight}
		for _, sp := range s.Spans {
			style.Spans = append(style.Spans, model.Span{Offset: sp.Offset, Length: sp.Length})
		}
		doc.Styles = append(doc.Styles, style)
	}

	c.logger.WithFields(logrus.Fields{
		"path":    filepath.Base(path),
		"model":   analysisModel,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("document analyzed")
	return doc, nil
}

// readDocument validates and reads a bill file for upload
func readDocument(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("document not found: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("document must be a PDF file: %s", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("document is empty: %s", path)
	}
	if info.Size() > maxDocumentBytes {
		return nil, fmt.Errorf("document exceeds %d byte limit: %d bytes", maxDocumentBytes, info.Size())
	}
	return os.ReadFile(path)
}
