package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "go-insight-studio/internal/errors"
	"go-insight-studio/internal/logger"
	"go-insight-studio/pkg/models"
)

const (
	csvPath = "/predict/csv"
	cnnPath = "/predict/image"

	// ImageFieldName is the multipart field the image model reads the scan from
	ImageFieldName = "image"

	maxErrorBodyBytes = 64 * 1024
)

// PredictionClient issues single requests to the two remote models
type PredictionClient interface {
	RequestCSVPrediction(ctx context.Context, payload models.ClinicalMetricsPayload) (*models.CSVPredictionResult, error)
	RequestCNNPrediction(ctx context.Context, image models.ImageUpload) (*models.CNNPredictionResult, error)
}

// HTTPPredictionClient talks to the prediction backend over plain HTTP.
// Each call is one round trip: no retry, no client-side timeout, no caching.
type HTTPPredictionClient struct {
	baseURL string
	client  *http.Client
}

// Option configures an HTTPPredictionClient
type Option func(*HTTPPredictionClient)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(p *HTTPPredictionClient) {
		p.client = c
	}
}

// NewHTTPPredictionClient creates a client for the backend at baseURL.
// baseURL must already be normalized (no trailing slash).
func NewHTTPPredictionClient(baseURL string, opts ...Option) *HTTPPredictionClient {
	// Connection pooling sized for two concurrent requests per submission
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	p := &HTTPPredictionClient{
		baseURL: baseURL,
		client: &http.Client{
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CSVEndpoint returns the tabular model URL
func (p *HTTPPredictionClient) CSVEndpoint() string {
	return p.baseURL + csvPath
}

// ImageEndpoint returns the image model URL
func (p *HTTPPredictionClient) ImageEndpoint() string {
	return p.baseURL + cnnPath
}

// RequestCSVPrediction posts the clinical metrics as JSON to the tabular model
func (p *HTTPPredictionClient) RequestCSVPrediction(ctx context.Context, payload models.ClinicalMetricsPayload) (*models.CSVPredictionResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode clinical metrics", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.CSVEndpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("invalid CSV prediction endpoint", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	respBody, err := p.do(req, models.ModelCSV, "CSV")
	if err != nil {
		return nil, err
	}

	result, err := ParseCSVResponse(respBody)
	if err != nil {
		return nil, apperrors.NewUnexpectedResponseError("Unexpected response structure from CSV prediction API", err)
	}
	return result, nil
}

// RequestCNNPrediction uploads the scan as multipart form data to the image model
func (p *HTTPPredictionClient) RequestCNNPrediction(ctx context.Context, image models.ImageUpload) (*models.CNNPredictionResult, error) {
	body, contentType, err := encodeImageForm(image)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode image upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.ImageEndpoint(), body)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid image prediction endpoint", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	respBody, err := p.do(req, models.ModelCNN, "CNN")
	if err != nil {
		return nil, err
	}

	result, err := ParseCNNResponse(respBody)
	if err != nil {
		return nil, apperrors.NewUnexpectedResponseError("Unexpected response structure from CNN prediction API", err)
	}
	return result, nil
}

// do performs the round trip and returns the body of a successful response
func (p *HTTPPredictionClient) do(req *http.Request, model, name string) ([]byte, error) {
	start := time.Now()
	log := logger.Component("predictor").WithFields(logrus.Fields{
		"model":    model,
		"endpoint": req.URL.String(),
	})

	resp, err := p.client.Do(req)
	if err != nil {
		log.WithError(err).Error("Prediction request failed")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewNetworkError(name+" prediction request was cancelled", err)
		}
		return nil, apperrors.NewNetworkError(name+" prediction request failed: "+err.Error(), err)
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		text := strings.TrimSpace(string(errBody))
		log.Warn("Prediction backend returned an error status")
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("%s prediction request failed: %d %s %s", name, resp.StatusCode, statusText(resp), text),
			resp.StatusCode,
			text,
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Error("Failed to read prediction response")
		return nil, apperrors.NewNetworkError(name+" prediction response could not be read", err)
	}

	log.Debug("Prediction request completed")
	return data, nil
}

// statusText returns the reason phrase sent by the server, falling back to the standard text
func statusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeImageForm writes the scan as the single file part of a multipart body
func encodeImageForm(image models.ImageUpload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := image.Filename
	if filename == "" {
		filename = "scan"
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		ImageFieldName, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
