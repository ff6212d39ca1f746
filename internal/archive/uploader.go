package archive

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"
)

const s3Service = "s3"

// CredentialsProvider supplies AWS credentials for request signing.
type CredentialsProvider interface {
	Retrieve(ctx context.Context) (aws.Credentials, error)
}

// Uploader stores camera snapshots in S3. Each snapshot upload writes two
// objects: the JPEG itself and a small JSON metadata document next to it.
type Uploader struct {
	credentials CredentialsProvider
	signer      *v4.Signer
	httpClient  *http.Client
	logger      zerolog.Logger
	cfg         *Config
}

// NewUploader creates an Uploader using the default AWS credential chain.
func NewUploader(ctx context.Context, cfg *Config, logger zerolog.Logger) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.GetRegion()))
	if err != nil {
		return nil, fmt.Errorf("archive: failed to load AWS config: %w", err)
	}

	return NewUploaderWithCredentials(cfg, awsCfg.Credentials, logger), nil
}

// NewUploaderWithCredentials creates an Uploader with an explicit credentials
// provider. Useful for testing and for non-default credential sources.
func NewUploaderWithCredentials(cfg *Config, credentials CredentialsProvider, logger zerolog.Logger) *Uploader {
	return &Uploader{
		cfg:         cfg,
		credentials: credentials,
		signer:      v4.NewSigner(),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger.With().Str("component", "archive").Logger(),
	}
}

// SetHTTPClient replaces the HTTP client used for uploads.
func (u *Uploader) SetHTTPClient(client *http.Client) {
	u.httpClient = client
}

// StoreSnapshot uploads a JPEG snapshot for the named camera, keyed by
// camera name and capture time, and writes a metadata document beside it.
// It returns the object key of the snapshot.
func (u *Uploader) StoreSnapshot(ctx context.Context, camera string, capturedAt time.Time, jpeg []byte) (string, error) {
	key := u.snapshotKey(camera, capturedAt)

	if err := u.put(ctx, key, "image/jpeg", jpeg); err != nil {
		return "", err
	}

	meta, err := u.metadataDoc(camera, capturedAt, len(jpeg))
	if err != nil {
		return "", err
	}
	if err := u.put(ctx, key+".json", "application/json", meta); err != nil {
		return "", err
	}

	u.logger.Debug().
		Str("camera", camera).
		Str("key", key).
		Int("bytes", len(jpeg)).
		Msg("snapshot archived")

	return key, nil
}

// snapshotKey builds the object key for a snapshot:
// {prefix}/{camera}/{2006/01/02}/{150405.000}.jpg
func (u *Uploader) snapshotKey(camera string, capturedAt time.Time) string {
	ts := capturedAt.UTC()
	return fmt.Sprintf("%s/%s/%s/%s.jpg",
		u.cfg.GetPrefix(),
		camera,
		ts.Format("2006/01/02"),
		ts.Format("150405.000"),
	)
}

// metadataDoc builds the JSON metadata document stored next to the snapshot.
func (u *Uploader) metadataDoc(camera string, capturedAt time.Time, size int) ([]byte, error) {
	doc := "{}"
	var err error
	for _, set := range []struct {
		value any
		path  string
	}{
		{camera, "camera"},
		{capturedAt.UTC().Format(time.RFC3339Nano), "captured_at"},
		{size, "size_bytes"},
		{"image/jpeg", "content_type"},
	} {
		doc, err = sjson.Set(doc, set.path, set.value)
		if err != nil {
			return nil, fmt.Errorf("archive: failed to build metadata: %w", err)
		}
	}
	return []byte(doc), nil
}

// objectURL builds the URL for an object key. With an endpoint override the
// bucket goes in the path (S3-compatible stores rarely support virtual
// hosting); otherwise the standard virtual-hosted-style URL is used.
func (u *Uploader) objectURL(key string) string {
	if u.cfg.EndpointURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.cfg.EndpointURL, "/"), u.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.GetRegion(), key)
}

// put performs a SigV4-signed PUT of body to the object key.
func (u *Uploader) put(ctx context.Context, key, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.objectURL(key), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("archive: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	creds, err := u.credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("archive: failed to retrieve credentials: %w", err)
	}

	// SigV4 requires the SHA256 of the exact payload being sent
	hash := sha256.Sum256(body)
	payloadHash := hex.EncodeToString(hash[:])

	err = u.signer.SignHTTP(
		ctx,
		creds,
		req,
		payloadHash,
		s3Service,
		u.cfg.GetRegion(),
		time.Now(),
		func(options *v4.SignerOptions) {
			options.DisableURIPathEscaping = true
		},
	)
	if err != nil {
		return fmt.Errorf("archive: failed to sign request: %w", err)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("archive: upload request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UploadError{Key: key, Status: resp.StatusCode}
	}

	return nil
}
