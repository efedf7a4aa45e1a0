package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/anchorapi"
	"github.com/dmitrijs2005/cosignet/internal/bundle"
	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/netx"
	"github.com/sethvargo/go-retry"
)

// AnchorService talks to the timestamp anchor collaborator. The core never
// interprets the proof: it is stored opaquely in the bundle.
type AnchorService interface {
	// Anchor builds the Merkle commitment of a completed bundle, submits
	// the root, and stores the returned proof in the bundle.
	Anchor(ctx context.Context, id string) (*anchorapi.Proof, error)

	// VerifyAnchor asks the service to check the proof stored in a bundle
	// against its root.
	VerifyAnchor(ctx context.Context, id string) (bool, error)

	// Archive finalizes the completed document and uploads it for
	// safekeeping via a presigned URL.
	Archive(ctx context.Context, id string) error
}

type anchorService struct {
	bundles  BundleService
	baseURL  string
	secret   string
	client   *http.Client
	renderer bundle.Renderer

	token string
}

// NewAnchorService constructs an AnchorService against the given base URL.
func NewAnchorService(bs BundleService, baseURL, secret string, timeout time.Duration, r bundle.Renderer) AnchorService {
	if r == nil {
		r = bundle.PassthroughRenderer{}
	}
	return &anchorService{
		bundles:  bs,
		baseURL:  baseURL,
		secret:   secret,
		client:   &http.Client{Timeout: timeout},
		renderer: r,
	}
}

func (s *anchorService) Anchor(ctx context.Context, id string) (*anchorapi.Proof, error) {
	b, err := s.bundles.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	c, err := bundle.Commit(b)
	if err != nil {
		return nil, err
	}

	var proof anchorapi.Proof
	root := hex.EncodeToString(c.Root[:])

	// transient anchor-service failures are retried with backoff
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		e := s.post(ctx, "/api/anchors", anchorapi.AnchorRequest{Root: root}, &proof, true)
		if e != nil && !isAuthError(e) {
			return retry.RetryableError(e)
		}
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("anchor submit: %w", err)
	}

	raw, err := json.Marshal(proof)
	if err != nil {
		return nil, err
	}
	b.TimestampProof = raw
	if err := s.bundles.Save(ctx, id, b); err != nil {
		return nil, err
	}
	return &proof, nil
}

func (s *anchorService) VerifyAnchor(ctx context.Context, id string) (bool, error) {
	b, err := s.bundles.Load(ctx, id)
	if err != nil {
		return false, err
	}
	if len(b.TimestampProof) == 0 {
		return false, fmt.Errorf("%w: bundle has no timestamp proof", common.ErrNotFound)
	}

	var proof anchorapi.Proof
	if err := json.Unmarshal(b.TimestampProof, &proof); err != nil {
		return false, fmt.Errorf("%w: stored proof is unreadable", common.ErrValidation)
	}

	c, err := bundle.Commit(b)
	if err != nil {
		return false, err
	}
	root := hex.EncodeToString(c.Root[:])
	if proof.Root != root {
		// the proof was issued for a different leaf set
		return false, nil
	}

	var resp anchorapi.VerifyResponse
	if err := s.post(ctx, "/api/anchors/verify", anchorapi.VerifyRequest{Root: root, Proof: proof}, &resp, false); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

func (s *anchorService) Archive(ctx context.Context, id string) error {
	b, err := s.bundles.Load(ctx, id)
	if err != nil {
		return err
	}

	if b.CompletedDocument == nil {
		if err := bundle.Finalize(ctx, b, s.renderer); err != nil {
			return err
		}
		if err := s.bundles.Save(ctx, id, b); err != nil {
			return err
		}
	}

	var resp anchorapi.ArchiveResponse
	if err := s.post(ctx, "/api/archive", anchorapi.ArchiveRequest{BundleID: id}, &resp, true); err != nil {
		return fmt.Errorf("archive presign: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, resp.UploadURL, b.CompletedDocument.Data); err != nil {
		return fmt.Errorf("archive upload: %w", err)
	}
	return nil
}

// ensureToken exchanges the shared secret for an API token once and caches
// it for subsequent calls.
func (s *anchorService) ensureToken(ctx context.Context) error {
	if s.token != "" {
		return nil
	}
	var resp anchorapi.TokenResponse
	if err := s.post(ctx, "/api/token", anchorapi.TokenRequest{Secret: s.secret}, &resp, false); err != nil {
		return err
	}
	s.token = resp.AccessToken
	return nil
}

func (s *anchorService) post(ctx context.Context, path string, in, out any, authed bool) error {
	if authed {
		if err := s.ensureToken(ctx); err != nil {
			return err
		}
	}

	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		s.token = ""
		return fmt.Errorf("%w: anchor service returned %s", common.ErrUnauthorized, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		var apiErr anchorapi.ErrorResponse
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("anchor service: %s (%s)", apiErr.Error, resp.Status)
		}
		return fmt.Errorf("anchor service: %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func isAuthError(err error) bool {
	return errors.Is(err, common.ErrUnauthorized)
}
