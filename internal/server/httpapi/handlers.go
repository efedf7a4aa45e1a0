package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cosignet/internal/anchorapi"
	"github.com/dmitrijs2005/cosignet/internal/common"
	"github.com/dmitrijs2005/cosignet/internal/server/auth"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, anchorapi.ErrorResponse{Error: msg})
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *HTTPServer) handleToken(w http.ResponseWriter, r *http.Request) {
	var req anchorapi.TokenRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), s.secretKey) != 1 {
		writeError(w, http.StatusUnauthorized, "wrong secret")
		return
	}

	token, err := auth.GenerateToken("client", s.secretKey, s.tokenTTL)
	if err != nil {
		s.logger.Error(r.Context(), "token generation failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, anchorapi.TokenResponse{AccessToken: token})
}

func (s *HTTPServer) handleAnchor(w http.ResponseWriter, r *http.Request) {
	var req anchorapi.AnchorRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	proof, err := s.anchors.Anchor(r.Context(), req.Root)
	if err != nil {
		if errors.Is(err, common.ErrInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error(r.Context(), "anchor failed", "root", req.Root, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, proof)
}

func (s *HTTPServer) handleGetAnchor(w http.ResponseWriter, r *http.Request) {
	root := chi.URLParam(r, "root")

	proof, err := s.anchors.Get(r.Context(), root)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrNotFound):
			writeError(w, http.StatusNotFound, "root not anchored")
		default:
			s.logger.Error(r.Context(), "anchor lookup failed", "root", root, "error", err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, proof)
}

func (s *HTTPServer) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req anchorapi.VerifyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	valid, err := s.anchors.Verify(r.Context(), req.Root, req.Proof)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrNotFound):
			// an unknown root is simply not a valid attestation
			writeJSON(w, http.StatusOK, anchorapi.VerifyResponse{Valid: false})
		default:
			s.logger.Error(r.Context(), "verify failed", "root", req.Root, "error", err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, anchorapi.VerifyResponse{Valid: valid})
}

func (s *HTTPServer) handleArchive(w http.ResponseWriter, r *http.Request) {
	var req anchorapi.ArchiveRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.BundleID == "" {
		writeError(w, http.StatusBadRequest, "bundleId is required")
		return
	}

	_, url, err := s.archive.GetPresignedPutURL(r.Context(), req.BundleID)
	if err != nil {
		s.logger.Error(r.Context(), "presign failed", "bundle", req.BundleID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, anchorapi.ArchiveResponse{UploadURL: url})
}
