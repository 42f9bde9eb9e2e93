package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
)

// Access decides whether a request may read a recording's analysis and with
// what role. Two paths are tried in order: the bearer token of a staff user
// entitled to the recording, then a client share-code bound to exactly one
// meeting. When both fail the denial is generic on purpose: callers never
// learn which check failed.
type Access struct {
	tokenManager model.TokenManager
	meetingStore model.MeetingStore
	logger       *logger.Logger
}

func NewAccess(tokenManager model.TokenManager, meetingStore model.MeetingStore, logger *logger.Logger) *Access {
	return &Access{
		tokenManager: tokenManager,
		meetingStore: meetingStore,
		logger:       logger,
	}
}

// Authorize resolves the request's credentials into an access grant for the
// recording. Token-path grants require entitlement: the recording must belong
// to a meeting owned by the identity, or the identity must be an admin. A
// valid token alone is not enough.
func (s *Access) Authorize(ctx context.Context, req model.AccessRequest) (model.AccessGrant, error) {
	if req.BearerToken != "" {
		if grant, ok := s.authorizeToken(ctx, req); ok {
			s.logger.Info("Access: granted via token",
				"recording_id", req.RecordingID,
				"role", grant.Role,
				"user_id", grant.Identity.UserID)
			return grant, nil
		}
	}

	if req.ShareableID != "" && req.ClientCode != "" {
		if grant, ok := s.authorizeShareCode(ctx, req); ok {
			s.logger.Info("Access: granted via share code",
				"recording_id", req.RecordingID,
				"role", grant.Role)
			return grant, nil
		}
	}

	s.logger.Info("Access: denied", "recording_id", req.RecordingID)
	return model.AccessGrant{}, model.ErrAccessDenied
}

func (s *Access) authorizeToken(ctx context.Context, req model.AccessRequest) (model.AccessGrant, bool) {
	identity, err := s.tokenManager.Parse(req.BearerToken)
	if err != nil {
		return model.AccessGrant{}, false
	}

	meeting, err := s.meetingStore.GetByRecordingID(ctx, req.RecordingID)
	if err != nil {
		return model.AccessGrant{}, false
	}

	if meeting.UserID != identity.UserID && identity.Role != model.RoleAdmin {
		return model.AccessGrant{}, false
	}

	role := identity.Role
	if role == "" {
		role = model.RoleUser
	}

	return model.AccessGrant{Role: role, Identity: &identity}, true
}

func (s *Access) authorizeShareCode(ctx context.Context, req model.AccessRequest) (model.AccessGrant, bool) {
	meeting, err := s.ValidateShareCode(ctx, req.ShareableID, req.ClientCode)
	if err != nil {
		return model.AccessGrant{}, false
	}

	// The share pair grants access to exactly one meeting's recording.
	if meeting.RecordingID == nil || *meeting.RecordingID != req.RecordingID {
		return model.AccessGrant{}, false
	}

	return model.AccessGrant{Role: model.RoleClient}, true
}

// ValidateShareCode resolves a shareable meeting id and client code to the
// single matching meeting. Codes are case-insensitive; the lookup by
// shareable id may return several meetings, filtered here by code. The two
// failure modes stay distinct for the dedicated client-access endpoint;
// Authorize collapses both into its generic denial.
func (s *Access) ValidateShareCode(ctx context.Context, shareableID, clientCode string) (model.Meeting, error) {
	shareableID = strings.ToUpper(strings.TrimSpace(shareableID))
	clientCode = strings.ToUpper(strings.TrimSpace(clientCode))
	if shareableID == "" {
		return model.Meeting{}, model.ErrInvalidShareID
	}

	meetings, err := s.meetingStore.GetByShareableID(ctx, shareableID)
	if errors.Is(err, model.ErrNotFound) || (err == nil && len(meetings) == 0) {
		return model.Meeting{}, model.ErrInvalidShareID
	}
	if err != nil {
		return model.Meeting{}, fmt.Errorf("failed to get meetings by shareable id: %w", err)
	}

	for _, meeting := range meetings {
		if codesEqual(meeting.ClientCode, clientCode) {
			return meeting, nil
		}
	}

	return model.Meeting{}, model.ErrInvalidShareCode
}

func codesEqual(stored, presented string) bool {
	stored = strings.ToUpper(stored)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
