package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portal-backend/internal/documents"
	"portal-backend/internal/profiles"
	"portal-backend/internal/provider"
	"portal-backend/internal/shared/metrics"
	"portal-backend/internal/shared/telemetry"
)

// MaxFileSizeBytes caps uploads at 10 MiB. Anything larger is rejected
// before any credential or network work happens.
const MaxFileSizeBytes = 10 << 20

const (
	PathDirect = "direct"
	PathProxy  = "edge-function"
)

// DirectParser is the credentialed direct API call.
type DirectParser interface {
	Parse(ctx context.Context, data []byte, fileName string) (*provider.ParseResponse, error)
}

// ProxyParser is the server-side parse function call.
type ProxyParser interface {
	Parse(ctx context.Context, data []byte, fileName, mediaType string) (json.RawMessage, error)
}

// CredentialResolver yields the direct-path credential.
type CredentialResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Service orchestrates one ingestion: size gate, path selection, parsing,
// normalization, validation, metadata stamping, and persistence.
type Service struct {
	Repo     profiles.Repo
	Resolver CredentialResolver

	// NewDirect wraps a resolved credential into a client; nil means the
	// direct path is unavailable for that credential.
	NewDirect func(credential string) DirectParser
	Proxy     ProxyParser

	Notifier Notifier
}

// Ingest turns an uploaded document into the user's stored profile. It emits
// exactly one Started and exactly one terminal Succeeded or Failed event,
// and every returned error wraps one taxonomy sentinel.
func (s *Service) Ingest(ctx context.Context, userID string, doc documents.Document) (profiles.Profile, error) {
	start := metrics.NowMillis()
	defer func() {
		metrics.ObserveIngestDurationMs(metrics.NowMillis() - start)
	}()

	s.notifier().Started(userID, doc.FileName)

	if doc.SizeBytes > MaxFileSizeBytes {
		return profiles.Profile{}, s.fail(userID, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, doc.SizeBytes, MaxFileSizeBytes))
	}

	parsed, path, err := s.parse(ctx, userID, doc)
	if err != nil {
		return profiles.Profile{}, s.fail(userID, err)
	}

	if parsed.PersonalInfo.Empty() {
		return profiles.Profile{}, s.fail(userID, fmt.Errorf("%w: no identifying personal info extracted", ErrValidation))
	}

	parsed.Metadata = profiles.ProcessingMeta{
		Path:            path,
		ParsedAt:        time.Now().UTC(),
		ProcessingID:    uuid.NewString(),
		SourceFileName:  doc.FileName,
		SourceMediaType: doc.MediaType,
		SourceSizeBytes: doc.SizeBytes,
	}

	stored, err := s.Repo.Upsert(ctx, userID, parsed)
	if err != nil {
		return profiles.Profile{}, s.fail(userID, fmt.Errorf("%w: %v", ErrPersistence, err))
	}

	s.notifier().Succeeded(userID, stored.ID, path)
	return stored, nil
}

// parse runs the direct path when it applies and falls back to the proxied
// path otherwise. Only a mapping error on the direct path is terminal;
// transport and credential problems fall through.
func (s *Service) parse(ctx context.Context, userID string, doc documents.Document) (profiles.ParsedProfile, string, error) {
	var directErr error

	if doc.IsPDF() && doc.LooksLikePDF() && s.NewDirect != nil && s.Resolver != nil {
		cred, err := s.Resolver.Resolve(ctx)
		if err != nil {
			directErr = fmt.Errorf("%w: %v", ErrCredentialMissing, err)
		} else if client := s.NewDirect(cred); client != nil {
			resp, err := client.Parse(ctx, doc.Data, doc.FileName)
			switch {
			case err != nil:
				directErr = fmt.Errorf("%w: %v", ErrProvider, err)
			case resp == nil || resp.Data == nil:
				return profiles.ParsedProfile{}, "", fmt.Errorf("%w: parser response has no data object", ErrMapping)
			default:
				return Normalize(resp.Data), PathDirect, nil
			}
		}
	}

	if s.Proxy == nil {
		if directErr != nil {
			return profiles.ParsedProfile{}, "", directErr
		}
		return profiles.ParsedProfile{}, "", fmt.Errorf("%w: no parsing path configured", ErrProvider)
	}

	if directErr != nil {
		telemetry.Warn("ingest.direct_fallthrough", map[string]any{
			"user_id": userID,
			"error":   sanitizeError(directErr),
		})
	}

	raw, err := s.Proxy.Parse(ctx, doc.Data, doc.FileName, doc.MediaType)
	if err != nil {
		return profiles.ParsedProfile{}, "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var parsed profiles.ParsedProfile
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return profiles.ParsedProfile{}, "", fmt.Errorf("%w: parse function payload: %v", ErrMapping, err)
	}
	return parsed, PathProxy, nil
}

func (s *Service) fail(userID string, err error) error {
	s.notifier().Failed(userID, Code(err), sanitizeError(err))
	return err
}

func (s *Service) notifier() Notifier {
	if s.Notifier != nil {
		return s.Notifier
	}
	return TelemetryNotifier{}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > 500 {
		return msg[:500]
	}
	return msg
}
