// Package credentials resolves the document-parser API credential from an
// ordered list of sources. Sources that fail are logged and skipped; only
// total exhaustion is an error.
package credentials

import (
	"context"
	"errors"
	"strings"

	"portal-backend/internal/shared/telemetry"
)

// ErrCredentialMissing is returned when no source yields a credential.
var ErrCredentialMissing = errors.New("no parser credential available")

// Source yields a credential, or ("", nil) when it has nothing to offer.
// An error means the source itself failed (e.g. database down) and the
// resolver should move on to the next source.
type Source interface {
	Name() string
	Credential(ctx context.Context) (string, error)
}

// Resolver walks its sources in order and returns the first non-empty
// credential.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Resolve returns the first credential any source yields. Source failures
// are swallowed after logging so that a broken secondary store cannot take
// ingestion down while the primary is healthy.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	for _, src := range r.sources {
		cred, err := src.Credential(ctx)
		if err != nil {
			telemetry.Error("credentials.source_failed", map[string]any{
				"source": src.Name(),
				"error":  err.Error(),
			})
			continue
		}
		if strings.TrimSpace(cred) == "" {
			continue
		}
		if _, fallback := src.(*FallbackSource); fallback {
			telemetry.Warn("credentials.fallback_used", map[string]any{
				"source": src.Name(),
			})
		}
		return strings.TrimSpace(cred), nil
	}
	return "", ErrCredentialMissing
}

// StaticSource yields a fixed value, typically an explicit override or the
// configured primary secret.
type StaticSource struct {
	name  string
	value string
}

func NewStaticSource(name, value string) *StaticSource {
	return &StaticSource{name: name, value: value}
}

func (s *StaticSource) Name() string { return s.name }

func (s *StaticSource) Credential(ctx context.Context) (string, error) {
	return s.value, nil
}

// FallbackSource yields a designated non-production credential. Its use is
// surfaced as a warning by the resolver.
type FallbackSource struct {
	value string
}

func NewFallbackSource(value string) *FallbackSource {
	return &FallbackSource{value: value}
}

func (s *FallbackSource) Name() string { return "fallback" }

func (s *FallbackSource) Credential(ctx context.Context) (string, error) {
	return s.value, nil
}

var (
	_ Source = (*StaticSource)(nil)
	_ Source = (*FallbackSource)(nil)
)
