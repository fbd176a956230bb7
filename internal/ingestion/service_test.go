package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"portal-backend/internal/documents"
	"portal-backend/internal/profiles"
	"portal-backend/internal/provider"
)

func pdfBytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, 2)
	for _, obj := range []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n",
	} {
		offsets = append(offsets, buf.Len())
		buf.WriteString(obj)
	}
	xrefStart := buf.Len()
	buf.WriteString("xref\n0 3\n0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 3 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefStart)
	return buf.Bytes()
}

type fakeResolver struct {
	cred string
	err  error
}

func (f *fakeResolver) Resolve(ctx context.Context) (string, error) {
	return f.cred, f.err
}

type fakeDirect struct {
	mu    sync.Mutex
	calls int
	resp  *provider.ParseResponse
	err   error
}

func (f *fakeDirect) Parse(ctx context.Context, data []byte, fileName string) (*provider.ParseResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.resp, f.err
}

type fakeProxy struct {
	mu    sync.Mutex
	calls int
	raw   json.RawMessage
	err   error
}

func (f *fakeProxy) Parse(ctx context.Context, data []byte, fileName, mediaType string) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.raw, f.err
}

type recordingNotifier struct {
	started   int
	succeeded int
	failed    int
	lastCode  string
	lastPath  string
}

func (n *recordingNotifier) Started(userID, fileName string) { n.started++ }

func (n *recordingNotifier) Succeeded(userID, profileID, path string) {
	n.succeeded++
	n.lastPath = path
}

func (n *recordingNotifier) Failed(userID, code, message string) {
	n.failed++
	n.lastCode = code
}

type failingRepo struct{}

func (failingRepo) Upsert(ctx context.Context, userID string, data profiles.ParsedProfile) (profiles.Profile, error) {
	return profiles.Profile{}, errors.New("connection refused")
}

func (failingRepo) GetCurrent(ctx context.Context, userID string) (profiles.Record, error) {
	return profiles.Record{}, profiles.ErrNotFound
}

func (failingRepo) GetByID(ctx context.Context, userID, profileID string) (profiles.Record, error) {
	return profiles.Record{}, profiles.ErrNotFound
}

func (failingRepo) ListForUser(ctx context.Context, userID string) ([]profiles.Record, error) {
	return nil, nil
}

func directResponse() *provider.ParseResponse {
	return &provider.ParseResponse{Data: &provider.ParseData{
		Name:   &provider.Name{Raw: "Jane Doe"},
		Emails: []string{"jane@example.com"},
	}}
}

func proxyPayload() json.RawMessage {
	return json.RawMessage(`{"personalInfo":{"fullName":"Jane Doe","email":"jane@example.com"},"summary":"Engineer."}`)
}

func newService(direct *fakeDirect, proxy ProxyParser, resolver CredentialResolver, repo profiles.Repo, n Notifier) *Service {
	svc := &Service{
		Repo:     repo,
		Resolver: resolver,
		Proxy:    proxy,
		Notifier: n,
	}
	if direct != nil {
		svc.NewDirect = func(credential string) DirectParser {
			if credential == "" {
				return nil
			}
			return direct
		}
	}
	return svc
}

func TestIngestRejectsOversizedFileWithoutNetworkCalls(t *testing.T) {
	direct := &fakeDirect{resp: directResponse()}
	proxy := &fakeProxy{raw: proxyPayload()}
	notifier := &recordingNotifier{}
	svc := newService(direct, proxy, &fakeResolver{cred: "key"}, profiles.NewMemoryRepo(), notifier)

	big := documents.Document{
		Data:      nil,
		MediaType: documents.MimePDF,
		FileName:  "huge.pdf",
		SizeBytes: MaxFileSizeBytes + 1,
	}
	_, err := svc.Ingest(context.Background(), "user-1", big)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if direct.calls != 0 || proxy.calls != 0 {
		t.Fatalf("expected zero provider calls, got direct=%d proxy=%d", direct.calls, proxy.calls)
	}
	if notifier.started != 1 || notifier.failed != 1 || notifier.succeeded != 0 {
		t.Fatalf("expected started=1 failed=1, got %+v", notifier)
	}
	if notifier.lastCode != ErrorCodeFileTooLarge {
		t.Fatalf("expected FILE_TOO_LARGE code, got %q", notifier.lastCode)
	}
}

func TestIngestDirectPathForValidPDF(t *testing.T) {
	direct := &fakeDirect{resp: directResponse()}
	proxy := &fakeProxy{raw: proxyPayload()}
	notifier := &recordingNotifier{}
	repo := profiles.NewMemoryRepo()
	svc := newService(direct, proxy, &fakeResolver{cred: "key"}, repo, notifier)

	doc := documents.New(pdfBytes(), documents.MimePDF, "resume.pdf")
	profile, err := svc.Ingest(context.Background(), "user-1", doc)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if direct.calls != 1 || proxy.calls != 0 {
		t.Fatalf("expected direct only, got direct=%d proxy=%d", direct.calls, proxy.calls)
	}
	if notifier.lastPath != PathDirect {
		t.Fatalf("expected direct path, got %q", notifier.lastPath)
	}

	rec, err := repo.GetCurrent(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if rec.Profile.ID != profile.ID {
		t.Fatalf("stored profile mismatch: %q vs %q", rec.Profile.ID, profile.ID)
	}
	meta := rec.Data.Metadata
	if meta.Path != PathDirect || meta.ProcessingID == "" || meta.ParsedAt.IsZero() {
		t.Fatalf("incomplete metadata: %+v", meta)
	}
	if meta.SourceFileName != "resume.pdf" || meta.SourceSizeBytes != doc.SizeBytes {
		t.Fatalf("source descriptors missing: %+v", meta)
	}
}

func TestIngestNonPDFNeverAttemptsDirect(t *testing.T) {
	direct := &fakeDirect{resp: directResponse()}
	proxy := &fakeProxy{raw: proxyPayload()}
	notifier := &recordingNotifier{}
	svc := newService(direct, proxy, &fakeResolver{cred: "key"}, profiles.NewMemoryRepo(), notifier)

	doc := documents.New([]byte("plain words"), "text/plain", "resume.txt")
	if _, err := svc.Ingest(context.Background(), "user-1", doc); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if direct.calls != 0 {
		t.Fatalf("expected no direct calls for non-PDF, got %d", direct.calls)
	}
	if proxy.calls != 1 {
		t.Fatalf("expected proxy call, got %d", proxy.calls)
	}
	if notifier.lastPath != PathProxy {
		t.Fatalf("expected edge-function path, got %q", notifier.lastPath)
	}
}

func TestIngestMislabeledPDFSkipsDirect(t *testing.T) {
	direct := &fakeDirect{resp: directResponse()}
	proxy := &fakeProxy{raw: proxyPayload()}
	svc := newService(direct, proxy, &fakeResolver{cred: "key"}, profiles.NewMemoryRepo(), &recordingNotifier{})

	doc := documents.New([]byte("not actually a pdf"), documents.MimePDF, "resume.pdf")
	if _, err := svc.Ingest(context.Background(), "user-1", doc); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if direct.calls != 0 {
		t.Fatalf("expected sniff to skip direct call, got %d", direct.calls)
	}
}

func TestIngestDirectFailureFallsThroughToProxy(t *testing.T) {
	direct := &fakeDirect{err: errors.New("connection reset")}
	proxy := &fakeProxy{raw: proxyPayload()}
	notifier := &recordingNotifier{}
	svc := newService(direct, proxy, &fakeResolver{cred: "key"}, profiles.NewMemoryRepo(), notifier)

	doc := documents.New(pdfBytes(), documents.MimePDF, "resume.pdf")
	if _, err := svc.Ingest(context.Background(), "user-1", doc); err != nil {
		t.Fatalf("expected fallthrough to succeed, got %v", err)
	}
	if direct.calls != 1 || proxy.calls != 1 {
		t.Fatalf("expected both paths attempted, got direct=%d proxy=%d", direct.calls, proxy.calls)
	}
	if notifier.succeeded != 1 || notifier.failed != 0 {
		t.Fatalf("expected clean success after fallthrough, got %+v", notifier)
	}
	if notifier.lastPath != PathProxy {
		t.Fatalf("expected edge-function path, got %q", notifier.lastPath)
	}
}

func TestIngestMissingCredentialFallsThroughToProxy(t *testing.T) {
	direct := &fakeDirect{resp: directResponse()}
	proxy := &fakeProxy{raw: proxyPayload()}
	svc := newService(direct, proxy, &fakeResolver{err: errors.New("no parser credential available")}, profiles.NewMemoryRepo(), &recordingNotifier{})

	doc := documents.New(pdfBytes(), documents.MimePDF, "resume.pdf")
	if _, err := svc.Ingest(context.Background(), "user-1", doc); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if direct.calls != 0 || proxy.calls != 1 {
		t.Fatalf("expected proxy only, got direct=%d proxy=%d", direct.calls, proxy.calls)
	}
}

func TestIngestMissingCredentialWithoutProxyFails(t *testing.T) {
	direct := &fakeDirect{resp: directResponse()}
	notifier := &recordingNotifier{}
	svc := newService(direct, nil, &fakeResolver{err: errors.New("exhausted")}, profiles.NewMemoryRepo(), notifier)

	doc := documents.New(pdfBytes(), documents.MimePDF, "resume.pdf")
	_, err := svc.Ingest(context.Background(), "user-1", doc)
	if !errors.Is(err, ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
	if notifier.lastCode != ErrorCodeCredentialMissing {
		t.Fatalf("expected CREDENTIAL_MISSING code, got %q", notifier.lastCode)
	}
}

func TestIngestDirectResponseWithoutDataIsMappingError(t *testing.T) {
	direct := &fakeDirect{resp: &provider.ParseResponse{}}
	proxy := &fakeProxy{raw: proxyPayload()}
	notifier := &recordingNotifier{}
	svc := newService(direct, proxy, &fakeResolver{cred: "key"}, profiles.NewMemoryRepo(), notifier)

	doc := documents.New(pdfBytes(), documents.MimePDF, "resume.pdf")
	_, err := svc.Ingest(context.Background(), "user-1", doc)
	if !errors.Is(err, ErrMapping) {
		t.Fatalf("expected ErrMapping, got %v", err)
	}
	if proxy.calls != 0 {
		t.Fatalf("mapping errors are terminal, expected no proxy call, got %d", proxy.calls)
	}
}

func TestIngestEmptyPersonalInfoIsValidationError(t *testing.T) {
	proxy := &fakeProxy{raw: json.RawMessage(`{"personalInfo":{},"summary":"words"}`)}
	notifier := &recordingNotifier{}
	svc := newService(nil, proxy, nil, profiles.NewMemoryRepo(), notifier)

	doc := documents.New([]byte("plain"), "text/plain", "resume.txt")
	_, err := svc.Ingest(context.Background(), "user-1", doc)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if notifier.lastCode != ErrorCodeValidation {
		t.Fatalf("expected VALIDATION_ERROR code, got %q", notifier.lastCode)
	}
	if notifier.started != 1 || notifier.failed != 1 || notifier.succeeded != 0 {
		t.Fatalf("notification discipline broken: %+v", notifier)
	}
}

func TestIngestPersistenceFailureIsPersistenceError(t *testing.T) {
	proxy := &fakeProxy{raw: proxyPayload()}
	notifier := &recordingNotifier{}
	svc := newService(nil, proxy, nil, failingRepo{}, notifier)

	doc := documents.New([]byte("plain"), "text/plain", "resume.txt")
	_, err := svc.Ingest(context.Background(), "user-1", doc)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if notifier.lastCode != ErrorCodePersistence {
		t.Fatalf("expected PERSISTENCE_ERROR code, got %q", notifier.lastCode)
	}
}

func TestIngestProxyFailureWithoutDirectIsProviderError(t *testing.T) {
	proxy := &fakeProxy{err: errors.New("function timed out")}
	notifier := &recordingNotifier{}
	svc := newService(nil, proxy, nil, profiles.NewMemoryRepo(), notifier)

	doc := documents.New([]byte("plain"), "text/plain", "resume.txt")
	_, err := svc.Ingest(context.Background(), "user-1", doc)
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if notifier.started != 1 || notifier.failed != 1 {
		t.Fatalf("notification discipline broken: %+v", notifier)
	}
}
