// Package fetch downloads artifacts into the cache.
//
// A fetch resolves the candidate URLs for an artifact and tries them in
// order: download the full body, verify it against the declared checksum and
// commit it atomically. Unusable candidates are logged and skipped; only a
// malformed URL, a cancelled context or a cache write failure abort the
// whole attempt.
package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"go.trai.ch/jarl/internal/build"
	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
	"go.trai.ch/jarl/internal/engine/cache"
	"go.trai.ch/jarl/internal/engine/resolve"
	"go.trai.ch/zerr"
)

const (
	// connectTimeout bounds dialing, TLS and response headers per candidate.
	connectTimeout = 5 * time.Second

	// readTimeout bounds the gap between body reads per candidate.
	readTimeout = 5 * time.Second
)

// errStalled marks a body read that made no progress within readTimeout.
var errStalled = zerr.New("download stalled")

// Fetcher downloads artifacts into the cache with checksum verification.
// It is safe for concurrent use.
type Fetcher struct {
	store    *cache.Store
	resolver *resolve.Resolver
	logger   ports.Logger
	client   *http.Client
	agent    string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client. Used for testing and custom transports.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher writing into store and resolving candidates through
// resolver. The default client enforces the fixed connect and read timeouts
// and serves file:// URLs from the local filesystem.
func New(store *cache.Store, resolver *resolve.Resolver, logger ports.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		store:    store,
		resolver: resolver,
		logger:   logger,
		client:   defaultClient(),
		agent:    build.UserAgent(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func defaultClient() *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: connectTimeout,
	}
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return &http.Client{Transport: transport}
}

// Fetch returns the cache path of the artifact, downloading it first if it
// is not already present. A present file is returned without any network
// traffic. On failure no file appears at the cache path and no temporary
// sibling is left behind.
func (f *Fetcher) Fetch(ctx context.Context, a domain.Artifact) (string, error) {
	rel := a.Path()
	if f.store.Exists(rel) {
		return f.store.Path(rel), nil
	}

	candidates := f.resolver.Resolve(a)
	if len(candidates) == 0 {
		return "", zerr.With(domain.ErrNoCandidates, "artifact", a.String())
	}

	if err := f.store.Prepare(rel); err != nil {
		return "", err
	}
	defer f.store.Discard(rel)

	for _, candidate := range candidates {
		data, v, err := f.download(ctx, candidate)
		if v == verdictFatal {
			return "", err
		}
		if v != verdictOK {
			continue
		}
		if !f.verify(a, candidate, data) {
			continue
		}
		return f.store.Commit(rel, data)
	}

	return "", zerr.With(domain.ErrAllCandidatesFailed, "artifact", a.String())
}

// download retrieves one candidate in full. The returned verdict decides how
// the fetch loop proceeds; the error is only set for fatal verdicts.
func (f *Fetcher) download(ctx context.Context, candidate string) ([]byte, verdict, error) {
	u, err := url.Parse(candidate)
	if err != nil {
		wrapped := zerr.Wrap(err, domain.ErrMalformedURL.Error())
		return nil, verdictFatal, zerr.With(wrapped, "url", candidate)
	}
	if u.Scheme == "" {
		return nil, verdictFatal, zerr.With(domain.ErrMalformedURL, "url", candidate)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate, http.NoBody)
	if err != nil {
		wrapped := zerr.Wrap(err, domain.ErrMalformedURL.Error())
		return nil, verdictFatal, zerr.With(wrapped, "url", candidate)
	}
	req.Header.Set("User-Agent", f.agent)

	if vtx, ok := ports.VertexFromContext(ctx); ok {
		vtx.Log(domain.LogLevelDebug, "trying "+candidate)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		v, level, msg := classifyTransport(err)
		if v == verdictFatal {
			return nil, v, zerr.With(zerr.Wrap(err, msg), "url", candidate)
		}
		f.logAt(level, msg+": "+candidate)
		return nil, v, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		v, level, msg := classifyStatus(resp.StatusCode)
		f.logAt(level, msg+": "+candidate)
		return nil, v, nil
	}

	data, err := readAllStalling(resp.Body, readTimeout)
	if err != nil {
		v, level, msg := classifyRead(err)
		if v == verdictFatal {
			return nil, v, zerr.With(zerr.Wrap(err, msg), "url", candidate)
		}
		f.logAt(level, msg+": "+candidate)
		return nil, v, nil
	}

	f.logger.Info("downloaded " + candidate)
	return data, verdictOK, nil
}

// verify compares the downloaded bytes against the declared checksum.
// Mismatches are reported loudly with both digests so a poisoned or corrupt
// mirror can be identified, then the candidate is skipped.
func (f *Fetcher) verify(a domain.Artifact, candidate string, data []byte) bool {
	if !a.HasChecksum() {
		return true
	}

	sum := sha256.Sum256(data)
	if bytes.Equal(sum[:], a.Checksum()) {
		return true
	}

	f.logger.Warn("*** INVALID CHECKSUM ***")
	f.logger.Warn(" Artifact :  " + a.String())
	f.logger.Warn(" URL :  " + candidate)
	f.logger.Warn(" Expected :  " + base64.StdEncoding.EncodeToString(a.Checksum()))
	f.logger.Warn(" Actual :  " + base64.StdEncoding.EncodeToString(sum[:]))
	return false
}

func (f *Fetcher) logAt(level domain.LogLevel, msg string) {
	switch level {
	case domain.LogLevelDebug:
		f.logger.Debug(msg)
	case domain.LogLevelWarn:
		f.logger.Warn(msg)
	default:
		f.logger.Info(msg)
	}
}

// readAllStalling reads the whole body, allowing at most d between
// successive reads. On a stall the body is closed to unblock the pending
// read and errStalled is returned.
func readAllStalling(body io.ReadCloser, d time.Duration) ([]byte, error) {
	var stalled atomic.Bool
	watchdog := time.AfterFunc(d, func() {
		stalled.Store(true)
		_ = body.Close()
	})
	defer watchdog.Stop()

	var out bytes.Buffer
	buf := make([]byte, 32*1024)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			watchdog.Reset(d)
			out.Write(buf[:n])
		}
		if err == io.EOF {
			return out.Bytes(), nil
		}
		if err != nil {
			if stalled.Load() {
				return nil, errStalled
			}
			return nil, err
		}
	}
}
