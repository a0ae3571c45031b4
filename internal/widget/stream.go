package widget

import (
	"net/url"
	"strings"
	"sync"
)

const youtubeEmbedBase = "https://www.youtube.com/embed/"

// Kind selects how a stream is played.
type Kind int

const (
	// KindEmbed plays the URL in an iframe.
	KindEmbed Kind = iota
	// KindHLS plays the URL with a native video element.
	KindHLS
)

func (k Kind) String() string {
	if k == KindHLS {
		return "hls"
	}
	return "embed"
}

// EmbedURL rewrites YouTube watch, short-link, shorts and live URLs to their
// embed form. Anything else, including a YouTube URL without a video ID, is
// returned unchanged.
func EmbedURL(raw string) string {
	if id := youtubeID(raw); id != "" {
		return youtubeEmbedBase + id
	}
	return raw
}

func youtubeID(raw string) string {
	if !strings.Contains(raw, "youtube.com/") && !strings.Contains(raw, "youtu.be/") {
		return ""
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		return firstSegment(u.Path)
	case "youtube.com":
		if u.Path == "/watch" {
			return u.Query().Get("v")
		}
		for _, prefix := range []string{"/shorts/", "/live/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				return firstSegment(rest)
			}
		}
	}
	return ""
}

func firstSegment(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return seg
}

// StreamKind reports KindHLS when the URL path ends in .m3u8. The query
// string is ignored.
func StreamKind(raw string) Kind {
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	} else if before, _, ok := strings.Cut(raw, "?"); ok {
		path = before
	}
	if strings.HasSuffix(strings.ToLower(path), ".m3u8") {
		return KindHLS
	}
	return KindEmbed
}

// Source is a resolved, playable stream.
type Source struct {
	URL        string `json:"url"`
	Kind       Kind   `json:"-"`
	KindName   string `json:"kind"`
	Overridden bool   `json:"overridden"`
}

func resolve(raw string, overridden bool) Source {
	u := EmbedURL(raw)
	k := StreamKind(u)
	return Source{URL: u, Kind: k, KindName: k.String(), Overridden: overridden}
}

// Stream is the runtime state of the TV streaming widget: the configured
// default plus an optional session-local override. The override is never
// written back to the configuration record.
type Stream struct {
	mu          sync.RWMutex
	defaultURL  string
	overrideURL string
}

// NewStream creates a stream following defaultURL.
func NewStream(defaultURL string) *Stream {
	return &Stream{defaultURL: defaultURL}
}

// SetDefault follows the configuration record. A changed default clears any
// override; re-applying the same default keeps it.
func (s *Stream) SetDefault(defaultURL string) (changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if defaultURL == s.defaultURL {
		return false
	}
	s.defaultURL = defaultURL
	s.overrideURL = ""
	return true
}

// Override switches to raw for this session. Empty or whitespace input is a
// no-op and returns false.
func (s *Stream) Override(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrideURL = raw
	return true
}

// Clear drops the override and returns whether one was set.
func (s *Stream) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.overrideURL != ""
	s.overrideURL = ""
	return had
}

// Source returns the effective stream.
func (s *Stream) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.overrideURL != "" {
		return resolve(s.overrideURL, true)
	}
	return resolve(s.defaultURL, false)
}
