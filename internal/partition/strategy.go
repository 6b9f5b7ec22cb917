package partition

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// PatternMatcher is a named keyword rule that votes for a domain when its
// body text contains a match.
type PatternMatcher struct {
	Name     string
	Keywords []string
	Domain   Domain
	Priority int
}

// matchCount reports how many of m's keywords appear as a case-insensitive
// substring of lowerText; zero means the matcher did not match.
func (m PatternMatcher) matchCount(lowerText string) int {
	n := 0
	for _, kw := range m.Keywords {
		if strings.Contains(lowerText, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}

// Strategy classifies content into a Domain using a priority chain:
// metadata hint, then pattern matchers (by match count descending, then
// priority descending), then file extension, then MIME type, falling
// back to Documents. It is mutable at runtime: matchers and
// extension/MIME entries may be added after construction.
type Strategy struct {
	matchers   []PatternMatcher
	extensions map[string]Domain
	mimeTypes  map[string]Domain
}

// NewStrategy returns a Strategy preloaded with the built-in matchers and
// extension/MIME tables mirroring the reference implementation's defaults.
func NewStrategy() *Strategy {
	s := &Strategy{
		extensions: defaultExtensions(),
		mimeTypes:  defaultMimeTypes(),
	}
	s.matchers = append(s.matchers, defaultMatchers()...)
	return s
}

// AddPatternMatcher registers an additional pattern matcher.
func (s *Strategy) AddPatternMatcher(m PatternMatcher) {
	s.matchers = append(s.matchers, m)
}

// AddExtensionMapping registers (or overrides) the domain for a file extension.
// ext is matched without a leading dot, case-insensitively.
func (s *Strategy) AddExtensionMapping(ext string, d Domain) {
	s.extensions[strings.ToLower(ext)] = d
}

// AddMIMEMapping registers (or overrides) the domain for a MIME type.
func (s *Strategy) AddMIMEMapping(mime string, d Domain) {
	s.mimeTypes[strings.ToLower(mime)] = d
}

// DetermineDomain runs the five-step classification chain documented on
// Strategy. filename, mimeType, and bodyText are optional; pass "" for
// absent values.
// metadataHints, if non-nil, is checked for a "content_domain" key holding a
// JSON-quoted domain name (matching the reference implementation's
// metadata representation, e.g. `"Contracts"`).
func (s *Strategy) DetermineDomain(filename, mimeType, bodyText string, metadataHints map[string]string) Domain {
	if metadataHints != nil {
		if raw, ok := metadataHints["content_domain"]; ok {
			var name string
			if err := json.Unmarshal([]byte(raw), &name); err == nil {
				if d, ok := ParseDomain(name); ok {
					return d
				}
			} else if d, ok := ParseDomain(raw); ok {
				return d
			}
		}
	}

	if bodyText != "" {
		lower := strings.ToLower(bodyText)
		var best *PatternMatcher
		bestCount := 0
		for i := range s.matchers {
			m := &s.matchers[i]
			count := m.matchCount(lower)
			if count == 0 {
				continue
			}
			if best == nil || count > bestCount ||
				(count == bestCount && m.Priority > best.Priority) {
				best = m
				bestCount = count
			}
		}
		if best != nil {
			return best.Domain
		}
	}

	if filename != "" {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
		if d, ok := s.extensions[ext]; ok {
			return d
		}
	}

	if mimeType != "" {
		if d, ok := s.mimeTypes[strings.ToLower(mimeType)]; ok {
			return d
		}
	}

	return Documents
}

// BucketFor is a convenience wrapper around the package-level BucketFor so
// callers holding a *Strategy don't need a second import alias.
func (s *Strategy) BucketFor(d Domain) string { return BucketFor(d) }

func defaultExtensions() map[string]Domain {
	m := map[string]Domain{
		"mp3": Music, "wav": Music, "flac": Music, "ogg": Music, "m4a": Music, "aac": Music,
		"jpg": Images, "jpeg": Images, "png": Images, "gif": Images, "webp": Images, "bmp": Images, "svg": Images,
		"mp4": Videos, "mov": Videos, "avi": Videos, "mkv": Videos, "webm": Videos,
		"docx": Documents, "doc": Documents, "txt": Documents, "md": Documents, "pdf": Documents, "rtf": Documents,
		"xlsx": Spreadsheets, "xls": Spreadsheets, "csv": Spreadsheets,
		"pptx": Presentations, "ppt": Presentations,
		"rs": SourceCode, "py": SourceCode, "js": SourceCode, "ts": SourceCode, "go": SourceCode, "java": SourceCode,
		"c": SourceCode, "cpp": SourceCode, "rb": SourceCode, "sh": SourceCode,
		"json": Configuration, "yaml": Configuration, "yml": Configuration, "toml": Configuration,
		"ini": Configuration, "conf": Configuration, "xml": Configuration,
	}
	return m
}

func defaultMimeTypes() map[string]Domain {
	return map[string]Domain{
		"audio/mpeg": Music, "audio/wav": Music, "audio/flac": Music, "audio/ogg": Music,
		"image/jpeg": Images, "image/png": Images, "image/gif": Images, "image/webp": Images,
		"video/mp4": Videos, "video/quicktime": Videos, "video/webm": Videos,
		"application/pdf": Documents, "text/plain": Documents, "text/markdown": Documents,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": Spreadsheets,
		"application/vnd.openxmlformats-officedocument.presentationml.presentation": Presentations,
		"application/json": Configuration, "application/x-yaml": Configuration, "application/toml": Configuration,
	}
}

// defaultMatchers mirrors the sample documents in
// _examples/original_source/examples/domain_partitioning_real_world_demo.rs:
// invoices, bank statements, patient records, prescriptions, service
// agreements/NDAs, social posts, memes, and research papers all carry
// recognizable vocabulary the reference implementation keys off of.
func defaultMatchers() []PatternMatcher {
	return []PatternMatcher{
		{
			Name:     "invoice",
			Keywords: []string{"invoice", "invoice number", "bill to", "amount due", "total due", "payment due", "subtotal"},
			Domain:   Invoices,
			Priority: 90,
		},
		{
			Name:     "contract",
			Keywords: []string{"contract", "this agreement", "whereas", "now therefore", "hereby agree", "parties agree", "non-disclosure"},
			Domain:   Contracts,
			Priority: 100,
		},
		{
			Name:     "medical",
			Keywords: []string{"patient name", "diagnosis", "treatment", "prescription", "mrn", "lab results", "chief complaint"},
			Domain:   Medical,
			Priority: 100,
		},
		{
			Name:     "research",
			Keywords: []string{"abstract", "hypothesis", "methodology", "experiment", "data analysis", "introduction\n"},
			Domain:   Research,
			Priority: 90,
		},
		{
			Name:     "social_media",
			Keywords: []string{"#", "@", "like and share", "check out this", "rt if"},
			Domain:   SocialMedia,
			Priority: 50,
		},
		{
			Name:     "meme",
			Keywords: []string{"lol", "meme", "viral", "so relatable"},
			Domain:   Memes,
			Priority: 60,
		},
	}
}
