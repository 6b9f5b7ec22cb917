// Package service implements the content-service façade: a single entry
// point composing the object store, partition strategy, and search index,
// with configurable validation, compression, indexing, and pre/post-store
// hooks.
package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	cimcid "github.com/cimlabs/cim-ipld/pkg/cid"
	"github.com/cimlabs/cim-ipld/pkg/content"

	"github.com/cimlabs/cim-ipld/internal/index"
	"github.com/cimlabs/cim-ipld/internal/objectstore"
	"github.com/cimlabs/cim-ipld/internal/observability"
	"github.com/cimlabs/cim-ipld/internal/partition"
)

// Config controls the façade's behavior.
type Config struct {
	AutoIndex            bool
	ValidateOnStore      bool
	MaxContentSize       int // bytes; 0 means unlimited
	EnableCompression    bool
	CompressionThreshold int

	// DocumentSchema, when set and ValidateOnStore is true, is applied to
	// every document stored with format "json": its body must validate
	// against the schema or the store is rejected with ErrInvalidContent.
	// Documents of any other format are unaffected, and no schema check
	// runs while ValidateOnStore is false.
	DocumentSchema *gojsonschema.Schema
}

// PreStoreHook is invoked synchronously before a put succeeds, given the
// candidate CID, content type, and the metadata hints that will be handed
// to the index. Hooks may add entries to metadata (e.g. an "author" entry
// derived from caller identity) but MUST NOT mutate content itself. A
// hook's error is logged, never propagated.
type PreStoreHook func(cidCandidate cimcid.CID, contentType string, metadata map[string]string) error

// PostStoreHook is invoked synchronously after a successful put.
type PostStoreHook func(cid cimcid.CID, contentType string)

// ErrInvalidContent is returned when validate_on_store's magic-byte check
// fails, or when a payload exceeds max_content_size.
type ErrInvalidContent struct{ Reason string }

func (e *ErrInvalidContent) Error() string { return "service: invalid content: " + e.Reason }

// StoreResult is returned by every store_* operation.
type StoreResult struct {
	CID          cimcid.CID
	Size         int
	Deduplicated bool
	ContentType  string
}

// Stats summarizes the service's holdings.
type Stats struct {
	TotalDocuments int
	TotalImages    int
	TotalAudio     int
	TotalVideo     int
	UniqueWords    int
	UniqueTags     int
	TotalSizeBytes int
}

// ContentService composes an object store, a partition strategy, and a
// search index behind one API.
type ContentService struct {
	cfg      Config
	store    *objectstore.Store
	strategy *partition.Strategy
	idx      *index.Index
	logger   observability.Logger

	mu           sync.Mutex
	preHooks     []PreStoreHook
	postHooks    []PostStoreHook
	perTypeCount map[string]int
	perTypeBytes map[string]int
}

// New builds a ContentService over bucket, using cfg for validation and
// compression behavior.
func New(bucket objectstore.Bucket, cfg Config, logger observability.Logger) *ContentService {
	if logger == nil {
		logger = observability.NewTextLogger()
	}
	storeCfg := objectstore.Config{
		EnableCompression:    cfg.EnableCompression,
		CompressionThreshold: cfg.CompressionThreshold,
	}
	return &ContentService{
		cfg:          cfg,
		store:        objectstore.NewStore(bucket, storeCfg),
		strategy:     partition.NewStrategy(),
		idx:          index.New(),
		logger:       logger,
		perTypeCount: make(map[string]int),
		perTypeBytes: make(map[string]int),
	}
}

// AddPreStoreHook registers fn to run before every successful put.
func (s *ContentService) AddPreStoreHook(fn PreStoreHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preHooks = append(s.preHooks, fn)
}

// AddPostStoreHook registers fn to run after every successful put.
func (s *ContentService) AddPostStoreHook(fn PostStoreHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postHooks = append(s.postHooks, fn)
}

func (s *ContentService) runPreHooks(c cimcid.CID, contentType string, metadata map[string]string) {
	s.mu.Lock()
	hooks := append([]PreStoreHook(nil), s.preHooks...)
	s.mu.Unlock()
	for _, h := range hooks {
		if err := h(c, contentType, metadata); err != nil {
			s.logger.LogHookFailure("pre_store", contentType, err)
		}
	}
}

func (s *ContentService) runPostHooks(c cimcid.CID, contentType string) {
	s.mu.Lock()
	hooks := append([]PostStoreHook(nil), s.postHooks...)
	s.mu.Unlock()
	for _, h := range hooks {
		h(c, contentType)
	}
}

// store is the shared implementation behind every store_* operation: it
// validates size/magic-bytes, computes the bucket via the partition
// strategy, runs hooks, puts, and optionally indexes.
func (s *ContentService) store(v content.Typed, filename, mimeType, bodyText string, tags []string, metadataHints map[string]string, validate func([]byte) error, rawForSize []byte) (StoreResult, error) {
	if s.cfg.MaxContentSize > 0 && len(rawForSize) > s.cfg.MaxContentSize {
		return StoreResult{}, &ErrInvalidContent{Reason: fmt.Sprintf("content size %d exceeds max_content_size %d", len(rawForSize), s.cfg.MaxContentSize)}
	}
	if s.cfg.ValidateOnStore && validate != nil {
		if err := validate(rawForSize); err != nil {
			return StoreResult{}, &ErrInvalidContent{Reason: err.Error()}
		}
	}

	c, err := content.CID(v)
	if err != nil {
		return StoreResult{}, fmt.Errorf("service: compute cid: %w", err)
	}

	domain := s.strategy.DetermineDomain(filename, mimeType, bodyText, metadataHints)
	bucket := s.strategy.BucketFor(domain)

	existed, err := s.store.Exists(bucket, c)
	if err != nil {
		return StoreResult{}, err
	}

	s.runPreHooks(c, v.ContentType(), metadataHints)

	gotCID, err := s.store.Put(bucket, v)
	if err != nil {
		return StoreResult{}, err
	}

	if s.cfg.AutoIndex {
		s.idx.Put(gotCID.String(), v.ContentType(), metadataHints, bodyText, tags)
	}

	s.mu.Lock()
	s.perTypeCount[v.ContentType()]++
	s.perTypeBytes[v.ContentType()] += len(rawForSize)
	s.mu.Unlock()

	s.runPostHooks(gotCID, v.ContentType())
	s.logger.LogStoreEvent("put", gotCID.String(), v.ContentType(), 0)

	return StoreResult{CID: gotCID, Size: len(rawForSize), Deduplicated: existed, ContentType: v.ContentType()}, nil
}

// StoreDocument stores body as a Document, classifying its bucket via
// filename and body text (format and metadata do not affect the bucket)
// and optionally validating body against format.
func (s *ContentService) StoreDocument(body []byte, metadata content.DocumentMetadata, format, filename string) (StoreResult, error) {
	doc := content.Document{Body: body, Format: format, Metadata: metadata}
	hints := map[string]string{}
	return s.store(doc, filename, "", string(body), metadata.Tags, hints, func(b []byte) error {
		if format == "json" && s.cfg.DocumentSchema != nil {
			return validateJSONSchema(s.cfg.DocumentSchema, b)
		}
		return content.VerifyMagicBytes(format, b)
	}, body)
}

// validateJSONSchema checks raw against schema, collecting every violation
// into a single error so callers see the full list rather than the first.
func validateJSONSchema(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("service: json schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msg := "json schema validation failed:"
	for _, e := range result.Errors() {
		msg += " " + e.String() + ";"
	}
	return errors.New(msg)
}

// StoreImage stores raw image bytes.
func (s *ContentService) StoreImage(bytesIn []byte, metadata content.ImageMetadata, filename string) (StoreResult, error) {
	img := content.Image{Bytes: bytesIn, Metadata: metadata}
	return s.store(img, filename, "", "", metadata.Tags, map[string]string{}, func(b []byte) error {
		return content.VerifyMagicBytes(metadata.Format, b)
	}, bytesIn)
}

// StoreAudio stores raw audio bytes.
func (s *ContentService) StoreAudio(bytesIn []byte, metadata content.AudioMetadata, filename string) (StoreResult, error) {
	a := content.Audio{Bytes: bytesIn, Metadata: metadata}
	return s.store(a, filename, "", "", metadata.Tags, map[string]string{}, func(b []byte) error {
		return content.VerifyMagicBytes(metadata.Format, b)
	}, bytesIn)
}

// StoreVideo stores raw video bytes.
func (s *ContentService) StoreVideo(bytesIn []byte, metadata content.VideoMetadata, filename string) (StoreResult, error) {
	v := content.Video{Bytes: bytesIn, Metadata: metadata}
	return s.store(v, filename, "", "", metadata.Tags, map[string]string{}, func(b []byte) error {
		return content.VerifyMagicBytes(metadata.Format, b)
	}, bytesIn)
}

// Retrieve fetches the value stored under want from bucketName, decoding it
// with decode and re-verifying its CID end-to-end.
func (s *ContentService) Retrieve(bucketName string, want cimcid.CID, decode func([]byte) (content.Typed, error)) (content.Typed, error) {
	v, err := s.store.Get(bucketName, want, decode)
	if err != nil {
		return nil, err
	}
	s.logger.LogStoreEvent("get", want.String(), v.ContentType(), 0)
	return v, nil
}

// Search delegates to the underlying index.
func (s *ContentService) Search(q index.Query) []index.Result {
	return s.idx.Search(q)
}

// ListByType delegates to the underlying index.
func (s *ContentService) ListByType(contentType string) []string {
	return s.idx.ListByType(contentType)
}

// Stats reports aggregate counters across every content type stored and
// the underlying index.
func (s *ContentService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	idxStats := s.idx.Stats()
	totalSize := 0
	for _, b := range s.perTypeBytes {
		totalSize += b
	}
	return Stats{
		TotalDocuments: s.perTypeCount["document"],
		TotalImages:    s.perTypeCount["image"],
		TotalAudio:     s.perTypeCount["audio"],
		TotalVideo:     s.perTypeCount["video"],
		UniqueWords:    idxStats.UniqueWords,
		UniqueTags:     idxStats.UniqueTags,
		TotalSizeBytes: totalSize,
	}
}

// BatchItem is one entry in a BatchStore call. Kind selects which of the
// typed payload fields is used ("document", "image", "audio", "video");
// the others are ignored.
type BatchItem struct {
	Kind      string
	Body      []byte
	Filename  string
	Format    string
	DocMeta   content.DocumentMetadata
	ImageMeta content.ImageMetadata
	AudioMeta content.AudioMetadata
	VideoMeta content.VideoMetadata
}

// BatchFailure records one BatchStore item's failure without disturbing
// the indices of its neighbors.
type BatchFailure struct {
	Index int
	Err   error
}

// BatchResult is BatchStore's outcome: every successful store alongside
// every failure, keyed by its position in the input slice. Consistent with
// the §9 Open Question decision for get_batch, failures never roll back
// successes.
type BatchResult struct {
	Successful []StoreResult
	Failed     []BatchFailure
}

// DefaultBatchConcurrency bounds in-flight batch operations when
// BatchStore's maxConcurrency argument is 0, per §5's backpressure policy.
const DefaultBatchConcurrency = 8

// BatchStore stores items concurrently, at most maxConcurrency in flight at
// once (DefaultBatchConcurrency if maxConcurrency <= 0). Every item is
// attempted independently; a failure is recorded against its index and
// never prevents or rolls back any other item's success.
func (s *ContentService) BatchStore(items []BatchItem, maxConcurrency int) BatchResult {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultBatchConcurrency
	}

	type outcome struct {
		res StoreResult
		err error
	}
	outcomes := make([]outcome, len(items))

	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, item BatchItem) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := s.storeBatchItem(item)
			outcomes[i] = outcome{res: res, err: err}
		}(i, item)
	}
	wg.Wait()

	var out BatchResult
	for i, o := range outcomes {
		if o.err != nil {
			out.Failed = append(out.Failed, BatchFailure{Index: i, Err: o.err})
			continue
		}
		out.Successful = append(out.Successful, o.res)
	}
	return out
}

func (s *ContentService) storeBatchItem(item BatchItem) (StoreResult, error) {
	switch item.Kind {
	case "document":
		return s.StoreDocument(item.Body, item.DocMeta, item.Format, item.Filename)
	case "image":
		return s.StoreImage(item.Body, item.ImageMeta, item.Filename)
	case "audio":
		return s.StoreAudio(item.Body, item.AudioMeta, item.Filename)
	case "video":
		return s.StoreVideo(item.Body, item.VideoMeta, item.Filename)
	default:
		return StoreResult{}, fmt.Errorf("service: unknown batch item kind %q", item.Kind)
	}
}
