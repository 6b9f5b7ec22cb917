package content

import "github.com/cimlabs/cim-ipld/pkg/codec"

// ImageMetadata mirrors original_source/examples/content_service_demo.rs's
// ImageMetadata: dimensions and format are known ahead of decoding the
// bytes, so callers can populate them cheaply; none of it affects identity.
type ImageMetadata struct {
	Width  int      `json:"width,omitempty"`
	Height int      `json:"height,omitempty"`
	Format string   `json:"format,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// Image is a typed-content image (PNG/JPEG). Identity is the raw image
// bytes; two uploads of byte-identical images always dedup to one CID
// regardless of differing tags.
type Image struct {
	Bytes    []byte        `json:"-"`
	Metadata ImageMetadata `json:"metadata"`
}

func (Image) CodecCode() codec.Code { return codec.Images }
func (Image) ContentType() string   { return "image" }

func (i Image) ToBytes() ([]byte, error) { return append([]byte(nil), i.Bytes...), nil }

func (i Image) CanonicalPayload() ([]byte, error) {
	return append([]byte(nil), i.Bytes...), nil
}

// AudioMetadata mirrors the Rust source's audio content type.
type AudioMetadata struct {
	DurationSeconds float64  `json:"duration_seconds,omitempty"`
	Format          string   `json:"format,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// Audio is a typed-content audio clip (MP3/WAV).
type Audio struct {
	Bytes    []byte        `json:"-"`
	Metadata AudioMetadata `json:"metadata"`
}

func (Audio) CodecCode() codec.Code { return codec.Audio }
func (Audio) ContentType() string   { return "audio" }

func (a Audio) ToBytes() ([]byte, error) { return append([]byte(nil), a.Bytes...), nil }

func (a Audio) CanonicalPayload() ([]byte, error) {
	return append([]byte(nil), a.Bytes...), nil
}

// VideoMetadata mirrors the Rust source's video content type.
type VideoMetadata struct {
	DurationSeconds float64  `json:"duration_seconds,omitempty"`
	Format          string   `json:"format,omitempty"`
	Width           int      `json:"width,omitempty"`
	Height          int      `json:"height,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// Video is a typed-content video clip (MP4).
type Video struct {
	Bytes    []byte        `json:"-"`
	Metadata VideoMetadata `json:"metadata"`
}

func (Video) CodecCode() codec.Code { return codec.Video }
func (Video) ContentType() string   { return "video" }

func (v Video) ToBytes() ([]byte, error) { return append([]byte(nil), v.Bytes...), nil }

func (v Video) CanonicalPayload() ([]byte, error) {
	return append([]byte(nil), v.Bytes...), nil
}
