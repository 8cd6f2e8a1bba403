package store

import (
	"fmt"
	"io"
	"strings"

	"github.com/amterp/gig/internal/model"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/zstd"
)

// Format identifies an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatJSONZstd Format = "json.zst"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported export format.
func Formats() []Format {
	return []Format{FormatJSON, FormatJSONZstd, FormatYAML}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatJSONZstd, "zst", "zstd":
		return FormatJSONZstd, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (expected json, json.zst or yaml)", s)
}

// FormatForPath infers a format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zst"):
		return FormatJSONZstd
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Export writes the payload to w in the given format.
func Export(w io.Writer, payload *model.Payload, format Format) error {
	switch format {
	case FormatJSON:
		data, err := EncodePayload(payload)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatJSONZstd:
		data, err := json.Marshal(toDoc(payload))
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return fmt.Errorf("failed to compress payload: %w", err)
		}
		return enc.Close()
	case FormatYAML:
		data, err := yaml.Marshal(toDoc(payload))
		if err != nil {
			return fmt.Errorf("failed to marshal payload as YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// Import reads a payload previously written by Export.
func Import(r io.Reader, format Format) (*model.Payload, error) {
	switch format {
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read archive: %w", err)
		}
		return DecodePayload(data)
	case FormatJSONZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		data, err := io.ReadAll(dec)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress archive: %w", err)
		}
		return DecodePayload(data)
	case FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read archive: %w", err)
		}
		var doc payloadDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		return fromDoc(&doc)
	}
	return nil, fmt.Errorf("unsupported import format %q", format)
}
