package buildlog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"tracegen/internal/trace"
)

// DefaultPath is the build log location used when nothing else is configured.
const DefaultPath = "./cmake.log"

// Digest identifies the raw bytes of a build log.
type Digest [sha256.Size]byte

// LoadOptions tunes Load.
type LoadOptions struct {
	// Cache, when non-nil, is consulted before decoding and filled after.
	Cache *Cache
}

// Load reads and decodes the build log at path.
func Load(ctx context.Context, path string, opts LoadOptions) (*Collection, error) {
	ctx, span := trace.Start(ctx, trace.ScopeStage, "load", trace.String("path", path))
	defer span.End("")

	raw, err := os.ReadFile(path)
	if err != nil {
		err = &InputError{Kind: InputUnavailable, Path: path, Err: err}
		span.Fail(err)
		return nil, err
	}
	span.Set(trace.Int("bytes", len(raw)))

	key := Digest(sha256.Sum256(raw))
	if opts.Cache != nil {
		var cached Collection
		hit, cacheErr := opts.Cache.Get(key, &cached)
		switch {
		case cacheErr != nil:
			trace.Note(ctx, trace.ScopeStage, "cache", "read failed: "+cacheErr.Error())
		case hit:
			span.Set(trace.String("cache", "hit"))
			return &cached, nil
		}
	}

	col, err := Decode(bytes.NewReader(raw))
	if err != nil {
		err = &InputError{Kind: MalformedInput, Path: path, Err: err}
		span.Fail(err)
		return nil, err
	}

	if opts.Cache != nil {
		span.Set(trace.String("cache", "miss"))
		if err := opts.Cache.Put(key, col); err != nil {
			trace.Note(ctx, trace.ScopeStage, "cache", "write failed: "+err.Error())
		}
	}
	return col, nil
}

// requiredKeys are the top-level fields every build log must carry.
var requiredKeys = []string{"objects", "scripts", "compile"}

// Decode parses a build log. A leading byte order mark is accepted; UTF-16
// input is converted to UTF-8 before decoding. The document must be an
// object holding every required key with a non-null value.
func Decode(r io.Reader) (*Collection, error) {
	dec := json.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after the top-level document")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, err
	}
	if top == nil {
		return nil, fmt.Errorf("document is null, expected an object")
	}
	for _, key := range requiredKeys {
		v, ok := top[key]
		if !ok {
			return nil, fmt.Errorf("missing field %q", key)
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, fmt.Errorf("field %q is null", key)
		}
	}

	var col Collection
	if err := json.Unmarshal(raw, &col); err != nil {
		return nil, err
	}
	if err := col.validate(); err != nil {
		return nil, err
	}
	return &col, nil
}

func (c *Collection) validate() error {
	for i := range c.Scripts {
		if c.Scripts[i].Target.Name == "" {
			return fmt.Errorf("scripts[%d]: target has no name", i)
		}
	}
	for i := range c.Objects {
		if c.Objects[i].AbsPath == "" {
			return fmt.Errorf("objects[%d]: object has no abs_path", i)
		}
	}
	return nil
}
