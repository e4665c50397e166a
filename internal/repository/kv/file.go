package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-clock/internal/config"
)

// File persists every key of the store as one JSON document on disk.
// The document is a protobuf Struct encoded with protojson.
type File struct {
	// path is the filesystem location of the JSON document.
	path string
	// mu serializes read-modify-write cycles on the document.
	mu sync.Mutex
}

// errNotString is returned when a stored value is not a JSON string.
var errNotString = errors.New("stored value is not a string")

// NewFile creates a store that reads/writes JSON at the provided path.
func NewFile(path string) *File {
	if path == "" {
		path = config.DefaultStorageFilename
	}

	return &File{
		path: filepath.Clean(path),
	}
}

// Get reads the document and returns the value stored under key.
func (r *File) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := r.read()
	if err != nil {
		return "", err
	}

	value, ok := document.GetFields()[key]
	if !ok {
		return "", ErrNotFound
	}

	text, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("key %q: %w", key, errNotString)
	}

	return text.StringValue, nil
}

// Set replaces the value under key and rewrites the document.
func (r *File) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	document, err := r.read()

	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		document = new(structpb.Struct)
	default:
		return err
	}

	if document.Fields == nil {
		document.Fields = make(map[string]*structpb.Value, 1)
	}

	document.Fields[key] = structpb.NewStringValue(value)

	marshalOptions := protojson.MarshalOptions{
		Multiline: true,
	}

	data, err := marshalOptions.Marshal(document)
	if err != nil {
		return fmt.Errorf("encode storage document: %w", err)
	}

	// Replace atomically: write a sibling file, then rename it over the target.
	temporary := r.path + ".tmp"
	if err = os.WriteFile(temporary, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}

	if err = os.Rename(temporary, r.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}

	return nil
}

// read loads the document from disk. A missing file reports ErrNotFound.
func (r *File) read() (*structpb.Struct, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read storage file: %w", err)
	}

	document := new(structpb.Struct)
	if err = protojson.Unmarshal(contents, document); err != nil {
		return nil, fmt.Errorf("decode storage file: %w", err)
	}

	return document, nil
}
