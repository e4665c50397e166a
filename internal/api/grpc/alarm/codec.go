package alarm

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// errEmptyDocument is returned when a required document is missing.
var errEmptyDocument = errors.New("document is empty")

// ToStruct converts a JSON-serializable object into a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	document := new(structpb.Struct)
	if err = protojson.Unmarshal(data, document); err != nil {
		return nil, fmt.Errorf("convert document: %w", err)
	}

	return document, nil
}

// FromStruct decodes a Struct into v using its JSON field names.
func FromStruct(document *structpb.Struct, v any) error {
	if document == nil {
		return errEmptyDocument
	}

	return fromMessage(document, v)
}

// ToList converts a JSON-serializable slice into a ListValue.
func ToList(v any) (*structpb.ListValue, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}

	list := new(structpb.ListValue)
	if err = protojson.Unmarshal(data, list); err != nil {
		return nil, fmt.Errorf("convert list: %w", err)
	}

	return list, nil
}

// FromList decodes a ListValue into the slice pointed to by v.
func FromList(list *structpb.ListValue, v any) error {
	if list == nil {
		list = new(structpb.ListValue)
	}

	return fromMessage(list, v)
}

// fromMessage renders a well-known JSON message and decodes it into v.
func fromMessage(message proto.Message, v any) error {
	data, err := protojson.Marshal(message)
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}

	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	return nil
}
