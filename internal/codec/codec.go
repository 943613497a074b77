// Package codec serializes model.LogRecord to and from its wire payload.
//
// The payload is the protobuf encoding of
//
//	message LogMessage {
//	  string log_level = 1;
//	  string logger    = 2;
//	  bytes  mac       = 3;
//	  string message   = 4;
//	}
//
// written directly with protowire so that any protobuf implementation of the
// same schema can produce or consume it.
package codec

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tinytelemetry/shiplog/internal/model"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the LogMessage schema.
const (
	fieldLevel      protowire.Number = 1
	fieldSource     protowire.Number = 2
	fieldHardwareID protowire.Number = 3
	fieldMessage    protowire.Number = 4
)

// ErrMalformedRecord is returned when a payload does not parse against the
// LogMessage schema.
var ErrMalformedRecord = errors.New("malformed record")

// Encode returns the canonical payload for r. Fields are written in field
// number order and empty fields are omitted, as proto3 does.
func Encode(r model.LogRecord) []byte {
	b := make([]byte, 0, Size(r))
	b = appendString(b, fieldLevel, r.Level)
	b = appendString(b, fieldSource, r.Source)
	if len(r.HardwareID) > 0 {
		b = protowire.AppendTag(b, fieldHardwareID, protowire.BytesType)
		b = protowire.AppendBytes(b, r.HardwareID)
	}
	b = appendString(b, fieldMessage, r.Message)
	return b
}

// Size returns the length of Encode(r) without encoding.
func Size(r model.LogRecord) int {
	return fieldSize(fieldLevel, len(r.Level)) +
		fieldSize(fieldSource, len(r.Source)) +
		fieldSize(fieldHardwareID, len(r.HardwareID)) +
		fieldSize(fieldMessage, len(r.Message))
}

func fieldSize(num protowire.Number, l int) int {
	if l == 0 {
		return 0
	}
	return protowire.SizeTag(num) + protowire.SizeBytes(l)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// Decode parses a payload produced by Encode. Unknown fields are skipped and
// a repeated field keeps its last value. Any parse failure wraps
// ErrMalformedRecord.
func Decode(b []byte) (model.LogRecord, error) {
	var r model.LogRecord
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return model.LogRecord{}, malformed("tag", protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldLevel, fieldSource, fieldHardwareID, fieldMessage:
			if typ != protowire.BytesType {
				return model.LogRecord{}, fmt.Errorf("%w: field %d has wire type %d", ErrMalformedRecord, num, typ)
			}
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return model.LogRecord{}, malformed(fmt.Sprintf("field %d", num), protowire.ParseError(m))
			}
			b = b[m:]
			if err := assign(&r, num, v); err != nil {
				return model.LogRecord{}, err
			}
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return model.LogRecord{}, malformed(fmt.Sprintf("unknown field %d", num), protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return r, nil
}

func assign(r *model.LogRecord, num protowire.Number, v []byte) error {
	if num == fieldHardwareID {
		// v aliases the payload buffer.
		r.HardwareID = append([]byte(nil), v...)
		return nil
	}
	if !utf8.Valid(v) {
		return fmt.Errorf("%w: field %d is not valid UTF-8", ErrMalformedRecord, num)
	}
	switch num {
	case fieldLevel:
		r.Level = string(v)
	case fieldSource:
		r.Source = string(v)
	case fieldMessage:
		r.Message = string(v)
	}
	return nil
}

func malformed(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedRecord, what, err)
}
