// Package canonjson produces the canonical on-disk JSON encoding spec §6
// requires content hashes to be computed over: sorted keys (recursively,
// not just at the top level — encoding/json only sorts map keys, not
// struct-derived object keys, so this package round-trips through a
// generic representation to guarantee it), compact separators, UTF-8, no
// ASCII escaping, no trailing newline. It also produces the pretty-printed
// variant the store writes to disk for human inspection, using
// github.com/tidwall/pretty.
package canonjson

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/pretty"
)

// Canonical marshals v, then re-encodes it with every object's keys sorted
// lexicographically, compact separators, and no HTML escaping — the exact
// byte sequence content hashes are computed over.
func Canonical(v any) ([]byte, error) {
	first, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(first))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encodeCanonical(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(string(val))
	case string:
		b, err := marshalNoEscape(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	case []any:
		buf.WriteByte('[')
		for i, e := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeCanonical(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := marshalNoEscape(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("canonjson: unsupported decoded type %T", v)
	}
	return nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

// Hash returns the lowercase-hex SHA-256 of the canonical encoding of v.
func Hash(v any) (string, error) {
	b, err := Canonical(v)
	if err != nil {
		return "", err
	}
	return HashBytes(b), nil
}

// HashBytes returns the lowercase-hex SHA-256 of b directly, for callers
// that already hold canonical bytes (or raw attachment content).
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Pretty reformats canonical JSON bytes for on-disk storage: indented,
// still key-sorted (Canonical already sorted the input; pretty.Pretty
// preserves key order), human-diffable. This is the byte sequence written
// to artifact/index files, distinct from — but derived from — the hashed
// form.
func Pretty(canonicalJSON []byte) []byte {
	return pretty.Pretty(canonicalJSON)
}

// PutResult bundles the bytes a caller writes to disk with the hash those
// bytes are keyed by, mirroring spec §8's `put_json(x).bytes` /
// `put_json(x).sha` round-trip property.
type PutResult struct {
	PrettyBytes []byte
	SHA256      string
}

// PutJSON canonicalizes v, hashes the canonical form, and returns the
// pretty-printed bytes alongside that hash — the canonical and on-disk
// encodings are always derived from the same value, so the hash never
// drifts from what ends up on disk.
func PutJSON(v any) (PutResult, error) {
	canonical, err := Canonical(v)
	if err != nil {
		return PutResult{}, err
	}
	return PutResult{
		PrettyBytes: Pretty(canonical),
		SHA256:      HashBytes(canonical),
	}, nil
}
