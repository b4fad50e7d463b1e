package source

import (
	"fmt"
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"jvanrhyn.dev/disklayers/internal/layout"
)

// DefaultSelector picks every element of a top-level JSON array.
const DefaultSelector = "$[*]"

// LoadJSON reads records from a JSON document. selector is a JSONPath that
// yields one object per record. Both the flat form written by WriteJSON and
// the nested {"file": {...}, "size": n} form are accepted.
func LoadJSON(r io.Reader, selector string) ([]layout.Record, error) {
	if selector == "" {
		selector = DefaultSelector
	}
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid jsonpath %q", selector)
	}
	doc, err := oj.Load(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse json")
	}

	matches := x.Get(doc)
	recs := make([]layout.Record, 0, len(matches))
	for i, m := range matches {
		obj, ok := m.(map[string]any)
		if !ok {
			return nil, errors.Newf("record %d: expected object, got %T", i, m)
		}
		rec, err := decodeRecord(obj)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func decodeRecord(obj map[string]any) (layout.Record, error) {
	var rec layout.Record
	fields := obj
	if nested, ok := obj["file"].(map[string]any); ok {
		fields = nested
	}

	id, err := stringField(fields, "id")
	if err != nil {
		return rec, err
	}
	parent, err := stringField(fields, "parent", "parent_id")
	if err != nil {
		return rec, err
	}
	kindName, err := stringField(fields, "kind", "file_type")
	if err != nil {
		return rec, err
	}
	kind, err := layout.ParseKind(kindName)
	if err != nil {
		return rec, err
	}
	name, _ := fields["name"].(string)

	// the nested form keeps size next to "file"
	size, err := intField(obj, "size")
	if err != nil {
		return rec, err
	}

	rec = layout.Record{
		ID:       layout.ID(id),
		ParentID: layout.ID(parent),
		Name:     name,
		Kind:     kind,
		Size:     size,
	}
	return rec, nil
}

func stringField(obj map[string]any, keys ...string) (string, error) {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			return v, nil
		case int64:
			return fmt.Sprint(v), nil
		case nil:
			continue
		default:
			return "", errors.Newf("field %q: unexpected %T", k, v)
		}
	}
	return "", errors.Newf("missing field %q", keys[0])
}

func intField(obj map[string]any, key string) (int64, error) {
	switch v := obj[key].(type) {
	case nil:
		return 0, nil
	case int64:
		if v < 0 {
			return 0, errors.Newf("field %q: negative byte count %d", key, v)
		}
		return v, nil
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which no int64 holds
		if v != math.Trunc(v) || v < 0 || v >= math.MaxInt64 {
			return 0, errors.Newf("field %q: %v is not a byte count", key, v)
		}
		return int64(v), nil
	default:
		return 0, errors.Newf("field %q: unexpected %T", key, v)
	}
}

// WriteJSON writes records in the flat form LoadJSON reads back.
func WriteJSON(w io.Writer, recs []layout.Record) error {
	list := make([]any, 0, len(recs))
	for _, r := range recs {
		list = append(list, map[string]any{
			"id":     string(r.ID),
			"parent": string(r.ParentID),
			"name":   r.Name,
			"kind":   r.Kind.String(),
			"size":   r.Size,
		})
	}
	if _, err := io.WriteString(w, oj.JSON(list, 2)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
