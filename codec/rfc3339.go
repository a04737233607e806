// Package codec converts typed entity fields to and from their wire form.
package codec

import (
	"fmt"
	"time"

	"github.com/reoring/changeset"
	"github.com/reoring/changeset/i18n"
)

// Codec performs bidirectional transformation between the wire
// representation A and the domain representation B.
type Codec[A, B any] interface {
	Decode(a A) (B, error)
	Encode(b B) (A, error)
}

// TimeRFC3339 returns a Codec that converts between RFC3339 strings and
// time.Time. Encoding normalizes to UTC.
func TimeRFC3339() Codec[string, time.Time] { return rfc3339Codec{} }

type rfc3339Codec struct{}

func (rfc3339Codec) Decode(a string) (time.Time, error) {
	t, err := parseRFC3339(a)
	if err != nil {
		return time.Time{}, changeset.Issues{{Path: "/", Code: changeset.CodeInvalidFormat, Message: i18n.T(changeset.CodeInvalidFormat, nil) + ": RFC3339 time", Cause: err, Offset: -1}}
	}
	return t, nil
}

// Encode fails for years outside [0,9999], which RFC3339 cannot spell.
func (rfc3339Codec) Encode(b time.Time) (string, error) {
	u := b.UTC()
	if y := u.Year(); y < 0 || y > 9999 {
		return "", fmt.Errorf("codec: year %d outside of RFC3339 range [0,9999]", y)
	}
	return u.Format(time.RFC3339Nano), nil
}

// DecodeMember decodes a member value handed to a MemberParser. Members that
// are not strings yield an invalid_type issue at the member's pointer.
func DecodeMember[B any](c Codec[string, B], name string, v any) (B, error) {
	var zero B
	s, ok := v.(string)
	if !ok {
		return zero, changeset.Issues{{Path: changeset.Pointer(name), Code: changeset.CodeInvalidType, Message: i18n.T(changeset.CodeInvalidType, nil), Offset: -1}}
	}
	b, err := c.Decode(s)
	if err != nil {
		if iss, ok := changeset.AsIssues(err); ok {
			for i := range iss {
				iss[i].Path = changeset.Pointer(name)
			}
			return zero, iss
		}
		return zero, err
	}
	return b, nil
}

// RecordEncoded encodes b with c and records the wire value on n.
func RecordEncoded[B any](n *changeset.Node, c Codec[string, B], key string, b B) error {
	s, err := c.Encode(b)
	if err != nil {
		return err
	}
	n.RecordString(key, s)
	return nil
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}
