// Package media converts user-supplied files into a transport-safe inline
// representation for the model API: base64 payload plus a content-type tag.
package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Part is an encoded media attachment. Data is base64 with no data-URI prefix.
type Part struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

// EncodingError reports a failure to read or decode the source media.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string { return fmt.Sprintf("media: encode failed: %v", e.Err) }
func (e *EncodingError) Unwrap() error { return e.Err }

// Encode reads r to completion and returns its base64 form. The source is
// never mutated; a read failure surfaces as *EncodingError and is not retried.
func Encode(r io.Reader, mimeType string) (Part, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Part{}, &EncodingError{Err: err}
	}
	return Part{
		Data:     base64.StdEncoding.EncodeToString(data),
		MIMEType: strings.TrimSpace(mimeType),
	}, nil
}

// FromDataURI accepts either a bare base64 payload or a full data URI
// (data:image/png;base64,....) and returns a normalized Part. The mimeType
// argument is used when the input carries no data-URI header.
func FromDataURI(s, mimeType string) Part {
	s = strings.TrimSpace(s)
	mime := strings.TrimSpace(mimeType)
	if strings.HasPrefix(s, "data:") {
		if comma := strings.IndexByte(s, ','); comma >= 0 {
			header := s[len("data:"):comma]
			if semi := strings.IndexByte(header, ';'); semi >= 0 {
				header = header[:semi]
			}
			if header != "" {
				mime = header
			}
			s = s[comma+1:]
		}
	}
	return Part{Data: s, MIMEType: mime}
}

// Bytes decodes the payload back into raw bytes for transport attachment.
func (p Part) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, &EncodingError{Err: err}
	}
	return data, nil
}

// IsZero reports whether the part carries no payload.
func (p Part) IsZero() bool { return p.Data == "" }
