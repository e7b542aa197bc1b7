package http

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// contentEncoding reports the encoding still applied to resp.Body. net/http
// only decompresses on its own when the caller left Accept-Encoding unset.
func contentEncoding(resp *http.Response) string {
	if resp.Uncompressed {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
}

// decodeBytes undoes enc on raw.
func decodeBytes(enc string, raw []byte) ([]byte, error) {
	var r io.Reader
	switch enc {
	case "", "identity":
		return raw, nil
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	case "deflate":
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("deflate reader: %w", err)
		}
		defer zr.Close()
		r = zr
	case "br":
		r = brotli.NewReader(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", enc)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s body: %w", enc, err)
	}
	return out, nil
}
