package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const sequencePrefix = "seq"

// EncodeSequenceToken creates an opaque cursor pointing after the row with the given
// storage sequence.
func EncodeSequenceToken(seq int64) string {
	return EncodeMultiFieldToken(sequencePrefix, strconv.FormatInt(seq, 10))
}

// DecodeSequenceToken parses a cursor created by EncodeSequenceToken.
func DecodeSequenceToken(token string) (int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 2 || parts[0] != sequencePrefix {
		return 0, fmt.Errorf("invalid pagination token format (fields)")
	}
	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("invalid pagination token format (sequence)")
	}
	return seq, nil
}

// EncodeMultiFieldToken creates a URL-safe token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
