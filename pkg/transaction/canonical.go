package transaction

import (
	"bytes"
	"strconv"
	"unicode/utf16"
)

// canonicalPayload encodes the signed content of a transaction as compact
// JSON with keys in ascending order at every level. Inputs and outputs must
// already be sorted. Numbers and strings follow the fixed rules of
// appendFloat and appendString so the bytes never depend on the encoder.
func canonicalPayload(inputs []Input, outputs []Output, timestamp float64) []byte {
	buf := make([]byte, 0, 48+len(inputs)*96+len(outputs)*128)

	buf = append(buf, `{"inputs":[`...)
	for i, in := range inputs {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, `{"output_index":`...)
		buf = strconv.AppendInt(buf, int64(in.outputIndex), 10)
		buf = append(buf, `,"previous_tx_id":`...)
		buf = appendString(buf, in.previousTxID)
		buf = append(buf, '}')
	}

	buf = append(buf, `],"outputs":[`...)
	for i, out := range outputs {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, `{"amount":`...)
		buf = appendFloat(buf, out.amount)
		buf = append(buf, `,"recipient_address":`...)
		buf = appendString(buf, out.recipientAddress)
		buf = append(buf, '}')
	}

	buf = append(buf, `],"timestamp":`...)
	buf = appendFloat(buf, timestamp)
	buf = append(buf, '}')

	return buf
}

// appendFloat writes the shortest round-trip representation of f. Decimal
// exponents in [-4, 16) are written positionally and always keep a fractional
// part; anything else uses scientific notation with a two digit exponent.
// f must be finite.
func appendFloat(dst []byte, f float64) []byte {
	sci := strconv.AppendFloat(nil, f, 'e', -1, 64)

	exp, _ := strconv.Atoi(string(sci[bytes.LastIndexByte(sci, 'e')+1:]))
	if exp < -4 || exp >= 16 {
		return append(dst, sci...)
	}

	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'f', -1, 64)
	if bytes.IndexByte(dst[start:], '.') < 0 {
		dst = append(dst, ".0"...)
	}
	return dst
}

func formatFloat(f float64) string {
	return string(appendFloat(nil, f))
}

const hexDigits = "0123456789abcdef"

// appendString writes s as an ASCII-only JSON string. Invalid UTF-8 bytes
// are written as U+FFFD.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for _, r := range s {
		switch {
		case r == '"':
			dst = append(dst, '\\', '"')
		case r == '\\':
			dst = append(dst, '\\', '\\')
		case r == '\n':
			dst = append(dst, '\\', 'n')
		case r == '\r':
			dst = append(dst, '\\', 'r')
		case r == '\t':
			dst = append(dst, '\\', 't')
		case r == '\b':
			dst = append(dst, '\\', 'b')
		case r == '\f':
			dst = append(dst, '\\', 'f')
		case r >= 0x20 && r <= 0x7e:
			dst = append(dst, byte(r))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			dst = appendUnicodeEscape(dst, hi)
			dst = appendUnicodeEscape(dst, lo)
		default:
			dst = appendUnicodeEscape(dst, r)
		}
	}
	return append(dst, '"')
}

func appendUnicodeEscape(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
}
