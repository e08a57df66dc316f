// Package protocol implements the length-delimited, space-separated
// ASCII wire codec: a fixed four-field header plus one of six typed
// payloads.
package protocol

import (
	"strconv"
	"strings"

	"github.com/riskgate/riskgate/internal/domain"
)

// tokenizer splits a frame into space-separated tokens, one at a time,
// mirroring the source's stateful parse_next closure.
type tokenizer struct {
	tokens []string
	pos    int
}

func newTokenizer(frame string) *tokenizer {
	return &tokenizer{tokens: strings.Split(frame, " ")}
}

// next returns the next token parsed as an unsigned 64-bit decimal
// integer. It fails on a non-numeric token or if no tokens remain.
func (t *tokenizer) next() (uint64, error) {
	if t.pos >= len(t.tokens) {
		return 0, &domain.FrameError{Message: "unable to parse next value, reached end of message"}
	}
	tok := t.tokens[t.pos]
	t.pos++
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, &domain.FrameError{Message: "non-numeric token: " + tok}
	}
	return v, nil
}

// decodeHeader parses the four fixed header tokens.
func decodeHeader(t *tokenizer) (domain.Header, error) {
	version, err := t.next()
	if err != nil {
		return domain.Header{}, err
	}
	payloadSize, err := t.next()
	if err != nil {
		return domain.Header{}, err
	}
	seq, err := t.next()
	if err != nil {
		return domain.Header{}, err
	}
	ts, err := t.next()
	if err != nil {
		return domain.Header{}, err
	}
	return domain.Header{
		Version:        domain.MessageType(version),
		PayloadSize:    uint16(payloadSize),
		SequenceNumber: uint32(seq),
		Timestamp:      ts,
	}, nil
}

// DecodeHeader parses only the header of a frame, without reading any
// payload tokens.
func DecodeHeader(frame string) (domain.Header, error) {
	return decodeHeader(newTokenizer(frame))
}

func encodeHeader(h domain.Header) string {
	return strconv.FormatUint(uint64(h.Version), 10) + " " +
		strconv.FormatUint(uint64(h.PayloadSize), 10) + " " +
		strconv.FormatUint(uint64(h.SequenceNumber), 10) + " " +
		strconv.FormatUint(h.Timestamp, 10)
}
