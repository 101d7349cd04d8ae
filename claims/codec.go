package claims

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// diagnosticBytes bounds how much of a rejected input is written to the log.
const diagnosticBytes = 32

// Codec serializes claim sets without ever panicking.
type Codec struct {
	logger *zap.Logger
}

// NewCodec returns a codec logging diagnostics to logger. A nil logger is a no-op.
func NewCodec(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{logger: logger}
}

// Decode parses a JSON object into a Set. Numbers are kept as json.Number.
func (c *Codec) Decode(data []byte) (Set, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var set Set
	if err := dec.Decode(&set); err != nil {
		c.reject("claims decode failed", data, err)
		return nil, false
	}
	if set == nil {
		c.reject("claims decode failed", data, errors.New("payload is not a JSON object"))
		return nil, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		c.reject("claims decode failed", data, errors.New("trailing data after JSON object"))
		return nil, false
	}
	return set, true
}

// Encode serializes set as a JSON object.
func (c *Codec) Encode(set Set) (out []byte, ok bool) {
	if set == nil {
		c.logger.Info("claims encode failed", zap.String("error", "nil claim set"))
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Info("claims encode failed", zap.String("error", truncate(fmt.Sprint(r))))
			out, ok = nil, false
		}
	}()

	data, err := json.Marshal(set)
	if err != nil {
		c.logger.Info("claims encode failed",
			zap.Int("claims", len(set)),
			zap.String("error", truncate(err.Error())),
		)
		return nil, false
	}
	return data, true
}

func (c *Codec) reject(msg string, data []byte, err error) {
	prefix := data
	if len(prefix) > diagnosticBytes {
		prefix = prefix[:diagnosticBytes]
	}
	c.logger.Info(msg,
		zap.Int("bytes", len(data)),
		zap.ByteString("prefix", prefix),
		zap.String("error", truncate(err.Error())),
	)
}

func truncate(s string) string {
	const max = 128
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
