package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// CodeGenerator produces candidate short codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomCodeGenerator draws URL-safe base64 codes from crypto/rand.
// With the default length of 6 there are 64^6 (about 6.9e10) codes.
type RandomCodeGenerator struct {
	length int
}

func NewRandomCodeGenerator(length int) *RandomCodeGenerator {
	return &RandomCodeGenerator{length: length}
}

func (g *RandomCodeGenerator) Generate() (string, error) {
	buf := make([]byte, (g.length*3+3)/4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:g.length], nil
}
