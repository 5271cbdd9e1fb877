package domain

import (
	"strings"
	"unicode"

	"go.trai.ch/zerr"
)

// Generation names one cache bucket. Bumping it invalidates every other bucket
// on the next activation.
type Generation string

// String returns the generation as a plain string.
func (g Generation) String() string {
	return string(g)
}

// Validate reports whether the generation can be used as a bucket name.
func (g Generation) Validate() error {
	if err := ValidateBucketName(string(g)); err != nil {
		return zerr.With(ErrInvalidGeneration, "generation", string(g))
	}
	return nil
}

// ValidateBucketName checks that name is usable as a cache bucket key on every
// storage driver.
func ValidateBucketName(name string) error {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return zerr.With(ErrInvalidBucketName, "name", name)
	}
	for _, r := range name {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return zerr.With(ErrInvalidBucketName, "name", name)
		}
	}
	return nil
}
