package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint identifies an analysis run by its inputs. Two runs over the
// same dataset shape, column names, and configuration share a fingerprint,
// which is what makes rerun results comparable and deduplicable.
type Fingerprint string

// NewFingerprint hashes raw data into a fingerprint.
func NewFingerprint(data []byte) Fingerprint {
	sum := sha256.Sum256(data)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (f Fingerprint) String() string {
	return string(f)
}

// IsEmpty checks if the fingerprint is empty
func (f Fingerprint) IsEmpty() bool {
	return f == ""
}

// Equals checks if two fingerprints are equal
func (f Fingerprint) Equals(other Fingerprint) bool {
	return f == other
}

// ComputeFingerprint builds the canonical fingerprint input from a dataset
// name, shape, ordered column names, and a configuration digest string.
func ComputeFingerprint(name string, rows, columns int, columnNames []string, configDigest string) Fingerprint {
	var data strings.Builder
	data.WriteString(name)
	data.WriteString(fmt.Sprintf("|%d|%d|", rows, columns))
	for _, col := range columnNames {
		data.WriteString(col)
		data.WriteString(";")
	}
	data.WriteString("|")
	data.WriteString(configDigest)
	return NewFingerprint([]byte(data.String()))
}
