package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

// Kind determines the prefix of a generated ID.
type Kind string

const (
	Client Kind = "cl"
	Order  Kind = "or"
)

var generator *fid.Generator

func init() {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(10 * time.Millisecond).
		WithNumRandomChars(3)

	generator = fid.MustNewGenerator(config)
}

// Generate returns a new unique ID for the given kind, e.g. "or_4kx9abc".
func Generate(kind Kind) string {
	return string(kind) + "_" + generator.MustGenerate()
}
