// SPDX-License-Identifier: MPL-2.0

package chorefile

import (
	_ "embed"
	"fmt"
	"os"

	"chore-cli/pkg/cueutil"
)

//go:embed chorefile_schema.cue
var chorefileSchema string

//go:embed defaults.cue
var builtinChores []byte

// Parse reads and parses a chorefile from the given path.
func Parse(path string) (*Chorefile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chorefile at %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses chorefile content from bytes.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseBytes(data []byte, path string) (*Chorefile, error) {
	result, err := cueutil.ParseAndDecodeString[Chorefile](
		chorefileSchema,
		data,
		"#Chorefile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	cf := result.Value
	cf.FilePath = path

	if err := cf.validate(); err != nil {
		return nil, err
	}

	return cf, nil
}

// Builtin returns the embedded default chorefile: the classic Python project
// chores (clean-pyc, clean-build, clean, lint, test, install).
func Builtin() (*Chorefile, error) {
	result, err := cueutil.ParseAndDecodeString[Chorefile](
		chorefileSchema,
		builtinChores,
		"#Chorefile",
		cueutil.WithFilename("<builtin>"),
	)
	if err != nil {
		// The embedded defaults are compiled into the binary; a parse
		// failure is a programming error, not user input.
		return nil, fmt.Errorf("internal error: builtin chorefile invalid: %w", err)
	}

	cf := result.Value
	cf.FilePath = ""

	if err := cf.validate(); err != nil {
		return nil, fmt.Errorf("internal error: builtin chorefile invalid: %w", err)
	}

	return cf, nil
}
