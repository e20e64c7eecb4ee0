package types

import "errors"

// Config locates the content types document for a run.
type Config struct {
	// Root is the project directory that holds the tests/ tree.
	Root string `json:"root" yaml:"root"`
	// Suite selects tests/<suite>/contentTypes.yml ahead of the shared file.
	Suite string `json:"suite" yaml:"suite"`
	// Document, when set, bypasses suite lookup entirely.
	Document string `json:"document" yaml:"document"`
	// JournalDir is where dry-run interactions are recorded.
	JournalDir string `json:"journal_dir" yaml:"journal_dir"`
}

// Document file names and directories used by suite lookup.
const (
	DocumentFileName = "contentTypes.yml"
	TestsDirName     = "tests"
)

// Config validation errors.
var (
	ErrRootEmpty = errors.New("root or document must be set")
)

// Validate checks that the Config can locate a document.
func (c Config) Validate() error {
	if c.Root == "" && c.Document == "" {
		return ErrRootEmpty
	}
	return nil
}
