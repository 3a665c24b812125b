package depgraph

import (
	"crypto/sha256"
	"fmt"

	"github.com/LegacyCodeHQ/visualdep/depgraph/languages/python"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultImportCacheSize bounds the number of files whose parsed statements are kept.
const DefaultImportCacheSize = 4096

type cachedStatements struct {
	digest     [sha256.Size]byte
	statements []python.Statement
}

// ImportCache remembers the parsed import statements of each file keyed by path
// and content digest, so repeated analyses (watch mode) skip unchanged files.
// It is safe for concurrent use.
type ImportCache struct {
	entries *lru.Cache[string, cachedStatements]
}

// NewImportCache creates a cache holding at most size files.
func NewImportCache(size int) (*ImportCache, error) {
	if size <= 0 {
		size = DefaultImportCacheSize
	}
	entries, err := lru.New[string, cachedStatements](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create import cache: %w", err)
	}
	return &ImportCache{entries: entries}, nil
}

// Statements returns the statements for content, parsing only when the cached
// digest for filePath differs. Parse failures are not cached.
func (c *ImportCache) Statements(filePath string, content []byte) ([]python.Statement, error) {
	if c == nil {
		return python.ParseStatements(content)
	}

	digest := sha256.Sum256(content)
	if cached, ok := c.entries.Get(filePath); ok && cached.digest == digest {
		return cached.statements, nil
	}

	statements, err := python.ParseStatements(content)
	if err != nil {
		c.entries.Remove(filePath)
		return nil, err
	}
	c.entries.Add(filePath, cachedStatements{digest: digest, statements: statements})
	return statements, nil
}

// Len returns the number of cached files.
func (c *ImportCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every cached entry.
func (c *ImportCache) Purge() {
	if c != nil {
		c.entries.Purge()
	}
}
