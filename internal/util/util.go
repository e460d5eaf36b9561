// Package util provides content hashing, read time estimation and front matter parsing.
package util

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gomarkdown/markdown"
)

const WordsPerMinute = 200

var ErrNoFrontMatter = errors.New("invalid front matter format")

var frontMatterDelimiter = []byte("+++")

// PostMeta is the TOML front matter of a markdown post.
type PostMeta struct {
	Title         string    `toml:"title"`
	Slug          string    `toml:"slug"`
	Excerpt       string    `toml:"excerpt"`
	Date          time.Time `toml:"date"`
	Tags          []string  `toml:"tags"`
	Published     bool      `toml:"published"`
	FeaturedImage string    `toml:"featured_image"`
	ReadTime      int       `toml:"read_time"`
}

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ReadTime estimates minutes to read content. Never less than one.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// FrontMatter splits md into its `+++` delimited TOML header and the body
// that follows it. Leading blank lines are ignored; anything else before the
// opening delimiter is an error.
func FrontMatter(md []byte) (*PostMeta, []byte, error) {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	if !bytes.HasPrefix(md, frontMatterDelimiter) {
		return nil, nil, ErrNoFrontMatter
	}

	rest := md[len(frontMatterDelimiter):]
	end := bytes.Index(rest, frontMatterDelimiter)
	if end == -1 {
		return nil, nil, ErrNoFrontMatter
	}

	header := rest[:end]
	if len(bytes.TrimSpace(header)) == 0 {
		return nil, nil, ErrNoFrontMatter
	}

	meta := &PostMeta{}
	if _, err := toml.Decode(string(header), meta); err != nil {
		return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
	}

	body := bytes.TrimLeft(rest[end+len(frontMatterDelimiter):], "\n")
	return meta, body, nil
}
