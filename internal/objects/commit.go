package objects

import (
	"bytes"
	"fmt"
	"time"

	"github.com/KostasZigo/gogit-odb/internal/constants"
)

// Represents commit author/committer
type Author struct {
	Name      string
	Email     string
	Timestamp time.Time
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// signature renders "Name <email> <unix> <±HHMM>" as used on author/committer lines.
func (a Author) signature() string {
	_, offset := a.Timestamp.Zone()
	return fmt.Sprintf("%s %d %s", a.String(), a.Timestamp.Unix(), calculateTimezone(offset))
}

// Represents a snapshot of the repository
type Commit struct {
	hash       string
	treeHash   string
	parentHash string
	author     Author
	committer  Author
	message    string
}

func NewCommit(treeHash, parentHash, message string, author Author) (*Commit, error) {
	if err := ValidateHash(treeHash); err != nil {
		return nil, fmt.Errorf("invalid tree hash for commit: %w", err)
	}
	if parentHash != "" {
		if err := ValidateHash(parentHash); err != nil {
			return nil, fmt.Errorf("invalid parent hash for commit: %w", err)
		}
	}

	commit := &Commit{
		treeHash:   treeHash,
		parentHash: parentHash,
		author:     author,
		committer:  author,
		message:    message,
	}
	commit.hash = HashObject(KindCommit, commit.Content())

	return commit, nil
}

func NewInitialCommit(treeHash, message string, author Author) (*Commit, error) {
	return NewCommit(treeHash, "", message, author)
}

func buildCommitContent(c *Commit) []byte {
	var buf bytes.Buffer

	buf.WriteString(constants.CommitTreePrefix + c.treeHash + "\n")

	if c.parentHash != "" {
		buf.WriteString(constants.CommitParentPrefix + c.parentHash + "\n")
	}

	buf.WriteString(constants.CommitAuthorPrefix + c.author.signature() + "\n")
	buf.WriteString(constants.CommitCommitterPrefix + c.committer.signature() + "\n")

	// Blank line before message
	buf.WriteByte('\n')

	buf.WriteString(c.message)

	// Ensure message ends in newLine
	if len(c.message) > 0 && c.message[len(c.message)-1] != '\n' {
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// calculateTimezone renders an offset in seconds as ±HHMM
func calculateTimezone(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	hours := offset / constants.SecondsPerHour
	minutes := (offset % constants.SecondsPerHour) / constants.SecondsPerMinute

	return fmt.Sprintf("%c%02d%02d", sign, hours, minutes)
}

func (c *Commit) Kind() Kind {
	return KindCommit
}

func (c *Commit) Hash() string {
	return c.hash
}

func (c *Commit) TreeHash() string {
	return c.treeHash
}

func (c *Commit) ParentHash() string {
	return c.parentHash
}

func (c *Commit) Content() []byte {
	return buildCommitContent(c)
}

func (c *Commit) IsInitialCommit() bool {
	return c.parentHash == ""
}

func (c *Commit) String() string {
	return fmt.Sprintf("Commit{hash: %s, tree: %s, parent: %s, author: %s, message: %q}",
		c.hash, c.treeHash, c.parentHash, c.author.String(), c.message)
}
