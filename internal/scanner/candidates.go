package scanner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/theopenlane/sentinel/internal/domain"
)

// stdinPath selects standard input as the candidate source
const stdinPath = "-"

// ReadCandidates reads one candidate per line, skipping blank lines and # comments
func ReadCandidates(r io.Reader) ([]string, error) {
	var names []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		names = append(names, line)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadCandidates, err)
	}

	return names, nil
}

// LoadCandidates reads candidates from path, or from stdin when path is "-", and deduplicates them
func LoadCandidates(path string, stdin io.Reader) ([]string, error) {
	var src io.Reader = stdin

	if path != stdinPath {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCandidates, err)
		}
		defer f.Close() //nolint:errcheck

		src = f
	}

	names, err := ReadCandidates(src)
	if err != nil {
		return nil, err
	}

	names = Dedupe(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCandidates, path)
	}

	return names, nil
}

// Dedupe normalizes names and drops empties and repeats, keeping the first occurrence in place
func Dedupe(names []string) []string {
	normalized := lo.Map(names, func(n string, _ int) string {
		return domain.Normalize(n)
	})

	return lo.Uniq(lo.Compact(normalized))
}

// ValidateWordlist checks that the wordlist at path can be opened for reading
func ValidateWordlist(path string) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadableWordlist, err)
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadableWordlist, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnreadableWordlist, path)
	}

	return nil
}
