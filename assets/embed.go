// assets/embed.go
//
// Built-in word lists so the server runs with no files configured.
// answers.txt holds target words; allowed.txt holds extra guessable words.
// Lines starting with '#' are comments.
package assets

import (
	"bufio"
	"embed"
	"fmt"
	"strings"
)

//go:embed answers.txt allowed.txt
var FS embed.FS

// WordLists returns the embedded answers and extra allowed guesses, lowercased.
func WordLists() (answers, allowed []string, err error) {
	if answers, err = readLines("answers.txt"); err != nil {
		return nil, nil, err
	}
	if allowed, err = readLines("allowed.txt"); err != nil {
		return nil, nil, err
	}
	return answers, allowed, nil
}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open embedded %s: %w", name, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}
