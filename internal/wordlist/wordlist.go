// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultLang is the language of the built-in list.
const DefaultLang = "en"

//go:embed en.txt
var builtinEnglish string

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Debug().Err(cerr).Str("path", path).Msg("failed to close word list")
		}
	}()
	return readWords(file)
}

// Load returns the words for lang from path, filtered for the language. When
// the file is missing and lang is the default, the built-in list is used.
func Load(lang, path string) ([]string, error) {
	words, err := LoadWords(path)
	if errors.Is(err, os.ErrNotExist) && strings.EqualFold(lang, DefaultLang) {
		log.Debug().Str("path", path).Msg("word list not installed, using built-in list")
		words, err = Builtin()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load word list %q", lang)
	}
	words = Filter(words, FilterForLang(lang))
	if len(words) == 0 {
		return nil, errors.Errorf("word list %q has no usable words", lang)
	}
	return words, nil
}

// Builtin returns the embedded English list.
func Builtin() ([]string, error) {
	return readWords(strings.NewReader(builtinEnglish))
}

// Installed lists languages with a <lang>.txt file in dir, sorted.
func Installed(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read word list dir")
	}
	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".txt" {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(langs)
	return langs, nil
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read word list")
	}
	if len(words) == 0 {
		return nil, errors.New("word list is empty")
	}
	return words, nil
}
