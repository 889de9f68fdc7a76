package normalize

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fixups.yaml
var fixupsYAML []byte

type fixupTables struct {
	TitleReplacements map[string]string `yaml:"title_replacements"`
	WordCorrections   map[string]string `yaml:"word_corrections"`
}

var fixups = func() fixupTables {
	var t fixupTables
	if err := yaml.Unmarshal(fixupsYAML, &t); err != nil {
		panic(fmt.Sprintf("fixups.yaml: %v", err))
	}
	return t
}()

var wordCorrectionRe = func() *regexp.Regexp {
	words := make([]string, 0, len(fixups.WordCorrections))
	for w := range fixups.WordCorrections {
		words = append(words, w)
	}
	sort.Strings(words)
	return regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)(s?)\b`)
}()
