package translator

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

// Glossary maps source-language domain terms to their preferred target-language
// renderings. It is applied to translated text as an exact-substring
// post-processing pass.
type Glossary map[string]string

// LoadGlossary reads a glossary from a JSON object file. A missing or
// unreadable file degrades to an empty glossary rather than failing startup.
func LoadGlossary(path string) Glossary {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("translator: glossary not loaded from %s: %v", path, err)
		return Glossary{}
	}

	var g Glossary
	if err := json.Unmarshal(data, &g); err != nil {
		log.Printf("translator: invalid glossary %s: %v", path, err)
		return Glossary{}
	}

	log.Printf("translator: loaded %d glossary terms from %s", len(g), path)
	return g
}

// Apply replaces every occurrence of each source term with its target term.
func (g Glossary) Apply(text string) string {
	for src, dst := range g {
		if src == "" {
			continue
		}
		text = strings.ReplaceAll(text, src, dst)
	}
	return text
}
