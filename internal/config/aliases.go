package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ProductAliases maps short names typed by users to full product
// descriptions, e.g. "cakestand" to "REGENCY CAKESTAND 3 TIER".
type ProductAliases struct {
	Aliases map[string]string
}

// LoadAliases reads the aliases file at {dir}/aliases. Each line has the form
// alias=PRODUCT DESCRIPTION; aliases are matched case-insensitively. If the
// file does not exist, an empty set is returned without an error. Invalid
// lines are skipped.
func LoadAliases(dir string) (*ProductAliases, error) {
	pa := &ProductAliases{
		Aliases: make(map[string]string),
	}

	f, err := os.Open(filepath.Join(dir, "aliases"))
	if err != nil {
		if os.IsNotExist(err) {
			return pa, nil
		}
		return pa, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Descriptions may contain '=', so split on the first one only.
		alias, product, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		alias = strings.ToLower(strings.TrimSpace(alias))
		product = strings.TrimSpace(product)
		if alias == "" || product == "" {
			continue
		}

		pa.Aliases[alias] = product
	}

	if err := scanner.Err(); err != nil {
		return pa, err
	}

	return pa, nil
}

// Resolve returns the product description for name, or name itself when no
// alias matches.
func (pa *ProductAliases) Resolve(name string) string {
	if pa == nil {
		return name
	}
	if product, ok := pa.Aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return product
	}
	return name
}
