package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "funded"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists the sibling layers of the same service a layer may import.
// Third-party imports are refused for every layer listed here.
type layerRule struct {
	allowed []string
}

var layerRules = map[string]layerRule{
	"domain":      {allowed: []string{"domain"}},
	"ports":       {allowed: []string{"domain", "ports"}},
	"application": {allowed: []string{"application", "domain", "ports"}},
	"transport":   {allowed: []string{"transport"}},
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		normalized := filepath.ToSlash(path)
		parts := strings.Split(normalized, "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}

		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			violations = append(violations, violation{File: normalized, Line: 1, Rule: "file must parse"})
			return nil
		}
		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[1], parts[2])
		for _, imp := range file.Imports {
			importPath := strings.Trim(imp.Path.Value, "\"")
			line := fset.Position(imp.Pos()).Line
			for _, rule := range checkImport(parts[3], servicePrefix, importPath) {
				violations = append(violations, violation{File: normalized, Line: line, Import: importPath, Rule: rule})
			}
		}
		return nil
	})
	return violations
}

// checkImport returns every rule the import breaks for a file in layer of the
// service rooted at servicePrefix.
func checkImport(layer string, servicePrefix string, importPath string) []string {
	var broken []string
	if strings.HasPrefix(importPath, modulePath+"/contexts/") && !hasPrefix(importPath, servicePrefix) {
		broken = append(broken, "cross-service imports are forbidden")
	}

	rule, ok := layerRules[layer]
	if !ok || isStdlib(importPath) {
		return broken
	}
	if strings.Contains(importPath, "/adapters/") || strings.HasSuffix(importPath, "/adapters") {
		broken = append(broken, layer+" must not import adapters")
	}
	if hasPrefix(importPath, modulePath+"/internal") {
		broken = append(broken, layer+" must not import runtime infrastructure")
	}
	for _, sibling := range rule.allowed {
		if hasPrefix(importPath, servicePrefix+"/"+sibling) {
			return broken
		}
	}
	return append(broken, layer+" import is outside explicit allowlist")
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// isStdlib treats any import whose first element has no dot as standard
// library, except the module itself.
func isStdlib(importPath string) bool {
	first := strings.SplitN(importPath, "/", 2)[0]
	return first != modulePath && !strings.Contains(first, ".")
}
