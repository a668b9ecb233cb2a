package cli

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rgould/textgate/internal/defines"
	"github.com/rgould/textgate/internal/preproc"
)

// identRE matches a definition name: one or more word characters.
var identRE = regexp.MustCompile(`^\w+$`)

// LoadDefinesFile reads initial definitions from a YAML mapping file.
// A null entry ("name:") defines the name with no value, matching a bare
// DEFINE directive.
func LoadDefinesFile(path string) (defines.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing definitions file %s: %w", path, err)
	}

	for name := range raw {
		if !identRE.MatchString(name) {
			return nil, fmt.Errorf("definitions file %s: invalid name %q", path, name)
		}
	}

	defs, err := defines.FromGoMap(raw)
	if err != nil {
		return nil, fmt.Errorf("definitions file %s: %w", path, err)
	}
	return defs, nil
}

// SaveDefinesFile writes the post-run definitions to a YAML mapping file.
// Valueless definitions are written as null entries, so a saved file loads
// back to an equivalent mapping.
func SaveDefinesFile(path string, defs defines.Map) error {
	data, err := yaml.Marshal(defs.ToGo())
	if err != nil {
		return fmt.Errorf("marshaling definitions: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing definitions file: %w", err)
	}
	return nil
}

// buildDefines assembles the initial definition environment: the YAML file
// first (if given), then -D flags in order. A bare "-D name" defines the
// name with no value; "-D name=expr" evaluates expr against the definitions
// accumulated so far, so later flags may reference earlier ones.
func buildDefines(ev preproc.Evaluator, file string, flags []string) (defines.Map, error) {
	defs := defines.Map{}

	if file != "" {
		loaded, err := LoadDefinesFile(file)
		if err != nil {
			return nil, err
		}
		defs = loaded
	}

	for _, spec := range flags {
		name, expr, hasExpr := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		if !identRE.MatchString(name) {
			return nil, fmt.Errorf("invalid definition flag %q: name must match \\w+", spec)
		}
		if !hasExpr {
			defs.Define(name, defines.Unset{})
			continue
		}
		v, err := ev.Eval(expr, defs.Clone())
		if err != nil {
			return nil, fmt.Errorf("evaluating -D %s: %w", spec, err)
		}
		defs.Define(name, v)
	}

	return defs, nil
}
