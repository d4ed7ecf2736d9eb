package mkdocs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

const includeSentinel = "!include"

// ParseRoot reads the root navigation declaration at path. Include entries
// are kept as Include leaves; call Merge to splice them.
func ParseRoot(path, contentDir string) (*Config, error) {
	if contentDir == "" {
		contentDir = DefaultContentDir
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "cannot resolve navigation path").
			Fatal().WithContext("path", path).Build()
	}

	nav, err := parseFile(abs)
	if err != nil {
		return nil, err
	}

	return &Config{
		Path:       abs,
		Root:       filepath.Dir(abs),
		ContentDir: contentDir,
		Nav:        nav,
	}, nil
}

// parseFile decodes one declaration file into entries.
func parseFile(path string) ([]Entry, error) {
	// #nosec G304 -- path is the declaration named by the caller or an include it declares
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", ErrUnreadable, err), ferrors.CategoryConfig, "cannot read navigation declaration").
			Fatal().WithContext("path", path).Build()
	}
	return ParseNav(data, filepath.Dir(path), path)
}

// ParseNav decodes declaration bytes. dir is the directory the declaration
// lives in; origin is used for error context only.
func ParseNav(data []byte, dir, origin string) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", ErrUnreadable, err), ferrors.CategoryConfig, "malformed navigation declaration").
			Fatal().WithContext("path", origin).Build()
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, missingNav(origin)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "nav" {
			continue
		}
		navNode := root.Content[i+1]
		if navNode.Kind != yaml.SequenceNode {
			return nil, ferrors.WrapError(ErrUnknownEntry, ferrors.CategoryConfig, "nav must be a list").
				Fatal().WithContext("path", origin).WithContext("line", navNode.Line).Build()
		}
		return parseEntries(navNode, dir, origin)
	}
	return nil, missingNav(origin)
}

func missingNav(origin string) error {
	return ferrors.WrapError(ErrMissingNav, ferrors.CategoryConfig, "navigation declaration has no nav key").
		Fatal().WithContext("path", origin).Build()
}

func parseEntries(seq *yaml.Node, dir, origin string) ([]Entry, error) {
	entries := make([]Entry, 0, len(seq.Content))
	for _, item := range seq.Content {
		entry, err := parseEntry(item, dir, origin)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseEntry(node *yaml.Node, dir, origin string) (Entry, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if target, ok := includeTarget(node); ok {
			return Include{Path: target, Dir: dir}, nil
		}
		if strings.TrimSpace(node.Value) == "" {
			return nil, unknownEntry(node, origin, "empty nav entry")
		}
		return PlainPath{Target: strings.TrimSpace(node.Value), Dir: dir}, nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return nil, unknownEntry(node, origin, "nav mapping must have exactly one key")
		}
		key, value := node.Content[0], node.Content[1]
		if key.Kind != yaml.ScalarNode {
			return nil, unknownEntry(node, origin, "nav title must be a string")
		}
		title := key.Value

		switch value.Kind {
		case yaml.ScalarNode:
			if target, ok := includeTarget(value); ok {
				return Include{Title: title, Path: target, Dir: dir}, nil
			}
			if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
				return nil, unknownEntry(value, origin, "nav page has no target")
			}
			return Page{Title: title, Target: strings.TrimSpace(value.Value), Dir: dir}, nil
		case yaml.SequenceNode:
			children, err := parseEntries(value, dir, origin)
			if err != nil {
				return nil, err
			}
			return Section{Title: title, Children: children}, nil
		}
		return nil, unknownEntry(value, origin, "unsupported nav value")
	}
	return nil, unknownEntry(node, origin, "unsupported nav entry")
}

// includeTarget recognises the include sentinel both as a quoted string value
// and as a YAML tag on an unquoted scalar.
func includeTarget(node *yaml.Node) (string, bool) {
	if node.Tag == includeSentinel {
		return cleanIncludeTarget(node.Value), true
	}
	trimmed := strings.TrimSpace(node.Value)
	rest, ok := strings.CutPrefix(trimmed, includeSentinel)
	if !ok {
		return "", false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return cleanIncludeTarget(rest), true
}

func cleanIncludeTarget(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

func unknownEntry(node *yaml.Node, origin, msg string) error {
	return ferrors.WrapError(ErrUnknownEntry, ferrors.CategoryConfig, msg).
		Fatal().
		WithContext("path", origin).
		WithContext("line", node.Line).
		Build()
}
