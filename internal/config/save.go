package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SaveFloating updates the floating section in the config file,
// preserving comments and formatting in other sections by editing the
// yaml.Node tree instead of re-marshalling the whole document.
func SaveFloating(configPath string, fc FloatingConfig) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	section, err := buildFloatingNode(fc)
	if err != nil {
		return fmt.Errorf("building floating node: %w", err)
	}

	if err := upsertSection(&doc, "floating", section); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func buildFloatingNode(fc FloatingConfig) (*yaml.Node, error) {
	raw := map[string]any{
		"placement": fc.Placement,
		"offset":    fc.Offset,
		"padding":   fc.Padding,
		"flip":      fc.Flip,
		"shift":     fc.Shift,
	}
	node := &yaml.Node{}
	if err := node.Encode(raw); err != nil {
		return nil, err
	}
	return node, nil
}

// upsertSection replaces or appends a top-level key in the document,
// creating the document structure when the file was empty.
func upsertSection(doc *yaml.Node, key string, section *yaml.Node) error {
	if doc.Kind == 0 {
		*doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: key},
						section,
					},
				},
			},
		}
		return nil
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fmt.Errorf("unexpected config document structure")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1] = section
			return nil
		}
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		section,
	)
	return nil
}
