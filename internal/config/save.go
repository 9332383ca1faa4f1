package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SaveLLM writes the llm section to the config file, leaving comments and
// the other sections untouched. The API key is only written when
// PreserveAPIKey is set; otherwise an existing api_key entry is removed.
func SaveLLM(configPath string, llm LLMConfig) error {
	doc, err := readDocument(configPath)
	if err != nil {
		return err
	}

	setSection(doc, "llm", buildLLMNode(llm))

	return writeDocument(configPath, doc)
}

func readDocument(configPath string) (*yaml.Node, error) {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: config path is user-controlled
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	return &doc, nil
}

// setSection replaces key in the root mapping, or appends it.
func setSection(doc *yaml.Node, key string, value *yaml.Node) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			// Keep the head comment that sits on the value node.
			value.HeadComment = root.Content[i+1].HeadComment
			root.Content[i+1] = value
			return
		}
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

func buildLLMNode(llm LLMConfig) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key, value, tag string) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: tag},
		)
	}

	add("provider", llm.Provider, "")
	if llm.Model != "" {
		add("model", llm.Model, "")
	}
	if llm.BaseURL != "" {
		add("base_url", llm.BaseURL, "")
	}
	if llm.PreserveAPIKey && llm.APIKey != "" {
		add("api_key", llm.APIKey, "!!str")
	}
	add("preserve_api_key", strconv.FormatBool(llm.PreserveAPIKey), "!!bool")
	if llm.MaxTokens > 0 {
		add("max_tokens", strconv.Itoa(llm.MaxTokens), "!!int")
	}
	add("temperature", strconv.FormatFloat(llm.Temperature, 'f', -1, 64), "!!float")
	if llm.Timeout > 0 {
		add("timeout", llm.Timeout.String(), "")
	}
	if llm.CacheTTL > 0 {
		add("cache_ttl", llm.CacheTTL.String(), "")
	}
	return node
}

// writeDocument encodes doc and replaces configPath atomically.
func writeDocument(configPath string, doc *yaml.Node) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".xpm.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
