package discovery

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Finding is an API key discovered on the local machine.
type Finding struct {
	Provider string `json:"provider"` // key store provider name, e.g. "openai"
	Key      string `json:"key"`      // masked in API responses
	Source   string `json:"source"`   // env var or config file path
}

// Source defines a configuration source to scan
type Source struct {
	Name        string
	Description string
	ConfigPaths []string // Possible config file paths (with ~ expansion)
	Parser      func(path string) ([]Finding, error)
}

// envSources maps provider names to the environment variables other tools
// commonly export keys under. GEMENI_API_KEY is a legacy misspelling some
// installs still carry.
var envSources = map[string][]string{
	"openai":    {"OPENAI_API_KEY", "GPT_API_KEY"},
	"anthropic": {"ANTHROPIC_API_KEY", "CLAUDE_API_KEY"},
	"gemini":    {"GEMINI_API_KEY", "GEMENI_API_KEY", "GOOGLE_API_KEY"},
	"deepseek":  {"DEEPSEEK_API_KEY"},
	"openchat":  {"OPENCHAT_API_KEY"},
	"yi":        {"YI_API_KEY"},
	"gecko":     {"GECKO_API_KEY"},
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Sources defines all known on-disk credential sources
var Sources = []Source{
	{
		Name:        "openai",
		Description: "OpenAI CLI key file",
		ConfigPaths: []string{
			"~/.openai/api_key",
			"~/.config/openai/api_key",
		},
		Parser: keyFileParser("openai"),
	},
	{
		Name:        "anthropic",
		Description: "Anthropic key file",
		ConfigPaths: []string{
			"~/.anthropic/api_key",
			"~/.config/anthropic/api_key",
		},
		Parser: keyFileParser("anthropic"),
	},
	{
		Name:        "llm",
		Description: "llm CLI key store",
		ConfigPaths: []string{
			"~/.config/io.datasette.llm/keys.json",
			"~/Library/Application Support/io.datasette.llm/keys.json",
		},
		Parser: parseLLMKeys,
	},
	{
		Name:        "aider",
		Description: "aider config file",
		ConfigPaths: []string{
			"~/.aider.conf.yml",
			"~/.config/aider/aider.conf.yml",
		},
		Parser: parseAiderConfig,
	},
}

// keyFileParser reads a single-key file: the first non-empty line is the key.
func keyFileParser(provider string) func(path string) ([]Finding, error) {
	return func(path string) ([]Finding, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return []Finding{{Provider: provider, Key: line, Source: path}}, nil
		}
		return nil, nil
	}
}

// llmKeyAliases maps the llm CLI's key names to our provider names.
var llmKeyAliases = map[string]string{
	"openai":    "openai",
	"claude":    "anthropic",
	"anthropic": "anthropic",
	"gemini":    "gemini",
	"deepseek":  "deepseek",
}

func parseLLMKeys(path string) ([]Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}

	var findings []Finding
	for name, key := range keys {
		provider, ok := llmKeyAliases[strings.ToLower(name)]
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		findings = append(findings, Finding{Provider: provider, Key: strings.TrimSpace(key), Source: path})
	}
	return findings, nil
}

// aiderConfig covers the key fields of aider's YAML config.
type aiderConfig struct {
	OpenAIAPIKey    string `yaml:"openai-api-key"`
	AnthropicAPIKey string `yaml:"anthropic-api-key"`
	GeminiAPIKey    string `yaml:"gemini-api-key"`
	DeepSeekAPIKey  string `yaml:"deepseek-api-key"`
}

func parseAiderConfig(path string) ([]Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var conf aiderConfig
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, err
	}

	var findings []Finding
	for provider, key := range map[string]string{
		"openai":    conf.OpenAIAPIKey,
		"anthropic": conf.AnthropicAPIKey,
		"gemini":    conf.GeminiAPIKey,
		"deepseek":  conf.DeepSeekAPIKey,
	} {
		if strings.TrimSpace(key) != "" {
			findings = append(findings, Finding{Provider: provider, Key: strings.TrimSpace(key), Source: path})
		}
	}
	return findings, nil
}
