package catalog

// builtinModels returns the descriptor set compiled into the client.
// Extension files may add to or disable entries but the built-in set is the
// baseline every install shares.
func builtinModels() []Descriptor {
	return []Descriptor{
		// Paid models
		{
			ID:                 "gpt-4-turbo",
			DisplayName:        "GPT-4 Turbo",
			Provider:           "openai",
			CredentialName:     "openai",
			APIEnvName:         "GPT_API_KEY",
			RequiresCredential: true,
			IsPaid:             true,
			Description:        "Powerful for programming, summarization, and creative content.",
		},
		{
			ID:                 "gpt-4.5",
			DisplayName:        "GPT-4.5",
			Provider:           "openai",
			CredentialName:     "openai",
			APIEnvName:         "GPT_API_KEY",
			RequiresCredential: true,
			IsPaid:             true,
			Description:        "Latest OpenAI model with improved capabilities across all tasks.",
		},
		{
			ID:                 "claude-3.5-sonnet",
			DisplayName:        "Claude 3.5 Sonnet",
			Provider:           "anthropic",
			CredentialName:     "anthropic",
			APIEnvName:         "CLAUDE_API_KEY",
			RequiresCredential: true,
			IsPaid:             true,
			Description:        "Excels at reasoning and technical writing with strong factual accuracy.",
		},
		{
			ID:                 "gemini-2-pro",
			DisplayName:        "Gemini 2 Pro",
			Provider:           "google",
			CredentialName:     "gemini",
			APIEnvName:         "GEMINI_API_KEY",
			RequiresCredential: true,
			IsPaid:             true,
			Description:        "Good at math and science with strong multilingual capabilities.",
		},

		// Free models. These may still carry a credential for higher quota but
		// absence of one never blocks use.
		{
			ID:             "deepseek-v3",
			DisplayName:    "DeepSeek V3",
			Provider:       "deepseek",
			CredentialName: "deepseek",
			APIEnvName:     "DEEPSEEK_API_KEY",
			Endpoint:       "https://api.deepseek.com/v1/chat/completions",
			RecommendedFor: []string{"programming", "technical-writing", "math", "science", "academic"},
			Description:    "Strong at programming, math & reasoning; free tier option.",
		},
		{
			ID:             "deepseek-coder",
			DisplayName:    "DeepSeek Coder",
			Provider:       "deepseek",
			CredentialName: "deepseek",
			APIEnvName:     "DEEPSEEK_API_KEY",
			Endpoint:       "https://api.deepseek.com/v1/coder/completions",
			Description:    "Specialized for code generation and programming tasks.",
		},
		{
			ID:             "openchat-3.5",
			DisplayName:    "OpenChat 3.5",
			Provider:       "openchat",
			CredentialName: "openchat",
			APIEnvName:     "OPENCHAT_API_KEY",
			Endpoint:       "https://api.openchat.com/v1/chat/completions",
			RecommendedFor: []string{"customer-support", "creative-writing", "summarization"},
			Description:    "Great for technical writing and creative content; free to use.",
		},
		{
			ID:             "yi-1.5-34b",
			DisplayName:    "Yi 1.5 34B",
			Provider:       "yi",
			CredentialName: "yi",
			APIEnvName:     "YI_API_KEY",
			Endpoint:       "https://api.01.ai/v1/chat/completions",
			RecommendedFor: []string{"productivity"},
			Description:    "Strong performance on business tasks and conversational abilities.",
		},
		{
			ID:             "gecko-3",
			DisplayName:    "Gecko 3",
			Provider:       "gecko",
			CredentialName: "gecko",
			APIEnvName:     "GECKO_API_KEY",
			Endpoint:       "https://api.gecko.ai/v1/chat/completions",
			Description:    "Efficient for productivity and business applications.",
		},
		{
			ID:             "gecko-2-mini",
			DisplayName:    "Gecko 2 Mini",
			Provider:       "gecko",
			CredentialName: "gecko",
			APIEnvName:     "GECKO_API_KEY",
			Endpoint:       "https://api.gecko.ai/v1/chat/completions",
			RecommendedFor: []string{"multilingual"},
			Description:    "Optimized for multilingual tasks with efficient performance.",
		},
	}
}

// builtinRankings returns the use-case recommendation table, best-first.
// Every use case must keep a non-empty free list so mode resolution always
// has a working fallback.
func builtinRankings() map[string]Ranking {
	return map[string]Ranking{
		"reasoning": {
			Paid: []string{"claude-3.5-sonnet", "gpt-4-turbo"},
			Free: []string{"deepseek-v3", "openchat-3.5"},
		},
		"programming": {
			Paid: []string{"claude-3.5-sonnet", "gpt-4-turbo"},
			Free: []string{"deepseek-v3", "deepseek-coder"},
		},
		"technical-writing": {
			Paid: []string{"claude-3.5-sonnet", "gpt-4.5"},
			Free: []string{"openchat-3.5", "deepseek-v3"},
		},
		"math": {
			Paid: []string{"gpt-4-turbo", "claude-3.5-sonnet"},
			Free: []string{"deepseek-v3", "openchat-3.5"},
		},
		"productivity": {
			Paid: []string{"gpt-4-turbo", "claude-3.5-sonnet"},
			Free: []string{"gecko-3", "yi-1.5-34b"},
		},
		"science": {
			Paid: []string{"gpt-4-turbo", "claude-3.5-sonnet"},
			Free: []string{"deepseek-v3", "openchat-3.5"},
		},
		"customer-support": {
			Paid: []string{"gpt-4-turbo", "claude-3.5-sonnet"},
			Free: []string{"openchat-3.5", "yi-1.5-34b"},
		},
		"creative-writing": {
			Paid: []string{"gpt-4-turbo", "claude-3.5-sonnet"},
			Free: []string{"openchat-3.5", "yi-1.5-34b"},
		},
		"summarization": {
			Paid: []string{"gpt-4-turbo", "claude-3.5-sonnet"},
			Free: []string{"openchat-3.5", "yi-1.5-34b"},
		},
		"multilingual": {
			Paid: []string{"claude-3.5-sonnet", "gpt-4.5"},
			Free: []string{"gecko-2-mini", "deepseek-v3"},
		},
		"academic": {
			Paid: []string{"claude-3.5-sonnet", "gpt-4-turbo"},
			Free: []string{"openchat-3.5", "deepseek-v3"},
		},
	}
}
