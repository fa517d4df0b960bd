package textgen

import "time"

const (
	// DefaultBaseURL は OpenRouter の OpenAI 互換エンドポイントです。
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel はモデル未指定時に使用するモデルです。
	DefaultModel = "openai/gpt-3.5-turbo"

	DefaultHTTPTimeout = 90 * time.Second
)

const (
	subtopicSystemPrompt = "You are a helpful assistant that outputs JSON only."

	subtopicPrompt = `You are a taxonomy expert.
Generate a JSON list of 5-10 logical subtopics for the topic "%s".
%sReturn ONLY a JSON array of strings. No markdown, no explanations.
Example: ["Subtopic 1", "Subtopic 2"]`

	subtopicContextLine = "Context: This topic is part of \"%s\".\n"

	contentPrompt = `Write content for the topic "%s" using the following style/template:
"%s"

Format the output in clean Markdown.`
)
