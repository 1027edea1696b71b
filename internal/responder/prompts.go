package responder

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts/*.md
var promptFS embed.FS

var (
	systemPrompts = map[Role]string{
		RoleChat:             mustPrompt("chat.md"),
		RolePersona:          mustPrompt("persona.md"),
		RoleResumeSuggestion: mustPrompt("resume.md"),
	}
	resumeRequestTemplate = mustPrompt("resume_request.md")
)

const noJobDescription = "(not provided)"

func mustPrompt(name string) string {
	data, err := promptFS.ReadFile("prompts/" + name)
	if err != nil {
		panic(fmt.Sprintf("read embedded prompt %s: %v", name, err))
	}
	return strings.TrimSpace(string(data))
}

// SystemPrompt returns the fixed system message for role. Unknown roles get
// the chat prompt.
func SystemPrompt(role Role) string {
	if prompt, ok := systemPrompts[role]; ok {
		return prompt
	}
	return systemPrompts[RoleChat]
}

// ResumePrompt builds the user turn asking for an improved resume section.
func ResumePrompt(section, content, jobDescription string) string {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		jobDescription = noJobDescription
	}

	prompt := strings.ReplaceAll(resumeRequestTemplate, "{{SECTION}}", strings.TrimSpace(section))
	prompt = strings.ReplaceAll(prompt, "{{CONTENT}}", strings.TrimSpace(content))
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", jobDescription)
	return prompt
}
