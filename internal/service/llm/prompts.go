package llm

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

//go:embed prompts/directives.yaml
var directivesYAML []byte

// Directive names
const (
	DirectiveEdit       = "edit"
	DirectiveAnalyze    = "analyze"
	DirectiveFixGrammar = "fix_grammar"
	DirectiveSummarize  = "summarize"
	DirectiveChat       = "chat"
)

// Directive is one request shape sent to the model.
type Directive struct {
	JSON        bool              `yaml:"json"`
	System      string            `yaml:"system"`
	User        string            `yaml:"user"`
	Instruction string            `yaml:"instruction"`
	Lengths     map[string]string `yaml:"lengths"`

	user *template.Template
}

// PromptData fills a directive's user template.
type PromptData struct {
	Document    string
	Instruction string
	Length      string
	Message     string
}

// PromptRegistry holds the parsed directives.
type PromptRegistry struct {
	directives map[string]*Directive
}

// NewPromptRegistry loads the embedded directives.
func NewPromptRegistry() (*PromptRegistry, error) {
	return ParsePromptRegistry(directivesYAML)
}

// ParsePromptRegistry parses directives from YAML and compiles their templates.
func ParsePromptRegistry(data []byte) (*PromptRegistry, error) {
	var directives map[string]*Directive
	if err := yaml.Unmarshal(data, &directives); err != nil {
		return nil, fmt.Errorf("failed to unmarshal directives: %w", err)
	}

	for name, d := range directives {
		if d == nil {
			return nil, fmt.Errorf("directive %s is empty", name)
		}
		if d.User == "" {
			continue
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(d.User)
		if err != nil {
			return nil, fmt.Errorf("parse directive %s: %w", name, err)
		}
		d.user = tmpl
	}

	r := &PromptRegistry{directives: directives}
	for _, name := range []string{DirectiveEdit, DirectiveAnalyze, DirectiveFixGrammar, DirectiveSummarize, DirectiveChat} {
		if _, err := r.Get(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Get returns a directive by name.
func (r *PromptRegistry) Get(name string) (*Directive, error) {
	d, ok := r.directives[name]
	if !ok {
		return nil, fmt.Errorf("unknown directive: %s", name)
	}
	return d, nil
}

// Render executes the directive's user template.
func (d *Directive) Render(data PromptData) (string, error) {
	if d.user == nil {
		return "", fmt.Errorf("directive has no user template")
	}
	var buf bytes.Buffer
	if err := d.user.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render directive: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// LengthInstruction maps a summary length to its phrasing; unknown lengths mean medium.
func (d *Directive) LengthInstruction(length string) string {
	if text, ok := d.Lengths[length]; ok {
		return text
	}
	return d.Lengths[models.SummaryMedium]
}
