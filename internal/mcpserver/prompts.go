package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptArgument is declared in a prompt's frontmatter. Its value replaces
// {{name}} in the body; Fallback is used when the client sends none.
type promptArgument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Fallback    string `yaml:"fallback"`
}

type promptFrontmatter struct {
	Description string           `yaml:"description"`
	Arguments   []promptArgument `yaml:"arguments"`
}

type promptDoc struct {
	name string
	meta promptFrontmatter
	body string
}

// loadPrompts reads every embedded markdown prompt in file name order.
func loadPrompts() ([]promptDoc, error) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, err
	}

	var docs []promptDoc
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}
		raw, err := promptFiles.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			return nil, err
		}
		meta, body := parsePrompt(raw)
		docs = append(docs, promptDoc{
			name: strings.TrimSuffix(entry.Name(), ".md"),
			meta: meta,
			body: body,
		})
	}
	return docs, nil
}

func (s *Server) registerPrompts() {
	docs, err := loadPrompts()
	if err != nil {
		return
	}
	for _, doc := range docs {
		args := make([]*mcp.PromptArgument, len(doc.meta.Arguments))
		for i, a := range doc.meta.Arguments {
			args[i] = &mcp.PromptArgument{Name: a.Name, Description: a.Description, Required: a.Required}
		}
		s.server.AddPrompt(&mcp.Prompt{
			Name:        doc.name,
			Description: doc.meta.Description,
			Arguments:   args,
		}, doc.handler())
	}
}

// parseFrontmatter splits a prompt file into its description and body.
func parseFrontmatter(content []byte) (description string, body string) {
	meta, body := parsePrompt(content)
	return meta.Description, body
}

// parsePrompt reads an optional YAML frontmatter block delimited by ---
// lines. Files without a valid block are returned whole as the body.
func parsePrompt(content []byte) (promptFrontmatter, string) {
	const delim = "---\n"
	var meta promptFrontmatter

	rest, ok := bytes.CutPrefix(content, []byte(delim))
	if !ok {
		return meta, string(content)
	}
	header, body, ok := bytes.Cut(rest, []byte("\n"+delim))
	if !ok || yaml.Unmarshal(header, &meta) != nil {
		return promptFrontmatter{}, string(content)
	}
	return meta, strings.TrimPrefix(string(body), "\n")
}

func (doc promptDoc) handler() mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var given map[string]string
		if req != nil && req.Params != nil {
			given = req.Params.Arguments
		}
		text, err := doc.render(given)
		if err != nil {
			return nil, err
		}
		return &mcp.GetPromptResult{
			Description: doc.meta.Description,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: text}},
			},
		}, nil
	}
}

// render substitutes argument placeholders. A required argument without a
// value is an error.
func (doc promptDoc) render(given map[string]string) (string, error) {
	pairs := make([]string, 0, 2*len(doc.meta.Arguments))
	for _, a := range doc.meta.Arguments {
		value := strings.TrimSpace(given[a.Name])
		if value == "" {
			if a.Required {
				return "", fmt.Errorf("prompt %s: argument %q is required", doc.name, a.Name)
			}
			value = a.Fallback
		}
		pairs = append(pairs, "{{"+a.Name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(doc.body), nil
}
