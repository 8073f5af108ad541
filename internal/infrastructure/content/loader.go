// Package content loads the static template registry and blog posts that
// ship inside the binary.
package content

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/contractchecked/contract-checked/internal/core/domain"
)

//go:embed templates.yaml
var templatesYAML []byte

//go:embed blog.yaml
var blogYAML []byte

type templateFile struct {
	Templates []domain.Template `yaml:"templates"`
}

type blogFile struct {
	Posts []domain.BlogPost `yaml:"posts"`
}

// Templates returns the embedded contract template registry.
func Templates() ([]domain.Template, error) {
	return parseTemplates(templatesYAML)
}

// BlogPosts returns the embedded blog posts.
func BlogPosts() ([]domain.BlogPost, error) {
	return parseBlogPosts(blogYAML)
}

func parseTemplates(data []byte) ([]domain.Template, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Templates))
	for _, tpl := range file.Templates {
		if strings.TrimSpace(tpl.ID) == "" || strings.TrimSpace(tpl.Title) == "" {
			return nil, fmt.Errorf("template %q: id and title are required", tpl.ID)
		}
		if _, dup := seen[tpl.ID]; dup {
			return nil, fmt.Errorf("template %q: duplicate id", tpl.ID)
		}
		seen[tpl.ID] = struct{}{}

		for i, block := range tpl.Blocks {
			switch block.Kind {
			case domain.BlockTitle, domain.BlockParagraph:
				if len(block.Runs) == 0 {
					return nil, fmt.Errorf("template %q block %d: %s without runs", tpl.ID, i, block.Kind)
				}
			case domain.BlockBlank:
			default:
				return nil, fmt.Errorf("template %q block %d: unknown kind %q", tpl.ID, i, block.Kind)
			}
		}
	}
	return file.Templates, nil
}

func parseBlogPosts(data []byte) ([]domain.BlogPost, error) {
	var file blogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode blog posts: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Posts))
	for _, post := range file.Posts {
		if strings.TrimSpace(post.Slug) == "" {
			return nil, fmt.Errorf("blog post %q: slug is required", post.ID)
		}
		if _, dup := seen[post.Slug]; dup {
			return nil, fmt.Errorf("blog post %q: duplicate slug", post.Slug)
		}
		seen[post.Slug] = struct{}{}
	}
	return file.Posts, nil
}
