package domain

import (
	"regexp"
	"strings"
)

type TemplateBlockKind string

const (
	BlockTitle     TemplateBlockKind = "title"
	BlockParagraph TemplateBlockKind = "paragraph"
	BlockBlank     TemplateBlockKind = "blank"
)

type TextRun struct {
	Text string `json:"text" yaml:"text"`
	Bold bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
}

type TemplateBlock struct {
	Kind TemplateBlockKind `json:"kind" yaml:"kind"`
	Runs []TextRun         `json:"runs,omitempty" yaml:"runs,omitempty"`
}

// Template is a downloadable contract template from the fixed registry.
type Template struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Category    string          `json:"category" yaml:"category"`
	Blocks      []TemplateBlock `json:"-" yaml:"blocks"`
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	pathSeparator = strings.NewReplacer("/", "-", `\`, "-")
)

// DownloadFilename derives the attachment name from the title.
func (t Template) DownloadFilename() string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(t.Title), "_")
	name = pathSeparator.Replace(name)
	name = strings.ReplaceAll(name, `"`, "")
	if name == "" {
		name = t.ID
	}
	return name + ".docx"
}

// RenderedDocument is a generated file ready to be streamed.
type RenderedDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

type BlogPost struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Slug           string   `json:"slug" yaml:"slug"`
	Excerpt        string   `json:"excerpt" yaml:"excerpt"`
	Content        string   `json:"content,omitempty" yaml:"content"`
	Author         string   `json:"author" yaml:"author"`
	PublishedAt    string   `json:"publishedAt" yaml:"published_at"`
	ReadTime       int      `json:"readTime" yaml:"read_time"`
	Tags           []string `json:"tags" yaml:"tags"`
	Category       string   `json:"category" yaml:"category"`
	SEOTitle       string   `json:"seoTitle" yaml:"seo_title"`
	SEODescription string   `json:"seoDescription" yaml:"seo_description"`
	Keywords       []string `json:"keywords" yaml:"keywords"`
	FeaturedImage  string   `json:"featuredImage,omitempty" yaml:"featured_image,omitempty"`
}

// Summary returns the post without its body.
func (p BlogPost) Summary() BlogPost {
	p.Content = ""
	return p
}

// CatalogResource is a curated resource linked to a contract category.
type CatalogResource struct {
	ID          string       `json:"id"`
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url,omitempty"`
	Priority    int          `json:"priority"`
	Category    string       `json:"category"`
}

type ExpertPartner struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Title           string  `json:"title"`
	Specialization  string  `json:"specialization"`
	LocationCity    string  `json:"location_city,omitempty"`
	LocationState   string  `json:"location_state,omitempty"`
	LocationCountry string  `json:"location_country"`
	ContactEmail    string  `json:"contact_email,omitempty"`
	WebsiteURL      string  `json:"website_url,omitempty"`
	Rating          float64 `json:"rating"`
	ReviewCount     int     `json:"review_count"`
	HourlyRate      float64 `json:"hourly_rate,omitempty"`
}

// ResourceMatches is the database enrichment for one recommendation type.
type ResourceMatches struct {
	Type      ResourceType      `json:"type"`
	Resources []CatalogResource `json:"resources"`
	Experts   []ExpertPartner   `json:"experts"`
}
