// Package content loads the portfolio copy rendered into the home page.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Link is a labelled href.
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Hero is the opening banner.
type Hero struct {
	Greeting    string   `yaml:"greeting"`
	Words       []string `yaml:"words"`
	Subtitle    string   `yaml:"subtitle"`
	Description string   `yaml:"description"`
	CTA         Link     `yaml:"cta"`
}

// Section is a titled block of the page addressed by in-page anchors.
type Section struct {
	ID         string   `yaml:"id"`
	Title      string   `yaml:"title"`
	Paragraphs []string `yaml:"paragraphs"`
}

// Skill renders as a progress bar filled to Percent.
type Skill struct {
	Name    string  `yaml:"name"`
	Percent float64 `yaml:"percent"`
}

// Contact holds the copy around the contact form.
type Contact struct {
	Heading string `yaml:"heading"`
	Intro   string `yaml:"intro"`
	Email   string `yaml:"email"`
	Submit  string `yaml:"submit"`
}

// Site is the full page content.
type Site struct {
	Owner    string    `yaml:"owner"`
	Title    string    `yaml:"title"`
	Hero     Hero      `yaml:"hero"`
	Nav      []Link    `yaml:"nav"`
	Sections []Section `yaml:"sections"`
	Skills   []Skill   `yaml:"skills"`
	Software []string  `yaml:"software"`
	Cards    []string  `yaml:"cards"`
	Shapes   int       `yaml:"shapes"`
	Social   []Link    `yaml:"social"`
	Contact  Contact   `yaml:"contact"`
}

// ErrInvalidContent wraps every content validation failure.
var ErrInvalidContent = errors.New("content: invalid")

// Load reads and validates the YAML content file at path.
func Load(path string) (Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("read content: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML content, rejecting unknown keys, and validates it.
func Parse(data []byte) (Site, error) {
	var site Site
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&site); err != nil {
		return Site{}, fmt.Errorf("decode content: %w", err)
	}
	site.applyDefaults()
	if err := site.Validate(); err != nil {
		return Site{}, err
	}
	return site, nil
}

func (s *Site) applyDefaults() {
	if s.Title == "" {
		s.Title = s.Owner
	}
	if s.Contact.Submit == "" {
		s.Contact.Submit = "Send Message"
	}
	if s.Contact.Heading == "" {
		s.Contact.Heading = "Get In Touch"
	}
}

// Validate reports every problem found in s.
func (s Site) Validate() error {
	var problems []string
	if strings.TrimSpace(s.Owner) == "" {
		problems = append(problems, "owner is required")
	}
	if len(s.Hero.Words) == 0 {
		problems = append(problems, "hero.words needs at least one word")
	}
	if s.Shapes < 0 {
		problems = append(problems, "shapes must not be negative")
	}

	ids := map[string]bool{}
	for i, section := range s.Sections {
		id := strings.TrimSpace(section.ID)
		switch {
		case id == "":
			problems = append(problems, fmt.Sprintf("sections[%d] needs an id", i))
		case ids[id]:
			problems = append(problems, fmt.Sprintf("duplicate section id %q", id))
		}
		ids[id] = true
	}
	for _, link := range s.Nav {
		if target, ok := strings.CutPrefix(link.Href, "#"); ok && target != "" && !ids[target] {
			problems = append(problems, fmt.Sprintf("nav link %q points to unknown section %q", link.Label, target))
		}
	}
	for _, skill := range s.Skills {
		if skill.Percent < 0 || skill.Percent > 100 {
			problems = append(problems, fmt.Sprintf("skill %q percent %v outside 0..100", skill.Name, skill.Percent))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidContent, strings.Join(problems, "; "))
	}
	return nil
}

// ShapeIndexes returns 0..Shapes-1 for ranging in templates.
func (s Site) ShapeIndexes() []int {
	out := make([]int, s.Shapes)
	for i := range out {
		out[i] = i
	}
	return out
}
