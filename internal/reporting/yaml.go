package reporting

import (
	"fmt"

	"github.com/zorak1103/okrtree/internal/hierarchy"
	"gopkg.in/yaml.v3"
)

type yamlReport struct {
	Locale  hierarchy.Locale `yaml:"locale"`
	Domains []yamlDomain     `yaml:"life_domains"`
	Totals  hierarchy.Counts `yaml:"totals"`
}

type yamlDomain struct {
	ID     int64            `yaml:"id"`
	Key    string           `yaml:"key"`
	Title  string           `yaml:"title"`
	Order  *int             `yaml:"order"`
	Counts hierarchy.Counts `yaml:"counts"`
	Goals  []yamlGoal       `yaml:"goals"`
}

type yamlGoal struct {
	ID          int64           `yaml:"id"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description,omitempty"`
	Order       *int            `yaml:"order"`
	Objectives  []yamlObjective `yaml:"objectives"`
}

type yamlObjective struct {
	ID          int64           `yaml:"id"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description,omitempty"`
	Order       *int            `yaml:"order"`
	KeyResults  []yamlKeyResult `yaml:"key_results"`
}

type yamlKeyResult struct {
	ID          int64    `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Target      *float64 `yaml:"target"`
	Unit        string   `yaml:"unit"`
	Order       *int     `yaml:"order"`
}

// GenerateYAML renders the sorted tree with its counts as a yaml document.
func GenerateYAML(tree *hierarchy.Tree, opts Options) (string, error) {
	loc := opts.locale()
	doc := yamlReport{
		Locale:  loc,
		Domains: []yamlDomain{},
		Totals:  tree.Totals(),
	}

	for _, d := range tree.SortedDomains() {
		yd := yamlDomain{
			ID:     d.Info.ID,
			Key:    d.Info.Key,
			Title:  d.Info.Title.In(loc),
			Order:  d.Info.Order,
			Counts: d.Counts(),
			Goals:  []yamlGoal{},
		}
		for _, g := range d.SortedGoals() {
			yg := yamlGoal{
				ID:          g.Info.ID,
				Title:       g.Info.Title.In(loc),
				Description: g.Info.Description.In(loc),
				Order:       g.Info.Order,
				Objectives:  []yamlObjective{},
			}
			for _, o := range g.SortedObjectives() {
				yo := yamlObjective{
					ID:          o.Info.ID,
					Title:       o.Info.Title.In(loc),
					Description: o.Info.Description.In(loc),
					Order:       o.Info.Order,
					KeyResults:  []yamlKeyResult{},
				}
				for _, kr := range o.SortedKeyResults() {
					yo.KeyResults = append(yo.KeyResults, yamlKeyResult{
						ID:          kr.ID,
						Title:       kr.Title.In(loc),
						Description: kr.Description.In(loc),
						Target:      kr.Target,
						Unit:        kr.Unit,
						Order:       kr.Order,
					})
				}
				yg.Objectives = append(yg.Objectives, yo)
			}
			yd.Goals = append(yd.Goals, yg)
		}
		doc.Domains = append(doc.Domains, yd)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal yaml report: %w", err)
	}
	return string(out), nil
}
