// Package catalog holds the categorized skill list offered when creating
// projects and editing profiles.
package catalog

import (
	"slices"
	"sort"
)

// Category is a named group of skills.
type Category struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

var categories = []Category{
	{
		Name: "Pemrograman",
		Skills: []string{
			"JavaScript", "React", "Next.js", "Node.js", "Python", "Django",
			"PHP", "Laravel", "Java", "C#", "C++",
		},
	},
	{
		Name: "UI/UX & Desain",
		Skills: []string{
			"UI Design", "UX Research", "Figma", "Adobe XD", "Graphic Design",
			"Illustration", "Branding",
		},
	},
	{
		Name: "Marketing",
		Skills: []string{
			"Digital Marketing", "SEO", "Content Writing", "Copywriting",
			"Social Media", "Ads Management",
		},
	},
	{
		Name: "Bisnis & Manajemen",
		Skills: []string{
			"Project Management", "Product Management", "Business Strategy",
			"Finance", "Pitching", "Leadership",
		},
	},
	{
		Name: "Data & Teknologi",
		Skills: []string{
			"Data Analysis", "Machine Learning", "Deep Learning", "SQL",
			"Data Visualization",
		},
	},
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Skills: slices.Clone(c.Skills)}
	}
	return out
}

// SkillsIn returns the skills of the named category, or nil if unknown.
func SkillsIn(category string) []string {
	for _, c := range categories {
		if c.Name == category {
			return slices.Clone(c.Skills)
		}
	}
	return nil
}

// AllSkills returns every distinct skill, sorted.
func AllSkills() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range categories {
		for _, s := range c.Skills {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
