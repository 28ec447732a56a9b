// Package catalog serves the read-only meme template list.
package catalog

import (
	"memehub/internal/models"
)

// Catalog looks up meme templates.
type Catalog interface {
	Get(id string) (models.MemeTemplate, bool)
	List() []models.MemeTemplate
}

// Static is an in-memory catalog; order of List follows construction order.
type Static struct {
	templates []models.MemeTemplate
	byID      map[string]int
}

func NewStatic(templates ...models.MemeTemplate) *Static {
	c := &Static{byID: make(map[string]int, len(templates))}
	for _, t := range templates {
		if _, dup := c.byID[t.ID]; dup {
			continue
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c
}

// Default returns the built-in template set.
func Default() *Static {
	return NewStatic(
		models.MemeTemplate{ID: "t1", Name: "Drake Hotline Bling", URL: "https://i.imgflip.com/30b1gx.jpg", Width: 1200, Height: 1200},
		models.MemeTemplate{ID: "t2", Name: "Two Buttons", URL: "https://i.imgflip.com/1g8my4.jpg", Width: 600, Height: 908},
		models.MemeTemplate{ID: "t3", Name: "Distracted Boyfriend", URL: "https://i.imgflip.com/1ur9b0.jpg", Width: 1200, Height: 800},
		models.MemeTemplate{ID: "t4", Name: "Running Away Balloon", URL: "https://i.imgflip.com/261o3j.jpg", Width: 761, Height: 1024},
		models.MemeTemplate{ID: "t5", Name: "Change My Mind", URL: "https://i.imgflip.com/24y43o.jpg", Width: 482, Height: 361},
		models.MemeTemplate{ID: "t6", Name: "Left Exit 12 Off Ramp", URL: "https://i.imgflip.com/22bdq6.jpg", Width: 804, Height: 767},
	)
}

func (c *Static) Get(id string) (models.MemeTemplate, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.MemeTemplate{}, false
	}
	return c.templates[i], true
}

func (c *Static) List() []models.MemeTemplate {
	out := make([]models.MemeTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}
