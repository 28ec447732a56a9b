package catalog

import (
	"testing"

	"memehub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Len(t, c.List(), 6)

	tpl, ok := c.Get("t5")
	assert.True(t, ok)
	assert.Equal(t, "Change My Mind", tpl.Name)

	_, ok = c.Get("t99")
	assert.False(t, ok)
}

func TestStaticSkipsDuplicatesAndCopiesList(t *testing.T) {
	c := NewStatic(
		models.MemeTemplate{ID: "a", Name: "first"},
		models.MemeTemplate{ID: "a", Name: "second"},
	)
	list := c.List()
	assert.Len(t, list, 1)
	assert.Equal(t, "first", list[0].Name)

	list[0].Name = "mutated"
	tpl, _ := c.Get("a")
	assert.Equal(t, "first", tpl.Name)
}
