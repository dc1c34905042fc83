package sites

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllFixedOrder(t *testing.T) {
	all := All()
	assert.Len(t, all, 3)
	assert.Equal(t, "Jobberman", all[0].Name)
	assert.Equal(t, "Indeed", all[1].Name)
	assert.Equal(t, "LinkedIn", all[2].Name)
}

func TestSearchURLEscapesTerms(t *testing.T) {
	u := All()[0].SearchURL("backend developer", "port harcourt")
	assert.Equal(t, "https://www.jobberman.com/jobs?q=backend+developer&l=port+harcourt", u)

	u = All()[2].SearchURL("data analyst", "lagos")
	assert.Equal(t, "https://www.linkedin.com/jobs/search?keywords=data+analyst&location=lagos", u)
}

func TestEnabled(t *testing.T) {
	assert.Len(t, Enabled(nil), 3)

	picked := Enabled([]string{"linkedin", "Jobberman"})
	assert.Len(t, picked, 2)
	// declared order wins over the order names were given in
	assert.Equal(t, "Jobberman", picked[0].Name)
	assert.Equal(t, "LinkedIn", picked[1].Name)

	assert.Empty(t, Enabled([]string{"glassdoor"}))
}

func TestIsGeographic(t *testing.T) {
	assert.True(t, IsGeographic("Lagos"))
	assert.True(t, IsGeographic("  port harcourt "))
	assert.False(t, IsGeographic("remote"))
	assert.False(t, IsGeographic("blockchain"))
}

func TestOnlyIndeedIsGeoGated(t *testing.T) {
	for _, s := range All() {
		assert.Equal(t, s.Name == "Indeed", s.GeoOnly, s.Name)
	}
}
