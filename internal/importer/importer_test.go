package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sunflowerYAML = `
recipes:
  - name: Sunflower
    variety: sunflower
    steps:
      - action: soak
        duration: 12
        unit: hours
      - action: seed
        duration: 1
        weight_grams: 180
        wetting: mist
      - action: blackout
        duration: 3
      - action: growing
        duration: 5
        water:
          type: water
          times_per_day: 2
      - action: harvest
        duration: 0
  - name: Pea shoots
    steps:
      - action: seed
        duration: 1
      - action: growing
        duration: 9
        water: {type: nutrients, method: top}
`

func TestParseAndConvert(t *testing.T) {
	file, err := ParseRecipeYAML([]byte(sunflowerYAML))
	require.NoError(t, err)
	require.Empty(t, ValidateRecipeFile(file))

	recipes := Convert(file, "farm-1")
	require.Len(t, recipes, 2)

	sun := recipes[0]
	assert.Equal(t, "farm-1", sun.FarmID)
	assert.Equal(t, 1, sun.Version)
	require.Len(t, sun.Steps, 5)
	assert.Equal(t, domain.UnitHours, sun.Steps[0].Unit)
	assert.Equal(t, domain.WettingMist, sun.Steps[1].PostSowWetting)
	require.NotNil(t, sun.Steps[3].Water)
	assert.Equal(t, 2, sun.Steps[3].Water.TimesPerDay)
	assert.Equal(t, domain.WaterBottom, sun.Steps[3].Water.Method)

	tl, err := scheduler.Compile(sun)
	require.NoError(t, err)
	assert.Equal(t, 9, tl.TotalDays)
	off, ok := tl.SoakOffset()
	require.True(t, ok)
	assert.Equal(t, -1, off)

	peas := recipes[1]
	assert.Equal(t, "Pea shoots", peas.Variety, "variety defaults to the name")
	require.NotNil(t, peas.Steps[1].Water)
	assert.Equal(t, 1, peas.Steps[1].Water.TimesPerDay)
}

func TestParseRecipeYAML_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseRecipeYAML([]byte("recipes:\n  - name: X\n    stpes: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stpes")

	_, err = ParseRecipeYAML([]byte("   \n"))
	assert.Error(t, err)
}

func TestValidateRecipeFile_CollectsAllProblems(t *testing.T) {
	file := &RecipeFile{Recipes: []RecipeImport{
		{Name: "A", Steps: []StepImport{
			{Action: "sprout", Duration: 1},
			{Action: "growing", Duration: -1, Unit: "weeks", Water: &WaterImport{Type: "juice"}},
		}},
		{Name: "A"},
	}}
	errs := ValidateRecipeFile(file)

	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	assert.Contains(t, msgs, `recipes[0].steps[0].action: invalid value "sprout"`)
	assert.Contains(t, msgs, `recipes[0].steps[1].duration: must not be negative`)
	assert.Contains(t, msgs, `recipes[0].steps[1].unit: invalid value "weeks" (expected days or hours)`)
	assert.Contains(t, msgs, `recipes[0].steps[1].water.type: invalid value "juice"`)
	assert.Contains(t, msgs, `recipes[1].name: duplicate recipe "A"`)
	assert.Contains(t, msgs, `recipes[1].steps: at least one step is required`)
}

func TestLoadRecipeDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(sunflowerYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("recipes:\n  - name: Radish\n    steps:\n      - action: seed\n        duration: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	files, err := LoadRecipeDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Radish", files[0].Recipes[0].Name)

	files, err = LoadRecipeDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
