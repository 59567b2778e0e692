package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/models"
)

var testGuests = []models.GuestRow{
	{ID: 3, Name: "Amal", IsGroup: true, GroupSize: 4, CategoryID: 1, Phrase: "قريب جدا"},
	{ID: 1, Name: "Sara", GroupSize: 1, CategoryID: 2, Phrase: "صديق مقرب"},
	{ID: 2, Name: "Zaid", GroupSize: 1, CategoryID: 1, Phrase: "قريب جدا"},
	{ID: 4, Name: "عائلة الحربي", IsGroup: true, GroupSize: 6, CategoryID: 4, Phrase: "معارف"},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testGuests))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(testGuests)+1)

	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"3", "Amal", "1", "4", "قريب جدا"}, records[1])
	assert.Equal(t, []string{"1", "Sara", "0", "1", "صديق مقرب"}, records[2])
	assert.Equal(t, []string{"4", "عائلة الحربي", "1", "6", "معارف"}, records[4])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(CSVHeader, ",")+"\n", buf.String())
}

func TestBuildFollowup(t *testing.T) {
	doc := BuildFollowup("title", models.DefaultCategories, testGuests)

	assert.Equal(t, "title", doc.Title)
	require.Len(t, doc.Sections, 3, "category 3 has no guests")

	closest := doc.Sections[0]
	assert.Equal(t, 1, closest.CategoryID)
	assert.Equal(t, "قريب جدا", closest.Phrase)
	require.Len(t, closest.Individuals, 1)
	require.Len(t, closest.Groups, 1)
	assert.Equal(t, "Zaid", closest.Individuals[0].Name)
	assert.Equal(t, "Amal", closest.Groups[0].Name)

	assert.Equal(t, 2, doc.Sections[1].CategoryID)
	assert.Equal(t, 4, doc.Sections[2].CategoryID)

	for _, s := range doc.Sections {
		for _, g := range s.Individuals {
			assert.False(t, g.IsGroup, "group %q listed as individual", g.Name)
		}
		for _, g := range s.Groups {
			assert.True(t, g.IsGroup, "individual %q listed as group", g.Name)
		}
	}
}

func TestBuildFollowup_UsesCurrentPhrase(t *testing.T) {
	categories := []models.Category{{ID: 1, Phrase: "renamed"}}
	doc := BuildFollowup("", categories, testGuests[:1])
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "renamed", doc.Sections[0].Phrase)
}

// testFont returns a TrueType font with Arabic coverage, skipping when none is
// available on the machine.
func testFont(t *testing.T) string {
	t.Helper()
	candidates := []string{
		os.Getenv("FONT_PATH"),
		"../../assets/fonts/Amiri-Regular.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	t.Skip("no TrueType font available")
	return ""
}

func TestPDFRenderer_Render(t *testing.T) {
	renderer, err := NewPDFRenderer(testFont(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, BuildFollowup("قائمة المتابعة", models.DefaultCategories, testGuests)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRenderer_Paginates(t *testing.T) {
	renderer, err := NewPDFRenderer(testFont(t))
	require.NoError(t, err)

	var guests []models.GuestRow
	for i := 0; i < 120; i++ {
		guests = append(guests, models.GuestRow{ID: int64(i + 1), Name: "ضيف", GroupSize: 1, CategoryID: 2, Phrase: "صديق مقرب"})
	}

	pdf := renderer.paint(BuildFollowup("", models.DefaultCategories, guests))
	require.NoError(t, pdf.Error())
	assert.Greater(t, pdf.PageCount(), 3)
}

func TestPainter_RepeatsTableHeader(t *testing.T) {
	renderer, err := NewPDFRenderer(testFont(t))
	require.NoError(t, err)

	var guests []models.GuestRow
	for i := 0; i < 80; i++ {
		guests = append(guests, models.GuestRow{ID: int64(i + 1), Name: "Guest", GroupSize: 1, CategoryID: 4})
	}

	p := &painter{pdf: renderer.paint(Followup{})}
	p.table(Labels.Individuals, guests)
	require.NoError(t, p.pdf.Error())

	pages := p.pdf.PageCount()
	require.Greater(t, pages, 1)
	expected := make([]int, 0, pages)
	for page := 1; page <= pages; page++ {
		expected = append(expected, page)
	}
	assert.Equal(t, expected, p.headerPages)
}

func TestPainter_Fit(t *testing.T) {
	renderer, err := NewPDFRenderer(testFont(t))
	require.NoError(t, err)

	p := &painter{pdf: renderer.paint(Followup{})}
	p.pdf.SetFont(fontFamily, "", bodyFontSize)
	width := p.contentWidth() - attendedWidth
	avail := width - 2*p.pdf.GetCellMargin()

	t.Run("short text keeps its size", func(t *testing.T) {
		shaped, size := p.fit("Sara", width, bodyFontSize)
		assert.Equal(t, "Sara", shaped)
		assert.Equal(t, bodyFontSize, size)
	})

	t.Run("long phrase shrinks to the cell", func(t *testing.T) {
		shaped, size := p.fit(models.PresetPhrases[1][3], p.contentWidth(), headingFontSize)
		p.pdf.SetFontSize(size)
		assert.LessOrEqual(t, p.pdf.GetStringWidth(shaped), p.contentWidth()-2*p.pdf.GetCellMargin())
	})

	t.Run("overlong name is shortened", func(t *testing.T) {
		name := strings.Repeat("Abdulrahman ", 40)
		shaped, size := p.fit(name, width, bodyFontSize)
		assert.Equal(t, minFontSize, size)
		assert.True(t, strings.HasSuffix(shaped, "..."))
		p.pdf.SetFontSize(size)
		assert.LessOrEqual(t, p.pdf.GetStringWidth(shaped), avail)
	})
}

func TestNewPDFRenderer_MissingFont(t *testing.T) {
	_, err := NewPDFRenderer("does-not-exist.ttf")
	assert.Error(t, err)
}
