// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gbt7714

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/citation-engine/internal/bibtex"
)

// --- Authors ---

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \n ", ""},
		{"single first-last", "Tianlang Chen", "Chen T"},
		{"single token unchanged", "Plato", "Plato"},
		{"two authors", "Tianlang Chen and Chengjie Fang", "Chen T, Fang C"},
		{"three authors", "Ann Bell and Carl Dent and Eve Fox", "Bell A, Dent C, Fox E"},
		{"four authors truncated", "Ann Bell and Carl Dent and Eve Fox and Gil Hart", "Bell A, Dent C, Fox E, et al."},
		{"last-first form", "Chen, Tianlang", "Chen T"},
		{"last-first with middle names", "Smith, John Paul", "Smith J P"},
		{"first-middle-last", "John Paul Smith", "Smith J P"},
		{"comma with no given name", "Chen,", "Chen"},
		{"mixed shapes", "Chen, Tianlang and Chengjie Fang", "Chen T, Fang C"},
		{"line breaks inside field", "Ann  Bell\nand Carl Dent", "Bell A, Dent C"},
		{"decomposed accent", "E\u0301mile Zola", "Zola \u00c9"},
		{"precomposed accent", "\u00c9lodie Durand", "Durand \u00c9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAuthors(tt.field))
		})
	}
}

func TestFormatAuthorsCountProperty(t *testing.T) {
	pool := []string{"Ann Bell", "Carl Dent", "Eve Fox", "Gil Hart", "Ivy Jones", "Kai Lund"}
	for n := 1; n <= len(pool); n++ {
		got := FormatAuthors(strings.Join(pool[:n], " and "))
		if n <= 3 {
			assert.Len(t, strings.Split(got, ", "), n, "author count for %d authors: %q", n, got)
			assert.NotContains(t, got, "et al.")
		} else {
			assert.True(t, strings.HasSuffix(got, "et al."), "%d authors: %q", n, got)
			assert.Len(t, strings.Split(strings.TrimSuffix(got, ", et al."), ", "), 3)
		}
	}
}

// --- Title ---

func TestFormatTitleTags(t *testing.T) {
	tests := []struct {
		entryType bibtex.EntryType
		wantTag   string
	}{
		{bibtex.TypeArticle, "[J]"},
		{bibtex.TypeInProceedings, "[C]"},
		{bibtex.TypeConference, "[C]"},
		{"Conference", "[C]"},
		{bibtex.TypeBook, "[M]"},
		{bibtex.TypePhDThesis, "[D]"},
		{bibtex.TypeMastersThesis, "[D]"},
		{bibtex.TypeTechReport, "[R]"},
		{bibtex.TypePatent, "[P]"},
		{"misc", "[Z]"},
		{"", "[Z]"},
	}
	for _, tt := range tests {
		t.Run(string(tt.entryType), func(t *testing.T) {
			got := FormatTitle("Some Title", tt.entryType)
			assert.Equal(t, "Some Title"+tt.wantTag+".", got)
			assert.False(t, strings.HasSuffix(got, ".."))
		})
	}
}

func TestFormatTitlePunctuation(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Anatomy-Aware 3D Human Pose Estimation", "Anatomy-Aware 3D Human Pose Estimation[J]."},
		{"trailing period stripped", "Deep Learning.", "Deep Learning[J]."},
		{"several trailing periods", "Deep Learning...", "Deep Learning[J]."},
		{"surrounding space", "  Deep Learning  ", "Deep Learning[J]."},
		{"empty", "", ""},
		{"only periods", "...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTitle(tt.title, bibtex.TypeArticle))
		})
	}
}

// --- Venue ---

func TestFormatVenue(t *testing.T) {
	tests := []struct {
		name  string
		venue Venue
		want  string
	}{
		{
			"journal volume pages",
			Venue{Name: "IEEE TCSVT", Year: "2021", Volume: "32", Pages: "198--209"},
			"IEEE TCSVT, 2021, 32, 198-209.",
		},
		{
			"volume with issue",
			Venue{Name: "Nature", Year: "2020", Volume: "577", Issue: "7792", Pages: "706-710"},
			"Nature, 2020, 577(7792), 706-710.",
		},
		{
			"issue without volume is dropped",
			Venue{Name: "Nature", Year: "2020", Issue: "3"},
			"Nature, 2020.",
		},
		{
			"doi suffix",
			Venue{Name: "Nature", Year: "2020", DOI: "10.1038/s41586-019-1923-7"},
			"Nature, 2020. DOI:10.1038/s41586-019-1923-7",
		},
		{
			"doi only",
			Venue{DOI: "10.1/x"},
			"DOI:10.1/x",
		},
		{
			"nothing",
			Venue{},
			"",
		},
		{
			"venue ending in period",
			Venue{Name: "Proc. Natl. Acad. Sci."},
			"Proc. Natl. Acad. Sci.",
		},
		{
			"year only",
			Venue{Year: "2017"},
			"2017.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatVenue(tt.venue)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "()")
		})
	}
}

func TestNormalizePages(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"198--209", "198-209"},
		{"198-209", "198-209"},
		{"198–209", "198-209"},
		{"198—209", "198-209"},
		{"198 -- 209", "198-209"},
		{"198---209", "198-209"},
		{"e1234", "e1234"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizePages(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "–")
			assert.NotContains(t, got, "—")
			assert.NotContains(t, got, "--")
		})
	}
}

// --- Compose ---

func TestComposeJournalArticle(t *testing.T) {
	raw := `@article{chen2021,
  author = {Tianlang Chen and Chengjie Fang},
  title = {Anatomy-Aware 3D Human Pose Estimation},
  journal = {IEEE TCSVT},
  volume = {32},
  pages = {198--209},
  year = {2021}
}`
	got := Compose(raw)

	assert.Equal(t, "Chen T, Fang C Anatomy-Aware 3D Human Pose Estimation[J]. IEEE TCSVT, 2021, 32, 198-209.", got)
	assert.True(t, strings.HasPrefix(got, "Chen T, Fang C"))
	assert.Contains(t, got, "[J].")
	assert.Contains(t, got, "198-209")
	assert.NotContains(t, got, "–")
	assert.False(t, IsFailure(got))
}

func TestComposeCatalogBibTeX(t *testing.T) {
	raw := "@Article{Chen2021AnatomyAware3H,\n author = {Tianlang Chen and Chengjie Fang and Xiaohui Shen and Yiheng Zhu and Zhili Chen and Jiebo Luo},\n booktitle = {IEEE transactions on circuits and systems for video technology (Print)},\n journal = {IEEE Transactions on Circuits and Systems for Video Technology},\n pages = {198-209},\n title = {Anatomy-Aware 3D Human Pose Estimation With Bone-Based Pose Decomposition},\n volume = {32},\n year = {2021}\n}\n"

	want := "Chen T, Fang C, Shen X, et al. Anatomy-Aware 3D Human Pose Estimation With Bone-Based Pose Decomposition[J]. " +
		"IEEE Transactions on Circuits and Systems for Video Technology, 2021, 32, 198-209."
	assert.Equal(t, want, Compose(raw))
}

func TestComposeConferencePaper(t *testing.T) {
	raw := `@inproceedings{x, author = {Kaiming He and Xiangyu Zhang}, title = {Deep Residual Learning},
booktitle = {CVPR}, pages = {770--778}, year = {2016}}`

	assert.Equal(t, "He K, Zhang X Deep Residual Learning[C]. CVPR, 2016, 770-778.", Compose(raw))
}

func TestComposeIssueAndDOI(t *testing.T) {
	raw := `author = {Doe, Jane}, title = {On Things.}, journal = {J. Things}, volume = {5},
number = {2}, pages = {1\textendash 9}, year = {2019}, doi = {10.1000/xyz}`

	got := Compose(raw)
	assert.True(t, strings.HasPrefix(got, "Doe J On Things[J]. J. Things, 2019, 5(2), "), got)
	assert.True(t, strings.HasSuffix(got, ". DOI:10.1000/xyz"), got)
}

func TestComposePartialRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"title only", "title = {Lonely Title}", "Lonely Title[J]."},
		{"authors only", "author = {Ann Bell}", "Bell A"},
		{"venue only", "journal = {Nature}, year = {2020}", "Nature, 2020."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.False(t, IsFailure(got))
		})
	}
}

func TestComposeSignalsFailure(t *testing.T) {
	for _, raw := range []string{"", "garbage without fields", "@misc{key,}"} {
		got := Compose(raw)
		assert.True(t, IsFailure(got), "Compose(%q) = %q", raw, got)
		assert.True(t, strings.HasPrefix(got, ErrorMarker))
	}
}

func TestFromRecordAsExplicitType(t *testing.T) {
	r := bibtex.Parse("author = {Donald Knuth}, title = {The Art of Computer Programming}, year = {1968}")

	assert.Equal(t, "Knuth D The Art of Computer Programming[M]. 1968.", FromRecordAs(r, bibtex.TypeBook))
	assert.Equal(t, "Knuth D The Art of Computer Programming[J]. 1968.", FromRecord(r))
}
