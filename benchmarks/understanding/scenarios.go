// ABOUTME: Labelled benchmark scenarios for query understanding and dictionary lookup
// ABOUTME: Each scenario carries the ground truth the runner scores against

package understanding

import "github.com/harper/muzakir/internal/models"

// Scenario is one labelled question for the classifier
type Scenario struct {
	ID             string
	Name           string
	Question       string
	CurrentChapter string
	GroundTruth    GroundTruth
}

// GroundTruth is the expected classification. A zero ChapterNumber means no
// chapter reference is expected.
type GroundTruth struct {
	ChapterNumber    int
	ChapterType      models.ChapterType
	RelatedToCurrent bool

	// SearchQueryContains must appear in the produced search query
	SearchQueryContains string
	// FastPath marks questions the pattern rules must answer without the model
	FastPath bool
}

// LookupScenario is one labelled dictionary lookup
type LookupScenario struct {
	ID         string
	Word       string
	Context    string
	WantFound  bool
	WantWord   string
	WantMethod models.LookupMethod
}

// UnderstandingScenarios returns the classifier benchmark set
func UnderstandingScenarios() []Scenario {
	return []Scenario{
		{"u1", "turkish ordinal", "Dördüncü Söz ne anlatıyor?", "",
			GroundTruth{ChapterNumber: 4, ChapterType: models.ChapterTypeSoz, SearchQueryContains: "ne anlatıyor", FastPath: true}},
		{"u2", "compound turkish ordinal", "On Birinci Söz", "",
			GroundTruth{ChapterNumber: 11, ChapterType: models.ChapterTypeSoz, FastPath: true}},
		{"u3", "inflected letter", "yirmi altıncı mektupta ne var", "",
			GroundTruth{ChapterNumber: 26, ChapterType: models.ChapterTypeMektup, SearchQueryContains: "ne var", FastPath: true}},
		{"u4", "ascii flash", "dorduncu lem'a", "",
			GroundTruth{ChapterNumber: 4, ChapterType: models.ChapterTypeLema, FastPath: true}},
		{"u5", "english ordinal", "the third flash", "",
			GroundTruth{ChapterNumber: 3, ChapterType: models.ChapterTypeLema, FastPath: true}},
		{"u6", "hyphenated english ordinal", "What does the twenty-first word say?", "",
			GroundTruth{ChapterNumber: 21, ChapterType: models.ChapterTypeSoz, SearchQueryContains: "What does", FastPath: true}},
		{"u7", "numeric mixed language", "4th Word nedir?", "",
			GroundTruth{ChapterNumber: 4, ChapterType: models.ChapterTypeSoz, SearchQueryContains: "nedir", FastPath: true}},
		{"u8", "number after section", "Lem'a 5 hakkında", "",
			GroundTruth{ChapterNumber: 5, ChapterType: models.ChapterTypeLema, SearchQueryContains: "hakkında", FastPath: true}},
		{"u9", "dotted number", "3. Şua nedir", "",
			GroundTruth{ChapterNumber: 3, ChapterType: models.ChapterTypeSua, SearchQueryContains: "nedir", FastPath: true}},
		{"u10", "english current context", "this chapter talks about prayer?", "Dördüncü Söz",
			GroundTruth{RelatedToCurrent: true, SearchQueryContains: "prayer", FastPath: true}},
		{"u11", "turkish current context", "bu bölümde namaz var mı?", "Dördüncü Söz",
			GroundTruth{RelatedToCurrent: true, SearchQueryContains: "namaz", FastPath: true}},
		{"u12", "open question", "İman nedir?", "",
			GroundTruth{SearchQueryContains: "İman"}},
		{"u13", "open english question", "What is prayer?", "",
			GroundTruth{SearchQueryContains: "prayer"}},
	}
}

// LookupScenarios returns the dictionary benchmark set
func LookupScenarios() []LookupScenario {
	return []LookupScenario{
		{"d1", "Kitap", "", true, "kitap", models.MethodExact},
		{"d2", "kitaplar", "", true, "kitaplar", models.MethodExact},
		{"d3", "kitaplarımızdan", "", true, "kitap", models.MethodSuffixStripped},
		{"d4", "Ehl-i", "Sünnet", true, "ehl-i sünnet", models.MethodPhraseMatch},
		{"d5", "rahmet", "ilahiye", true, "rahmet-i ilahiye", models.MethodPhraseMatch},
		{"d6", "ktb", "", true, "mektep", models.MethodRootWord},
		{"d7", "(kitap),", "", true, "kitap", models.MethodExact},
		{"d8", "zzzz", "", false, "", ""},
	}
}

// Dictionary returns the entries the lookup scenarios run against
func Dictionary() []models.DictionaryEntry {
	root := "ktb"
	return []models.DictionaryEntry{
		{Word: "kitap", Definition: "book"},
		{Word: "kitaplar", Definition: "books"},
		{Word: "ehl-i sünnet", Definition: "people of the sunnah"},
		{Word: "rahmet-i ilahiye", Definition: "divine mercy"},
		{Word: "mektep", Definition: "school", RootWord: &root},
	}
}
