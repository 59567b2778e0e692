package models

// CategoryCount is the fixed number of closeness categories.
const CategoryCount = 4

// Category is a closeness tier with its greeting phrase.
type Category struct {
	ID     int
	Phrase string
}

// DefaultCategories are seeded once when the store is created.
var DefaultCategories = []Category{
	{ID: 1, Phrase: "قريب جدا"},
	{ID: 2, Phrase: "صديق مقرب"},
	{ID: 3, Phrase: "زميل عمل"},
	{ID: 4, Phrase: "معارف"},
}

// PresetPhrases are the suggestions offered next to each category's editor.
var PresetPhrases = map[int][]string{
	1: {
		"يا مرحبا رحب والقلب من اقصاه",
		"اغلى من يجي",
		"يا مرحبا يا اعز من يستاهل الترحيبه",
		"يامرحبا ماهيب مرة ولا عشرين مرة يامرحبا لين ينقطع صوتنا ويبتدي ترحيب عينا",
		"يامرحبا ترحيب يكتب بالانــوار يامرحبـا باللي يـشـرف حظـوره",
	},
	2: {
		"اتسع صدر المكان وزاد فيكي رحابه",
		"يا هلا ومرحبا ترحيب ماله نظير",
		"ياقديم المودَّه مرحبـاً بـك",
		"مرحبا باللي لها القلب خفاق، بنت تساوي في عيوني ملايين",
		"أقبلي من صوب قلبي سلم اللّٰه هالخطاوي  كل دربٍ في حضورك لا مشيتي تشرفينه",
	},
	3: {
		"تزينت ليلتنا بوجودك",
		"شرفتنا ونورتنا",
		"أهلا زميلتي",
		"سعداء بحضورك",
	},
	4: {
		"تزينت ليلتنا بوجودك",
		"سعدنا بحضوركم وزادت فرحتنا بقدومكم",
		"مرحبا يا أجمل تفاصيل الليال ومرحبابك",
		"شرفتنا ونورتنا",
	},
}
