package identity

// Fixed dictionaries for synthesized display names. Names are friendly
// and low-stakes; nothing depends on their uniqueness.

var adjectives = []string{
	"Amber", "Bold", "Brave", "Bright", "Calm", "Clever", "Cosmic",
	"Curious", "Daring", "Eager", "Gentle", "Golden", "Happy", "Jolly",
	"Keen", "Lively", "Lucky", "Mellow", "Merry", "Nimble", "Quiet",
	"Rapid", "Silver", "Snappy", "Sunny", "Swift", "Vivid", "Wandering",
	"Witty", "Zesty",
}

var nouns = []string{
	"Badger", "Beaver", "Falcon", "Ferret", "Finch", "Fox", "Gecko",
	"Heron", "Ibis", "Kestrel", "Koala", "Lemur", "Lynx", "Magpie",
	"Marmot", "Newt", "Osprey", "Otter", "Owl", "Panda", "Penguin",
	"Puffin", "Quokka", "Raven", "Seal", "Sparrow", "Stoat", "Tapir",
	"Walrus", "Wombat",
}

var colors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080", "#e6beff",
	"#9a6324", "#800000", "#aaffc3", "#808000",
}
