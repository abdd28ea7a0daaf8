package listid

// Fixed word dictionary for readable ids. Short, unambiguous, lowercase.
var words = []string{
	"acorn", "amber", "apple", "aspen", "badge", "basil", "beach", "berry",
	"birch", "bloom", "brave", "breeze", "brook", "cedar", "chalk", "cloud",
	"clover", "coral", "cove", "creek", "crest", "dawn", "delta", "drift",
	"dune", "ember", "fable", "fern", "field", "flint", "frost", "glade",
	"glen", "grove", "harbor", "hazel", "heath", "holly", "ivy", "jade",
	"juniper", "lagoon", "lark", "laurel", "linden", "lunar", "maple",
	"meadow", "mist", "moss", "north", "oak", "ocean", "olive", "opal",
	"orchard", "otter", "pearl", "pebble", "pine", "plume", "pond", "quill",
	"rain", "reed", "ridge", "river", "robin", "rowan", "sage", "shore",
	"sierra", "slate", "sol", "spruce", "stone", "storm", "summit", "thorn",
	"tide", "timber", "trail", "vale", "violet", "wave", "willow", "wren",
}
