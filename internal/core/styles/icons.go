package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconBook     = "\uf02d" // book
	IconCompare  = "\uf0db" // columns
	IconLocation = "\uf041" // map marker
	IconWarn     = "\uf071" // warning triangle
)
