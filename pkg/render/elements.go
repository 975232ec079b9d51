package render

// keepsLine reports whether pretty output leaves the children of tag on one
// line. Phrasing elements read better that way, and whitespace inside pre
// and textarea is content.
func keepsLine(tag string) bool {
	switch tag {
	case "a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn",
		"em", "i", "kbd", "mark", "q", "rb", "rp", "rt", "rtc", "ruby", "s",
		"samp", "small", "span", "strong", "sub", "sup", "time", "u", "var", "wbr":
		return true
	case "pre", "textarea", "script", "style":
		return true
	}
	return false
}
