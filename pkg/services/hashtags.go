package services

import "regexp"

// Letters of any script (Turkish and accented included), digits, '_' and '-'.
var hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_-]+`)

// ExtractHashtags returns every hashtag occurrence in content, in order and
// exactly as written. Repeated tags are returned once per occurrence.
func ExtractHashtags(content string) []string {
	return hashtagPattern.FindAllString(content, -1)
}
