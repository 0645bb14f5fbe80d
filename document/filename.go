package document

import (
	"fmt"
	"regexp"
	"strings"
)

const maxFilenameLength = 240

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	filenameWhitespace   = regexp.MustCompile(`\s+`)
	repeatedDots         = regexp.MustCompile(`\.+`)
)

// SanitizeFilename turns a heading title into a name safe to use as a
// file name on every platform the library folder might live on.
func SanitizeFilename(title string) string {
	safe := invalidFilenameChars.ReplaceAllString(title, "")
	safe = filenameWhitespace.ReplaceAllString(safe, "_")
	safe = repeatedDots.ReplaceAllString(safe, ".")
	if runes := []rune(safe); len(runes) > maxFilenameLength {
		safe = string(runes[:maxFilenameLength])
	}
	return strings.Trim(safe, "._")
}

// FilenameAllocator hands out unique names within one output set,
// suffixing duplicates with _1, _2, ...
type FilenameAllocator struct {
	used map[string]struct{}
}

func NewFilenameAllocator() *FilenameAllocator {
	return &FilenameAllocator{used: make(map[string]struct{})}
}

func (a *FilenameAllocator) Allocate(name string) string {
	if name == "" {
		name = "untitled"
	}
	candidate := name
	for counter := 1; ; counter++ {
		if _, taken := a.used[candidate]; !taken {
			a.used[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", name, counter)
	}
}
