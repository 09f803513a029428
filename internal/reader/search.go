package reader

import (
	"time"

	"github.com/dlclark/regexp2"
)

const matchTimeout = 100 * time.Millisecond

type search struct {
	pattern *regexp2.Regexp
	forward bool
}

// compilePattern builds a case-insensitive ECMAScript matcher for text,
// treating it literally when it is not a valid expression.
func compilePattern(text string) *regexp2.Regexp {
	re, err := regexp2.Compile(text, regexp2.IgnoreCase|regexp2.ECMAScript)
	if err != nil {
		re = regexp2.MustCompile(regexp2.Escape(text), regexp2.IgnoreCase)
	}
	re.MatchTimeout = matchTimeout
	return re
}

// matches reports whether word matches; a timed out match counts as a miss.
func (s search) matches(word string) bool {
	ok, err := s.pattern.MatchString(word)
	return err == nil && ok
}

// SearchForward moves to the next word after the current one matching text
// and remembers it for SearchNext. It reports whether a match was found.
func (r *Reader) SearchForward(text string) bool {
	if text == "" {
		return false
	}
	r.search = search{pattern: compilePattern(text), forward: true}
	return r.find(true)
}

// SearchBackward is SearchForward in the other direction.
func (r *Reader) SearchBackward(text string) bool {
	if text == "" {
		return false
	}
	r.search = search{pattern: compilePattern(text), forward: false}
	return r.find(false)
}

// SearchNext repeats the last search in its direction.
func (r *Reader) SearchNext() bool {
	if r.search.pattern == nil {
		return false
	}
	return r.find(r.search.forward)
}

// SearchPrev repeats the last search in the opposite direction.
func (r *Reader) SearchPrev() bool {
	if r.search.pattern == nil {
		return false
	}
	return r.find(!r.search.forward)
}

func (r *Reader) find(forward bool) bool {
	if forward {
		for i := r.index + 1; i < len(r.words); i++ {
			if r.search.matches(r.words[i].text) {
				r.index = i
				return true
			}
		}
		return false
	}
	for i := r.index - 1; i >= 0; i-- {
		if r.search.matches(r.words[i].text) {
			r.index = i
			return true
		}
	}
	return false
}
