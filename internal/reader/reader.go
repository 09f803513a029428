// Package reader holds the document model: words, sentences and chapters,
// the reading position, pace and the line of context shown around the
// focal word.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinWPM and MaxWPM bound the reading pace.
	MinWPM = 60
	MaxWPM = 1200
	// StepWPM is the increment used by IncWPM and DecWPM.
	StepWPM = 10
	// DefaultWPM is the pace of a new Reader.
	DefaultWPM = 250
	// MaxContext bounds the number of context words on either side.
	MaxContext = 8
)

type word struct {
	text     string
	sentence bool
	chapter  bool
}

// Line is the text shown on the reading row: context words before the focal
// word, the focal word itself, and context words after it.
type Line struct {
	Prev string
	Curr string
	Next string
}

// Reader is the document model driven by the interactive controller.
type Reader struct {
	words []word
	index int

	width  int
	height int

	wpm        int
	wpmSum     float64
	wpmSamples int

	showPrev int
	showNext int
	showLine bool

	line   Line
	search search
	timer  *Timer
}

// New returns an empty Reader.
func New() *Reader {
	return &Reader{
		wpm:   DefaultWPM,
		timer: NewTimer(),
	}
}

// Parse replaces the document with the text read from r. It reports false
// when r cannot be read or holds no words, leaving the current document as is.
func (r *Reader) Parse(src io.Reader) bool {
	var words []word
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	sentence := true
	chapter := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			sentence = true
			continue
		}
		heading := isChapterHeading(line)
		if heading {
			chapter = true
			sentence = true
		}
		for _, field := range strings.Fields(line) {
			words = append(words, word{text: field, sentence: sentence, chapter: chapter})
			sentence = endsSentence(field)
			chapter = false
		}
		if heading {
			sentence = true
		}
	}
	if scanner.Err() != nil || len(words) == 0 {
		return false
	}
	r.words = words
	r.index = 0
	r.search = search{}
	r.timer.Stop()
	r.timer.Reset()
	r.ResetWPMAvg()
	return true
}

func isChapterHeading(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	lower := strings.ToLower(line)
	return lower == "chapter" || strings.HasPrefix(lower, "chapter ")
}

func endsSentence(text string) bool {
	text = strings.TrimRight(text, `"')]}”’»`)
	if text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// ScreenSize records the terminal dimensions used to lay out the line.
func (r *Reader) ScreenSize(width, height int) {
	r.width = width
	r.height = height
}

// Len returns the number of words in the document.
func (r *Reader) Len() int {
	return len(r.words)
}

// Index returns the current word index.
func (r *Reader) Index() int {
	return r.index
}

// SetIndex moves to word n, clamped to the document.
func (r *Reader) SetIndex(n int) {
	r.index = r.clamp(n)
}

func (r *Reader) clamp(n int) int {
	if n < 0 || len(r.words) == 0 {
		return 0
	}
	if n > len(r.words)-1 {
		return len(r.words) - 1
	}
	return n
}

// Word returns the current word.
func (r *Reader) Word() string {
	if len(r.words) == 0 {
		return ""
	}
	return r.words[r.index].text
}

// EOF reports whether the current word is the last one.
func (r *Reader) EOF() bool {
	return r.index >= len(r.words)-1
}

// NextWord advances one word.
func (r *Reader) NextWord() {
	r.index = r.clamp(r.index + 1)
}

// PrevWord moves back one word.
func (r *Reader) PrevWord() {
	r.index = r.clamp(r.index - 1)
}

// Begin moves to the first word.
func (r *Reader) Begin() {
	r.index = 0
}

// End moves to the last word.
func (r *Reader) End() {
	r.index = r.clamp(len(r.words) - 1)
}

// NextSentence moves to the start of the next sentence.
func (r *Reader) NextSentence() {
	r.index = r.forward(func(w word) bool { return w.sentence })
}

// PrevSentence moves to the start of the current sentence, or the previous
// one when already at a sentence start.
func (r *Reader) PrevSentence() {
	r.index = r.backward(func(w word) bool { return w.sentence })
}

// NextChapter moves to the start of the next chapter.
func (r *Reader) NextChapter() {
	r.index = r.forward(func(w word) bool { return w.chapter })
}

// PrevChapter moves to the start of the current or previous chapter.
func (r *Reader) PrevChapter() {
	r.index = r.backward(func(w word) bool { return w.chapter })
}

func (r *Reader) forward(match func(word) bool) int {
	for i := r.index + 1; i < len(r.words); i++ {
		if match(r.words[i]) {
			return i
		}
	}
	return r.clamp(len(r.words) - 1)
}

func (r *Reader) backward(match func(word) bool) int {
	for i := r.index - 1; i >= 0; i-- {
		if match(r.words[i]) {
			return i
		}
	}
	return 0
}

// Progress returns the position in the document as a percentage.
func (r *Reader) Progress() int {
	if len(r.words) <= 1 {
		return 100
	}
	return r.index * 100 / (len(r.words) - 1)
}

// WPM returns the target pace.
func (r *Reader) WPM() int {
	return r.wpm
}

// SetWPM sets the pace, clamped to [MinWPM, MaxWPM].
func (r *Reader) SetWPM(n int) {
	switch {
	case n < MinWPM:
		n = MinWPM
	case n > MaxWPM:
		n = MaxWPM
	}
	r.wpm = n
}

// IncWPM raises the pace by one step.
func (r *Reader) IncWPM() {
	r.SetWPM(r.wpm + StepWPM)
}

// DecWPM lowers the pace by one step.
func (r *Reader) DecWPM() {
	r.SetWPM(r.wpm - StepWPM)
}

// CalcWPMAvg folds the current pace into the rolling average.
func (r *Reader) CalcWPMAvg() {
	r.wpmSum += float64(r.wpm)
	r.wpmSamples++
}

// WPMAvg returns the rolling average pace, or 0 before any sample.
func (r *Reader) WPMAvg() int {
	if r.wpmSamples == 0 {
		return 0
	}
	return int(r.wpmSum / float64(r.wpmSamples))
}

// ResetWPMAvg clears the rolling average.
func (r *Reader) ResetWPMAvg() {
	r.wpmSum = 0
	r.wpmSamples = 0
}

// StartTimer starts the active reading timer.
func (r *Reader) StartTimer() {
	r.timer.Start()
}

// StopTimer stops the active reading timer.
func (r *Reader) StopTimer() {
	r.timer.Stop()
}

// TimerActive reports whether the reading timer is running.
func (r *Reader) TimerActive() bool {
	return r.timer.Active()
}

// Elapsed returns the active reading time.
func (r *Reader) Elapsed() time.Duration {
	return r.timer.Elapsed()
}

// ResetTimer clears the active reading time.
func (r *Reader) ResetTimer() {
	r.timer.Reset()
}

// Wait returns the time in milliseconds the current word stays on screen.
// Long words and words closing a clause or sentence are held longer.
func (r *Reader) Wait() int {
	base := 60000.0 / float64(r.wpm)
	text := r.Word()
	factor := 1.0
	if n := utf8.RuneCountInString(text); n >= 10 {
		factor += 0.3
	}
	if endsSentence(text) {
		factor += 1.0
	} else if text != "" {
		switch text[len(text)-1] {
		case ',', ';', ':':
			factor += 0.5
		}
	}
	return int(base * factor)
}

// ShowPrev returns the number of context words before the focal word.
func (r *Reader) ShowPrev() int {
	return r.showPrev
}

// SetShowPrev sets the number of context words before the focal word.
func (r *Reader) SetShowPrev(n int) {
	r.showPrev = clampContext(n)
}

// ShowNext returns the number of context words after the focal word.
func (r *Reader) ShowNext() int {
	return r.showNext
}

// SetShowNext sets the number of context words after the focal word.
func (r *Reader) SetShowNext(n int) {
	r.showNext = clampContext(n)
}

func clampContext(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxContext {
		return MaxContext
	}
	return n
}

// ShowLine reports whether the full line of surrounding text is shown.
func (r *Reader) ShowLine() bool {
	return r.showLine
}

// SetShowLine toggles the full line of surrounding text.
func (r *Reader) SetShowLine(v bool) {
	r.showLine = v
}

// Stats returns the status bar summary.
func (r *Reader) Stats() string {
	elapsed := r.timer.Elapsed().Round(time.Second)
	h := int(elapsed.Hours())
	m := int(elapsed.Minutes()) % 60
	s := int(elapsed.Seconds()) % 60
	return fmt.Sprintf("%d/%d WPM %d%% %02d:%02d:%02d", r.WPMAvg(), r.wpm, r.Progress(), h, m, s)
}

// FocusIndex returns the rune index of the letter that is aligned to the
// focal column for a word of n runes.
func FocusIndex(n int) int {
	switch {
	case n <= 1:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	case n <= 13:
		return 3
	default:
		return 4
	}
}

// SetLine lays out the current word so its focus letter sits on the focal
// column, width/2 - offset, and fills the context on both sides.
func (r *Reader) SetLine(offset int) {
	r.line = Line{}
	if len(r.words) == 0 || r.width <= 0 {
		return
	}
	focal := r.width/2 - offset - 1
	if focal < 0 {
		focal = 0
	}

	curr := []rune(r.words[r.index].text)
	lead := focal - FocusIndex(len(curr))
	if lead < 0 {
		curr = curr[-lead:]
		lead = 0
	}
	if len(curr) > r.width-lead {
		curr = curr[:r.width-lead]
	}

	prevCount, nextCount := r.showPrev, r.showNext
	if r.showLine {
		prevCount, nextCount = len(r.words), len(r.words)
	}

	var before []string
	for i := r.index - 1; i >= 0 && len(before) < prevCount; i-- {
		before = append([]string{r.words[i].text}, before...)
	}
	prev := []rune(strings.Join(before, " "))
	if len(before) > 0 {
		prev = append(prev, ' ')
	}
	if len(prev) > lead {
		prev = prev[len(prev)-lead:]
	}
	prev = append([]rune(strings.Repeat(" ", lead-len(prev))), prev...)

	var after []string
	for i := r.index + 1; i < len(r.words) && len(after) < nextCount; i++ {
		after = append(after, r.words[i].text)
	}
	var next []rune
	if len(after) > 0 {
		next = []rune(" " + strings.Join(after, " "))
	}
	if room := r.width - lead - len(curr); len(next) > room {
		next = next[:max(room, 0)]
	}

	r.line = Line{Prev: string(prev), Curr: string(curr), Next: string(next)}
}

// Line returns the line built by the last SetLine call.
func (r *Reader) Line() Line {
	return r.line
}
