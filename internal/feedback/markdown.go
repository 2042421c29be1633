package feedback

import (
	"regexp"
	"strconv"
	"strings"
)

type state int

const (
	stateIdle state = iota
	stateScore
	stateRecommendations
	stateCourses
)

func (s state) String() string {
	switch s {
	case stateScore:
		return "score"
	case stateRecommendations:
		return "recommendations"
	case stateCourses:
		return "courses"
	default:
		return "idle"
	}
}

// Section titles as the markdown prompt asks the model to render them.
const (
	ScoreHeading           = "Overall Score"
	RecommendationsHeading = "Recommendations to Improve the CV"
	CoursesHeading         = "Course Suggestions"
)

var (
	headerPattern = regexp.MustCompile(`^(?:#{1,6}\s*)?(?:\*\*)?\s*(` +
		regexp.QuoteMeta(ScoreHeading) + `|` +
		regexp.QuoteMeta(RecommendationsHeading) + `|` +
		regexp.QuoteMeta(CoursesHeading) + `)\s*(?::|\*\*|$)`)

	scorePattern          = regexp.MustCompile(`\b(\d+)\s*(?:%|/\s*100\b)`)
	bulletPattern         = regexp.MustCompile(`^[*+-]\s`)
	recommendationPattern = regexp.MustCompile(`^[*+-]\s+\*\*([^*]+?)\s*(?::\*\*|\*\*\s*:)\s*(.*)$`)
	coursePattern         = regexp.MustCompile(`^[*+-]\s+\*\*([^*]+?)\s*:?\s*\*\*\s*:?\s*\(([^)]*)\)\s*(.*)$`)
	linkDetailPattern     = regexp.MustCompile(`(?i)^(?:[*+-]\s+)?\*\*\s*youtube link\s*(?::\s*\*\*|\*\*\s*:)\s*\[[^\]]*\]\(`)
	linkPattern           = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
)

var headerStates = map[string]state{
	ScoreHeading:           stateScore,
	RecommendationsHeading: stateRecommendations,
	CoursesHeading:         stateCourses,
}

// markdownParser is the line-at-a-time state machine behind ParseMarkdown.
// pending holds the course being accumulated; it is flushed into out on the
// next course bullet, on a section change and at end of input.
type markdownParser struct {
	state   state
	out     *Feedback
	pending *CourseDetail
}

// ParseMarkdown extracts score, recommendations and courses from a headed
// markdown report. It never fails: unrecognized lines are skipped and
// missing sections leave their fields empty.
func ParseMarkdown(raw string) *Feedback {
	p := &markdownParser{out: &Feedback{}}
	for _, line := range strings.Split(raw, "\n") {
		p.step(strings.TrimSpace(line))
	}
	p.flush()
	return FillDefaults(p.out)
}

func (p *markdownParser) step(line string) {
	if next, ok := matchHeader(line); ok {
		p.flush()
		p.state = p.enter(next, line)
		return
	}

	switch p.state {
	case stateScore:
		p.state = p.inScore(line)
	case stateRecommendations:
		p.state = p.inRecommendations(line)
	case stateCourses:
		p.state = p.inCourses(line)
	}
}

// enter handles a section header line. The score header usually carries the
// score itself ("**Overall Score:** 80%"), so it is tried immediately.
func (p *markdownParser) enter(next state, line string) state {
	if next == stateScore && p.takeScore(line) {
		return stateIdle
	}
	return next
}

// inScore reads the first non-blank line after a bare score header and
// leaves the section whether or not it held a score.
func (p *markdownParser) inScore(line string) state {
	if line == "" {
		return stateScore
	}
	p.takeScore(line)
	return stateIdle
}

func (p *markdownParser) inRecommendations(line string) state {
	if m := recommendationPattern.FindStringSubmatch(line); m != nil {
		p.out.Recommendations = append(p.out.Recommendations, m[1]+": "+strings.TrimSpace(m[2]))
	}
	return stateRecommendations
}

func (p *markdownParser) inCourses(line string) state {
	switch {
	case line == "":
	case linkDetailPattern.MatchString(line):
		if p.pending == nil {
			break
		}
		if m := linkPattern.FindStringSubmatch(line); m != nil {
			p.pending.YouTubeTitle = strings.TrimSpace(m[1])
			p.pending.YouTubeLink = strings.TrimSpace(m[2])
		}
	case bulletPattern.MatchString(line):
		p.flush()
		if m := coursePattern.FindStringSubmatch(line); m != nil {
			p.pending = &CourseDetail{
				Title:       strings.TrimSpace(m[1]),
				Platform:    strings.TrimSpace(m[2]),
				Description: strings.TrimSpace(m[3]),
			}
		}
	case p.pending != nil:
		if p.pending.Description == "" {
			p.pending.Description = line
		} else {
			p.pending.Description += " " + line
		}
	}
	return stateCourses
}

func (p *markdownParser) flush() {
	if p.pending == nil {
		return
	}
	p.out.Courses = append(p.out.Courses, *p.pending)
	p.pending = nil
}

func (p *markdownParser) takeScore(line string) bool {
	m := scorePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	p.out.OverallScore = &score
	return true
}

func matchHeader(line string) (state, bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return stateIdle, false
	}
	return headerStates[m[1]], true
}
