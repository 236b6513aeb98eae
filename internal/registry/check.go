package registry

import "fmt"

// Severity grades a catalog issue.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Issue is one finding from Check.
type Issue struct {
	Key      string
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Key, i.Message)
}

// Check inspects every entry. Out-of-band durations are warnings, never
// rejections. A constructor whose instance disagrees with its descriptor is
// an error.
func (c *Catalog) Check(band Band) []Issue {
	var issues []Issue
	for _, d := range c.List() {
		if !band.Contains(d.Duration) {
			issues = append(issues, Issue{
				Key:      d.Key,
				Severity: Warning,
				Message:  fmt.Sprintf("duration %v outside %v..%v", d.Duration, band.Min, band.Max),
			})
		}

		f, err := c.Resolve(d.Key)
		if err != nil {
			continue
		}
		g := f()
		if g == nil {
			issues = append(issues, Issue{Key: d.Key, Severity: Error, Message: "constructor returned nil"})
			continue
		}
		if g.Prompt() != d.Prompt {
			issues = append(issues, Issue{
				Key:      d.Key,
				Severity: Error,
				Message:  fmt.Sprintf("prompt %q does not match descriptor %q", g.Prompt(), d.Prompt),
			})
		}
		if g.Duration() != d.Duration {
			issues = append(issues, Issue{
				Key:      d.Key,
				Severity: Error,
				Message:  fmt.Sprintf("duration %v does not match descriptor %v", g.Duration(), d.Duration),
			})
		}
	}
	return issues
}
