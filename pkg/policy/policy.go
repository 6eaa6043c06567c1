// Package policy decides which in-page requests a render session lets through.
//
// The decision is a pure function of the request's resource class. Requests of a
// type the policy does not recognise are allowed: a rare but legitimate resource
// must never be silently dropped from the poster.
package policy

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Class is a coarse resource category.
type Class string

const (
	ClassDocument   Class = "document"
	ClassScript     Class = "script"
	ClassStylesheet Class = "stylesheet"
	ClassFont       Class = "font"
	ClassImage      Class = "image"
	ClassMedia      Class = "media"
	ClassOther      Class = "other"
	// ClassUnclassified covers browser types outside the categories above (xhr, fetch, websocket, ...).
	ClassUnclassified Class = "unclassified"
)

// Decision is the verdict for one request.
type Decision int

const (
	Allow Decision = iota
	Abort
)

func (d Decision) String() string {
	if d == Abort {
		return "abort"
	}
	return "allow"
}

// DefaultBlocked are the classes that cannot change a static capture.
var DefaultBlocked = []Class{ClassMedia, ClassOther}

// Classify maps a browser resource type name to a Class.
func Classify(resourceType string) Class {
	switch strings.ToLower(resourceType) {
	case "document":
		return ClassDocument
	case "script":
		return ClassScript
	case "stylesheet":
		return ClassStylesheet
	case "font":
		return ClassFont
	case "image":
		return ClassImage
	case "media", "texttrack":
		return ClassMedia
	case "other":
		return ClassOther
	default:
		return ClassUnclassified
	}
}

// ParseClass parses a configured class name.
func ParseClass(s string) (Class, error) {
	c := Class(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ClassDocument, ClassScript, ClassStylesheet, ClassFont, ClassImage, ClassMedia, ClassOther, ClassUnclassified:
		return c, nil
	}
	return "", fmt.Errorf("unknown resource class %q", s)
}

// Policy holds the blocked set. It is immutable after construction.
type Policy struct {
	blocked map[Class]bool
}

// New builds a Policy that aborts the given classes. Documents are never blocked.
func New(blocked ...Class) *Policy {
	p := &Policy{blocked: make(map[Class]bool, len(blocked))}
	for _, c := range blocked {
		if c == ClassDocument {
			continue
		}
		p.blocked[c] = true
	}
	return p
}

// Default returns the policy with DefaultBlocked.
func Default() *Policy {
	return New(DefaultBlocked...)
}

// Decide returns the verdict for a class.
func (p *Policy) Decide(c Class) Decision {
	if c == ClassDocument || !p.blocked[c] {
		return Allow
	}
	return Abort
}

// Allow implements ports.RequestFilter.
func (p *Policy) Allow(resourceType string) bool {
	return p.Decide(Classify(resourceType)) == Allow
}

// Blocked lists the blocked classes.
func (p *Policy) Blocked() []Class {
	out := make([]Class, 0, len(p.blocked))
	for _, c := range []Class{ClassScript, ClassStylesheet, ClassFont, ClassImage, ClassMedia, ClassOther, ClassUnclassified} {
		if p.blocked[c] {
			out = append(out, c)
		}
	}
	return out
}

// Counter wraps a Policy and tallies its verdicts for one session.
// Counting never changes a verdict or delays it.
type Counter struct {
	policy  *Policy
	allowed atomic.Int64
	aborted atomic.Int64
}

// NewCounter creates a Counter over p.
func NewCounter(p *Policy) *Counter {
	return &Counter{policy: p}
}

// Allow implements ports.RequestFilter.
func (c *Counter) Allow(resourceType string) bool {
	ok := c.policy.Allow(resourceType)
	if ok {
		c.allowed.Add(1)
	} else {
		c.aborted.Add(1)
	}
	return ok
}

// Counts returns the number of allowed and aborted requests so far.
func (c *Counter) Counts() (allowed, aborted int64) {
	return c.allowed.Load(), c.aborted.Load()
}
