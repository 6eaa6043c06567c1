package chromebrowser

import "strings"

// Switch is one command-line switch in chromedp flag form.
type Switch struct {
	Name  string
	Value interface{} // true for bare switches, string otherwise
}

// managed switches are owned by chromedp's allocator and dropped from provider lists.
var managed = map[string]bool{
	"remote-debugging-port": true,
	"remote-debugging-pipe": true,
	"user-data-dir":         true,
}

// ParseArgs converts "--name" / "--name=value" strings into switches.
// Blank entries, positional arguments and allocator-managed switches are skipped.
func ParseArgs(args []string) []Switch {
	out := make([]Switch, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		arg = strings.TrimLeft(arg, "-")
		if arg == "" {
			continue
		}
		name, value, hasValue := strings.Cut(arg, "=")
		if managed[name] {
			continue
		}
		if hasValue {
			out = append(out, Switch{Name: name, Value: value})
		} else {
			out = append(out, Switch{Name: name, Value: true})
		}
	}
	return out
}
