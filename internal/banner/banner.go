package banner

import (
	"fmt"
	"io"
	"strings"
)

// GreetOptions configures the startup banner
type GreetOptions struct {
	ServiceName string
	Version     string
	Host        string
	Port        int
	Router      string
	APIBaseURL  string // Remote FortressGuard API the console talks to
	DocsPath    string // Optional: path to API docs (e.g., "/api/docs")
	OpenAPIPath string // Optional: path to OpenAPI spec (e.g., "/api/openapi")
}

const logo = `
 ___         _                    ___                    _
| __|__ _ _ | |_ _ _ ___ ______  / __|_  _ __ _ _ _ __| |
| _/ _ \ '_||  _| '_/ -_|_-<_-< | (_ | || / _' | '_/ _' |
|_|\___/_|   \__|_| \___/__/__/  \___|\_,_\__,_|_| \__,_|`

// Greet prints the FortressGuard logo and where the console is reachable.
func Greet(w io.Writer, opts GreetOptions) {
	fmt.Fprintln(w, strings.Repeat("═", 60))
	fmt.Fprintln(w, logo)
	fmt.Fprintln(w, strings.Repeat("═", 60))

	if opts.ServiceName != "" {
		fmt.Fprintf(w, "🛡️  %s", opts.ServiceName)
		if opts.Version != "" {
			fmt.Fprintf(w, " v%s", opts.Version)
		}
		fmt.Fprintln(w)
	}

	if opts.Host != "" && opts.Port > 0 {
		addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
		fmt.Fprintf(w, "🌐 Console running on \x1b[32mhttp://%s\x1b[0m", addr)
		if opts.Router != "" {
			fmt.Fprintf(w, " (%s)", opts.Router)
		}
		fmt.Fprintln(w)
		if opts.DocsPath != "" {
			fmt.Fprintf(w, "📚 API docs: http://%s%s\n", addr, opts.DocsPath)
		}
		if opts.OpenAPIPath != "" {
			fmt.Fprintf(w, "📋 OpenAPI spec: http://%s%s.json\n", addr, opts.OpenAPIPath)
		}
	}

	if opts.APIBaseURL != "" {
		fmt.Fprintf(w, "🔐 FortressGuard API: %s\n", opts.APIBaseURL)
	}

	fmt.Fprintln(w, strings.Repeat("═", 60))
}
