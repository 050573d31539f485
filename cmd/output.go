package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fortressguard/fortress/console"
	"github.com/fortressguard/fortress/fortress"
	"github.com/fortressguard/fortress/strength"
)

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

func log(w io.Writer, message, color string) {
	timestamp := time.Now().Format("15:04:05")
	if color == "" {
		color = colorReset
	}
	fmt.Fprintf(w, "%s[%s] %s%s\n", color, timestamp, message, colorReset)
}

// printState renders a settled lane. With asJSON the raw state is printed
// instead. A failed lane is returned as an error so the command exits
// non-zero.
func printState[T any](w io.Writer, lane console.LaneName, state console.RequestState[T], asJSON bool, render func(io.Writer, *T)) error {
	if asJSON {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s state: %w", lane, err)
		}
		fmt.Fprintln(w, string(data))
	} else if state.Phase == console.PhaseSuccess && state.Data != nil {
		render(w, state.Data)
	}

	if state.Phase == console.PhaseFailure {
		if !asJSON {
			log(w, "❌ "+state.Error, colorRed)
		}
		return fmt.Errorf("%s failed: %s", lane, state.Error)
	}
	return nil
}

func meter(percentage int) string {
	filled := percentage / 10
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + fmt.Sprintf("] %d%%", percentage)
}

func levelColor(level strength.Level) string {
	switch level {
	case strength.Weak:
		return colorRed
	case strength.Medium:
		return colorYellow
	default:
		return colorGreen
	}
}

func renderPassword(w io.Writer, p *fortress.GeneratePasswordResponse) {
	report := strength.FromAPI(p.Strength, p.Score)
	log(w, "🔑 Password: "+p.Password, colorGreen)
	fmt.Fprintf(w, "   %s%s %s%s (score %d)\n", levelColor(report.Level), meter(report.Percentage), report.Level.Label(), colorReset, p.Score)
	fmt.Fprintf(w, "   Length: %d, special characters: %t\n", p.Params.Length, p.Params.IncludeSpecial)
}

func renderValidation(w io.Writer, v *fortress.ValidatePasswordResponse) {
	if v.Valid {
		log(w, "✅ Password is valid", colorGreen)
	} else {
		log(w, "⚠️  Password is not valid", colorYellow)
	}
	report := strength.FromAPI(v.Strength, v.Score)
	fmt.Fprintf(w, "   %s%s %s%s (score %d)\n", levelColor(report.Level), meter(report.Percentage), report.Level.Label(), colorReset, v.Score)
	if v.Feedback != "" {
		fmt.Fprintf(w, "   💡 %s\n", v.Feedback)
	}
}

func renderEncryption(w io.Writer, e *fortress.EncryptResponse) {
	log(w, "🔒 Encrypted: "+e.EncryptedText, colorGreen)
	fmt.Fprintf(w, "   Original length: %d, encrypted length: %d\n", e.OriginalLength, e.EncryptedLength)
}

func renderDecryption(w io.Writer, d *fortress.DecryptResponse) {
	log(w, "🔓 Decrypted: "+d.DecryptedText, colorGreen)
	fmt.Fprintf(w, "   Length: %d\n", d.Length)
}

func renderStatistics(w io.Writer, s *fortress.StatisticsResponse) {
	log(w, "📊 FortressGuard statistics", colorCyan)
	fmt.Fprintf(w, "   Passwords generated: %d\n", s.PasswordsGenerated)
	fmt.Fprintf(w, "   Passwords validated: %d\n", s.PasswordsValidated)
	fmt.Fprintf(w, "   Texts encrypted:     %d\n", s.TextEncrypted)

	d := s.StrengthDistribution
	fmt.Fprintf(w, "   Strength: weak %d, medium %d, strong %d, very strong %d\n", d.Weak, d.Medium, d.Strong, d.VeryStrong)

	info := s.ServerInfo
	fmt.Fprintf(w, "   Uptime: %s\n", (time.Duration(info.Uptime * float64(time.Second))).Round(time.Second))
	if info.NodeVersion != "" {
		fmt.Fprintf(w, "   Runtime: %s\n", info.NodeVersion)
	}
	if len(info.MemoryUsage) > 0 {
		keys := make([]string, 0, len(info.MemoryUsage))
		for k := range info.MemoryUsage {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "   Memory %s: %.1f MB\n", k, info.MemoryUsage[k]/1024/1024)
		}
	}
}

func renderStrength(w io.Writer, r strength.Report) {
	fmt.Fprintf(w, "%s%s %s%s (score %d/%d)\n", levelColor(r.Level), meter(r.Percentage), r.Level.Label(), colorReset, r.Score, strength.MaxScore)
	fmt.Fprintf(w, "💡 %s\n", r.Feedback)

	criteria := []struct {
		label string
		met   bool
	}{
		{"At least 8 characters", r.Criteria.MinLength},
		{"Uppercase letter", r.Criteria.Uppercase},
		{"Lowercase letter", r.Criteria.Lowercase},
		{"Number", r.Criteria.Numbers},
		{"Special character", r.Criteria.Special},
		{"At least 12 characters", r.Criteria.ExtendedLength},
	}
	for _, c := range criteria {
		mark := "✗"
		if c.met {
			mark = "✓"
		}
		fmt.Fprintf(w, "   %s %s\n", mark, c.label)
	}
}
